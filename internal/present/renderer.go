// Package present turns notebook blocks and portfolio data into HTML.
package present

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghhtml "github.com/yuin/goldmark/renderer/html"

	"portfolio-ai/internal/notebook"
)

// DefaultCodeStyle is the chroma style used for code input blocks.
const DefaultCodeStyle = "monokai"

// Renderer is the presentation collaborator for notebook blocks.
type Renderer struct {
	markdown  goldmark.Markdown
	lexer     chroma.Lexer
	style     *chroma.Style
	formatter *chromahtml.Formatter

	notebookPage *template.Template
	homePage     *template.Template
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithCodeStyle selects the chroma style by name. Unknown names fall back to chroma's default.
func WithCodeStyle(name string) Option {
	return func(r *Renderer) {
		r.style = styles.Get(name)
	}
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	lexer := lexers.Get(notebook.CodeLanguage)
	if lexer == nil {
		lexer = lexers.Fallback
	}

	r := &Renderer{
		markdown: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Table,
				extension.Strikethrough,
				extension.TaskList,
				extension.Linkify,
			),
			goldmark.WithRendererOptions(
				// Raw HTML inside markdown cells is passed through.
				ghhtml.WithUnsafe(),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		lexer:        chroma.Coalesce(lexer),
		style:        styles.Get(DefaultCodeStyle),
		formatter:    chromahtml.New(chromahtml.WithClasses(false), chromahtml.TabWidth(4)),
		notebookPage: template.Must(template.New("notebook").Parse(notebookPageTemplate)),
		homePage:     template.Must(template.New("home").Parse(homePageTemplate)),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.style == nil {
		r.style = styles.Fallback
	}
	return r
}

// RenderBlock renders one block to an HTML fragment.
func (r *Renderer) RenderBlock(b notebook.Block) (template.HTML, error) {
	switch b.Kind {
	case notebook.BlockRichText:
		return r.richText(b.Content)
	case notebook.BlockCodeInput:
		return r.code(b.Content)
	case notebook.BlockPlainText:
		return plainText(b.Content), nil
	default:
		return "", fmt.Errorf("unknown block kind %d", b.Kind)
	}
}

func (r *Renderer) richText(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

func (r *Renderer) code(src string) (template.HTML, error) {
	it, err := r.lexer.Tokenise(nil, src)
	if err != nil {
		return "", fmt.Errorf("tokenise code: %w", err)
	}
	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, it); err != nil {
		return "", fmt.Errorf("format code: %w", err)
	}
	return template.HTML(buf.String()), nil
}

func plainText(s string) template.HTML {
	return template.HTML(`<pre class="output">` + template.HTMLEscapeString(s) + `</pre>`)
}

// RenderText writes a terminal-friendly rendering of a state.
func RenderText(w io.Writer, state notebook.State) error {
	if state.Status != notebook.StatusReady {
		_, err := fmt.Fprintln(w, state.Message())
		return err
	}

	first := true
	for b := range state.Blocks() {
		if b.Kind != notebook.BlockPlainText && !first {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		first = false

		var err error
		switch b.Kind {
		case notebook.BlockCodeInput:
			prefix := fmt.Sprintf("In [%s]: ", b.OrdinalLabel())
			_, err = fmt.Fprintln(w, prefix+indentFollowing(b.Content, len(prefix)))
		default:
			_, err = fmt.Fprintln(w, b.Content)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func indentFollowing(s string, n int) string {
	return strings.ReplaceAll(s, "\n", "\n"+strings.Repeat(" ", n))
}
