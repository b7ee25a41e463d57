package present

import (
	"fmt"
	"html/template"
	"io"
	"strconv"

	"portfolio-ai/internal/notebook"
	"portfolio-ai/internal/portfolio"
)

// Page carries the surrounding chrome of a notebook page.
type Page struct {
	Title string
	// BackURL is linked from the header when set.
	BackURL string
	// RetryURL is offered after a transport failure when set.
	RetryURL string
}

// cellView groups the blocks produced by one cell.
type cellView struct {
	Kind    string
	Label   string
	Input   template.HTML
	Outputs []template.HTML
	// OutLabel is "Out[n]:" when the first shown output is an execution result.
	OutLabel string
}

type notebookPageData struct {
	Page
	Ref     string
	Status  string
	Message string
	Loading bool
	Retry   bool
	Cells   []cellView
}

// RenderState writes a complete notebook page for any viewer state.
func (r *Renderer) RenderState(w io.Writer, state notebook.State, page Page) error {
	data := notebookPageData{
		Page:    page,
		Ref:     state.Ref,
		Status:  state.Status.String(),
		Message: state.Message(),
		Loading: state.Status == notebook.StatusLoading,
		Retry:   state.Status == notebook.StatusFailed && state.Reason == notebook.ReasonTransport && page.RetryURL != "",
	}
	if data.Title == "" {
		data.Title = "Notebook"
	}

	cells, err := r.cells(state)
	if err != nil {
		return err
	}
	data.Cells = cells

	if err := r.notebookPage.Execute(w, data); err != nil {
		return fmt.Errorf("execute notebook template: %w", err)
	}
	return nil
}

func (r *Renderer) cells(state notebook.State) ([]cellView, error) {
	var (
		cells []cellView
		last  = -1
	)
	for b := range state.Blocks() {
		html, err := r.RenderBlock(b)
		if err != nil {
			return nil, fmt.Errorf("render cell %d: %w", b.Cell, err)
		}
		if b.Cell != last {
			cells = append(cells, cellView{Kind: "markdown"})
			last = b.Cell
		}
		cur := &cells[len(cells)-1]
		switch b.Kind {
		case notebook.BlockRichText:
			cur.Input = html
		case notebook.BlockCodeInput:
			cur.Kind = "code"
			cur.Label = "In [" + b.OrdinalLabel() + "]:"
			cur.Input = html
		case notebook.BlockPlainText:
			if len(cur.Outputs) == 0 && b.Ordinal != nil && *b.Ordinal != 0 {
				cur.OutLabel = "Out[" + b.OrdinalLabel() + "]:"
			}
			cur.Outputs = append(cur.Outputs, html)
		}
	}
	return cells, nil
}

type projectView struct {
	portfolio.Project
	NotebookURL string
}

type homePageData struct {
	Profile       portfolio.Profile
	Skills        []portfolio.Skill
	Projects      []projectView
	Experiences   []portfolio.Experience
	Organizations []portfolio.Organization
	Greeting      string
}

// RenderHome writes the landing page.
func (r *Renderer) RenderHome(w io.Writer, p *portfolio.Portfolio) error {
	data := homePageData{
		Profile:       p.Profile,
		Skills:        p.Skills,
		Experiences:   p.Experiences,
		Organizations: p.Organizations,
		Greeting:      p.Assistant.Greeting,
	}
	for _, proj := range p.Projects {
		view := projectView{Project: proj}
		if proj.HasNotebook() {
			view.NotebookURL = "/view/projects/" + strconv.Itoa(proj.ID) + "/notebook"
		}
		data.Projects = append(data.Projects, view)
	}

	if err := r.homePage.Execute(w, data); err != nil {
		return fmt.Errorf("execute home template: %w", err)
	}
	return nil
}

const pageStyle = `
    :root {
      color-scheme: dark;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 960px;
      line-height: 1.6;
      background: #050b18;
      color: #e4ecff;
    }
    header {
      margin-bottom: 2rem;
      border-bottom: 1px solid rgba(148, 163, 184, 0.2);
      padding-bottom: 1.25rem;
    }
    h1 {
      margin-top: 0;
      color: #fff;
      font-size: 2rem;
    }
    h2 {
      color: #c7d2fe;
    }
    a {
      color: #60a5fa;
      text-decoration: none;
    }
    a:hover {
      text-decoration: underline;
    }
    .meta {
      color: #94a3b8;
      font-size: 0.95rem;
    }
    .status {
      padding: 2rem;
      text-align: center;
      color: #94a3b8;
      border: 1px dashed rgba(148, 163, 184, 0.3);
      border-radius: 12px;
    }
    .status.failed {
      color: #fca5a5;
      border-color: rgba(248, 113, 113, 0.4);
    }
    .cell {
      display: flex;
      gap: 1rem;
      margin-bottom: 1.25rem;
    }
    .gutter {
      flex: 0 0 5.5rem;
      text-align: right;
      font-family: 'SFMono-Regular', Consolas, 'Liberation Mono', Menlo, monospace;
      font-size: 0.85rem;
      color: #818cf8;
      padding-top: 0.6rem;
    }
    .cell-output {
      display: flex;
      gap: 1rem;
      margin: -0.75rem 0 1.25rem;
    }
    .cell-output .gutter {
      color: #f472b6;
    }
    .body {
      flex: 1;
      min-width: 0;
    }
    .cell-markdown .body {
      color: #cbd5f5;
    }
    .cell-markdown table {
      border-collapse: collapse;
    }
    .cell-markdown th, .cell-markdown td {
      border: 1px solid rgba(148, 163, 184, 0.3);
      padding: 0.3rem 0.6rem;
    }
    pre {
      padding: 0.8rem 1rem;
      overflow-x: auto;
      border-radius: 10px;
      border: 1px solid rgba(99, 102, 241, 0.2);
      margin: 0;
    }
    pre.output {
      background: #0b1222;
      color: #e2e8f0;
      margin-top: 0.5rem;
      white-space: pre-wrap;
    }
    code {
      font-family: 'SFMono-Regular', Consolas, 'Liberation Mono', Menlo, monospace;
    }
    .cards {
      display: grid;
      grid-template-columns: repeat(auto-fill, minmax(260px, 1fr));
      gap: 1rem;
    }
    .card {
      background: rgba(12, 19, 35, 0.85);
      border: 1px solid rgba(99, 102, 241, 0.2);
      border-radius: 16px;
      padding: 1.25rem;
    }
    .tag {
      display: inline-block;
      font-size: 0.8rem;
      background: rgba(99, 102, 241, 0.18);
      border-radius: 6px;
      padding: 1px 6px;
      margin: 0 4px 4px 0;
    }
    @media (max-width: 640px) {
      body {
        padding: 1rem;
      }
      .cell, .cell-output {
        flex-direction: column;
        gap: 0.25rem;
      }
      .gutter {
        text-align: left;
      }
    }
`

const notebookPageTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  {{- if .Loading}}
  <meta http-equiv="refresh" content="1">
  {{- end}}
  <title>{{.Title}}</title>
  <style>` + pageStyle + `</style>
</head>
<body>
  <header>
    <h1>{{.Title}}</h1>
    <p class="meta">{{if .BackURL}}<a href="{{.BackURL}}">&larr; Back</a> &middot; {{end}}{{.Ref}}</p>
  </header>
  <main data-status="{{.Status}}">
  {{- if .Message}}
    <div class="status {{.Status}}">
      <p>{{.Message}}</p>
      {{- if .Retry}}
      <p><a href="{{.RetryURL}}">Try again</a></p>
      {{- end}}
    </div>
  {{- end}}
  {{- range .Cells}}
    <section class="cell cell-{{.Kind}}">
      <div class="gutter">{{.Label}}</div>
      <div class="body">
        {{.Input}}
      </div>
    </section>
    {{- if .Outputs}}
    <section class="cell-output">
      <div class="gutter">{{.OutLabel}}</div>
      <div class="body">
        {{- range .Outputs}}
        {{.}}
        {{- end}}
      </div>
    </section>
    {{- end}}
  {{- end}}
  </main>
</body>
</html>`

const homePageTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Profile.Name}} | Portfolio</title>
  <style>` + pageStyle + `</style>
</head>
<body>
  <header>
    <h1>{{.Profile.Name}}</h1>
    <p class="meta">{{.Profile.Role}}{{if .Profile.Location}} &middot; {{.Profile.Location}}{{end}}</p>
    <p>{{.Profile.About}}</p>
    <p class="meta">
      {{- if .Profile.Email}}<a href="mailto:{{.Profile.Email}}">{{.Profile.Email}}</a>{{end}}
      {{- if .Profile.CVURL}} &middot; <a href="{{.Profile.CVURL}}">CV</a>{{end}}
    </p>
  </header>

  <h2>Projects</h2>
  <div class="cards">
  {{- range .Projects}}
    <article class="card">
      <h3>{{.Title}}</h3>
      <p>{{.Description}}</p>
      <p>{{range .Tags}}<span class="tag">{{.}}</span>{{end}}</p>
      {{- if .NotebookURL}}
      <p><a href="{{.NotebookURL}}">View notebook</a></p>
      {{- end}}
      {{- if .Link}}
      <p><a href="{{.Link}}">Project link</a></p>
      {{- end}}
    </article>
  {{- end}}
  </div>

  <h2>Skills</h2>
  <p>{{range .Skills}}<span class="tag" title="{{.Category}}">{{.Name}}</span>{{end}}</p>

  {{- if .Experiences}}
  <h2>Experience</h2>
  {{- range .Experiences}}
  <h3>{{.Role}} &middot; {{.Company}}</h3>
  <p class="meta">{{.Period}}</p>
  <ul>{{range .Description}}<li>{{.}}</li>{{end}}</ul>
  {{- end}}
  {{- end}}

  {{- if .Organizations}}
  <h2>Organizations</h2>
  {{- range .Organizations}}
  <h3>{{.Role}} &middot; {{.Name}}</h3>
  <p class="meta">{{.Period}}</p>
  <p>{{.Description}}</p>
  {{- end}}
  {{- end}}

  {{- if .Greeting}}
  <footer class="meta"><p>{{.Greeting}} <code>POST /api/chat</code></p></footer>
  {{- end}}
</body>
</html>`
