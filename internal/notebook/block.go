package notebook

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
)

// CodeLanguage is the syntax used for every code cell.
const CodeLanguage = "python"

// BlockKind identifies what a Block holds.
type BlockKind int

const (
	// BlockRichText is markdown to be interpreted by a rich-text renderer.
	BlockRichText BlockKind = iota + 1
	// BlockCodeInput is the source of a code cell.
	BlockCodeInput
	// BlockPlainText is captured output shown verbatim.
	BlockPlainText
)

func (k BlockKind) String() string {
	switch k {
	case BlockRichText:
		return "rich_text"
	case BlockCodeInput:
		return "code_input"
	case BlockPlainText:
		return "plain_text"
	default:
		return fmt.Sprintf("BlockKind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k BlockKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Block is one display-ready unit derived from a cell or an output.
type Block struct {
	Kind    BlockKind `json:"kind"`
	Content string    `json:"content"`
	// Ordinal is the execution count of a code input or a result output, nil
	// when there is none.
	Ordinal *int `json:"ordinal,omitempty"`
	// Language is set for code input blocks.
	Language string `json:"language,omitempty"`
	// Cell is the index of the originating cell in the document.
	Cell int `json:"cell"`
}

// OrdinalLabel is the text shown between the brackets of "In [ ]:" or
// "Out[ ]:".
func (b Block) OrdinalLabel() string {
	if b.Ordinal == nil || *b.Ordinal == 0 {
		return " "
	}
	return strconv.Itoa(*b.Ordinal)
}

// Blocks yields the render blocks of every cell in document order. Cells of
// unknown kind and outputs without displayable text yield nothing.
func (d *Document) Blocks() iter.Seq[Block] {
	return func(yield func(Block) bool) {
		if d == nil {
			return
		}
		for i, cell := range d.Cells {
			for b := range cell.blocks(i) {
				if !yield(b) {
					return
				}
			}
		}
	}
}

func (c Cell) blocks(index int) iter.Seq[Block] {
	return func(yield func(Block) bool) {
		source := c.Source.String()

		switch c.Kind {
		case CellMarkdown:
			yield(Block{Kind: BlockRichText, Content: source, Cell: index})
		case CellCode:
			if !yield(Block{
				Kind:     BlockCodeInput,
				Content:  source,
				Ordinal:  c.ExecutionCount,
				Language: CodeLanguage,
				Cell:     index,
			}) {
				return
			}
			for _, out := range c.Outputs {
				text, ok := out.DisplayText()
				if !ok {
					continue
				}
				if !yield(Block{Kind: BlockPlainText, Content: text, Ordinal: out.ExecutionCount, Cell: index}) {
					return
				}
			}
		}
	}
}

// Render collects the block sequence of a document.
func Render(d *Document) []Block {
	blocks := slices.Collect(d.Blocks())
	if blocks == nil {
		blocks = []Block{}
	}
	return blocks
}
