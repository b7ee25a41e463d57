package notebook

import (
	"bytes"
	"encoding/json"
	"strings"
)

// CellKind is the cell_type tag of a notebook cell.
type CellKind string

const (
	// CellMarkdown is a rich-text cell.
	CellMarkdown CellKind = "markdown"
	// CellCode is an executable source cell that may carry outputs.
	CellCode CellKind = "code"
)

// MIMEPlainText is the only output data key that is rendered.
const MIMEPlainText = "text/plain"

// TextPayload is a notebook string field. Notebooks encode these either as a
// single string or as a list of fragments that concatenate without separators.
type TextPayload struct {
	// Literal is set when the field was a single JSON string.
	Literal *string
	// Fragments is set when the field was a JSON array of strings.
	Fragments []string
}

// Lit returns a TextPayload holding a single string.
func Lit(s string) TextPayload {
	return TextPayload{Literal: &s}
}

// Frags returns a TextPayload holding fragments.
func Frags(parts ...string) TextPayload {
	if parts == nil {
		parts = []string{}
	}
	return TextPayload{Fragments: parts}
}

// Present reports whether the field carried a string or fragment list.
func (t TextPayload) Present() bool {
	return t.Literal != nil || t.Fragments != nil
}

// String normalizes the payload to one logical string.
func (t TextPayload) String() string {
	if t.Literal != nil {
		return *t.Literal
	}
	return strings.Join(t.Fragments, "")
}

// usable reports whether the payload is present and non-empty once normalized.
func (t TextPayload) usable() bool {
	return t.Present() && t.String() != ""
}

// UnmarshalJSON accepts a string, an array of strings or null. Any other shape
// leaves the payload absent rather than failing the whole document.
func (t *TextPayload) UnmarshalJSON(b []byte) error {
	*t = TextPayload{}
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		t.Literal = &s
	case '[':
		var parts []string
		if err := json.Unmarshal(trimmed, &parts); err != nil {
			return nil
		}
		if parts == nil {
			parts = []string{}
		}
		t.Fragments = parts
	}
	return nil
}

// MarshalJSON writes the payload back in the shape it was read in.
func (t TextPayload) MarshalJSON() ([]byte, error) {
	switch {
	case t.Literal != nil:
		return json.Marshal(*t.Literal)
	case t.Fragments != nil:
		return json.Marshal(t.Fragments)
	default:
		return []byte("null"), nil
	}
}

// Document is a parsed notebook. Cell order is display order.
type Document struct {
	Cells []Cell
}

// Cell is one markdown or code unit of a Document.
type Cell struct {
	Kind   CellKind
	Source TextPayload
	// ExecutionCount is nil when the cell was never executed.
	ExecutionCount *int
	Outputs        []Output
}

type rawCell struct {
	Kind           CellKind        `json:"cell_type"`
	Source         TextPayload     `json:"source"`
	ExecutionCount json.RawMessage `json:"execution_count"`
	Outputs        json.RawMessage `json:"outputs"`
}

// UnmarshalJSON decodes a cell leniently: malformed execution counts read as
// "never executed" and malformed outputs are dropped.
func (c *Cell) UnmarshalJSON(b []byte) error {
	var raw rawCell
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*c = Cell{
		Kind:   raw.Kind,
		Source: raw.Source,
	}

	var count int
	if isValue(raw.ExecutionCount) && json.Unmarshal(raw.ExecutionCount, &count) == nil {
		c.ExecutionCount = &count
	}

	var outputs []json.RawMessage
	if isValue(raw.Outputs) {
		_ = json.Unmarshal(raw.Outputs, &outputs)
	}
	for _, rawOut := range outputs {
		var out Output
		if err := json.Unmarshal(rawOut, &out); err != nil {
			continue
		}
		c.Outputs = append(c.Outputs, out)
	}
	return nil
}

// isValue reports whether raw holds a JSON value other than null.
func isValue(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Output is one captured result of executing a code cell. Its variant is
// decided by which payload fields are present.
type Output struct {
	// Text is carried by stream outputs.
	Text TextPayload `json:"text"`
	// Data maps MIME type to payload for result outputs.
	Data map[string]json.RawMessage `json:"data,omitempty"`
	// ExecutionCount is carried by result outputs; nil otherwise.
	ExecutionCount *int `json:"execution_count,omitempty"`
}

type rawOutput struct {
	Text           TextPayload                `json:"text"`
	Data           map[string]json.RawMessage `json:"data"`
	ExecutionCount json.RawMessage            `json:"execution_count"`
}

// UnmarshalJSON decodes an output; a malformed execution count reads as absent.
func (o *Output) UnmarshalJSON(b []byte) error {
	var raw rawOutput
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*o = Output{Text: raw.Text, Data: raw.Data}

	var count int
	if isValue(raw.ExecutionCount) && json.Unmarshal(raw.ExecutionCount, &count) == nil {
		o.ExecutionCount = &count
	}
	return nil
}

// PlainText returns the data["text/plain"] payload. Other MIME keys are not
// looked at.
func (o Output) PlainText() TextPayload {
	raw, ok := o.Data[MIMEPlainText]
	if !ok {
		return TextPayload{}
	}
	var t TextPayload
	_ = t.UnmarshalJSON(raw)
	return t
}

// DisplayText returns the text that should be shown for this output and
// whether there is any.
func (o Output) DisplayText() (string, bool) {
	if o.Text.usable() {
		return o.Text.String(), true
	}
	if plain := o.PlainText(); plain.usable() {
		return plain.String(), true
	}
	return "", false
}
