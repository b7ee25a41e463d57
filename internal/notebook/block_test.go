package notebook

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func intPtr(i int) *int {
	return &i
}

func TestTextPayload_String(t *testing.T) {
	tests := []struct {
		name    string
		payload TextPayload
		want    string
	}{
		{name: "fragments join without separator", payload: Frags("ab", "cd", "ef"), want: "abcdef"},
		{name: "literal is unchanged", payload: Lit("abcdef"), want: "abcdef"},
		{name: "empty fragments", payload: Frags(), want: ""},
		{name: "absent", payload: TextPayload{}, want: ""},
		{name: "fragments keep newlines", payload: Frags("line 1\n", "line 2"), want: "line 1\nline 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.payload.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTextPayload_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantPresent bool
		want        string
	}{
		{name: "string", input: `"print(1)"`, wantPresent: true, want: "print(1)"},
		{name: "array", input: `["a", "b"]`, wantPresent: true, want: "ab"},
		{name: "empty array", input: `[]`, wantPresent: true, want: ""},
		{name: "null", input: `null`, wantPresent: false},
		{name: "number", input: `42`, wantPresent: false},
		{name: "mixed array", input: `["a", 1]`, wantPresent: false},
		{name: "object", input: `{"a": "b"}`, wantPresent: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p TextPayload
			if err := json.Unmarshal([]byte(tt.input), &p); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if p.Present() != tt.wantPresent {
				t.Errorf("Present() = %v, want %v", p.Present(), tt.wantPresent)
			}
			if got := p.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse_FormatErrors(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantMissing bool
	}{
		{name: "not json", input: `<html>not found</html>`},
		{name: "truncated", input: `{"cells": [`},
		{name: "top level array", input: `[]`},
		{name: "top level null", input: `null`, wantMissing: true},
		{name: "no cells field", input: `{"metadata": {}}`, wantMissing: true},
		{name: "cells null", input: `{"cells": null}`, wantMissing: true},
		{name: "cells object", input: `{"cells": {"0": {}}}`, wantMissing: true},
		{name: "cells string", input: `{"cells": "x"}`, wantMissing: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse("/bad.ipynb", []byte(tt.input))
			if err == nil {
				t.Fatalf("Parse() = %+v, want error", doc)
			}
			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Fatalf("Parse() error = %T, want *FormatError", err)
			}
			if formatErr.Ref != "/bad.ipynb" {
				t.Errorf("FormatError.Ref = %q", formatErr.Ref)
			}
			if tt.wantMissing && !errors.Is(err, ErrMissingCells) {
				t.Errorf("Parse() error = %v, want ErrMissingCells", err)
			}
			if ReasonOf(err) != ReasonFormat {
				t.Errorf("ReasonOf() = %v, want format", ReasonOf(err))
			}
		})
	}
}

func TestParse_EmptyCells(t *testing.T) {
	doc, err := Parse("/empty.ipynb", []byte(`{"cells": []}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := Render(doc); len(got) != 0 {
		t.Errorf("Render() = %v, want no blocks", got)
	}
}

func TestRender_Scenario(t *testing.T) {
	raw := `{
		"cells": [
			{"cell_type": "markdown", "source": ["# Hi"]},
			{"cell_type": "code", "source": "print(1)", "execution_count": 1, "outputs": [{"text": "1\n"}]}
		],
		"metadata": {"kernelspec": {"name": "python3"}},
		"nbformat": 4
	}`

	doc, err := Parse("/n2.ipynb", []byte(raw))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []Block{
		{Kind: BlockRichText, Content: "# Hi", Cell: 0},
		{Kind: BlockCodeInput, Content: "print(1)", Ordinal: intPtr(1), Language: CodeLanguage, Cell: 1},
		{Kind: BlockPlainText, Content: "1\n", Cell: 1},
	}
	if diff := cmp.Diff(want, Render(doc)); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_CellRules(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Block
	}{
		{
			name: "unknown kind is skipped without stopping later cells",
			raw: `{"cells": [
				{"cell_type": "raw", "source": "ignored"},
				{"cell_type": "markdown", "source": "kept"},
				{"cell_type": "heading", "source": "ignored"},
				{"cell_type": "markdown", "source": ["also ", "kept"]}
			]}`,
			want: []Block{
				{Kind: BlockRichText, Content: "kept", Cell: 1},
				{Kind: BlockRichText, Content: "also kept", Cell: 3},
			},
		},
		{
			name: "image only output yields nothing",
			raw: `{"cells": [
				{"cell_type": "code", "source": "plot()", "execution_count": 3,
				 "outputs": [{"output_type": "display_data", "data": {"image/png": "iVBORw0KGgo="}}]}
			]}`,
			want: []Block{
				{Kind: BlockCodeInput, Content: "plot()", Ordinal: intPtr(3), Language: CodeLanguage, Cell: 0},
			},
		},
		{
			name: "text/plain result beside an image",
			raw: `{"cells": [
				{"cell_type": "code", "source": "df.head()", "execution_count": 2,
				 "outputs": [{"data": {"image/png": "xx", "text/plain": ["   a  b\n", "0  1  2"]}}]}
			]}`,
			want: []Block{
				{Kind: BlockCodeInput, Content: "df.head()", Ordinal: intPtr(2), Language: CodeLanguage, Cell: 0},
				{Kind: BlockPlainText, Content: "   a  b\n0  1  2", Cell: 0},
			},
		},
		{
			name: "stream text wins over data",
			raw: `{"cells": [
				{"cell_type": "code", "source": "x",
				 "outputs": [{"text": ["out"], "data": {"text/plain": "result"}}]}
			]}`,
			want: []Block{
				{Kind: BlockCodeInput, Content: "x", Language: CodeLanguage, Cell: 0},
				{Kind: BlockPlainText, Content: "out", Cell: 0},
			},
		},
		{
			name: "empty text falls back to text/plain",
			raw: `{"cells": [
				{"cell_type": "code", "source": "x",
				 "outputs": [{"text": "", "data": {"text/plain": "result"}}]}
			]}`,
			want: []Block{
				{Kind: BlockCodeInput, Content: "x", Language: CodeLanguage, Cell: 0},
				{Kind: BlockPlainText, Content: "result", Cell: 0},
			},
		},
		{
			name: "empty fragment list falls back to text/plain",
			raw: `{"cells": [
				{"cell_type": "code", "source": "x",
				 "outputs": [{"text": [], "data": {"text/plain": "result"}}]}
			]}`,
			want: []Block{
				{Kind: BlockCodeInput, Content: "x", Language: CodeLanguage, Cell: 0},
				{Kind: BlockPlainText, Content: "result", Cell: 0},
			},
		},
		{
			name: "execution result carries its count",
			raw: `{"cells": [
				{"cell_type": "code", "source": "1 + 1", "execution_count": 4,
				 "outputs": [{"output_type": "execute_result", "execution_count": 4, "data": {"text/plain": "2"}}]}
			]}`,
			want: []Block{
				{Kind: BlockCodeInput, Content: "1 + 1", Ordinal: intPtr(4), Language: CodeLanguage, Cell: 0},
				{Kind: BlockPlainText, Content: "2", Ordinal: intPtr(4), Cell: 0},
			},
		},
		{
			name: "malformed output count keeps the output",
			raw: `{"cells": [
				{"cell_type": "code", "source": "x",
				 "outputs": [{"execution_count": "four", "data": {"text/plain": "2"}}]}
			]}`,
			want: []Block{
				{Kind: BlockCodeInput, Content: "x", Language: CodeLanguage, Cell: 0},
				{Kind: BlockPlainText, Content: "2", Cell: 0},
			},
		},
		{
			name: "output order is preserved",
			raw: `{"cells": [
				{"cell_type": "code", "source": "x", "execution_count": null,
				 "outputs": [{"text": "first"}, {"data": {}}, {"text": "second"}, {"data": {"text/plain": "third"}}]}
			]}`,
			want: []Block{
				{Kind: BlockCodeInput, Content: "x", Language: CodeLanguage, Cell: 0},
				{Kind: BlockPlainText, Content: "first", Cell: 0},
				{Kind: BlockPlainText, Content: "second", Cell: 0},
				{Kind: BlockPlainText, Content: "third", Cell: 0},
			},
		},
		{
			name: "non object cells are skipped",
			raw:  `{"cells": [42, "x", {"cell_type": "markdown", "source": "ok"}]}`,
			want: []Block{
				{Kind: BlockRichText, Content: "ok", Cell: 0},
			},
		},
		{
			name: "malformed execution count reads as never executed",
			raw:  `{"cells": [{"cell_type": "code", "source": "x", "execution_count": "seven"}]}`,
			want: []Block{
				{Kind: BlockCodeInput, Content: "x", Language: CodeLanguage, Cell: 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse("/t.ipynb", []byte(tt.raw))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, Render(doc)); diff != "" {
				t.Errorf("Render() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRender_EmptyAndAbsentOutputsMatch(t *testing.T) {
	empty, err := Parse("/a.ipynb", []byte(`{"cells": [{"cell_type": "code", "source": "x", "execution_count": 4, "outputs": []}]}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	absent, err := Parse("/b.ipynb", []byte(`{"cells": [{"cell_type": "code", "source": "x", "execution_count": 4}]}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if diff := cmp.Diff(Render(empty), Render(absent)); diff != "" {
		t.Errorf("empty vs absent outputs differ (-empty +absent):\n%s", diff)
	}
}

func TestRender_PreservesCellOrder(t *testing.T) {
	doc := &Document{}
	for i := range 20 {
		kind := CellMarkdown
		if i%3 == 0 {
			kind = CellCode
		}
		doc.Cells = append(doc.Cells, Cell{Kind: kind, Source: Lit(string(rune('a' + i)))})
	}

	last := -1
	for _, b := range Render(doc) {
		if b.Cell < last {
			t.Fatalf("block for cell %d emitted after cell %d", b.Cell, last)
		}
		if b.Content != string(rune('a'+b.Cell)) {
			t.Errorf("block for cell %d has content %q", b.Cell, b.Content)
		}
		last = b.Cell
	}
	if last != 19 {
		t.Errorf("last cell rendered = %d, want 19", last)
	}
}

func TestDocument_BlocksStopsEarly(t *testing.T) {
	doc := &Document{Cells: []Cell{
		{Kind: CellCode, Source: Lit("a"), Outputs: []Output{{Text: Lit("1")}, {Text: Lit("2")}}},
		{Kind: CellMarkdown, Source: Lit("b")},
	}}

	var seen []string
	for b := range doc.Blocks() {
		seen = append(seen, b.Content)
		if len(seen) == 2 {
			break
		}
	}
	if diff := cmp.Diff([]string{"a", "1"}, seen); diff != "" {
		t.Errorf("Blocks() mismatch (-want +got):\n%s", diff)
	}
}

func TestBlock_OrdinalLabel(t *testing.T) {
	tests := []struct {
		name    string
		ordinal *int
		want    string
	}{
		{name: "never executed", ordinal: nil, want: " "},
		{name: "zero", ordinal: intPtr(0), want: " "},
		{name: "executed", ordinal: intPtr(12), want: "12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Block{Kind: BlockCodeInput, Ordinal: tt.ordinal}
			if got := b.OrdinalLabel(); got != tt.want {
				t.Errorf("OrdinalLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBlock_MarshalJSON(t *testing.T) {
	b := Block{Kind: BlockCodeInput, Content: "x", Ordinal: intPtr(1), Language: CodeLanguage, Cell: 2}
	got, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"kind":"code_input","content":"x","ordinal":1,"language":"python","cell":2}`
	if string(got) != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
}
