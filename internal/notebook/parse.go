package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Parse decodes raw notebook bytes. The payload must be a JSON object with a
// cells array; anything else is a *FormatError. Individual cells that are not
// objects are skipped.
func Parse(ref string, raw []byte) (*Document, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, &FormatError{Ref: ref, Err: fmt.Errorf("decode json: %w", err)}
	}
	if root == nil {
		return nil, &FormatError{Ref: ref, Err: ErrMissingCells}
	}

	rawCells, ok := root["cells"]
	if !ok {
		return nil, &FormatError{Ref: ref, Err: ErrMissingCells}
	}
	trimmed := bytes.TrimSpace(rawCells)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &FormatError{Ref: ref, Err: ErrMissingCells}
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, &FormatError{Ref: ref, Err: fmt.Errorf("decode cells: %w", err)}
	}

	doc := &Document{Cells: make([]Cell, 0, len(entries))}
	for _, entry := range entries {
		var cell Cell
		if err := json.Unmarshal(entry, &cell); err != nil {
			continue
		}
		doc.Cells = append(doc.Cells, cell)
	}
	return doc, nil
}
