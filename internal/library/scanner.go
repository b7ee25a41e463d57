// Package library catalogues the notebooks served from the local notebook directory.
package library

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Entry represents a notebook file found during scanning.
type Entry struct {
	Ref    string `json:"ref"`    // Rooted reference (e.g., "/notebooks/cyclegan.ipynb")
	Name   string `json:"name"`   // File name without extension
	Folder string `json:"folder"` // Folder path relative to the root, "" for root-level files
}

// Scan walks root and returns every .ipynb file below it, in lexical order.
// Hidden directories and Jupyter checkpoint directories are skipped.
func Scan(ctx context.Context, root string) ([]Entry, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("failed to access notebook root %s: %w", root, err)
	}

	var entries []Entry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.EqualFold(filepath.Ext(path), ".ipynb") {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		relPath = filepath.ToSlash(relPath)

		folder := filepath.ToSlash(filepath.Dir(relPath))
		if folder == "." {
			folder = ""
		}

		base := filepath.Base(relPath)
		entries = append(entries, Entry{
			Ref:    "/" + relPath,
			Name:   strings.TrimSuffix(base, filepath.Ext(base)),
			Folder: folder,
		})
		return nil
	})
	if err != nil {
		return entries, fmt.Errorf("failed to scan notebooks in %s: %w", root, err)
	}

	return entries, nil
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == ".ipynb_checkpoints"
}
