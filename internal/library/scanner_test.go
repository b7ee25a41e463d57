package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"cells": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"notebooks/cyclegan.ipynb",
		"notebooks/sub/deep.IPYNB",
		"notebooks/.ipynb_checkpoints/cyclegan-checkpoint.ipynb",
		".hidden/secret.ipynb",
		"top.ipynb",
		"notes.md",
	} {
		writeFile(t, root, rel)
	}

	got, err := Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	want := []Entry{
		{Ref: "/notebooks/cyclegan.ipynb", Name: "cyclegan", Folder: "notebooks"},
		{Ref: "/notebooks/sub/deep.IPYNB", Name: "deep", Folder: "notebooks/sub"},
		{Ref: "/top.ipynb", Name: "top", Folder: ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Scan() mismatch (-want +got):\n%s", diff)
	}
}

func TestScan_MissingRoot(t *testing.T) {
	if _, err := Scan(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Scan() of missing root should fail")
	}
}

func TestScan_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.ipynb")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Scan(ctx, root); err == nil {
		t.Error("Scan() with cancelled context should fail")
	}
}
