package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matsen/bibconv/internal/bib"
	"github.com/matsen/bibconv/internal/export"
)

// parseError marks input that was read but could not be understood.
type parseError struct {
	path string
	err  error
}

func (e *parseError) Error() string {
	return fmt.Sprintf("%s: %v", e.path, e.err)
}

func (e *parseError) Unwrap() error {
	return e.err
}

// loadEntries reads path as a bibliography, or as JSONL when the extension
// is .jsonl. JSONL records are canonicalized like parsed entries. The
// returned list is sorted.
func loadEntries(path string) (*bib.List, bib.Diagnostics, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		entries, err := export.ReadJSONL(bytes.NewReader(src))
		if err != nil {
			return nil, nil, &parseError{path: path, err: err}
		}
		l := bib.NewList()
		for _, e := range entries {
			l.Add(bib.Canonicalize(e))
		}
		l.Sort()
		return l, nil, nil
	}

	l, diags, err := bib.Parse(src)
	if err != nil {
		return nil, nil, &parseError{path: path, err: err}
	}
	return l, diags, nil
}
