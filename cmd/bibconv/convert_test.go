package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matsen/bibconv/internal/bib"
	"github.com/matsen/bibconv/internal/export"
)

func sampleList() *bib.List {
	return bib.NewList(
		&bib.Entry{Type: "article", Key: "b", Fields: bib.Fields{"title": "{B}"}},
		&bib.Entry{Type: "article", Key: "A", Fields: bib.Fields{"title": "{A}", "doi": "10.1/a"}},
		&bib.Entry{Type: "book", Key: "b", Fields: bib.Fields{"title": "{Dup}"}},
	)
}

func TestConvert_Text(t *testing.T) {
	out, diags, err := convert(sampleList(), bib.Biblatex, false, nil)
	if err != nil {
		t.Fatalf("convert() error = %v", err)
	}

	want := "@article{A,\n    doi   = 10.1/a,\n    title = {A},\n}\n\n" +
		"@article{b,\n    title = {B},\n}\n\n"
	if out != want {
		t.Errorf("convert() =\n%s\nwant\n%s", out, want)
	}
	if diags.Count(bib.DuplicateKey) != 1 {
		t.Errorf("duplicate diagnostics = %d, want 1", diags.Count(bib.DuplicateKey))
	}
}

func TestConvert_JSON(t *testing.T) {
	out, diags, err := convert(sampleList(), bib.Biblatex, true, nil)
	if err != nil {
		t.Fatalf("convert() error = %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d JSONL lines, want 2:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], `"key":"A"`) {
		t.Errorf("first line = %s, want key A", lines[0])
	}
	if len(diags) != 1 {
		t.Errorf("diags = %v, want one duplicate", diags)
	}
}

func TestConvert_SkipsIndexed(t *testing.T) {
	idx := export.NewIndex()
	idx.Add(&bib.Entry{Type: "article", Key: "other", Fields: bib.Fields{"doi": "https://doi.org/10.1/A"}})
	idx.Add(&bib.Entry{Type: "article", Key: "B", Fields: bib.Fields{}})

	out, _, err := convert(sampleList(), bib.BibTeX, false, idx)
	if err != nil {
		t.Fatalf("convert() error = %v", err)
	}
	if out != "" {
		t.Errorf("convert() = %q, want nothing new", out)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEntries(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantKeys []string
		wantDiag int
	}{
		{
			name:     "bibliography",
			file:     "refs.bib",
			content:  "@book{z, title = {Z}}\n@article{a, title = , year = 2000}",
			wantKeys: []string{"a", "z"},
			wantDiag: 1,
		},
		{
			name:     "jsonl",
			file:     "refs.JSONL",
			content:  `{"type":"book","key":"z","fields":{}}` + "\n" + `{"type":"article","key":"a","fields":{"date":"{2000}"}}` + "\n",
			wantKeys: []string{"a", "z"},
		},
		{
			name:     "jsonl with legacy records",
			file:     "legacy.jsonl",
			content:  `{"type":"Book","key":"Z","fields":{"Year":"2001","address":"{P}"}}` + "\n" + `{"type":"article","key":"A"}` + "\n",
			wantKeys: []string{"a", "z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, diags, err := loadEntries(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("loadEntries() error = %v", err)
			}
			var keys []string
			for _, e := range l.Entries() {
				keys = append(keys, e.Key)
			}
			if strings.Join(keys, ",") != strings.Join(tt.wantKeys, ",") {
				t.Errorf("keys = %v, want %v", keys, tt.wantKeys)
			}
			if len(diags) != tt.wantDiag {
				t.Errorf("diags = %v, want %d", diags, tt.wantDiag)
			}
		})
	}
}

func TestLoadEntries_CanonicalizesJSONL(t *testing.T) {
	content := `{"type":"PhdThesis","key":"Doe2001","fields":{"year":"2001","Month":"feb","journal":"{J}"}}` + "\n"
	l, _, err := loadEntries(writeFile(t, "refs.jsonl", content))
	if err != nil {
		t.Fatalf("loadEntries() error = %v", err)
	}
	e := l.Entries()[0]
	if e.Key != "doe2001" || e.Type != "thesis" {
		t.Errorf("entry = %s/%s, want thesis/doe2001", e.Type, e.Key)
	}
	want := bib.Fields{"type": "phdthesis", "date": "{2001-2}", "journaltitle": "{J}"}
	if len(e.Fields) != len(want) {
		t.Errorf("Fields = %v, want %v", e.Fields, want)
	}
	for name, v := range want {
		if e.Field(name) != v {
			t.Errorf("Field(%q) = %q, want %q", name, e.Field(name), v)
		}
	}
}

func TestLoadEntries_Errors(t *testing.T) {
	_, _, err := loadEntries(filepath.Join(t.TempDir(), "missing.bib"))
	if err == nil {
		t.Fatal("loadEntries() expected error for missing file")
	}
	var pe *parseError
	if errors.As(err, &pe) {
		t.Errorf("missing file reported as parse error: %v", err)
	}

	for _, tc := range []struct{ file, content string }{
		{"bad.bib", "@article{k, title = {x"},
		{"bad.jsonl", "{not json}\n"},
	} {
		_, _, err := loadEntries(writeFile(t, tc.file, tc.content))
		if !errors.As(err, &pe) {
			t.Errorf("loadEntries(%s) error = %v, want parse error", tc.file, err)
		}
	}
}

func TestCheckResult(t *testing.T) {
	l := sampleList()
	_, diags, err := convert(l, bib.Biblatex, false, nil)
	if err != nil {
		t.Fatal(err)
	}

	got := checkResult(l, diags)
	if got.Entries != 3 || got.Kept != 2 {
		t.Errorf("checkResult() = %d entries, %d kept; want 3, 2", got.Entries, got.Kept)
	}

	empty := checkResult(bib.NewList(), nil)
	if empty.Diagnostics == nil {
		t.Error("Diagnostics should be an empty slice, not nil")
	}
}
