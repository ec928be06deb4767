package bib

import (
	"errors"
	"testing"

	"github.com/matsen/bibconv/internal/syntax"
)

const sampleBib = `Junk before the first entry.

@PhdThesis{Doe2001,
  Title   = {A   thesis
             on things},
  Address = {Paris},
  Journal = {J},
  Year    = {2001},
  Month   = {March},
}

@comment{ignored}

@mastersthesis{roe, year = "c. 1999"}

@Article{k3, title = {x}, month = {13}, year = {n.d.}}

@misc{K4, title = , note = {y}}
`

func mustParse(t *testing.T, src string) (*List, Diagnostics) {
	t.Helper()
	list, diags, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return list, diags
}

func TestParse_Canonicalizes(t *testing.T) {
	list, _ := mustParse(t, sampleBib)

	if list.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", list.Len())
	}

	var keys []string
	for _, e := range list.Entries() {
		keys = append(keys, e.Key)
	}
	wantKeys := []string{"doe2001", "k3", "k4", "roe"}
	for i, k := range wantKeys {
		if keys[i] != k {
			t.Errorf("keys = %v, want %v", keys, wantKeys)
			break
		}
	}

	doe := list.Entries()[0]
	if doe.Type != "thesis" {
		t.Errorf("Type = %q, want thesis", doe.Type)
	}
	wantFields := Fields{
		"type":         "phdthesis",
		"title":        "{A thesis on things}",
		"location":     "{Paris}",
		"journaltitle": "{J}",
		"date":         "{2001-3}",
	}
	if len(doe.Fields) != len(wantFields) {
		t.Errorf("Fields = %v, want %v", doe.Fields, wantFields)
	}
	for name, want := range wantFields {
		if got := doe.Field(name); got != want {
			t.Errorf("Field(%q) = %q, want %q", name, got, want)
		}
	}
	for _, raw := range []string{"year", "month", "address", "journal"} {
		if _, ok := doe.Fields[raw]; ok {
			t.Errorf("canonical entry should not have %q", raw)
		}
	}

	roe := list.Entries()[3]
	if roe.Type != "thesis" || roe.Field("type") != "mathesis" {
		t.Errorf("roe = %q/%q, want thesis/mathesis", roe.Type, roe.Field("type"))
	}
	if got := roe.Field("date"); got != "{1999}" {
		t.Errorf("roe date = %q, want {1999}", got)
	}

	k3 := list.Entries()[1]
	if _, ok := k3.Fields["date"]; ok {
		t.Errorf("zero year should not produce a date, got %q", k3.Field("date"))
	}
	if k3.Type != "article" {
		t.Errorf("k3 type = %q, want article", k3.Type)
	}
}

func TestParse_MissingValue(t *testing.T) {
	list, diags := mustParse(t, sampleBib)

	if len(diags) != 1 {
		t.Fatalf("diags = %v, want 1", diags)
	}
	d := diags[0]
	if d.Kind != MissingValue || d.Key != "k4" || d.Field != "title" {
		t.Errorf("diag = %+v, want missing title in k4", d)
	}

	k4 := list.Entries()[2]
	if _, ok := k4.Fields["title"]; ok {
		t.Error("field without value should be omitted")
	}
	if k4.Field("note") != "{y}" {
		t.Errorf("note = %q, want {y}", k4.Field("note"))
	}
}

func TestParse_GrammarError(t *testing.T) {
	_, _, err := Parse([]byte("@article{broken,\n title = {x"))
	if err == nil {
		t.Fatal("Parse() expected error")
	}
	var serr *syntax.Error
	if !errors.As(err, &serr) {
		t.Errorf("error = %v, want a *syntax.Error", err)
	}
}

func TestBuildEntry_IgnoresUnknownKinds(t *testing.T) {
	src := []byte("article key")
	n := &syntax.Node{
		Type: syntax.KindEntry,
		Children: []*syntax.Node{
			{Type: syntax.KindName, Start: 0, End: 7},
			{Type: "comment", Start: 0, End: 7},
			{Type: syntax.KindKey, Start: 8, End: 11},
		},
	}

	e, diags := BuildEntry(n, src)
	if len(diags) != 0 {
		t.Errorf("diags = %v, want none", diags)
	}
	if e.Type != "article" || e.Key != "key" || len(e.Fields) != 0 {
		t.Errorf("entry = %+v", e)
	}
}

func TestBuildEntry_MonthWithoutYear(t *testing.T) {
	list, _ := mustParse(t, "@book{b, month = {jan}}")
	e := list.Entries()[0]
	if len(e.Fields) != 0 {
		t.Errorf("month without year should not produce fields, got %v", e.Fields)
	}
}

func TestParse_BackslashBeforeClosingBrace(t *testing.T) {
	list, diags := mustParse(t, "@misc{a, title = {ok}}\n@misc{b, file = {C:\\Users\\me\\}, note = {n}}\n")
	if len(diags) != 0 {
		t.Errorf("diags = %v, want none", diags)
	}
	if list.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", list.Len())
	}
	b := list.Entries()[1]
	if got := b.Field("file"); got != `{C:\Users\me\}` {
		t.Errorf("file = %q, want %q", got, `{C:\Users\me\}`)
	}
	if got := b.Field("note"); got != "{n}" {
		t.Errorf("note = %q, want {n}", got)
	}
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name       string
		in         *Entry
		wantType   string
		wantKey    string
		wantFields Fields
	}{
		{
			name:       "already canonical",
			in:         &Entry{Type: "article", Key: "k", Fields: Fields{"date": "{2000}", "journaltitle": "{J}"}},
			wantType:   "article",
			wantKey:    "k",
			wantFields: Fields{"date": "{2000}", "journaltitle": "{J}"},
		},
		{
			name:       "legacy record",
			in:         &Entry{Type: "PhdThesis", Key: "Doe2001", Fields: Fields{"Year": "2001", "month": "mar", "Address": "{Paris}", "journal": "{J}"}},
			wantType:   "thesis",
			wantKey:    "doe2001",
			wantFields: Fields{"type": "phdthesis", "date": "{2001-3}", "location": "{Paris}", "journaltitle": "{J}"},
		},
		{
			name:       "nil fields",
			in:         &Entry{Type: "Book", Key: "B"},
			wantType:   "book",
			wantKey:    "b",
			wantFields: Fields{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Canonicalize(tt.in)
			if got.Type != tt.wantType || got.Key != tt.wantKey {
				t.Errorf("Canonicalize() = %s/%s, want %s/%s", got.Type, got.Key, tt.wantType, tt.wantKey)
			}
			if len(got.Fields) != len(tt.wantFields) {
				t.Errorf("Fields = %v, want %v", got.Fields, tt.wantFields)
			}
			for name, want := range tt.wantFields {
				if got.Field(name) != want {
					t.Errorf("Field(%q) = %q, want %q", name, got.Field(name), want)
				}
			}
		})
	}
}
