package bib

import "testing"

func TestParseDialect(t *testing.T) {
	tests := []struct {
		input   string
		want    Dialect
		wantErr bool
	}{
		{"biblatex", Biblatex, false},
		{"", Biblatex, false},
		{"BibTeX", BibTeX, false},
		{" bibtex ", BibTeX, false},
		{"ris", Biblatex, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDialect(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDialect(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDialect(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFieldNameTables(t *testing.T) {
	for legacy, canonical := range FieldAliases {
		if got := CanonicalFieldName(legacy); got != canonical {
			t.Errorf("CanonicalFieldName(%q) = %q, want %q", legacy, got, canonical)
		}
		if got := LegacyFieldName(canonical); got != legacy {
			t.Errorf("LegacyFieldName(%q) = %q, want %q", canonical, got, legacy)
		}
	}
	if got := CanonicalFieldName("title"); got != "title" {
		t.Errorf("CanonicalFieldName(title) = %q", got)
	}
	if got := LegacyFieldName("date"); got != "date" {
		t.Errorf("LegacyFieldName(date) = %q", got)
	}
}

func TestLegacyType(t *testing.T) {
	tests := []struct {
		name  string
		entry *Entry
		want  string
	}{
		{"report", &Entry{Type: "report"}, "techreport"},
		{"online", &Entry{Type: "online"}, "misc"},
		{"masters thesis", &Entry{Type: "thesis", Fields: Fields{"type": "mathesis"}}, "mastersthesis"},
		{"phd thesis", &Entry{Type: "thesis", Fields: Fields{"type": "phdthesis"}}, "phdthesis"},
		{"thesis without type", &Entry{Type: "thesis", Fields: Fields{}}, "phdthesis"},
		{"article", &Entry{Type: "article"}, "article"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LegacyType(tt.entry); got != tt.want {
				t.Errorf("LegacyType() = %q, want %q", got, tt.want)
			}
		})
	}
}
