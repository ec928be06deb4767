package bib

import (
	"fmt"
	"strings"
)

// Dialect selects the textual form entries are printed in.
type Dialect int

const (
	// Biblatex is the canonical dialect: location/journaltitle, composite
	// date fields and unmapped entry types.
	Biblatex Dialect = iota
	// BibTeX is the legacy dialect: address/journal, year/month fields and
	// remapped entry types.
	BibTeX
)

func (d Dialect) String() string {
	switch d {
	case Biblatex:
		return "biblatex"
	case BibTeX:
		return "bibtex"
	}
	return fmt.Sprintf("Dialect(%d)", int(d))
}

// ParseDialect converts a dialect name into a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "biblatex", "":
		return Biblatex, nil
	case "bibtex":
		return BibTeX, nil
	}
	return Biblatex, fmt.Errorf("unknown dialect %q (valid: biblatex, bibtex)", s)
}

// FieldAliases maps legacy field names to canonical names while parsing.
var FieldAliases = map[string]string{
	"address": "location",
	"journal": "journaltitle",
}

// LegacyFieldNames maps canonical field names to their legacy names.
var LegacyFieldNames = map[string]string{
	"location":     "address",
	"journaltitle": "journal",
}

// LegacyTypes maps canonical entry types to legacy ones. Theses are
// resolved separately from their type field.
var LegacyTypes = map[string]string{
	"report": "techreport",
	"online": "misc",
}

// ExcludedFields are never printed, in any dialect.
var ExcludedFields = map[string]bool{
	"keywords": true,
	"abstract": true,
	"file":     true,
}

// DOIRedundantFields are dropped from entries that carry a doi field.
var DOIRedundantFields = map[string]bool{
	"issn":        true,
	"isbn":        true,
	"eprint":      true,
	"eprintype":   true,
	"eprintclass": true,
	"url":         true,
	"urldate":     true,
}

// CanonicalFieldName returns the canonical name of a lowercased field name.
func CanonicalFieldName(name string) string {
	if alias, ok := FieldAliases[name]; ok {
		return alias
	}
	return name
}

// LegacyFieldName returns the legacy name of a canonical field name.
func LegacyFieldName(name string) string {
	if legacy, ok := LegacyFieldNames[name]; ok {
		return legacy
	}
	return name
}

// LegacyType returns the legacy entry type for an entry.
func LegacyType(e *Entry) string {
	if e.Type == "thesis" {
		if strings.HasPrefix(e.Fields["type"], "m") {
			return "mastersthesis"
		}
		return "phdthesis"
	}
	if legacy, ok := LegacyTypes[e.Type]; ok {
		return legacy
	}
	return e.Type
}
