// Package bib holds the canonical in-memory form of bibliography entries
// and builds it from a syntax tree.
package bib

import "sort"

// Fields maps canonical field names to their normalized values.
type Fields map[string]string

// Names returns the field names in ascending order.
func (f Fields) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entry is one bibliographic record in canonical (biblatex) form.
type Entry struct {
	Type   string `json:"type"`   // lowercased entry type, e.g. article, thesis
	Key    string `json:"key"`    // lowercased citation key
	Fields Fields `json:"fields"` // canonical field names; year/month merged into date
}

// NewEntry returns an entry with an empty field map.
func NewEntry(typ, key string) *Entry {
	return &Entry{Type: typ, Key: key, Fields: make(Fields)}
}

// Field returns the value of a field, or "" when it is not set.
func (e *Entry) Field(name string) string {
	return e.Fields[name]
}
