package bib

import (
	"fmt"
	"strings"

	"github.com/matsen/bibconv/internal/syntax"
)

// nodeKind is the role of an entry's child node.
type nodeKind int

const (
	kindOther nodeKind = iota
	kindEntryType
	kindEntryKey
	kindEntryField
)

func kindOf(nodeType string) nodeKind {
	switch nodeType {
	case syntax.KindName:
		return kindEntryType
	case syntax.KindKey:
		return kindEntryKey
	case syntax.KindField:
		return kindEntryField
	}
	return kindOther
}

// Parse parses a bibliography and builds its sorted entry list.
// Grammar failures are returned as errors; recoverable problems are
// returned as diagnostics.
func Parse(src []byte) (*List, Diagnostics, error) {
	root, err := syntax.Parse(src)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing bibliography: %w", err)
	}
	list, diags := Build(root, src)
	return list, diags, nil
}

// Build creates one entry per entry node under root, in source order, and
// sorts the result by key. Comments, strings and preambles are ignored.
func Build(root *syntax.Node, src []byte) (*List, Diagnostics) {
	list := NewList()
	var diags Diagnostics

	for i := 0; i < root.NamedChildCount(); i++ {
		n := root.NamedChild(i)
		if n.Type != syntax.KindEntry {
			continue
		}
		e, ds := BuildEntry(n, src)
		diags = append(diags, ds...)
		list.Add(e)
	}

	list.Sort()
	return list, diags
}

// BuildEntry converts an entry node into canonical form:
//   - phdthesis and mastersthesis become thesis with a type field
//   - field names are lowercased and legacy aliases renamed
//   - year and month are merged into a single date field
//
// Fields without a value are left out and reported.
func BuildEntry(n *syntax.Node, src []byte) (*Entry, Diagnostics) {
	e := NewEntry("", "")
	var year, month uint64
	var missing []string

	for i := 0; i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)

		switch kindOf(child.Type) {
		case kindEntryType:
			setType(e, Text(child, src))

		case kindEntryKey:
			e.Key = strings.ToLower(Text(child, src))

		case kindEntryField:
			name := strings.ToLower(Text(child.NamedChild(0), src))
			value, ok := TextOK(child.NamedChild(1), src)
			if !ok {
				missing = append(missing, name)
				continue
			}

			switch name {
			case "year":
				year = ParseYear(value)
			case "month":
				month = ParseMonth(value)
			default:
				e.Fields[CanonicalFieldName(name)] = value
			}
		}
	}

	if year > 0 {
		e.Fields["date"] = CompositeDate(year, month)
	}

	var diags Diagnostics
	for _, name := range missing {
		diags = append(diags, Diagnostic{Kind: MissingValue, Key: e.Key, Field: name})
	}
	return e, diags
}

// Canonicalize returns the canonical form of an entry that did not come
// from the grammar, such as one read from JSONL. Keys and field names are
// lowercased, aliases renamed, theses normalized, and year and month merged
// into date, as BuildEntry does.
func Canonicalize(e *Entry) *Entry {
	c := NewEntry("", strings.ToLower(e.Key))
	setType(c, e.Type)

	var year, month uint64
	for _, name := range e.Fields.Names() {
		value := e.Fields[name]
		switch lower := strings.ToLower(name); lower {
		case "year":
			year = ParseYear(value)
		case "month":
			month = ParseMonth(value)
		default:
			c.Fields[CanonicalFieldName(lower)] = value
		}
	}

	if year > 0 {
		c.Fields["date"] = CompositeDate(year, month)
	}
	return c
}

func setType(e *Entry, typ string) {
	switch {
	case strings.EqualFold(typ, "phdthesis"):
		e.Type = "thesis"
		e.Fields["type"] = "phdthesis"
	case strings.EqualFold(typ, "mastersthesis"):
		e.Type = "thesis"
		e.Fields["type"] = "mathesis"
	default:
		e.Type = strings.ToLower(typ)
	}
}
