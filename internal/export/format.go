// Package export serializes entries as bibliography text and JSONL.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matsen/bibconv/internal/bib"
)

// indent prefixes every field line.
const indent = "    "

// Format sorts the list and formats every distinct entry, each followed by
// a blank line. Duplicate keys and undecomposable dates are reported in the
// order they were met.
func Format(l *bib.List, d bib.Dialect) (string, bib.Diagnostics) {
	l.Sort()

	var b strings.Builder
	var diags bib.Diagnostics
	l.Walk(
		func(e *bib.Entry) {
			s, ds := FormatEntry(e, d)
			b.WriteString(s)
			b.WriteString("\n\n")
			diags = append(diags, ds...)
		},
		func(dup bib.Diagnostic) {
			diags = append(diags, dup)
		},
	)
	return b.String(), diags
}

// FormatEntry formats a single entry as "@type{key,\n<fields>}".
//
// In the BibTeX dialect the entry type and field names are mapped to their
// legacy forms and the date field is split into year and month.
func FormatEntry(e *bib.Entry, d bib.Dialect) (string, bib.Diagnostics) {
	var b strings.Builder
	var diags bib.Diagnostics

	typ := e.Type
	if d == bib.BibTeX {
		typ = bib.LegacyType(e)
	}
	fmt.Fprintf(&b, "@%s{%s,\n", typ, e.Key)

	names, width := printableFields(e)
	for _, name := range names {
		value := e.Fields[name]
		if d != bib.BibTeX {
			writeField(&b, name, value, width)
			continue
		}
		if strings.EqualFold(name, "date") {
			if !writeLegacyDate(&b, value, width) {
				diags = append(diags, bib.Diagnostic{Kind: bib.BadDate, Key: e.Key, Field: name, Value: value})
			}
			continue
		}
		writeField(&b, bib.LegacyFieldName(name), value, width)
	}

	b.WriteString("}")
	return b.String(), diags
}

// printableFields returns the sorted names of the fields to print and the
// width the "=" signs are aligned to. The width counts every field that is
// not always excluded, including those later dropped because of a DOI.
func printableFields(e *bib.Entry) ([]string, int) {
	var names []string
	width := 0
	hasDOI := false

	for _, name := range e.Fields.Names() {
		lower := strings.ToLower(name)
		if bib.ExcludedFields[lower] {
			continue
		}
		if lower == "doi" {
			hasDOI = true
		}
		width = max(width, len(name))
		names = append(names, name)
	}

	if !hasDOI {
		return names, width
	}

	kept := names[:0]
	for _, name := range names {
		if !bib.DOIRedundantFields[strings.ToLower(name)] {
			kept = append(kept, name)
		}
	}
	return kept, width
}

// writeLegacyDate writes year and month lines for a date value. It returns
// false when the value holds no date.
func writeLegacyDate(b *strings.Builder, value string, width int) bool {
	year, month, ok := bib.DecomposeDate(value)
	if !ok {
		return false
	}
	if year > 0 {
		writeField(b, "year", strconv.FormatUint(year, 10), width)
	}
	if month > 0 {
		writeField(b, "month", strconv.FormatUint(month, 10), width)
	}
	return true
}

func writeField(b *strings.Builder, name, value string, width int) {
	pad := max(width-len(name)+1, 0)
	b.WriteString(indent)
	b.WriteString(name)
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString("= ")
	b.WriteString(value)
	b.WriteString(",\n")
}
