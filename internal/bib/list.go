package bib

import "slices"

// List is an ordered collection of entries.
type List struct {
	entries []*Entry
}

// NewList returns a list holding the given entries in order.
func NewList(entries ...*Entry) *List {
	return &List{entries: entries}
}

// Add appends an entry.
func (l *List) Add(e *Entry) {
	l.entries = append(l.entries, e)
}

// Len returns the number of entries, duplicates included.
func (l *List) Len() int {
	return len(l.entries)
}

// Entries returns the entries in their current order.
func (l *List) Entries() []*Entry {
	return l.entries
}

// Sort orders entries by key, ignoring ASCII case. Entries with equal keys
// keep their relative order, so the first one built is the one Distinct
// keeps.
func (l *List) Sort() {
	slices.SortStableFunc(l.entries, func(a, b *Entry) int {
		return compareKeys(a.Key, b.Key)
	})
}

// Distinct returns the entries to emit from a sorted list: every entry whose
// key equals the key of the last kept entry is dropped and reported. The
// list itself is not modified.
func (l *List) Distinct() ([]*Entry, Diagnostics) {
	kept := make([]*Entry, 0, len(l.entries))
	var diags Diagnostics
	l.Walk(
		func(e *Entry) { kept = append(kept, e) },
		func(d Diagnostic) { diags = append(diags, d) },
	)
	return kept, diags
}

// Walk visits the list in order, calling emit for each entry Distinct keeps
// and skip for each duplicate it drops.
func (l *List) Walk(emit func(*Entry), skip func(Diagnostic)) {
	var last *Entry
	for _, e := range l.entries {
		if last != nil && e.Key == last.Key {
			skip(Diagnostic{Kind: DuplicateKey, Key: e.Key})
			continue
		}
		emit(e)
		last = e
	}
}

// compareKeys compares two keys byte-wise with ASCII letters folded to
// lower case.
func compareKeys(a, b string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		ca, cb := lowerASCII(a[i]), lowerASCII(b[i])
		if ca != cb {
			return int(ca) - int(cb)
		}
	}
	return len(a) - len(b)
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
