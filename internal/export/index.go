package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/matsen/bibconv/internal/bib"
)

// Index indexes the entries of an existing bibliography for deduplication.
type Index struct {
	// Keys maps lowercased citation keys to true for existence check
	Keys map[string]bool
	// DOIs maps normalized DOI values to citation keys
	DOIs map[string]string
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		Keys: make(map[string]bool),
		DOIs: make(map[string]string),
	}
}

// Add records an entry's key and DOI.
func (idx *Index) Add(e *bib.Entry) {
	idx.Keys[strings.ToLower(e.Key)] = true
	if doi := normalizeDOI(e.Field("doi")); doi != "" {
		idx.DOIs[doi] = e.Key
	}
}

// HasEntry returns true if the entry already exists (by DOI or key).
// DOI is the primary match; citation key is the fallback.
func (idx *Index) HasEntry(e *bib.Entry) bool {
	if doi := normalizeDOI(e.Field("doi")); doi != "" {
		if _, exists := idx.DOIs[doi]; exists {
			return true
		}
	}
	return idx.Keys[strings.ToLower(e.Key)]
}

// IndexFile builds an index from an existing bibliography file.
// Returns an empty index if the file doesn't exist.
func IndexFile(path string) (*Index, error) {
	idx := NewIndex()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	list, _, err := bib.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("indexing %s: %w", path, err)
	}
	for _, e := range list.Entries() {
		idx.Add(e)
	}
	return idx, nil
}

// normalizeDOI normalizes a DOI field value for comparison.
// Removes delimiters and common prefixes like "https://doi.org/" and lowercases.
func normalizeDOI(doi string) string {
	doi = strings.Trim(doi, "{}\" ")
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	doi = strings.TrimPrefix(doi, "doi.org/")
	doi = strings.TrimPrefix(doi, "DOI:")
	doi = strings.TrimPrefix(doi, "doi:")
	return strings.ToLower(strings.TrimSpace(doi))
}

// AppendToFile appends formatted entries to a file, creating it if needed.
func AppendToFile(path, content string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	// Ensure we start on a new line
	_, err = file.WriteString("\n" + content)
	return err
}
