package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/matsen/bibconv/internal/bib"
	"github.com/matsen/bibconv/internal/export"
	"github.com/spf13/cobra"
)

var (
	convertBibtex bool
	convertJSON   bool
	convertOutput string
	convertAppend bool
)

func init() {
	rootCmd.Flags().BoolVarP(&convertBibtex, "bibtex", "b", false, "Print the legacy BibTeX dialect (same as --dialect bibtex)")
	rootCmd.Flags().BoolVar(&convertJSON, "json", false, "Print canonical entries as JSONL")
	rootCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Write to FILE instead of stdout")
	rootCmd.Flags().BoolVar(&convertAppend, "append", false, "Append entries not already in the output file (requires -o)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	stdoutReserved = true

	if convertAppend && convertOutput == "" {
		exitWithError(ExitError, "--append requires --output")
	}
	if convertAppend && convertJSON {
		exitWithError(ExitError, "--append cannot be combined with --json")
	}

	s := mustResolveSettings(cmd)
	if convertBibtex {
		s.Dialect = bib.BibTeX
	}

	l, diags := mustLoadEntries(args[0])

	var idx *export.Index
	if convertAppend {
		var err error
		idx, err = export.IndexFile(convertOutput)
		if err != nil {
			exitWithError(ExitDataError, "indexing output file: %v", err)
		}
	}

	out, fdiags, err := convert(l, s.Dialect, convertJSON, idx)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	enforceStrict(s, append(diags, fdiags...))

	// Converted text always ends with an extra newline; JSONL already does.
	text := out
	if !convertJSON {
		text += "\n"
	}

	switch {
	case convertOutput == "":
		fmt.Print(text)
	case convertAppend:
		if out == "" {
			return nil
		}
		if err := export.AppendToFile(convertOutput, out); err != nil {
			exitWithError(ExitError, "appending to %s: %v", convertOutput, err)
		}
	default:
		if err := os.WriteFile(convertOutput, []byte(text), 0644); err != nil {
			exitWithError(ExitError, "writing %s: %v", convertOutput, err)
		}
	}
	return nil
}

// convert renders the list in the given dialect, or as JSONL. Entries found
// in idx are left out.
func convert(l *bib.List, d bib.Dialect, asJSON bool, idx *export.Index) (string, bib.Diagnostics, error) {
	if idx != nil {
		var fresh []*bib.Entry
		for _, e := range l.Entries() {
			if !idx.HasEntry(e) {
				fresh = append(fresh, e)
			}
		}
		l = bib.NewList(fresh...)
	}

	if !asJSON {
		text, diags := export.Format(l, d)
		return text, diags, nil
	}

	l.Sort()
	entries, diags := l.Distinct()
	var buf bytes.Buffer
	if err := export.WriteJSONL(&buf, entries); err != nil {
		return "", diags, err
	}
	return buf.String(), diags, nil
}
