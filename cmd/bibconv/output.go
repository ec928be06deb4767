package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matsen/bibconv/internal/bib"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// stdoutReserved is set by commands whose stdout carries bibliography text,
// or once a JSON report has been written. Errors then go to stderr only.
var stdoutReserved bool

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	writeError(os.Stdout, os.Stderr, fmt.Sprintf(format, args...))
	os.Exit(code)
}

// writeError writes msg as a JSON error to stdout, or as "error: msg" to
// stderr in human mode or when stdout is reserved.
func writeError(stdout, stderr io.Writer, msg string) {
	if humanOutput || stdoutReserved {
		fmt.Fprintf(stderr, "error: %s\n", msg)
		return
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	enc.Encode(ErrorResponse{Error: msg})
}

// printDiagnostics writes one warning line per diagnostic to stderr.
func printDiagnostics(diags bib.Diagnostics) {
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "warning: %s\n", d)
	}
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CheckResponse is the response for the check command.
type CheckResponse struct {
	Entries     int              `json:"entries"`
	Kept        int              `json:"kept"`
	Diagnostics []bib.Diagnostic `json:"diagnostics"`
}

// ImportResponse is the response for store import.
type ImportResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Total    int `json:"total"`
}

// DeleteResponse is the response for store delete.
type DeleteResponse struct {
	Key     string `json:"key"`
	Deleted bool   `json:"deleted"`
}

// EntrySummary represents an entry in list output.
type EntrySummary struct {
	Key   string `json:"key"`
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
}

// ConfigResponse is the response for the config command.
type ConfigResponse struct {
	Dialect    string `json:"dialect"`
	Strict     bool   `json:"strict"`
	DBPath     string `json:"db_path"`
	ConfigPath string `json:"config_path"`
}

// summarize builds list rows for entries.
func summarize(entries []*bib.Entry) []EntrySummary {
	items := make([]EntrySummary, 0, len(entries))
	for _, e := range entries {
		items = append(items, EntrySummary{Key: e.Key, Type: e.Type, Title: e.Field("title")})
	}
	return items
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// padRight pads s with spaces to width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// ListTitleMaxLen is the title width in list output.
const ListTitleMaxLen = 50
