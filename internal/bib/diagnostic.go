package bib

import (
	"errors"
	"fmt"
)

// DiagnosticKind classifies recoverable problems.
type DiagnosticKind int

const (
	// DuplicateKey: an entry was dropped because an earlier one had its key.
	DuplicateKey DiagnosticKind = iota + 1
	// BadDate: a date field did not look like a date and was not printed.
	BadDate
	// MissingValue: a field had no value and was left out.
	MissingValue
)

func (k DiagnosticKind) String() string {
	switch k {
	case DuplicateKey:
		return "duplicate_key"
	case BadDate:
		return "bad_date"
	case MissingValue:
		return "missing_value"
	}
	return "unknown"
}

// MarshalText lets diagnostics kinds appear as names in JSON output.
func (k DiagnosticKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Diagnostic is a problem that was skipped over rather than failing the run.
type Diagnostic struct {
	Kind  DiagnosticKind `json:"kind"`
	Key   string         `json:"key"`
	Field string         `json:"field,omitempty"`
	Value string         `json:"value,omitempty"`
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case DuplicateKey:
		return fmt.Sprintf("skipping duplicate key %s", d.Key)
	case BadDate:
		return fmt.Sprintf("could not parse date [%s] in %s", d.Value, d.Key)
	case MissingValue:
		return fmt.Sprintf("field %q in %s has no value", d.Field, d.Key)
	}
	return fmt.Sprintf("%s in %s", d.Kind, d.Key)
}

// Diagnostics is a list of recoverable problems in the order they were found.
type Diagnostics []Diagnostic

// Err returns nil when there are no diagnostics and an error listing all of
// them otherwise. Callers use it to treat diagnostics as failures.
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}
	errs := make([]error, len(ds))
	for i, d := range ds {
		errs[i] = errors.New(d.String())
	}
	return errors.Join(errs...)
}

// Count returns how many diagnostics have the given kind.
func (ds Diagnostics) Count(kind DiagnosticKind) int {
	n := 0
	for _, d := range ds {
		if d.Kind == kind {
			n++
		}
	}
	return n
}
