package check

import (
	"errors"
	"fmt"
)

// ErrChecksFailed is returned by callers when at least one check reported
// findings.
var ErrChecksFailed = errors.New("resource checks failed")

// Name identifies one of the checks.
type Name string

const (
	KeysConsistency Name = "keys-consistency"
	EmptyValues     Name = "empty-values"
	Placeholders    Name = "placeholders"
)

// All lists every check in the order Run executes them.
var All = []Name{KeysConsistency, EmptyValues, Placeholders}

// ParseName resolves a check name.
func ParseName(s string) (Name, error) {
	for _, n := range All {
		if string(n) == s {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown check %q", s)
}

// Outcome is the result of one check. Only the report matching Check is set.
type Outcome struct {
	Check        Name                      `json:"check"`
	MissingKeys  MissingKeyReport          `json:"missing_keys,omitempty"`
	EmptyValues  EmptyValueReport          `json:"empty_values,omitempty"`
	Placeholders PlaceholderMismatchReport `json:"placeholders,omitempty"`
	// Warnings are advisory and never make the outcome fail.
	Warnings []string `json:"warnings,omitempty"`
}

// Failed reports whether the check found any issue.
func (o Outcome) Failed() bool {
	return len(o.MissingKeys) > 0 || len(o.EmptyValues) > 0 || len(o.Placeholders) > 0
}

// Result aggregates the outcomes of one validation run.
type Result struct {
	Files    []string  `json:"files"`
	Outcomes []Outcome `json:"outcomes"`
}

// Failed is true when any outcome failed.
func (r *Result) Failed() bool {
	for _, o := range r.Outcomes {
		if o.Failed() {
			return true
		}
	}
	return false
}

// IncompleteCoverageWarning is attached to the placeholder outcome when files
// do not share the same keys.
const IncompleteCoverageWarning = "Files have inconsistent keys. Placeholder consistency check might report issues actually related to missing keys."

// Run executes the requested checks against the catalog, in the order of All
// regardless of the order requested. With no names every check runs.
func Run(c *Catalog, names ...Name) *Result {
	want := make(map[Name]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	res := &Result{Files: c.Files()}
	for _, n := range All {
		if len(names) > 0 && !want[n] {
			continue
		}

		o := Outcome{Check: n}
		switch n {
		case KeysConsistency:
			o.MissingKeys = FindMissingKeys(c)
		case EmptyValues:
			o.EmptyValues = FindEmptyValuesInCatalog(c)
		case Placeholders:
			if len(FindMissingKeys(c)) > 0 {
				o.Warnings = append(o.Warnings, IncompleteCoverageWarning)
			}
			o.Placeholders = CheckPlaceholderConsistency(c)
		}
		res.Outcomes = append(res.Outcomes, o)
	}
	return res
}
