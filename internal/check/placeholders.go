package check

import (
	"resx-hooks/internal/placeholder"
)

// PlaceholderMismatch records a key whose placeholders differ from the
// reference translation.
type PlaceholderMismatch struct {
	Key      string   `json:"key"`
	Expected []string `json:"expected"`
	Found    []string `json:"found"`
}

// FileMismatches groups the mismatches of one file, sorted by key.
type FileMismatches struct {
	File       string                `json:"file"`
	Mismatches []PlaceholderMismatch `json:"mismatches"`
}

// PlaceholderMismatchReport lists, per file in catalog order, the keys whose
// placeholder set differs from the reference. Consistent files are omitted.
type PlaceholderMismatchReport []FileMismatches

// For returns the mismatches of file, or nil when it has none.
func (r PlaceholderMismatchReport) For(file string) []PlaceholderMismatch {
	for _, fm := range r {
		if fm.File == file {
			return fm.Mismatches
		}
	}
	return nil
}

// CheckPlaceholderConsistency compares the placeholders of every translation
// of a key with those of the first file, in catalog order, defining that key.
// Every file is compared with that reference only, so when several files
// diverge each of them is reported against the first definer.
func CheckPlaceholderConsistency(c *Catalog) PlaceholderMismatchReport {
	if c.Len() <= 1 {
		return nil
	}

	byFile := make(map[string][]PlaceholderMismatch)
	for _, key := range c.allKeys() {
		var reference placeholder.Set
		for _, f := range c.files {
			value, ok := c.tables[f].Get(key)
			if !ok {
				continue
			}

			found := placeholder.Extract(value)
			if reference == nil {
				reference = found
				continue
			}
			if !found.Equal(reference) {
				byFile[f] = append(byFile[f], PlaceholderMismatch{
					Key:      key,
					Expected: reference.Sorted(),
					Found:    found.Sorted(),
				})
			}
		}
	}

	var report PlaceholderMismatchReport
	for _, f := range c.files {
		if m := byFile[f]; len(m) > 0 {
			report = append(report, FileMismatches{File: f, Mismatches: m})
		}
	}
	return report
}
