package check

// FileKeys lists keys of one file, sorted.
type FileKeys struct {
	File string   `json:"file"`
	Keys []string `json:"keys"`
}

// MissingKeyReport lists, per file in catalog order, the keys present in
// some other file but absent from this one. Complete files are omitted.
type MissingKeyReport []FileKeys

// For returns the missing keys of file, or nil when it has none.
func (r MissingKeyReport) For(file string) []string {
	for _, fk := range r {
		if fk.File == file {
			return fk.Keys
		}
	}
	return nil
}

// FindMissingKeys compares every file against the union of all keys in the
// catalog. A catalog with fewer than two files is trivially consistent.
func FindMissingKeys(c *Catalog) MissingKeyReport {
	if c.Len() <= 1 {
		return nil
	}

	all := c.allKeys()
	var report MissingKeyReport
	for _, f := range c.files {
		table := c.tables[f]
		var missing []string
		for _, k := range all {
			if !table.Has(k) {
				missing = append(missing, k)
			}
		}
		if len(missing) > 0 {
			report = append(report, FileKeys{File: f, Keys: missing})
		}
	}
	return report
}
