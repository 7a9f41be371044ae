package check

import (
	"sort"

	"resx-hooks/internal/parser"
	"resx-hooks/internal/textutil"
)

// EmptyValueReport lists, per file in catalog order, the keys whose value is
// empty or whitespace only. Files without such keys are omitted.
type EmptyValueReport []FileKeys

// For returns the empty keys of file, or nil when it has none.
func (r EmptyValueReport) For(file string) []string {
	for _, fk := range r {
		if fk.File == file {
			return fk.Keys
		}
	}
	return nil
}

// FindEmptyValues returns the sorted keys of table whose value is blank.
func FindEmptyValues(table *parser.Table) []string {
	var keys []string
	for _, k := range table.Keys() {
		if v, _ := table.Get(k); textutil.IsBlank(v) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// FindEmptyValuesInCatalog runs FindEmptyValues over every file.
func FindEmptyValuesInCatalog(c *Catalog) EmptyValueReport {
	var report EmptyValueReport
	for _, f := range c.files {
		if keys := FindEmptyValues(c.tables[f]); len(keys) > 0 {
			report = append(report, FileKeys{File: f, Keys: keys})
		}
	}
	return report
}
