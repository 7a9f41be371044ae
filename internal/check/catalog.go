package check

import (
	"sort"

	"resx-hooks/internal/parser"
)

// Catalog maps file identifiers to their parsed tables, remembering the order
// in which files were added. That order decides which file serves as the
// reference for a key in CheckPlaceholderConsistency.
type Catalog struct {
	files  []string
	tables map[string]*parser.Table
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{tables: make(map[string]*parser.Table)}
}

// Add registers the table parsed from file. Adding a file twice replaces its
// table and keeps its original position.
func (c *Catalog) Add(file string, table *parser.Table) {
	if _, ok := c.tables[file]; !ok {
		c.files = append(c.files, file)
	}
	c.tables[file] = table
}

// Files returns the file identifiers in insertion order.
func (c *Catalog) Files() []string {
	out := make([]string, len(c.files))
	copy(out, c.files)
	return out
}

// Table returns the table parsed from file.
func (c *Catalog) Table(file string) (*parser.Table, bool) {
	t, ok := c.tables[file]
	return t, ok
}

// Len returns the number of files.
func (c *Catalog) Len() int { return len(c.files) }

// allKeys returns the union of keys across every table, sorted.
func (c *Catalog) allKeys() []string {
	seen := make(map[string]struct{})
	for _, f := range c.files {
		for _, k := range c.tables[f].Keys() {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
