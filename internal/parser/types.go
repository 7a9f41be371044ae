package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrMalformed is wrapped by parse errors caused by invalid document structure.
	ErrMalformed = errors.New("malformed resource document")
	// ErrDecode is wrapped by parse errors caused by undecodable content.
	ErrDecode = errors.New("cannot decode resource document")
	// ErrUnsupported is wrapped by parse errors for files no parser handles.
	ErrUnsupported = errors.New("unsupported resource file type")
)

// ParseError reports a resource file that could not be turned into a Table.
type ParseError struct {
	// File identifies the offending file, typically its path.
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Table is an insertion-ordered mapping from translation key to value.
// Keys are unique: setting an existing key replaces its value but keeps its
// original position.
type Table struct {
	keys   []string
	values map[string]string
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{values: make(map[string]string)}
}

// Set stores value under key.
func (t *Table) Set(key, value string) {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// Get returns the value stored under key.
func (t *Table) Get(key string) (string, bool) {
	v, ok := t.values[key]
	return v, ok
}

// Has reports whether key is present.
func (t *Table) Has(key string) bool {
	_, ok := t.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (t *Table) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.keys) }

// Parser is the interface for all resource file format parsers.
type Parser interface {
	// CanParse returns true if this parser handles the given file extension.
	CanParse(ext string) bool
	// Parse extracts the key/value table from raw file content. name
	// identifies the file in errors and, for some formats, carries meaning
	// (for example the language segment of a message file name).
	Parse(name string, content []byte) (*Table, error)
}

// Registry dispatches files to parsers by extension.
type Registry struct {
	parsers []Parser
}

// NewRegistry creates a registry; earlier parsers take precedence.
func NewRegistry(parsers ...Parser) *Registry {
	return &Registry{parsers: parsers}
}

// DefaultRegistry handles .resx documents and go-i18n message files.
func DefaultRegistry() *Registry {
	return NewRegistry(NewResxParser(), NewMessageFileParser())
}

// ForPath returns the parser responsible for the file at path.
func (r *Registry) ForPath(path string) (Parser, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, p := range r.parsers {
		if p.CanParse(ext) {
			return p, true
		}
	}
	return nil, false
}

// Parse parses content with the parser registered for path's extension.
func (r *Registry) Parse(path string, content []byte) (*Table, error) {
	p, ok := r.ForPath(path)
	if !ok {
		return nil, &ParseError{File: path, Err: fmt.Errorf("%w: %q", ErrUnsupported, filepath.Ext(path))}
	}
	return p.Parse(path, content)
}
