package placeholder

import (
	"regexp"
	"sort"
)

// patterns detect format placeholders in translated strings. The first
// capture group of each pattern is the placeholder identifier.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\{(\d+)(?::[^}]*)?\}`), // {0}, {1:N2}
	regexp.MustCompile(`%([sdioxXeEfFgGcr])`),  // %s, %d, %x, ...
}

// Set is a set of placeholder identifiers found in one string.
type Set map[string]struct{}

// Extract returns the placeholder identifiers contained in value. Positional
// placeholders contribute their index ("0" for "{0:N2}"), printf-style ones
// their conversion letter ("d" for "%d").
func Extract(value string) Set {
	set := make(Set)
	for _, p := range patterns {
		for _, m := range p.FindAllStringSubmatch(value, -1) {
			set[m[1]] = struct{}{}
		}
	}
	return set
}

// Of builds a Set from the given identifiers.
func Of(ids ...string) Set {
	set := make(Set, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports whether id is in the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Equal reports whether both sets hold exactly the same identifiers.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// Sorted returns the identifiers in ascending order. The result is never nil.
func (s Set) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
