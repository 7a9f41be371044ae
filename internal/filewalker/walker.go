package filewalker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog/log"
)

// Walker resolves command line arguments and directories into the resource
// files to check.
type Walker struct {
	extensions map[string]bool
}

// NewWalker creates a Walker accepting files with the given extensions
// (".resx" style, matched case-insensitively).
func NewWalker(extensions []string) *Walker {
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = true
	}
	return &Walker{extensions: exts}
}

// Supported reports whether path has one of the walker's extensions.
func (w *Walker) Supported(path string) bool {
	return w.extensions[strings.ToLower(filepath.Ext(path))]
}

// Filter keeps the supported paths, preserving order.
func (w *Walker) Filter(paths []string) []string {
	var out []string
	for _, p := range paths {
		if w.Supported(p) {
			out = append(out, p)
		}
	}
	return out
}

// Resolve expands wildcard arguments, keeps literal ones and filters the
// result to supported extensions. Order follows the arguments; the matches of
// one pattern are sorted.
func (w *Walker) Resolve(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		if !IsPattern(arg) {
			paths = append(paths, arg)
			continue
		}

		matches, err := Expand(arg)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			log.Warn().Str("pattern", arg).Msg("No files matched pattern")
			continue
		}
		paths = append(paths, matches...)
	}
	return dedupe(w.Filter(paths)), nil
}

// Walk discovers all supported files under root, sorted by path.
func (w *Walker) Walk(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}
		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if w.Supported(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	sort.Strings(paths)
	log.Debug().Int("count", len(paths)).Str("root", root).Msg("Discovered files")
	return paths, nil
}

// IsPattern reports whether arg contains wildcard characters.
func IsPattern(arg string) bool {
	return strings.ContainsAny(arg, "*?[")
}

// Expand returns the files matching pattern, sorted. "*" and "?" stay within
// one path segment, "**" spans any number of directories including none.
func Expand(pattern string) ([]string, error) {
	pattern = filepath.ToSlash(filepath.Clean(pattern))
	root := staticPrefix(pattern)

	var matchers []glob.Glob
	for _, p := range variants(pattern) {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
		}
		matchers = append(matchers, g)
	}

	var matches []string
	err := filepath.WalkDir(filepath.FromSlash(root), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == filepath.FromSlash(root) {
				return fs.SkipAll
			}
			return nil
		}
		if d.IsDir() {
			if path != filepath.FromSlash(root) && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		candidate := filepath.ToSlash(path)
		for _, g := range matchers {
			if g.Match(candidate) {
				matches = append(matches, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("expand %q: %w", pattern, err)
	}

	sort.Strings(matches)
	return matches, nil
}

// staticPrefix returns the directory part of pattern preceding its first
// wildcard, or "." when the pattern starts with one.
func staticPrefix(pattern string) string {
	idx := strings.IndexAny(pattern, "*?[{")
	if idx < 0 {
		return filepath.ToSlash(filepath.Dir(pattern))
	}
	slash := strings.LastIndex(pattern[:idx], "/")
	switch {
	case slash < 0:
		return "."
	case slash == 0:
		return "/"
	default:
		return pattern[:slash]
	}
}

// variants lets "**/" also match zero directories.
func variants(pattern string) []string {
	out := []string{pattern}
	if strings.Contains(pattern, "**/") {
		out = append(out, strings.ReplaceAll(pattern, "**/", ""))
	}
	return out
}

func skipDir(name string) bool {
	return name == ".git" || name == "node_modules"
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := paths[:0]
	for _, p := range paths {
		key := filepath.Clean(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}
