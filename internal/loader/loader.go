package loader

import (
	"context"
	"fmt"
	"os"

	"resx-hooks/internal/check"
	"resx-hooks/internal/parser"
	"resx-hooks/internal/worker"

	"github.com/rs/zerolog/log"
)

// Loader reads resource files and parses them into a catalog.
type Loader struct {
	registry *parser.Registry
	workers  int
}

// NewLoader creates a loader parsing with registry on up to workers
// goroutines.
func NewLoader(registry *parser.Registry, workers int) *Loader {
	return &Loader{registry: registry, workers: workers}
}

type parsed struct {
	path  string
	table *parser.Table
}

// Load reads and parses every path. The catalog keeps the order of paths. The
// first failure aborts loading: a file that cannot be read or parsed makes
// the whole catalog unusable.
func (l *Loader) Load(ctx context.Context, paths []string) (*check.Catalog, error) {
	pool := worker.NewPool[string, parsed](l.workers,
		func(ctx context.Context, path string) (parsed, error) {
			content, err := os.ReadFile(path)
			if err != nil {
				return parsed{}, fmt.Errorf("read %s: %w", path, err)
			}
			table, err := l.registry.Parse(path, content)
			if err != nil {
				return parsed{}, err
			}
			log.Debug().Str("file", path).Int("keys", table.Len()).Msg("Parsed resource file")
			return parsed{path: path, table: table}, nil
		},
	)

	results, err := pool.Execute(ctx, paths)
	if err != nil {
		return nil, err
	}

	catalog := check.NewCatalog()
	for _, r := range results {
		catalog.Add(r.path, r.table)
	}
	return catalog, nil
}
