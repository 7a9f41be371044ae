package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"resx-hooks/internal/check"
	"resx-hooks/internal/textutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS resx_check_runs (
		id          uuid PRIMARY KEY,
		started_at  timestamptz NOT NULL,
		files       text[] NOT NULL,
		failed      boolean NOT NULL,
		fingerprint text NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS resx_check_findings (
		run_id     uuid NOT NULL REFERENCES resx_check_runs (id) ON DELETE CASCADE,
		check_name text NOT NULL,
		file       text NOT NULL,
		key        text NOT NULL,
		detail     text NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS resx_check_findings_run_idx ON resx_check_findings (run_id)`,
}

// Finding is one reported problem, flattened to a row.
type Finding struct {
	Check  check.Name
	File   string
	Key    string
	Detail string
}

// Run is a recorded check run.
type Run struct {
	ID          uuid.UUID
	StartedAt   time.Time
	Files       []string
	Failed      bool
	Fingerprint string
	Findings    []Finding
}

// NewRun builds a run record for res. Runs with identical findings share a
// fingerprint.
func NewRun(res *check.Result, startedAt time.Time) Run {
	findings := FindingsFromResult(res)

	chunks := make([]string, 0, len(findings))
	for _, f := range findings {
		chunks = append(chunks, strings.Join([]string{string(f.Check), f.File, f.Key, f.Detail}, "\t"))
	}

	files := res.Files
	if files == nil {
		files = []string{}
	}

	return Run{
		ID:          uuid.New(),
		StartedAt:   startedAt.UTC(),
		Files:       files,
		Failed:      res.Failed(),
		Fingerprint: textutil.Hash(chunks...),
		Findings:    findings,
	}
}

// FindingsFromResult flattens every outcome of res in report order.
func FindingsFromResult(res *check.Result) []Finding {
	var out []Finding
	for _, o := range res.Outcomes {
		for _, fk := range o.MissingKeys {
			for _, k := range fk.Keys {
				out = append(out, Finding{Check: o.Check, File: fk.File, Key: k, Detail: "missing"})
			}
		}
		for _, fk := range o.EmptyValues {
			for _, k := range fk.Keys {
				out = append(out, Finding{Check: o.Check, File: fk.File, Key: k, Detail: "empty"})
			}
		}
		for _, fm := range o.Placeholders {
			for _, m := range fm.Mismatches {
				out = append(out, Finding{
					Check: o.Check,
					File:  fm.File,
					Key:   m.Key,
					Detail: fmt.Sprintf("expected [%s] found [%s]",
						strings.Join(m.Expected, ", "), strings.Join(m.Found, ", ")),
				})
			}
		}
	}
	return out
}

// Store persists check runs in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens and pings a pool for databaseURL.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}
	log.Debug().Msg("Connected to PostgreSQL")
	return pool, nil
}

// NewStore creates a new history store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the history tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure history schema: %w", err)
		}
	}
	return nil
}

// Record inserts run and its findings in one transaction.
func (s *Store) Record(ctx context.Context, run Run) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO resx_check_runs (id, started_at, files, failed, fingerprint) VALUES ($1, $2, $3, $4, $5)`,
			run.ID, run.StartedAt, run.Files, run.Failed, run.Fingerprint)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		if len(run.Findings) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for _, f := range run.Findings {
			batch.Queue(
				`INSERT INTO resx_check_findings (run_id, check_name, file, key, detail) VALUES ($1, $2, $3, $4, $5)`,
				run.ID, string(f.Check), f.File, f.Key, f.Detail)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert findings: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}

	log.Info().
		Str("run", run.ID.String()).
		Int("findings", len(run.Findings)).
		Bool("failed", run.Failed).
		Msg("Recorded check run")
	return nil
}
