package worker

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ProcessFunc is the function signature for processing a single input.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool is a generic worker pool with configurable concurrency.
type Pool[T any, R any] struct {
	workers int
	process ProcessFunc[T, R]
}

// NewPool creates a new worker pool.
func NewPool[T any, R any](workers int, fn ProcessFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{
		workers: workers,
		process: fn,
	}
}

// Execute runs all inputs through the pool and returns their results in
// input order. The first failure cancels the remaining work; when several
// inputs fail, the error of the lowest index is returned so that reports do
// not depend on scheduling.
func (p *Pool[T, R]) Execute(ctx context.Context, inputs []T) ([]R, error) {
	results := make([]R, len(inputs))
	errs := make([]error, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i := range inputs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := p.process(gctx, inputs[i])
			if err != nil {
				errs[i] = err
				return err
			}
			results[i] = r
			return nil
		})
	}

	waitErr := g.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if waitErr != nil {
		return nil, waitErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
