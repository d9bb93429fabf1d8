package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Factory builds an independent simulator for one ensemble member.
type Factory func(seed uint64) (*Simulator, error)

// Ensemble runs several independent simulations, each with its own seed.
type Ensemble struct {
	factory   Factory
	numRuns   int
	seedStart uint64
	limit     int
}

// NewEnsemble prepares numRuns runs seeded seedStart, seedStart+1, ...
// At most limit run at once; limit ≤ 0 means no limit.
func NewEnsemble(factory Factory, numRuns int, seedStart uint64, limit int) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, seedStart: seedStart, limit: limit}
}

// Run executes every member for steps steps of dt. The first failure cancels
// the remaining runs.
func (e *Ensemble) Run(ctx context.Context, steps int, dt float64) ([]*Result, error) {
	if e.numRuns <= 0 {
		return nil, fmt.Errorf("ensemble needs at least one run, got %d", e.numRuns)
	}
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			seed := e.seedStart + uint64(i)
			s, err := e.factory(seed)
			if err != nil {
				return fmt.Errorf("run %d (seed %d): %w", i, seed, err)
			}
			res, err := s.Run(ctx, steps, dt)
			if err != nil {
				return fmt.Errorf("run %d (seed %d): %w", i, seed, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
