package population

import (
	"context"

	"github.com/agbru/lanterncalc/internal/memo"
	"github.com/agbru/lanterncalc/internal/progress"
)

// CachedRecursive implements Strategy with a RecursiveCounter whose memo
// table outlives a single query. Later queries reuse every newborn entry
// computed by earlier ones, whatever their population.
//
// It is safe for concurrent use when built with a concurrent store, which
// NewCachedRecursive does.
type CachedRecursive struct {
	counter *RecursiveCounter
}

// NewCachedRecursive returns a CachedRecursive backed by a fresh
// memo.Shared table.
func NewCachedRecursive() *CachedRecursive {
	return &CachedRecursive{
		counter: NewRecursiveCounterWithStore(memo.NewShared[MemoKey, uint64]()),
	}
}

// Name returns the descriptive name of the strategy.
func (*CachedRecursive) Name() string {
	return "Recursive Count (persistent memo)"
}

// Compute implements Strategy.
func (s *CachedRecursive) Compute(ctx context.Context, reporter progress.ProgressCallback, counters []Counter, days int) (uint64, error) {
	return s.counter.total(ctx, reporter, counters, days)
}

// Counter exposes the underlying counter, e.g. for single-individual
// queries.
func (s *CachedRecursive) Counter() *RecursiveCounter {
	return s.counter
}

// MemoStats returns the statistics of the persistent memo table.
func (s *CachedRecursive) MemoStats() memo.Stats {
	return s.counter.MemoStats()
}
