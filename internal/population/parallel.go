package population

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/lanterncalc/internal/memo"
	"github.com/agbru/lanterncalc/internal/progress"
)

// ParallelRecursive implements Strategy by grouping the population by counter
// and counting the descendants of each distinct counter on its own goroutine.
// All goroutines share one memo.Shared table; its insert-if-absent semantics
// allow duplicate work but never divergent entries.
type ParallelRecursive struct{}

// Name returns the descriptive name of the strategy.
func (ParallelRecursive) Name() string {
	return "Parallel Recursive Count (shared memo)"
}

// Compute implements Strategy.
func (ParallelRecursive) Compute(ctx context.Context, reporter progress.ProgressCallback, counters []Counter, days int) (uint64, error) {
	if err := validateDays(days); err != nil {
		return 0, err
	}
	tally, err := NewSnapshot(counters)
	if err != nil {
		return 0, err
	}

	distinct := 0
	for _, n := range tally {
		if n > 0 {
			distinct++
		}
	}
	if distinct == 0 {
		return 0, nil
	}

	shared := memo.NewShared[MemoKey, uint64]()
	g, ctx := errgroup.WithContext(ctx)
	var partial Snapshot
	var done atomic.Int32

	for c, n := range tally {
		if n == 0 {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := NewRecursiveCounterWithStore(shared).descendants(Counter(c), days)
			if err != nil {
				return err
			}
			if partial[c], err = mulCount(n, d, "parallel group"); err != nil {
				return err
			}
			progress.Report(reporter, float64(done.Add(1))/float64(distinct))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return partial.Total()
}
