package population

import (
	"context"
	"sync"

	apperrors "github.com/agbru/lanterncalc/internal/errors"
	"github.com/agbru/lanterncalc/internal/memo"
	"github.com/agbru/lanterncalc/internal/progress"
)

// MemoKey identifies one descendants sub-problem.
type MemoKey struct {
	Counter Counter
	Days    int
}

// MemoStore is the memo table used by RecursiveCounter.
type MemoStore = memo.Store[MemoKey, uint64]

// RecursiveCounter counts descendants in closed form. It memoizes the
// sub-results for newborns, which all start at NewbornCounter, so entries are
// reusable across every individual counted with the same store.
//
// A RecursiveCounter is as safe for concurrent use as its store.
type RecursiveCounter struct {
	memo MemoStore
}

// NewRecursiveCounter returns a counter with a fresh single-threaded memo
// table.
func NewRecursiveCounter() *RecursiveCounter {
	return &RecursiveCounter{memo: memo.NewMap[MemoKey, uint64]()}
}

// NewRecursiveCounterWithStore returns a counter that memoizes into store.
// Sharing a store across counters or queries is valid because entries depend
// only on the key.
func NewRecursiveCounterWithStore(store MemoStore) *RecursiveCounter {
	return &RecursiveCounter{memo: store}
}

// MemoStats returns the statistics of the underlying memo table.
func (r *RecursiveCounter) MemoStats() memo.Stats {
	return r.memo.Stats()
}

// Descendants returns the number of individuals alive after days days when
// starting from one individual with the given counter, the individual itself
// included.
func (r *RecursiveCounter) Descendants(counter Counter, days int) (uint64, error) {
	if err := counter.Validate(); err != nil {
		return 0, err
	}
	if err := validateDays(days); err != nil {
		return 0, err
	}
	return r.descendants(counter, days)
}

// overflowHorizon is the first day count at which the descendants of a single
// newborn no longer fit in 64 bits. An individual with a lower counter has at
// least as many descendants, so every query at or past the horizon overflows.
// Bounding days by it also bounds the recursion depth.
var overflowHorizon = sync.OnceValue(func() int {
	var s Snapshot
	s[NewbornCounter] = 1
	for day := 0; ; day++ {
		if _, err := s.Total(); err != nil {
			return day
		}
		next, err := Step(s)
		if err != nil {
			return day + 1
		}
		s = next
	}
})

// descendants assumes validated input.
//
// The individual first spawns on day counter+1 and then every SpawnInterval
// days; child i is created on day SpawnInterval*i + counter + 1 with counter
// NewbornCounter.
func (r *RecursiveCounter) descendants(counter Counter, days int) (uint64, error) {
	c := int(counter)
	if days <= c {
		return 1, nil
	}
	if days >= overflowHorizon() {
		return 0, apperrors.OverflowError{Operation: "descendants"}
	}

	numChildren := (days-c-1)/SpawnInterval + 1
	total := uint64(1)
	for i := 0; i < numChildren; i++ {
		creationDay := SpawnInterval*i + c + 1
		n, err := r.newborn(max(0, days-creationDay))
		if err != nil {
			return 0, err
		}
		if total, err = addCount(total, n, "descendants"); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// newborn returns descendants(NewbornCounter, remaining) through the memo
// table. Results for remaining <= NewbornCounter are the base case and are
// not stored.
func (r *RecursiveCounter) newborn(remaining int) (uint64, error) {
	key := MemoKey{Counter: NewbornCounter, Days: remaining}
	if n, ok := r.memo.Load(key); ok {
		return n, nil
	}
	n, err := r.descendants(NewbornCounter, remaining)
	if err != nil {
		return 0, err
	}
	if remaining > int(NewbornCounter) {
		n, _ = r.memo.LoadOrStore(key, n)
	}
	return n, nil
}

// Total returns the population size after days days, summing Descendants
// over every individual. All counters are validated before any work starts.
func (r *RecursiveCounter) Total(counters []Counter, days int) (uint64, error) {
	return r.total(context.Background(), nil, counters, days)
}

func (r *RecursiveCounter) total(ctx context.Context, reporter progress.ProgressCallback, counters []Counter, days int) (uint64, error) {
	if err := ValidateCounters(counters); err != nil {
		return 0, err
	}
	if err := validateDays(days); err != nil {
		return 0, err
	}

	var total uint64
	for i, c := range counters {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		n, err := r.descendants(c, days)
		if err != nil {
			return 0, err
		}
		if total, err = addCount(total, n, "population total"); err != nil {
			return 0, err
		}
		progress.ReportDayProgress(reporter, i+1, len(counters))
	}
	return total, nil
}

// RecursiveStrategy implements Strategy with a RecursiveCounter. Each
// Compute call uses its own memo table, scoped to that query.
type RecursiveStrategy struct{}

// Name returns the descriptive name of the strategy.
func (RecursiveStrategy) Name() string {
	return "Recursive Count (closed form, memoized)"
}

// Compute implements Strategy. The context is checked once per individual;
// each individual costs at most overflowHorizon days of work.
func (RecursiveStrategy) Compute(ctx context.Context, reporter progress.ProgressCallback, counters []Counter, days int) (uint64, error) {
	return NewRecursiveCounter().total(ctx, reporter, counters, days)
}
