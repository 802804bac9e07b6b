package population

import (
	"context"

	"github.com/agbru/lanterncalc/internal/progress"
)

// Simulate advances s by exactly days days and returns the resulting
// snapshot. days must be non-negative.
func Simulate(s Snapshot, days int) (Snapshot, error) {
	if err := validateDays(days); err != nil {
		return Snapshot{}, err
	}
	var err error
	for day := 0; day < days; day++ {
		if s, err = Step(s); err != nil {
			return Snapshot{}, err
		}
	}
	return s, nil
}

// Growth returns the population total for every day from 0 to days,
// starting from s. When a total stops fitting in 64 bits the series ends at
// the last representable day and the OverflowError is returned with it.
func Growth(s Snapshot, days int) ([]uint64, error) {
	if err := validateDays(days); err != nil {
		return nil, err
	}
	series := make([]uint64, 0, min(days, overflowHorizon())+1)
	for day := 0; ; day++ {
		total, err := s.Total()
		if err != nil {
			return series, err
		}
		series = append(series, total)
		if day == days {
			return series, nil
		}
		if s, err = Step(s); err != nil {
			return series, err
		}
	}
}

// TotalAfter returns the population size after days days for the given
// initial counters, using the bucket simulation.
func TotalAfter(counters []Counter, days int) (uint64, error) {
	return BucketSimulator{}.Compute(context.Background(), nil, counters, days)
}

// BucketSimulator implements Strategy by simulating nine per-counter buckets
// one day at a time. It runs in O(days) regardless of the population size.
type BucketSimulator struct{}

// Name returns the descriptive name of the strategy.
func (BucketSimulator) Name() string {
	return "Bucket Simulation (O(days), 9 buckets)"
}

// Compute implements Strategy. The context is checked once per simulated day.
func (BucketSimulator) Compute(ctx context.Context, reporter progress.ProgressCallback, counters []Counter, days int) (uint64, error) {
	if err := validateDays(days); err != nil {
		return 0, err
	}
	s, err := NewSnapshot(counters)
	if err != nil {
		return 0, err
	}
	for day := 1; day <= days; day++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if s, err = Step(s); err != nil {
			return 0, err
		}
		progress.ReportDayProgress(reporter, day, days)
	}
	return s.Total()
}
