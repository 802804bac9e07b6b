//go:generate mockgen -source=calculator.go -destination=mocks/mock_calculator.go -package=mocks

package population

import (
	"context"

	"github.com/agbru/lanterncalc/internal/progress"
)

// Strategy is one way of computing the population size after a number of
// days. Implementations must be pure: the same counters and days always give
// the same result.
type Strategy interface {
	// Name returns a human-readable description of the strategy.
	Name() string
	// Compute returns the total population after days days. reporter may be
	// nil.
	Compute(ctx context.Context, reporter progress.ProgressCallback, counters []Counter, days int) (uint64, error)
}

// Calculator is the public face of a strategy used by the orchestration
// layer. Progress is delivered on a channel instead of a callback.
type Calculator interface {
	// Name returns a human-readable description of the calculator.
	Name() string
	// Calculate returns the total population after days days. Progress
	// updates are tagged with index and sent on progressChan, which may be
	// nil.
	Calculate(ctx context.Context, progressChan chan<- progress.ProgressUpdate, index int, counters []Counter, days int) (uint64, error)
}

// StrategyCalculator adapts a Strategy to the Calculator interface.
type StrategyCalculator struct {
	strategy Strategy
}

// NewCalculator wraps strategy as a Calculator.
func NewCalculator(strategy Strategy) Calculator {
	return &StrategyCalculator{strategy: strategy}
}

// Name returns the name of the wrapped strategy.
func (c *StrategyCalculator) Name() string {
	return c.strategy.Name()
}

// Calculate runs the wrapped strategy. Progress updates are sent without
// blocking: when progressChan is full the update is dropped, since a later
// one supersedes it. A final 1.0 update is attempted on success.
func (c *StrategyCalculator) Calculate(ctx context.Context, progressChan chan<- progress.ProgressUpdate, index int, counters []Counter, days int) (uint64, error) {
	var reporter progress.ProgressCallback
	if progressChan != nil {
		reporter = func(v float64) {
			select {
			case progressChan <- progress.ProgressUpdate{CalculatorIndex: index, Value: v}:
			default:
			}
		}
	}

	total, err := c.strategy.Compute(ctx, reporter, counters, days)
	if err != nil {
		return 0, err
	}
	progress.Report(reporter, 1.0)
	return total, nil
}
