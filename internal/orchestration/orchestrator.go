package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/lanterncalc/internal/errors"
	"github.com/agbru/lanterncalc/internal/population"
	"github.com/agbru/lanterncalc/internal/progress"
)

// ProgressBufferMultiplier sizes the progress channel per calculator so
// that a slow display rarely forces updates to be dropped.
const ProgressBufferMultiplier = 5

const tracerName = "github.com/agbru/lanterncalc/internal/orchestration"

// Option customizes ExecuteCalculations.
type Option func(*options)

type options struct {
	observer ResultObserver
	tracer   trace.Tracer
}

// WithObserver reports every finished strategy run to o.
func WithObserver(o ResultObserver) Option {
	return func(opts *options) { opts.observer = o }
}

// WithTracerProvider traces queries with tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(opts *options) { opts.tracer = tp.Tracer(tracerName) }
}

func newOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	return o
}

// ExecuteCalculations runs every calculator on the same query concurrently
// and returns one result per calculator, in the order given.
//
// A failing calculator does not cancel the others: each result carries its
// own error. Errors other than context cancellation are wrapped in
// apperrors.CalculationError.
//
// Parameters:
//   - ctx: Cancellation and deadline for the whole query.
//   - calculators: The strategies to run.
//   - counters: The initial population.
//   - days: The number of days to simulate.
//   - progressReporter: Displays progress; use NullProgressReporter for none.
//   - out: The writer handed to the progress reporter.
func ExecuteCalculations(ctx context.Context, calculators []population.Calculator, counters []population.Counter, days int, progressReporter ProgressReporter, out io.Writer, opts ...Option) []CalculationResult {
	o := newOptions(opts)
	ctx, span := o.tracer.Start(ctx, "population.query", trace.WithAttributes(
		attribute.Int("lanterncalc.days", days),
		attribute.Int("lanterncalc.population_size", len(counters)),
		attribute.Int("lanterncalc.calculators", len(calculators)),
	))
	defer span.End()

	g, ctx := errgroup.WithContext(ctx)
	results := make([]CalculationResult, len(calculators))
	progressChan := make(chan progress.ProgressUpdate, len(calculators)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(calculators), out)

	for i, calc := range calculators {
		g.Go(func() error {
			name := calc.Name()
			cctx, cspan := o.tracer.Start(ctx, "population.calculate",
				trace.WithAttributes(attribute.String("lanterncalc.algorithm", name)))
			defer cspan.End()

			start := time.Now()
			total, err := calc.Calculate(cctx, progressChan, i, counters, days)
			elapsed := time.Since(start)

			if err != nil {
				if !apperrors.IsContextError(err) {
					err = apperrors.CalculationError{Cause: err}
				}
				cspan.RecordError(err)
				cspan.SetStatus(codes.Error, err.Error())
				total = 0
			} else {
				cspan.SetAttributes(attribute.String("lanterncalc.total", strconv.FormatUint(total, 10)))
			}

			results[i] = CalculationResult{Name: name, Days: days, Total: total, Duration: elapsed, Err: err}
			if o.observer != nil {
				o.observer.ObserveCalculation(name, elapsed, total, err)
			}
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	if _, err := Consensus(results); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return results
}

// QueryResults groups the results of one day count.
type QueryResults struct {
	Days    int
	Results []CalculationResult
}

// ExecuteQueries runs ExecuteCalculations once per day count, in order. It
// stops early when ctx is done; the interrupted query is still returned.
func ExecuteQueries(ctx context.Context, calculators []population.Calculator, counters []population.Counter, days []int, progressReporter ProgressReporter, out io.Writer, opts ...Option) []QueryResults {
	queries := make([]QueryResults, 0, len(days))
	for _, d := range days {
		results := ExecuteCalculations(ctx, calculators, counters, d, progressReporter, out, opts...)
		queries = append(queries, QueryResults{Days: d, Results: results})
		if ctx.Err() != nil {
			break
		}
	}
	return queries
}

// ExitCode returns the exit code of the first query whose strategies failed
// or disagreed, or apperrors.ExitSuccess.
func ExitCode(queries []QueryResults) int {
	for _, q := range queries {
		if _, err := Consensus(q.Results); err != nil {
			return apperrors.ExitCodeFor(err)
		}
	}
	return apperrors.ExitSuccess
}

// Consensus returns the fastest successful result after checking that every
// successful result agrees on the total. It returns the first error when no
// strategy succeeded, and an apperrors.MismatchError when they disagree.
func Consensus(results []CalculationResult) (CalculationResult, error) {
	var best *CalculationResult
	var firstErr error
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			if firstErr == nil {
				firstErr = r.Err
			}
			continue
		}
		if best == nil || r.Duration < best.Duration {
			best = r
		}
	}
	if best == nil {
		if firstErr == nil {
			firstErr = apperrors.NewConfigError("no calculator selected")
		}
		return CalculationResult{}, firstErr
	}

	for _, r := range results {
		if r.Err == nil && r.Total != best.Total {
			totals := make(map[string]uint64)
			for _, rr := range results {
				if rr.Err == nil {
					totals[rr.Name] = rr.Total
				}
			}
			return CalculationResult{}, apperrors.MismatchError{Days: best.Days, Totals: totals}
		}
	}
	return *best, nil
}

// AnalyzeComparisonResults sorts the results (successes first, then by
// duration), presents the comparison table and the agreed result, and
// returns the exit code.
//
// Parameters:
//   - results: The results of one query.
//   - opts: Presentation settings.
//   - presenter: Renders the table and the result.
//   - errHandler: Renders the failure when no strategy succeeded.
//   - out: The output writer.
func AnalyzeComparisonResults(results []CalculationResult, opts PresentationOptions, presenter ResultPresenter, errHandler ErrorHandler, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	presenter.PresentComparisonTable(results, out)

	best, err := Consensus(results)
	if err != nil {
		var mismatch apperrors.MismatchError
		if errors.As(err, &mismatch) {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! The strategies disagree: %v\n", err)
			return apperrors.ExitErrorMismatch
		}
		fmt.Fprintf(out, "\nGlobal Status: Failure. No strategy could complete the query.\n")
		return errHandler.HandleError(err, 0, out)
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	presenter.PresentResult(best, opts, out)
	return apperrors.ExitSuccess
}
