package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/lanterncalc/internal/progress"
)

// CalculationResult is the outcome of one strategy for one query. It is the
// shared domain type between orchestration and presentation.
type CalculationResult struct {
	// Name is the descriptive name of the strategy.
	Name string
	// Days is the day count of the query.
	Days int
	// Total is the population after Days days. It is zero when Err is set.
	Total uint64
	// Duration is the time the strategy took.
	Duration time.Duration
	// Err is the failure, if any.
	Err error
}

// PresentationOptions configures how results are presented.
type PresentationOptions struct {
	Days           int
	PopulationSize int
	Verbose        bool
	Details        bool
}

// ProgressReporter displays calculation progress.
//
// DisplayProgress is started on its own goroutine before the calculators run
// and must drain progressChan until it is closed, then call wg.Done.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer)
}

// ProgressReporterFunc adapts a function to ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer)

// DisplayProgress calls f.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer) {
	f(wg, progressChan, numCalculators, out)
}

// NullProgressReporter drains the progress channel without output. It is
// used in quiet, JSON and server modes.
type NullProgressReporter struct{}

// DisplayProgress drains the channel.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter renders results.
type ResultPresenter interface {
	// PresentComparisonTable displays one row per strategy.
	PresentComparisonTable(results []CalculationResult, out io.Writer)
	// PresentResult displays the agreed population.
	PresentResult(result CalculationResult, opts PresentationOptions, out io.Writer)
}

// ErrorHandler reports a failure and returns the exit code for it.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}

// ResultObserver is notified of every finished strategy run.
// *metrics.Recorder satisfies it.
type ResultObserver interface {
	ObserveCalculation(algorithm string, d time.Duration, total uint64, err error)
}
