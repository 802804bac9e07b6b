//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/lanterncalc/internal/format"
	"github.com/agbru/lanterncalc/internal/orchestration"
	"github.com/agbru/lanterncalc/internal/progress"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner abstracts a terminal spinner so that DisplayProgress can be
// tested without a real terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts *spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

// UpdateSuffix takes the spinner's lock since the animation goroutine reads
// the suffix concurrently.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress shows a spinner with an aggregated progress bar and ETA
// until progressChan is closed. It must run on its own goroutine and calls
// wg.Done when it returns.
//
// Parameters:
//   - wg: Signalled when the display has finished.
//   - progressChan: The updates sent by the running calculators.
//   - numCalculators: How many calculators report on progressChan.
//   - out: Where the spinner is drawn.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numCalculators)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	s.UpdateSuffix(" " + progressSuffix(agg.IsMultiCalculator(), 0, 0))
	s.Start()
	defer func() {
		s.Stop()
		avg := agg.CalculateAverage()
		fmt.Fprintf(out, "%s: [%s] %5.1f%%\n", progressLabel(agg.IsMultiCalculator()), format.ProgressBar(avg, ProgressBarWidth), avg*100)
	}()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				return
			}
			agg.Update(update)
		case <-ticker.C:
			s.UpdateSuffix(" " + progressSuffix(agg.IsMultiCalculator(), agg.CalculateAverage(), agg.GetETA()))
		}
	}
}

func progressLabel(multi bool) string {
	if multi {
		return "Average progress"
	}
	return "Simulating"
}

func progressSuffix(multi bool, avg float64, eta time.Duration) string {
	return fmt.Sprintf("%s: %s", progressLabel(multi), format.FormatProgressBarWithETA(avg, eta, ProgressBarWidth))
}
