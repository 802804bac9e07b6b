package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	apperrors "github.com/agbru/lanterncalc/internal/errors"
	"github.com/agbru/lanterncalc/internal/format"
	"github.com/agbru/lanterncalc/internal/orchestration"
	"github.com/agbru/lanterncalc/internal/progress"
	"github.com/agbru/lanterncalc/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter with the
// spinner and progress bar of DisplayProgress.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar for ongoing calculations.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer) {
	DisplayProgress(wg, progressChan, numCalculators, out)
}

// CLIColorProvider supplies the active theme's colors to apperrors.
type CLIColorProvider struct{}

var _ apperrors.ColorProvider = CLIColorProvider{}

func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }

// CLIResultPresenter implements orchestration.ResultPresenter and
// orchestration.ErrorHandler with colorized terminal output.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter = CLIResultPresenter{}
	_ orchestration.ErrorHandler    = CLIResultPresenter{}
)

// PresentComparisonTable displays one row per strategy with its duration,
// total and status. Padding is computed on the raw text so ANSI codes do
// not break the alignment.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.CalculationResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	nameW, durW, totalW := len("Strategy"), len("Duration"), len("Population")
	for _, res := range results {
		nameW = max(nameW, len(res.Name))
		durW = max(durW, len(displayDuration(res.Duration)))
		if res.Err == nil {
			totalW = max(totalW, len(format.FormatCount(res.Total)))
		}
	}

	fmt.Fprintf(out, "%sStrategy%s%s   %sDuration%s%s   %sPopulation%s%s   %sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", nameW-len("Strategy")),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", durW-len("Duration")),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", totalW-len("Population")),
		ui.ColorUnderline(), ui.ColorReset())

	for _, res := range results {
		duration := displayDuration(res.Duration)
		total := "-"
		status := fmt.Sprintf("%sSuccess%s", ui.ColorGreen(), ui.ColorReset())
		if res.Err != nil {
			status = fmt.Sprintf("%sFailure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
		} else {
			total = format.FormatCount(res.Total)
		}
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s%s%s%s   %s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(), padRight("", nameW-len(res.Name)),
			ui.ColorYellow(), duration, ui.ColorReset(), padRight("", durW-len(duration)),
			ui.ColorCyan(), total, ui.ColorReset(), padRight("", totalW-len(total)),
			status)
	}
}

// PresentResult displays the agreed population of one query.
func (CLIResultPresenter) PresentResult(result orchestration.CalculationResult, opts orchestration.PresentationOptions, out io.Writer) {
	DisplayResult(result, opts, out)
}

// HandleError reports err with the theme colors and returns its exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleCalculationError(err, duration, out, CLIColorProvider{})
}

func displayDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

// padRight appends length spaces to s.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}
