package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/lanterncalc/internal/config"
	"github.com/agbru/lanterncalc/internal/population"
	"github.com/agbru/lanterncalc/internal/ui"
)

// maxEchoedCounters bounds how much of the population is echoed back.
const maxEchoedCounters = 20

// PrintExecutionConfig displays the population, the day counts, the timeout
// and the runtime environment.
//
// Parameters:
//   - cfg: The application configuration.
//   - counters: The parsed population.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, counters []population.Counter, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Population of %s%d%s lanternfish: %s\n",
		ui.ColorMagenta(), len(counters), ui.ColorReset(), echoCounters(counters))
	fmt.Fprintf(out, "Simulating %s%s%s days with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), cfg.Days.String(), ui.ColorReset(), ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	memoMode := "per query"
	if cfg.SharedMemo {
		memoMode = "shared across queries"
	}
	fmt.Fprintf(out, "Memo cache: %s%s%s.\n", ui.ColorCyan(), memoMode, ui.ColorReset())
}

func echoCounters(counters []population.Counter) string {
	if len(counters) <= maxEchoedCounters {
		return population.FormatCounters(counters)
	}
	return population.FormatCounters(counters[:maxEchoedCounters]) + ",..."
}

// PrintExecutionMode displays whether one strategy runs or all of them are
// compared.
//
// Parameters:
//   - calculators: The calculators that will be executed.
//   - out: The writer for standard output.
func PrintExecutionMode(calculators []population.Calculator, out io.Writer) {
	var modeDesc string
	switch len(calculators) {
	case 0:
		modeDesc = "No strategy selected"
	case 1:
		modeDesc = fmt.Sprintf("Single calculation with the %s%s%s strategy",
			ui.ColorGreen(), calculators[0].Name(), ui.ColorReset())
	default:
		modeDesc = fmt.Sprintf("Parallel comparison of %d strategies", len(calculators))
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
