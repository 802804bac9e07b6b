package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agbru/lanterncalc/internal/cli"
	apperrors "github.com/agbru/lanterncalc/internal/errors"
	"github.com/agbru/lanterncalc/internal/logging"
	"github.com/agbru/lanterncalc/internal/metrics"
	"github.com/agbru/lanterncalc/internal/orchestration"
	"github.com/agbru/lanterncalc/internal/population"
	"github.com/agbru/lanterncalc/internal/sysmon"
)

// runCalculate orchestrates the execution of the CLI calculation command.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	counters, err := a.readPopulation()
	if err != nil {
		a.logger.Debug("rejected population", logging.Err(err))
		return apperrors.HandleCalculationError(err, 0, out, cli.CLIColorProvider{})
	}

	// Setup lifecycle (timeout + signals)
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if a.Config.SharedMemo {
		if err := a.useSharedCache(); err != nil {
			a.logger.Error("configuring strategies", err)
			return apperrors.ExitErrorGeneric
		}
	}

	calculatorsToRun := orchestration.GetCalculatorsToRun(a.Config.Algo, a.Factory)
	report := !a.Config.Quiet && !a.Config.JSON
	if report {
		cli.PrintExecutionConfig(a.Config, counters, out)
		cli.PrintExecutionMode(calculatorsToRun, out)
	}

	var progressReporter orchestration.ProgressReporter = orchestration.NullProgressReporter{}
	progressOut := io.Discard
	if report {
		progressReporter = cli.CLIProgressReporter{}
		progressOut = out
	}

	collector := metrics.NewMemoryCollector()
	before := collector.Snapshot()
	start := time.Now()
	queries := orchestration.ExecuteQueries(ctx, calculatorsToRun, counters, a.Config.Days,
		progressReporter, progressOut, orchestration.WithObserver(a.recorder))
	memDelta := metrics.Delta(before, collector.Snapshot())

	a.logger.Debug("queries finished",
		logging.Int("queries", len(queries)),
		logging.Int("strategies", len(calculatorsToRun)),
		logging.Duration("elapsed", time.Since(start)))

	var exitCode int
	if report {
		exitCode = a.presentQueries(counters, queries, out)
	} else {
		exitCode = orchestration.ExitCode(queries)
	}

	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		JSON:       a.Config.JSON,
	}
	if err := cli.DisplayResultsWithConfig(counters, queries, outputCfg, out); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving results: %v\n", err)
		a.logger.Error("writing results", err, logging.String("output", a.Config.OutputFile))
		if exitCode == apperrors.ExitSuccess {
			exitCode = apperrors.ExitErrorGeneric
		}
	}

	if len(queries) < len(a.Config.Days) && exitCode == apperrors.ExitSuccess {
		exitCode = apperrors.ExitCodeFor(ctx.Err())
	}

	if a.Config.Verbose && report {
		a.displayDetails(memDelta, out)
	}
	return exitCode
}

// readPopulation parses the population from --input, --input-file or stdin.
func (a *Application) readPopulation() ([]population.Counter, error) {
	switch {
	case a.Config.InputFile != "":
		f, err := os.Open(a.Config.InputFile)
		if err != nil {
			return nil, apperrors.NewConfigError("cannot open input file: %v", err)
		}
		defer f.Close()
		return population.ReadCounters(f)
	case a.Config.Input == "-":
		return population.ReadCounters(a.In)
	default:
		return population.ParseCounters(a.Config.Input)
	}
}

// presentQueries prints the comparison table and result of every query and
// returns the first non-zero exit code.
func (a *Application) presentQueries(counters []population.Counter, queries []orchestration.QueryResults, out io.Writer) int {
	exitCode := apperrors.ExitSuccess
	presenter := cli.CLIResultPresenter{}
	for _, q := range queries {
		fmt.Fprintf(out, "\n=== %d days ===\n", q.Days)
		opts := orchestration.PresentationOptions{
			Days:           q.Days,
			PopulationSize: len(counters),
			Verbose:        a.Config.Verbose,
			Details:        a.Config.Details,
		}
		code := orchestration.AnalyzeComparisonResults(q.Results, opts, presenter, presenter, out)
		if exitCode == apperrors.ExitSuccess {
			exitCode = code
		}
	}
	return exitCode
}

// displayDetails prints the verbose report: memo, metrics, memory and host.
func (a *Application) displayDetails(memDelta metrics.MemoryDelta, out io.Writer) {
	details := cli.RunDetails{Memory: &memDelta}
	if a.cache != nil {
		stats := a.cache.MemoStats()
		a.recorder.ObserveMemo(stats)
		details.Memo = &stats
	}
	if summary, err := a.recorder.Summary(); err == nil {
		details.Metrics = &summary
	} else {
		a.logger.Error("reading metrics", err)
	}
	host := sysmon.Describe()
	load := sysmon.Sample()
	details.Host = &host
	details.Load = &load
	cli.DisplayDetails(details, out)
}
