// Package app wires configuration, strategies and the presentation layers
// together and runs lanterncalc in CLI, REPL, dashboard or server mode.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/lanterncalc/internal/cli"
	"github.com/agbru/lanterncalc/internal/config"
	apperrors "github.com/agbru/lanterncalc/internal/errors"
	"github.com/agbru/lanterncalc/internal/logging"
	"github.com/agbru/lanterncalc/internal/metrics"
	"github.com/agbru/lanterncalc/internal/orchestration"
	"github.com/agbru/lanterncalc/internal/population"
	"github.com/agbru/lanterncalc/internal/server"
	"github.com/agbru/lanterncalc/internal/tui"
	"github.com/agbru/lanterncalc/internal/ui"
)

// Application represents the lanterncalc application instance.
type Application struct {
	Config    config.AppConfig
	Factory   population.CalculatorFactory
	ErrWriter io.Writer
	// In feeds "--input -" and the REPL. It defaults to os.Stdin.
	In io.Reader

	logger   logging.Logger
	recorder *metrics.Recorder
	cache    *population.CachedRecursive
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets a custom CalculatorFactory for the application.
func WithFactory(f population.CalculatorFactory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// WithInput replaces os.Stdin.
func WithInput(r io.Reader) AppOption {
	return func(a *Application) { a.In = r }
}

// WithLogger replaces the console logger built from --log-level.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.logger = l }
}

// New creates a new Application instance by parsing command-line arguments.
// A dotenv file, when present, is loaded first so that its LANTERNCALC_*
// variables act as environment overrides.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, In: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}
	if app.Factory == nil {
		app.Factory = population.NewDefaultFactory()
	}

	programName := "lanterncalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	if _, err := config.LoadEnvFile(""); err != nil {
		fmt.Fprintln(errWriter, "Error:", err)
		return nil, apperrors.NewConfigError("%v", err)
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Factory.List())
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode and returns
// the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.NoColor)

	if a.logger == nil {
		logger, err := logging.NewConsoleLogger(a.ErrWriter, "lanterncalc", a.Config.LogLevel)
		if err != nil {
			fmt.Fprintln(a.ErrWriter, "Error:", err)
			return apperrors.ExitErrorConfig
		}
		a.logger = logger
	}
	a.recorder = metrics.NewRecorder()

	switch {
	case a.Config.ServeAddr != "":
		return a.runServer(ctx)
	case a.Config.Interactive:
		return a.runREPL(ctx, out)
	case a.Config.TUI:
		return a.runTUI(ctx, out)
	default:
		return a.runCalculate(ctx, out)
	}
}

// useSharedCache registers one persistent memo under "recursive" so that
// every query of the process reuses it.
func (a *Application) useSharedCache() error {
	if a.cache != nil {
		return nil
	}
	cache := population.NewCachedRecursive()
	if err := a.Factory.Register("recursive", func() population.Strategy { return cache }); err != nil {
		return err
	}
	a.cache = cache
	return nil
}

// runServer serves the HTTP API until a signal arrives.
func (a *Application) runServer(ctx context.Context) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if err := a.useSharedCache(); err != nil {
		a.logger.Error("configuring strategies", err)
		return apperrors.ExitErrorGeneric
	}
	srv := server.New(a.Config.ServeAddr, a.Factory,
		server.WithLogger(a.logger),
		server.WithCache(a.cache),
		server.WithMetrics(server.NewMetricsFromRecorder(a.recorder)),
		server.WithRequestTimeout(a.Config.Timeout),
	)
	if err := srv.Start(ctx); err != nil {
		a.logger.Error("server stopped", err, logging.String("addr", a.Config.ServeAddr))
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runREPL starts the interactive session over the configured population.
func (a *Application) runREPL(ctx context.Context, out io.Writer) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	var counters []population.Counter
	if a.Config.Input != "" && a.Config.Input != "-" {
		parsed, err := population.ParseCounters(a.Config.Input)
		if err != nil {
			return apperrors.HandleCalculationError(err, 0, out, cli.CLIColorProvider{})
		}
		counters = parsed
	}
	if err := a.useSharedCache(); err != nil {
		a.logger.Error("configuring strategies", err)
		return apperrors.ExitErrorGeneric
	}

	repl := cli.NewREPL(a.Factory, a.cache, cli.REPLConfig{
		DefaultAlgo: a.Config.Algo,
		Timeout:     a.Config.Timeout,
		Counters:    counters,
	})
	repl.SetInput(a.In)
	repl.SetOutput(out)
	repl.SetObserver(a.recorder)
	repl.Start(ctx)

	a.logger.Debug("repl session ended", logging.Int("memo_entries", a.cache.MemoStats().Entries))
	return apperrors.ExitSuccess
}

// runTUI runs every query inside the terminal dashboard. The timeout bounds
// each run of the queries, not the dashboard session.
func (a *Application) runTUI(ctx context.Context, out io.Writer) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	counters, err := a.readPopulation()
	if err != nil {
		return apperrors.HandleCalculationError(err, 0, out, cli.CLIColorProvider{})
	}
	if a.Config.SharedMemo {
		if err := a.useSharedCache(); err != nil {
			a.logger.Error("configuring strategies", err)
			return apperrors.ExitErrorGeneric
		}
	}

	calculatorsToRun := orchestration.GetCalculatorsToRun(a.Config.Algo, a.Factory)
	code := tui.Run(ctx, calculatorsToRun, counters, a.Config, a.recorder, Version, a.In, out)
	a.logger.Debug("dashboard closed", logging.Int("exit_code", code))
	return code
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
