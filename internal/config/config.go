// Package config defines the application configuration and parses it from
// command-line flags and LANTERNCALC_* environment variables.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/lanterncalc/internal/errors"
)

const (
	// EnvPrefix is the prefix of every environment variable override.
	EnvPrefix = "LANTERNCALC_"

	// DefaultInput is the sample population used when no input is given.
	DefaultInput = "3,4,3,1,2"

	// DefaultTimeout bounds a whole CLI run.
	DefaultTimeout = time.Minute

	// MaxDays is the largest day count accepted by the CLI, the REPL and the
	// server. Any non-empty population overflows 64 bits well before it.
	MaxDays = 4096

	// AlgoAll selects every registered strategy.
	AlgoAll = "all"
)

// DayList is a flag.Value holding a comma-separated list of day counts.
type DayList []int

// String implements flag.Value.
func (d *DayList) String() string {
	if d == nil {
		return ""
	}
	parts := make([]string, len(*d))
	for i, v := range *d {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// Set implements flag.Value. It replaces the current list.
func (d *DayList) Set(value string) error {
	days, err := ParseDayList(value)
	if err != nil {
		return err
	}
	*d = days
	return nil
}

// ParseDayList parses "80,256" into a list of day counts.
func ParseDayList(value string) (DayList, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("day list must not be empty")
	}
	var days DayList
	for _, tok := range strings.Split(value, ",") {
		tok = strings.TrimSpace(tok)
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("invalid day count %q", tok)
		}
		days = append(days, n)
	}
	return days, nil
}

// AppConfig aggregates every setting of the application.
type AppConfig struct {
	// Input is the population as a comma-separated list of counters.
	// "-" means the first line of stdin.
	Input string
	// InputFile names a file whose first line holds the population.
	InputFile string
	// Days lists the day counts to query.
	Days DayList
	// Algo is a registered strategy name or "all".
	Algo string
	// Timeout bounds a whole CLI run.
	Timeout time.Duration
	// SharedMemo makes the recursive strategies reuse one memo cache
	// across all day counts of a run.
	SharedMemo bool

	Quiet      bool
	Verbose    bool
	Details    bool
	JSON       bool
	OutputFile string
	NoColor    bool
	LogLevel   string

	// Interactive starts the REPL.
	Interactive bool
	// ServeAddr starts the HTTP server on the given address when non-empty.
	ServeAddr string
	// TUI runs the queries inside the terminal dashboard.
	TUI bool
}

// Defaults returns the configuration used when no flag or variable is set.
func Defaults() AppConfig {
	return AppConfig{
		Input:    DefaultInput,
		Days:     DayList{80, 256},
		Algo:     AlgoAll,
		Timeout:  DefaultTimeout,
		LogLevel: "info",
	}
}

// ParseConfig parses args (without the program name) into an AppConfig.
//
// Priority is CLI flags, then LANTERNCALC_* environment variables, then the
// defaults. Flag syntax errors and flag.ErrHelp are returned as-is; semantic
// problems are returned as apperrors.ConfigError.
//
// Parameters:
//   - programName: The name shown in usage output.
//   - args: The command-line arguments.
//   - errWriter: Where usage and flag errors are written.
//   - availableAlgos: The registered strategy names, used for validation.
func ParseConfig(programName string, args []string, errWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	cfg := Defaults()

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	algoHelp := fmt.Sprintf("Strategy to use: %s or %s.", strings.Join(availableAlgos, ", "), AlgoAll)

	fs.StringVar(&cfg.Input, "input", cfg.Input, "Population as comma-separated counters, or \"-\" for stdin.")
	fs.StringVar(&cfg.Input, "i", cfg.Input, "Shorthand for --input.")
	fs.StringVar(&cfg.InputFile, "input-file", "", "Read the population from the first line of a file.")
	fs.Var(&cfg.Days, "days", "Comma-separated day counts to query.")
	fs.StringVar(&cfg.Algo, "algo", cfg.Algo, algoHelp)
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Maximum duration of the run.")
	fs.BoolVar(&cfg.SharedMemo, "shared-memo", false, "Reuse one memo cache across day counts.")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Print one line per day count and nothing else.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Show memo statistics and system information.")
	fs.BoolVar(&cfg.Verbose, "v", false, "Shorthand for --verbose.")
	fs.BoolVar(&cfg.Details, "details", false, "Show per-strategy timing details.")
	fs.BoolVar(&cfg.Details, "d", false, "Shorthand for --details.")
	fs.BoolVar(&cfg.JSON, "json", false, "Print results as JSON.")
	fs.StringVar(&cfg.OutputFile, "output", "", "Write the results to a file.")
	fs.StringVar(&cfg.OutputFile, "o", "", "Shorthand for --output.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error or disabled.")
	fs.BoolVar(&cfg.Interactive, "interactive", false, "Start the interactive REPL.")
	fs.StringVar(&cfg.ServeAddr, "serve", "", "Serve the HTTP API on the given address, e.g. :8080.")
	fs.BoolVar(&cfg.TUI, "tui", false, "Run the queries in the terminal dashboard.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&cfg, fs)

	// An input file replaces the default population unless --input was
	// given explicitly, in which case Validate rejects the combination.
	if cfg.InputFile != "" && !isFlagSetAny(fs, "input", "i") && cfg.Input == DefaultInput {
		cfg.Input = ""
	}

	if err := cfg.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errWriter, "Error:", err)
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks the semantic consistency of the configuration.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Input != "" && c.InputFile != "" {
		return apperrors.NewConfigError("--input and --input-file are mutually exclusive")
	}
	if c.Input == "" && c.InputFile == "" && !c.Interactive && c.ServeAddr == "" {
		return apperrors.NewConfigError("no population given: use --input or --input-file")
	}
	if len(c.Days) == 0 {
		return apperrors.NewConfigError("at least one day count is required")
	}
	for _, d := range c.Days {
		if d < 0 || d > MaxDays {
			return apperrors.NewConfigError("day count %d outside [0, %d]", d, MaxDays)
		}
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout)
	}
	algo := strings.ToLower(c.Algo)
	if algo != AlgoAll && !slices.Contains(availableAlgos, algo) {
		return apperrors.NewConfigError("unknown algorithm %q (available: %s, %s)", c.Algo, strings.Join(availableAlgos, ", "), AlgoAll)
	}
	if c.Interactive && c.ServeAddr != "" {
		return apperrors.NewConfigError("--interactive and --serve are mutually exclusive")
	}
	if c.Quiet && c.JSON {
		return apperrors.NewConfigError("--quiet and --json are mutually exclusive")
	}
	if c.TUI {
		conflicts := []struct {
			flag string
			set  bool
		}{
			{"--interactive", c.Interactive},
			{"--serve", c.ServeAddr != ""},
			{"--quiet", c.Quiet},
			{"--json", c.JSON},
		}
		for _, cf := range conflicts {
			if cf.set {
				return apperrors.NewConfigError("--tui and %s are mutually exclusive", cf.flag)
			}
		}
	}
	return nil
}
