// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strings"
	"time"
)

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// This is useful for aliased flags where either the short or long form may be used.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the LANTERNCALC_ prefix) to the CLI
// flag name(s) it corresponds to and a function that applies the env value.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

// envOverrides is the declarative table of all environment variable overrides.
// Unparseable values are ignored and the current value is kept.
var envOverrides = []envOverride{
	// List and duration overrides
	{"DAYS", []string{"days"}, func(c *AppConfig, v string) {
		if parsed, err := ParseDayList(v); err == nil {
			c.Days = parsed
		}
	}},
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Timeout = parsed
		}
	}},

	// String overrides
	{"INPUT", []string{"input", "i"}, func(c *AppConfig, v string) {
		c.Input = v
	}},
	{"INPUT_FILE", []string{"input-file"}, func(c *AppConfig, v string) {
		c.InputFile = v
	}},
	{"ALGO", []string{"algo"}, func(c *AppConfig, v string) {
		c.Algo = v
	}},
	{"OUTPUT", []string{"output", "o"}, func(c *AppConfig, v string) {
		c.OutputFile = v
	}},
	{"LOG_LEVEL", []string{"log-level"}, func(c *AppConfig, v string) {
		c.LogLevel = v
	}},
	{"SERVE", []string{"serve"}, func(c *AppConfig, v string) {
		c.ServeAddr = v
	}},

	// Boolean overrides
	{"VERBOSE", []string{"v", "verbose"}, func(c *AppConfig, v string) {
		c.Verbose = parseBoolEnv(v, c.Verbose)
	}},
	{"DETAILS", []string{"d", "details"}, func(c *AppConfig, v string) {
		c.Details = parseBoolEnv(v, c.Details)
	}},
	{"QUIET", []string{"quiet", "q"}, func(c *AppConfig, v string) {
		c.Quiet = parseBoolEnv(v, c.Quiet)
	}},
	{"JSON", []string{"json"}, func(c *AppConfig, v string) {
		c.JSON = parseBoolEnv(v, c.JSON)
	}},
	{"SHARED_MEMO", []string{"shared-memo"}, func(c *AppConfig, v string) {
		c.SharedMemo = parseBoolEnv(v, c.SharedMemo)
	}},
	{"INTERACTIVE", []string{"interactive"}, func(c *AppConfig, v string) {
		c.Interactive = parseBoolEnv(v, c.Interactive)
	}},
	{"TUI", []string{"tui"}, func(c *AppConfig, v string) {
		c.TUI = parseBoolEnv(v, c.TUI)
	}},
	{"NO_COLOR", []string{"no-color"}, func(c *AppConfig, v string) {
		c.NoColor = parseBoolEnv(v, c.NoColor)
	}},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
//
// Supported environment variables (all prefixed with LANTERNCALC_):
//   - INPUT, INPUT_FILE, DAYS, ALGO, TIMEOUT, OUTPUT, LOG_LEVEL, SERVE,
//     VERBOSE, DETAILS, QUIET, JSON, SHARED_MEMO, INTERACTIVE, NO_COLOR
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
		}
	}
}
