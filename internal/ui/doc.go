// Package ui provides theme and color support for terminal output.
// It defines ANSI color schemes, the Color* accessors used by the CLI and
// the REPL, and lipgloss styles for boxed panels. NO_COLOR and --no-color
// disable every escape code.
package ui
