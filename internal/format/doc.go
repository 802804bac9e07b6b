// Package format holds the formatting helpers shared by the CLI, the REPL
// and the server: durations, ETAs, population counts, byte sizes and text
// progress bars.
package format
