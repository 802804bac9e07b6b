// Package cli is the terminal presentation layer: the execution banner, the
// spinner and progress bar, the comparison table, quiet/JSON/file output,
// the verbose details report and the interactive REPL.
package cli
