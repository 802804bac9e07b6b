// Package logging provides a unified logging interface for lanterncalc.
// It abstracts the underlying logging implementation (zerolog by default),
// allowing consistent logging across the application and server layers while
// keeping the population core free of logging.
package logging
