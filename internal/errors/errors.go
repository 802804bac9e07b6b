package apperrors

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorMismatch = 3   // Indicates a result mismatch between strategies.
	ExitErrorConfig   = 4   // Indicates a configuration or input error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ParseError reports a population token that is not a valid non-negative
// integer. It is fatal to the whole query: tokens are never skipped.
type ParseError struct {
	// Token is the offending input token, whitespace-trimmed.
	Token string
	// Position is the zero-based index of the token in the input list.
	Position int
	// Cause is the underlying conversion error, if any.
	Cause error
}

// Error returns a formatted message describing the parse failure.
func (e ParseError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("invalid counter %q at position %d", e.Token, e.Position)
	}
	return fmt.Sprintf("invalid counter %q at position %d: %v", e.Token, e.Position, e.Cause)
}

// Unwrap returns the underlying conversion error.
func (e ParseError) Unwrap() error { return e.Cause }

// DomainError reports a value that parsed correctly but lies outside the
// domain the population model is defined on (counters in [0, 8], days >= 0).
type DomainError struct {
	// Field names the offending quantity ("counter", "days").
	Field string
	// Value is the rejected value.
	Value int64
	// Min and Max bound the accepted range, inclusive.
	Min int64
	Max int64
}

// Error returns a formatted message describing the domain violation.
func (e DomainError) Error() string {
	return fmt.Sprintf("%s %d outside domain [%d, %d]", e.Field, e.Value, e.Min, e.Max)
}

// OverflowError reports a population count that no longer fits in 64 bits.
type OverflowError struct {
	// Operation names the step that overflowed.
	Operation string
}

// Error returns a formatted message describing the overflow.
func (e OverflowError) Error() string {
	return fmt.Sprintf("population count overflowed 64 bits during %s", e.Operation)
}

// CalculationError encapsulates a calculation error while preserving the
// original cause. This allows for structured error handling and inspection
// of what went wrong during a population query.
type CalculationError struct {
	// Cause is the underlying error that triggered this calculation error.
	Cause error
}

// Error returns the error message from the underlying cause.
func (e CalculationError) Error() string { return e.Cause.Error() }

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e CalculationError) Unwrap() error { return e.Cause }

// TimeoutError represents a calculation timeout. It captures the operation
// name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// Unwrap lets errors.Is match context.DeadlineExceeded.
func (e TimeoutError) Unwrap() error { return context.DeadlineExceeded }

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsInputError reports whether err stems from bad user input: a malformed
// token, an out-of-domain value, or an invalid configuration.
func IsInputError(err error) bool {
	var (
		parseErr  ParseError
		domainErr DomainError
		configErr ConfigError
		validErr  ValidationError
	)
	return errors.As(err, &parseErr) || errors.As(err, &domainErr) ||
		errors.As(err, &configErr) || errors.As(err, &validErr)
}

// MismatchError reports strategies that disagreed on the same query.
type MismatchError struct {
	// Days is the day count of the query.
	Days int
	// Totals maps each strategy name to the population it returned.
	Totals map[string]uint64
}

// Error returns a formatted message listing the conflicting totals.
func (e MismatchError) Error() string {
	names := make([]string, 0, len(e.Totals))
	for name := range e.Totals {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, e.Totals[name])
	}
	return fmt.Sprintf("strategies disagree after %d days: %s", e.Days, strings.Join(parts, ", "))
}
