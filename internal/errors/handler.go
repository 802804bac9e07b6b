package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the escape sequences used when reporting errors.
// A nil ColorProvider disables coloring.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

type noColors struct{}

func (noColors) Red() string    { return "" }
func (noColors) Yellow() string { return "" }
func (noColors) Reset() string  { return "" }

// ExitCodeFor maps an error to the process exit code the CLI should use.
func ExitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case IsInputError(err):
		return ExitErrorConfig
	case errors.As(err, new(MismatchError)):
		return ExitErrorMismatch
	default:
		return ExitErrorGeneric
	}
}

// HandleCalculationError writes a user-facing description of err to out and
// returns the matching exit code. A nil error yields ExitSuccess and writes
// nothing.
//
// Parameters:
//   - err: The error returned by a calculation.
//   - duration: Time spent before the failure; zero omits it from the message.
//   - out: The writer for the message.
//   - colors: Escape sequences for emphasis, or nil for plain text.
//
// Returns:
//   - int: The exit code for the failure.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = noColors{}
	}

	suffix := ""
	if duration > 0 {
		suffix = fmt.Sprintf(" after %s", duration)
	}

	code := ExitCodeFor(err)
	var overflowErr OverflowError
	switch {
	case code == ExitErrorTimeout:
		fmt.Fprintf(out, "%sStatus: Failure (Timeout). The calculation did not finish in time%s.%s\n",
			colors.Red(), suffix, colors.Reset())
	case code == ExitErrorCanceled:
		fmt.Fprintf(out, "%sStatus: Canceled%s.%s\n", colors.Yellow(), suffix, colors.Reset())
	case code == ExitErrorMismatch:
		fmt.Fprintf(out, "%sStatus: CRITICAL ERROR! %v%s\n", colors.Red(), err, colors.Reset())
	case code == ExitErrorConfig:
		fmt.Fprintf(out, "%sStatus: Invalid input. %v%s\n", colors.Red(), err, colors.Reset())
	case errors.As(err, &overflowErr):
		fmt.Fprintf(out, "%sStatus: Failure. %v; reduce the number of days.%s\n",
			colors.Red(), err, colors.Reset())
	default:
		fmt.Fprintf(out, "%sStatus: Failure. Unexpected error%s: %v%s\n",
			colors.Red(), suffix, err, colors.Reset())
	}
	return code
}
