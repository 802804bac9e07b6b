// Package apperrors provides tests for application error types.
package apperrors

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"
)

func TestConfigError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		err         error
		expected    string
		checkTypeAs bool
	}{
		{
			name:     "Error returns message",
			err:      ConfigError{Message: "invalid flag value"},
			expected: "invalid flag value",
		},
		{
			name:     "NewConfigError creates formatted error",
			err:      NewConfigError("invalid value %d for flag %s", 42, "--days"),
			expected: "invalid value 42 for flag --days",
		},
		{
			name:        "ConfigError type assertion",
			err:         NewConfigError("test error"),
			expected:    "test error",
			checkTypeAs: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
			if tt.checkTypeAs {
				var configErr ConfigError
				if !errors.As(tt.err, &configErr) {
					t.Error("expected error to be ConfigError type")
				}
			}
		})
	}
}

func TestCalculationError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		cause       error
		expectedMsg string
		checkIs     error
		checkUnwrap bool
	}{
		{
			name:        "Error returns cause message",
			cause:       errors.New("bucket overflow"),
			expectedMsg: "bucket overflow",
		},
		{
			name:        "Unwrap returns cause",
			cause:       errors.New("original error"),
			expectedMsg: "original error",
			checkUnwrap: true,
		},
		{
			name:        "errors.Is works with wrapped error",
			cause:       context.Canceled,
			expectedMsg: "context canceled",
			checkIs:     context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := CalculationError{Cause: tt.cause}

			if err.Error() != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, err.Error())
			}

			if tt.checkUnwrap && err.Unwrap() != tt.cause {
				t.Error("Unwrap should return the original cause")
			}

			if tt.checkIs != nil && !errors.Is(err, tt.checkIs) {
				t.Errorf("errors.Is should find %v in the chain", tt.checkIs)
			}
		})
	}
}

func TestTimeoutError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		err         TimeoutError
		expected    string
		checkTypeAs bool
	}{
		{
			name:     "Error returns formatted message",
			err:      TimeoutError{Operation: "bucket", Limit: 30 * time.Second},
			expected: `operation "bucket" timed out after 30s`,
		},
		{
			name:     "Error with subsecond limit",
			err:      TimeoutError{Operation: "recursive", Limit: 500 * time.Millisecond},
			expected: `operation "recursive" timed out after 500ms`,
		},
		{
			name:        "errors.As works with TimeoutError",
			err:         TimeoutError{Operation: "parallel", Limit: 10 * time.Second},
			expected:    `operation "parallel" timed out after 10s`,
			checkTypeAs: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var err error = tt.err
			if err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, err.Error())
			}
			if tt.checkTypeAs {
				var timeoutErr TimeoutError
				if !errors.As(err, &timeoutErr) {
					t.Error("expected error to be TimeoutError type")
				}
				if timeoutErr.Operation != tt.err.Operation {
					t.Errorf("expected Operation %q, got %q", tt.err.Operation, timeoutErr.Operation)
				}
				if timeoutErr.Limit != tt.err.Limit {
					t.Errorf("expected Limit %v, got %v", tt.err.Limit, timeoutErr.Limit)
				}
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		err         ValidationError
		expected    string
		checkTypeAs bool
	}{
		{
			name:     "Error returns formatted message",
			err:      ValidationError{Field: "days", Message: "must be non-negative"},
			expected: `validation error for "days": must be non-negative`,
		},
		{
			name:     "Error with different field",
			err:      ValidationError{Field: "input", Message: "must not be empty"},
			expected: `validation error for "input": must not be empty`,
		},
		{
			name:        "errors.As works with ValidationError",
			err:         ValidationError{Field: "algorithm", Message: "unknown algorithm"},
			expected:    `validation error for "algorithm": unknown algorithm`,
			checkTypeAs: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var err error = tt.err
			if err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, err.Error())
			}
			if tt.checkTypeAs {
				var validationErr ValidationError
				if !errors.As(err, &validationErr) {
					t.Error("expected error to be ValidationError type")
				}
				if validationErr.Field != tt.err.Field {
					t.Errorf("expected Field %q, got %q", tt.err.Field, validationErr.Field)
				}
				if validationErr.Message != tt.err.Message {
					t.Errorf("expected Message %q, got %q", tt.err.Message, validationErr.Message)
				}
			}
		})
	}
}

func TestParseError(t *testing.T) {
	t.Parallel()
	cause := strconv.ErrSyntax
	tests := []struct {
		name     string
		err      ParseError
		expected string
	}{
		{
			name:     "Error with cause",
			err:      ParseError{Token: "x", Position: 2, Cause: cause},
			expected: `invalid counter "x" at position 2: invalid syntax`,
		},
		{
			name:     "Error without cause",
			err:      ParseError{Token: "", Position: 0},
			expected: `invalid counter "" at position 0`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
			if tt.err.Cause != nil && !errors.Is(tt.err, cause) {
				t.Error("errors.Is should find the conversion cause")
			}
		})
	}
}

func TestDomainError(t *testing.T) {
	t.Parallel()
	err := DomainError{Field: "counter", Value: 9, Min: 0, Max: 8}
	expected := "counter 9 outside domain [0, 8]"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestOverflowError(t *testing.T) {
	t.Parallel()
	err := OverflowError{Operation: "bucket step"}
	expected := "population count overflowed 64 bits during bucket step"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestIsInputError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"ParseError", ParseError{Token: "a"}, true},
		{"DomainError", DomainError{Field: "counter", Value: 9, Max: 8}, true},
		{"ConfigError", NewConfigError("bad flag"), true},
		{"ValidationError", ValidationError{Field: "days"}, true},
		{"wrapped DomainError", CalculationError{Cause: DomainError{Field: "days", Value: -1}}, true},
		{"OverflowError", OverflowError{Operation: "sum"}, false},
		{"regular error", errors.New("boom"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsInputError(tt.err); got != tt.expected {
				t.Errorf("IsInputError(%v) = %v, expected %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestNewErrorTypes_ErrorsAsWithWrapping(t *testing.T) {
	t.Parallel()

	t.Run("TimeoutError wrapped in CalculationError", func(t *testing.T) {
		t.Parallel()
		inner := TimeoutError{Operation: "bucket", Limit: 5 * time.Second}
		err := CalculationError{Cause: inner}

		var timeoutErr TimeoutError
		if !errors.As(err, &timeoutErr) {
			t.Error("errors.As should find TimeoutError through CalculationError")
		}
	})

	t.Run("ValidationError wrapped with WrapError", func(t *testing.T) {
		t.Parallel()
		inner := ValidationError{Field: "days", Message: "too large"}
		err := WrapError(inner, "config check failed")

		var validationErr ValidationError
		if !errors.As(err, &validationErr) {
			t.Error("errors.As should find ValidationError through WrapError")
		}
	})

	t.Run("ParseError wrapped in CalculationError", func(t *testing.T) {
		t.Parallel()
		inner := ParseError{Token: "-1", Position: 3}
		err := CalculationError{Cause: inner}

		var parseErr ParseError
		if !errors.As(err, &parseErr) {
			t.Error("errors.As should find ParseError through CalculationError")
		}
		if parseErr.Position != 3 {
			t.Errorf("expected Position 3, got %d", parseErr.Position)
		}
	})

	t.Run("TimeoutError matches context.DeadlineExceeded", func(t *testing.T) {
		t.Parallel()
		err := CalculationError{Cause: TimeoutError{Operation: "bucket", Limit: time.Second}}
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Error("errors.Is should find context.DeadlineExceeded through TimeoutError")
		}
	})
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		original    error
		format      string
		args        []any
		expectedMsg string
		expectNil   bool
		checkIs     error
	}{
		{
			name:        "wraps error with context",
			original:    errors.New("file not found"),
			format:      "failed to load config",
			expectedMsg: "failed to load config: file not found",
		},
		{
			name:        "preserves error chain",
			original:    context.DeadlineExceeded,
			format:      "operation timed out",
			expectedMsg: "operation timed out: context deadline exceeded",
			checkIs:     context.DeadlineExceeded,
		},
		{
			name:      "returns nil for nil error",
			original:  nil,
			format:    "some context",
			expectNil: true,
		},
		{
			name:        "supports format arguments",
			original:    errors.New("connection reset"),
			format:      "failed to connect to %s:%d",
			args:        []any{"localhost", 8080},
			expectedMsg: "failed to connect to localhost:8080: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			wrapped := WrapError(tt.original, tt.format, tt.args...)

			if tt.expectNil {
				if wrapped != nil {
					t.Error("WrapError(nil, ...) should return nil")
				}
				return
			}

			if wrapped == nil {
				t.Fatal("wrapped error should not be nil")
			}

			if wrapped.Error() != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, wrapped.Error())
			}

			if tt.checkIs != nil && !errors.Is(wrapped, tt.checkIs) {
				t.Errorf("wrapped error should preserve %v in the chain", tt.checkIs)
			}
		})
	}
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"context.Canceled", context.Canceled, true},
		{"context.DeadlineExceeded", context.DeadlineExceeded, true},
		{"wrapped context.Canceled", WrapError(context.Canceled, "operation canceled"), true},
		{"regular error", errors.New("some error"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := IsContextError(tt.err)
			if result != tt.expected {
				t.Errorf("IsContextError(%v) = %v, expected %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestExitCodes(t *testing.T) {
	t.Parallel()
	// Verify exit codes are distinct and match expected values
	codes := map[string]int{
		"ExitSuccess":       ExitSuccess,
		"ExitErrorGeneric":  ExitErrorGeneric,
		"ExitErrorTimeout":  ExitErrorTimeout,
		"ExitErrorMismatch": ExitErrorMismatch,
		"ExitErrorConfig":   ExitErrorConfig,
		"ExitErrorCanceled": ExitErrorCanceled,
	}

	// Check expected values
	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess should be 0, got %d", ExitSuccess)
	}
	if ExitErrorCanceled != 130 {
		t.Errorf("ExitErrorCanceled should be 130 (SIGINT convention), got %d", ExitErrorCanceled)
	}

	// Check all codes are unique
	seen := make(map[int]string)
	for name, code := range codes {
		if existing, ok := seen[code]; ok {
			t.Errorf("duplicate exit code %d: %s and %s", code, existing, name)
		}
		seen[code] = name
	}
}
