package population

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/agbru/lanterncalc/internal/errors"
)

// Counter is the number of days an individual has left before it spawns.
type Counter uint8

// Validate returns a DomainError when c is above MaxCounter.
func (c Counter) Validate() error {
	if c > MaxCounter {
		return apperrors.DomainError{Field: "counter", Value: int64(c), Min: 0, Max: int64(MaxCounter)}
	}
	return nil
}

// ValidateCounters checks every counter and returns the first violation.
func ValidateCounters(counters []Counter) error {
	for _, c := range counters {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// errEmptyToken is the cause attached to empty list entries such as "3,,4".
var errEmptyToken = errors.New("empty token")

// ParseCounters parses a comma-separated list of counters such as
// "3,4,3,1,2". Surrounding whitespace, including a trailing newline, is
// ignored. A token that is not a non-negative integer yields a ParseError; a
// well-formed value above MaxCounter yields a DomainError. Parsing stops at
// the first bad token.
func ParseCounters(input string) ([]Counter, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, apperrors.ParseError{Token: "", Position: 0, Cause: errEmptyToken}
	}

	tokens := strings.Split(input, ",")
	counters := make([]Counter, 0, len(tokens))
	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return nil, apperrors.ParseError{Token: tok, Position: i, Cause: errEmptyToken}
		}
		v, err := strconv.ParseUint(tok, 10, 64)
		if err != nil {
			var numErr *strconv.NumError
			if errors.As(err, &numErr) {
				err = numErr.Err
			}
			return nil, apperrors.ParseError{Token: tok, Position: i, Cause: err}
		}
		if v > uint64(MaxCounter) {
			return nil, apperrors.DomainError{Field: "counter", Value: clampInt64(v), Min: 0, Max: int64(MaxCounter)}
		}
		counters = append(counters, Counter(v))
	}
	return counters, nil
}

// ReadCounters reads the first line of r and parses it with ParseCounters.
func ReadCounters(r io.Reader) ([]Counter, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, apperrors.WrapError(err, "reading population")
	}
	return ParseCounters(line)
}

// FormatCounters renders counters in the same comma-separated form that
// ParseCounters accepts.
func FormatCounters(counters []Counter) string {
	var b strings.Builder
	for i, c := range counters {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(c)))
	}
	return b.String()
}

func clampInt64(v uint64) int64 {
	if v > uint64(maxInt) {
		return maxInt
	}
	return int64(v)
}
