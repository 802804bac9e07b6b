package population

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	apperrors "github.com/agbru/lanterncalc/internal/errors"
)

func TestParseCounters(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		input     string
		want      []Counter
		wantParse bool
		wantPos   int
		wantRange bool
	}{
		{name: "sample", input: "3,4,3,1,2", want: []Counter{3, 4, 3, 1, 2}},
		{name: "trailing newline", input: "3,4,3,1,2\n", want: []Counter{3, 4, 3, 1, 2}},
		{name: "inner whitespace", input: " 0 , 8 ,6 ", want: []Counter{0, 8, 6}},
		{name: "single", input: "5", want: []Counter{5}},
		{name: "empty input", input: "  \n", wantParse: true, wantPos: 0},
		{name: "empty token", input: "3,,4", wantParse: true, wantPos: 1},
		{name: "negative", input: "3,-1", wantParse: true, wantPos: 1},
		{name: "not a number", input: "3,4,x", wantParse: true, wantPos: 2},
		{name: "fraction", input: "1.5", wantParse: true, wantPos: 0},
		{name: "out of domain", input: "3,9", wantRange: true},
		{name: "huge value", input: "99999999999999999999", wantParse: true, wantPos: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCounters(tt.input)

			switch {
			case tt.wantParse:
				var parseErr apperrors.ParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("expected ParseError, got %v", err)
				}
				if parseErr.Position != tt.wantPos {
					t.Errorf("Position = %d, want %d", parseErr.Position, tt.wantPos)
				}
			case tt.wantRange:
				var domainErr apperrors.DomainError
				if !errors.As(err, &domainErr) {
					t.Fatalf("expected DomainError, got %v", err)
				}
				if domainErr.Value != 9 || domainErr.Max != int64(MaxCounter) {
					t.Errorf("unexpected DomainError %+v", domainErr)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if FormatCounters(got) != FormatCounters(tt.want) {
					t.Errorf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestParseCounters_NegativeIsSyntaxError(t *testing.T) {
	t.Parallel()
	_, err := ParseCounters("-3")
	if !errors.Is(err, strconv.ErrSyntax) {
		t.Errorf("expected strconv.ErrSyntax in chain, got %v", err)
	}
}

func TestReadCounters(t *testing.T) {
	t.Parallel()
	got, err := ReadCounters(strings.NewReader("3,4,3,1,2\nignored second line\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("got %d counters, want 5", len(got))
	}

	if _, err := ReadCounters(strings.NewReader("")); err == nil {
		t.Error("expected error for empty reader")
	}
}

func TestCounter_Validate(t *testing.T) {
	t.Parallel()
	for c := Counter(0); c <= MaxCounter; c++ {
		if err := c.Validate(); err != nil {
			t.Errorf("Validate(%d) = %v, want nil", c, err)
		}
	}
	if err := Counter(9).Validate(); err == nil {
		t.Error("Validate(9) should fail")
	}
	if err := ValidateCounters([]Counter{1, 2, 200}); err == nil {
		t.Error("ValidateCounters should reject 200")
	}
}

func TestFormatCounters(t *testing.T) {
	t.Parallel()
	if got := FormatCounters([]Counter{3, 4, 3, 1, 2}); got != "3,4,3,1,2" {
		t.Errorf("FormatCounters = %q", got)
	}
	if got := FormatCounters(nil); got != "" {
		t.Errorf("FormatCounters(nil) = %q, want empty", got)
	}
}
