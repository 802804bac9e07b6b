package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/lanterncalc/internal/errors"
	"github.com/agbru/lanterncalc/internal/memo"
)

func TestRecorder_Summary(t *testing.T) {
	r := NewRecorder()
	r.ObserveCalculation("bucket", time.Millisecond, 5934, nil)
	r.ObserveCalculation("recursive", time.Millisecond, 5934, nil)
	r.ObserveCalculation("bucket", time.Millisecond, 0, apperrors.OverflowError{Operation: "step"})
	r.ObserveMemo(memo.Stats{Hits: 7, Misses: 3, Entries: 3})

	s, err := r.Summary()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), s.Calculations[StatusOK])
	assert.Equal(t, uint64(1), s.Calculations[StatusOverflow])
	assert.Equal(t, uint64(7), s.MemoHits)
	assert.Equal(t, uint64(3), s.MemoMisses)
}

func TestRecorders_AreIndependent(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	a.ObserveCalculation("bucket", time.Millisecond, 26, nil)

	s, err := b.Summary()
	require.NoError(t, err)
	assert.Zero(t, s.Calculations[StatusOK])
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.ObserveCalculation("parallel", 2*time.Millisecond, 26984457539, nil)
	r.IncrementActiveRequests()
	r.ObserveRequest("/population", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{
		`lanterncalc_calculations_total{algorithm="parallel",status="ok"} 1`,
		`lanterncalc_last_population{algorithm="parallel"}`,
		"lanterncalc_active_requests 1",
		`lanterncalc_requests_total{code="200",path="/population"} 1`,
		"go_goroutines",
	} {
		assert.True(t, strings.Contains(body, want), "missing %q", want)
	}
}

func TestStatusFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, StatusOK},
		{"overflow", apperrors.CalculationError{Cause: apperrors.OverflowError{Operation: "sum"}}, StatusOverflow},
		{"timeout", apperrors.TimeoutError{Operation: "query", Limit: time.Second}, StatusTimeout},
		{"deadline", context.DeadlineExceeded, StatusTimeout},
		{"canceled", context.Canceled, StatusCanceled},
		{"domain", apperrors.DomainError{Field: "counter", Value: 9, Max: 8}, StatusInput},
		{"other", errors.New("boom"), StatusError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}
