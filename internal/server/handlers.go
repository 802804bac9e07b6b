package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gorilla/mux"

	"github.com/agbru/lanterncalc/internal/config"
	apperrors "github.com/agbru/lanterncalc/internal/errors"
	"github.com/agbru/lanterncalc/internal/logging"
	"github.com/agbru/lanterncalc/internal/orchestration"
	"github.com/agbru/lanterncalc/internal/population"
)

// StrategyResult is one strategy's outcome in a PopulationResponse.
type StrategyResult struct {
	Strategy   string `json:"strategy"`
	Total      uint64 `json:"total,omitempty"`
	DurationNS int64  `json:"duration_ns"`
	Error      string `json:"error,omitempty"`
}

// PopulationResponse is the body of GET /population.
type PopulationResponse struct {
	Counters   string           `json:"counters"`
	Size       int              `json:"size"`
	Days       int              `json:"days"`
	Algorithm  string           `json:"algorithm"`
	Total      uint64           `json:"total"`
	Strategy   string           `json:"strategy"`
	DurationNS int64            `json:"duration_ns"`
	Results    []StrategyResult `json:"results"`
}

// FishResponse is the body of GET /fish/{counter}/{days}.
type FishResponse struct {
	Counter int    `json:"counter"`
	Days    int    `json:"days"`
	Total   uint64 `json:"total"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status      string   `json:"status"`
	Uptime      string   `json:"uptime"`
	Strategies  []string `json:"strategies"`
	MemoEntries int      `json:"memo_entries"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// handlePopulation answers GET /population?counters=3,4,3,1,2&days=80&algo=all.
// The day count may also be given in the path, as in /population/80.
func (s *Server) handlePopulation(w http.ResponseWriter, r *http.Request) {
	if !s.requireGET(w, r) {
		return
	}
	q := r.URL.Query()

	rawCounters := q.Get("counters")
	if rawCounters == "" {
		s.writeError(w, r, http.StatusBadRequest, apperrors.ValidationError{Field: "counters", Message: "required"})
		return
	}
	counters, err := population.ParseCounters(rawCounters)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if len(counters) > s.security.MaxPopulation && s.security.MaxPopulation > 0 {
		s.writeError(w, r, http.StatusBadRequest, apperrors.ValidationError{
			Field:   "counters",
			Message: fmt.Sprintf("at most %d counters are accepted", s.security.MaxPopulation),
		})
		return
	}

	rawDays := mux.Vars(r)["days"]
	if rawDays == "" {
		rawDays = q.Get("days")
	}
	days, err := s.parseDays(rawDays)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	algo := strings.ToLower(q.Get("algo"))
	if algo == "" {
		algo = config.AlgoAll
	}
	calculators := orchestration.GetCalculatorsToRun(algo, s.factory)
	if len(calculators) == 0 {
		s.writeError(w, r, http.StatusBadRequest, apperrors.ValidationError{
			Field:   "algo",
			Message: fmt.Sprintf("unknown algorithm %q (available: %s, %s)", algo, strings.Join(s.factory.List(), ", "), config.AlgoAll),
		})
		return
	}

	// The population figures are a pure function of the query, so the ETag
	// can be checked before computing anything. It is weak because the
	// per-strategy timings in the body differ between runs.
	etag := queryETag(counters, days, algo)
	w.Header().Set("ETag", etag)
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()
	results := orchestration.ExecuteCalculations(ctx, calculators, counters, days,
		orchestration.NullProgressReporter{}, io.Discard,
		orchestration.WithObserver(s.metrics.Recorder()))
	s.reportMemo()

	best, err := orchestration.Consensus(results)
	if err != nil {
		w.Header().Del("ETag")
		s.writeError(w, r, statusForError(err), err)
		return
	}

	resp := PopulationResponse{
		Counters:   population.FormatCounters(counters),
		Size:       len(counters),
		Days:       days,
		Algorithm:  algo,
		Total:      best.Total,
		Strategy:   best.Name,
		DurationNS: best.Duration.Nanoseconds(),
		Results:    make([]StrategyResult, 0, len(results)),
	}
	for _, res := range results {
		sr := StrategyResult{Strategy: res.Name, Total: res.Total, DurationNS: res.Duration.Nanoseconds()}
		if res.Err != nil {
			sr.Error = res.Err.Error()
		}
		resp.Results = append(resp.Results, sr)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleFish answers GET /fish/{counter}/{days} from the persistent memo.
func (s *Server) handleFish(w http.ResponseWriter, r *http.Request) {
	if !s.requireGET(w, r) {
		return
	}
	if s.cache == nil {
		s.writeError(w, r, http.StatusNotFound, errors.New("single-fish queries are disabled"))
		return
	}
	vars := mux.Vars(r)
	counters, err := population.ParseCounters(vars["counter"])
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	days, err := s.parseDays(vars["days"])
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	total, err := s.cache.Counter().Descendants(counters[0], days)
	s.metrics.Recorder().ObserveCalculation("fish", time.Since(start), total, err)
	s.reportMemo()
	if err != nil {
		s.writeError(w, r, statusForError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, FishResponse{Counter: int(counters[0]), Days: days, Total: total})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.requireGET(w, r) {
		return
	}
	resp := HealthResponse{
		Status:     "ok",
		Uptime:     time.Since(s.started).Round(time.Second).String(),
		Strategies: s.factory.List(),
	}
	if s.cache != nil {
		resp.MemoEntries = s.cache.MemoStats().Entries
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !s.requireGET(w, r) {
		return
	}
	s.metrics.WritePrometheus(w, r)
}

// requireGET rejects every method except GET and HEAD with 405.
func (s *Server) requireGET(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	s.writeError(w, r, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
	return false
}

func (s *Server) parseDays(raw string) (int, error) {
	if raw == "" {
		return 0, apperrors.ValidationError{Field: "days", Message: "required"}
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.ValidationError{Field: "days", Message: fmt.Sprintf("%q is not an integer", raw)}
	}
	if days < 0 || days > s.security.MaxDays {
		return 0, apperrors.DomainError{Field: "days", Value: int64(days), Min: 0, Max: int64(s.security.MaxDays)}
	}
	return days, nil
}

// statusForError maps a calculation failure to an HTTP status.
func statusForError(err error) int {
	var overflow apperrors.OverflowError
	switch {
	case apperrors.IsInputError(err):
		return http.StatusBadRequest
	case errors.As(err, &overflow):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// queryETag derives a weak validator from the normalized query.
func queryETag(counters []population.Counter, days int, algo string) string {
	key := population.FormatCounters(counters) + "|" + strconv.Itoa(days) + "|" + algo
	return fmt.Sprintf("W/%q", strconv.FormatUint(xxhash.Sum64String(key), 16))
}

// etagMatches applies the weak comparison of If-None-Match: any listed tag
// with the same opaque value matches, whether or not it carries W/.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, tag := range strings.Split(header, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "*" || strings.TrimPrefix(tag, "W/") == want {
			return true
		}
	}
	return false
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("writing response", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	id := RequestIDFrom(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", err, logging.String("path", r.URL.Path), logging.String("request_id", id))
	} else {
		s.logger.Debug("request rejected", logging.String("path", r.URL.Path), logging.Int("status", status), logging.Err(err))
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), RequestID: id})
}
