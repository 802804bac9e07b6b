// Package metrics records query and request statistics with Prometheus and
// samples runtime memory usage.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"

	apperrors "github.com/agbru/lanterncalc/internal/errors"
	"github.com/agbru/lanterncalc/internal/memo"
)

// Namespace prefixes every metric name.
const Namespace = "lanterncalc"

// Calculation status label values.
const (
	StatusOK       = "ok"
	StatusError    = "error"
	StatusTimeout  = "timeout"
	StatusCanceled = "canceled"
	StatusOverflow = "overflow"
	StatusInput    = "invalid_input"
)

// Recorder owns a private Prometheus registry. Each Recorder is independent,
// so tests and multiple servers never collide on registration.
type Recorder struct {
	registry *prometheus.Registry

	calculations   *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	population     *prometheus.GaugeVec
	memoHits       prometheus.Counter
	memoMisses     prometheus.Counter
	memoEntries    prometheus.Gauge
	activeRequests prometheus.Gauge
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with the Go runtime collector registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "calculations_total",
			Help:      "Population queries by strategy and outcome.",
		}, []string{"algorithm", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "calculation_duration_seconds",
			Help:      "Time spent computing a population query.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"algorithm"}),
		population: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "last_population",
			Help:      "Population returned by the latest successful query.",
		}, []string{"algorithm"}),
		memoHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "memo_hits_total",
			Help:      "Memo cache lookups that found an entry.",
		}),
		memoMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "memo_misses_total",
			Help:      "Memo cache lookups that did not find an entry.",
		}),
		memoEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "memo_entries",
			Help:      "Entries held by the most recently reported memo cache.",
		}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "active_requests",
			Help:      "HTTP requests currently being served.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "requests_total",
			Help:      "HTTP requests by path and status code.",
		}, []string{"path", "code"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		r.calculations,
		r.duration,
		r.population,
		r.memoHits,
		r.memoMisses,
		r.memoEntries,
		r.activeRequests,
		r.requests,
		r.requestLatency,
	)
	// Series with no observation yet are not exported; seed the request
	// counter so the family is always visible.
	r.requests.WithLabelValues("/", "200").Add(0)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveCalculation records one strategy run.
func (r *Recorder) ObserveCalculation(algorithm string, d time.Duration, total uint64, err error) {
	status := StatusFor(err)
	r.calculations.WithLabelValues(algorithm, status).Inc()
	r.duration.WithLabelValues(algorithm).Observe(d.Seconds())
	if err == nil {
		r.population.WithLabelValues(algorithm).Set(float64(total))
	}
}

// ObserveMemo adds the lookups of a finished memo cache to the totals.
func (r *Recorder) ObserveMemo(stats memo.Stats) {
	r.memoHits.Add(float64(stats.Hits))
	r.memoMisses.Add(float64(stats.Misses))
	r.memoEntries.Set(float64(stats.Entries))
}

// IncrementActiveRequests marks the start of an HTTP request.
func (r *Recorder) IncrementActiveRequests() { r.activeRequests.Inc() }

// DecrementActiveRequests marks the end of an HTTP request.
func (r *Recorder) DecrementActiveRequests() { r.activeRequests.Dec() }

// ObserveRequest records a finished HTTP request.
func (r *Recorder) ObserveRequest(path string, code int, d time.Duration) {
	r.requests.WithLabelValues(path, strconv.Itoa(code)).Inc()
	r.requestLatency.WithLabelValues(path).Observe(d.Seconds())
}

// StatusFor maps a calculation error to its status label.
func StatusFor(err error) string {
	var overflow apperrors.OverflowError
	switch {
	case err == nil:
		return StatusOK
	case errors.As(err, &overflow):
		return StatusOverflow
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	case errors.Is(err, context.Canceled):
		return StatusCanceled
	case apperrors.IsInputError(err):
		return StatusInput
	default:
		return StatusError
	}
}

// Summary is a compact view of the recorded calculations, read back from
// the gathered metric families.
type Summary struct {
	// Calculations counts runs per status label.
	Calculations map[string]uint64
	// MemoHits and MemoMisses are the accumulated memo lookups.
	MemoHits   uint64
	MemoMisses uint64
}

// Summary gathers the registry and extracts the calculation counters.
func (r *Recorder) Summary() (Summary, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return Summary{}, err
	}
	s := Summary{Calculations: make(map[string]uint64)}
	for _, mf := range families {
		switch mf.GetName() {
		case Namespace + "_calculations_total":
			for _, m := range mf.GetMetric() {
				s.Calculations[labelValue(m, "status")] += uint64(m.GetCounter().GetValue())
			}
		case Namespace + "_memo_hits_total":
			s.MemoHits = counterValue(mf)
		case Namespace + "_memo_misses_total":
			s.MemoMisses = counterValue(mf)
		}
	}
	return s, nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func counterValue(mf *dto.MetricFamily) uint64 {
	var total uint64
	for _, m := range mf.GetMetric() {
		total += uint64(m.GetCounter().GetValue())
	}
	return total
}
