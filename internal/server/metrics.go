package server

import (
	"net/http"
	"time"

	"github.com/agbru/lanterncalc/internal/metrics"
)

// Metrics is the server's view of a metrics.Recorder.
type Metrics struct {
	recorder *metrics.Recorder
	handler  http.Handler
}

// NewMetrics creates Metrics over a fresh recorder.
func NewMetrics() *Metrics {
	return NewMetricsFromRecorder(metrics.NewRecorder())
}

// NewMetricsFromRecorder shares an existing recorder, e.g. the one the
// orchestrator reports calculations to.
func NewMetricsFromRecorder(r *metrics.Recorder) *Metrics {
	return &Metrics{recorder: r, handler: r.Handler()}
}

// Recorder returns the underlying recorder.
func (m *Metrics) Recorder() *metrics.Recorder { return m.recorder }

// IncrementActiveRequests marks the start of a request.
func (m *Metrics) IncrementActiveRequests() { m.recorder.IncrementActiveRequests() }

// DecrementActiveRequests marks the end of a request.
func (m *Metrics) DecrementActiveRequests() { m.recorder.DecrementActiveRequests() }

// ObserveRequest records a finished request.
func (m *Metrics) ObserveRequest(path string, code int, d time.Duration) {
	m.recorder.ObserveRequest(path, code, d)
}

// WritePrometheus serves the metrics in the Prometheus text format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
