// Package server exposes population queries over HTTP. It serves
// GET /population, GET /fish, GET /health and GET /metrics behind security,
// request-ID, logging and metrics middleware, and shuts down gracefully when
// its context is canceled.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/agbru/lanterncalc/internal/config"
	"github.com/agbru/lanterncalc/internal/logging"
	"github.com/agbru/lanterncalc/internal/memo"
	"github.com/agbru/lanterncalc/internal/population"
)

const (
	// DefaultRequestTimeout bounds a single population query.
	DefaultRequestTimeout = 10 * time.Second
	// DefaultShutdownTimeout bounds the graceful shutdown.
	DefaultShutdownTimeout = 5 * time.Second
)

// Server is the HTTP front end of the calculator.
type Server struct {
	addr            string
	factory         population.CalculatorFactory
	cache           *population.CachedRecursive
	metrics         *Metrics
	logger          logging.Logger
	security        SecurityConfig
	requestTimeout  time.Duration
	shutdownTimeout time.Duration
	started         time.Time

	memoMu       sync.Mutex
	memoReported memo.Stats
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. The default writes JSON to stderr.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics shares m instead of creating a private one.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithSecurityConfig replaces DefaultSecurityConfig.
func WithSecurityConfig(c SecurityConfig) Option {
	return func(s *Server) { s.security = c }
}

// WithRequestTimeout bounds each population query.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) { s.requestTimeout = d }
}

// WithCache enables the /fish endpoint and memo metrics. The cache should
// also be registered in the factory so population queries share it.
func WithCache(c *population.CachedRecursive) Option {
	return func(s *Server) { s.cache = c }
}

// New creates a Server listening on addr once Start is called.
func New(addr string, factory population.CalculatorFactory, opts ...Option) *Server {
	s := &Server{
		addr:            addr,
		factory:         factory,
		security:        DefaultSecurityConfig(),
		requestTimeout:  DefaultRequestTimeout,
		shutdownTimeout: DefaultShutdownTimeout,
		started:         time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	if s.logger == nil {
		s.logger = logging.NewDefaultLogger()
	}
	if s.security.MaxDays <= 0 || s.security.MaxDays > config.MaxDays {
		s.security.MaxDays = config.MaxDays
	}
	return s
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/population", s.wrap(s.handlePopulation))
	r.HandleFunc("/population/{days:[0-9]+}", s.wrap(s.handlePopulation))
	r.HandleFunc("/fish/{counter:[0-9]+}/{days:[0-9]+}", s.wrap(s.handleFish))
	r.HandleFunc("/health", s.wrap(s.handleHealth))
	r.HandleFunc("/metrics", s.wrap(s.handleMetrics))
	r.NotFoundHandler = s.wrap(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusNotFound, fmt.Errorf("no route for %s", r.URL.Path))
	})
	return r
}

func (s *Server) wrap(h http.HandlerFunc) http.HandlerFunc {
	return SecurityMiddleware(s.security, s.requestIDMiddleware(s.loggingMiddleware(s.metricsMiddleware(h))))
}

// Start serves until ctx is canceled, then shuts down gracefully. It
// returns nil after a clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.requestTimeout + 5*time.Second,
		IdleTimeout:       time.Minute,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", logging.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("graceful shutdown failed", err)
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// reportMemo publishes the cache lookups made since the previous report.
func (s *Server) reportMemo() {
	if s.cache == nil {
		return
	}
	s.memoMu.Lock()
	defer s.memoMu.Unlock()
	now := s.cache.MemoStats()
	delta := memo.Stats{Entries: now.Entries}
	if now.Hits >= s.memoReported.Hits {
		delta.Hits = now.Hits - s.memoReported.Hits
	}
	if now.Misses >= s.memoReported.Misses {
		delta.Misses = now.Misses - s.memoReported.Misses
	}
	s.memoReported = now
	s.metrics.Recorder().ObserveMemo(delta)
}
