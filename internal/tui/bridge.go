package tui

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/lanterncalc/internal/orchestration"
	"github.com/agbru/lanterncalc/internal/progress"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the bridge goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe).
// It is a no-op until a program is set.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// ProgressMsg reports the progress of one strategy within one query.
type ProgressMsg struct {
	Generation      uint64
	Query           int
	CalculatorIndex int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// QueryDoneMsg is sent once every strategy of a query has finished.
type QueryDoneMsg struct {
	Generation uint64
	Query      int
}

// StrategyDoneMsg reports one finished strategy run of the running query.
type StrategyDoneMsg struct {
	Generation uint64
	Name       string
	Duration   time.Duration
	Total      uint64
	Err        error
}

// QueriesCompleteMsg carries every query once the run is over.
type QueriesCompleteMsg struct {
	Generation uint64
	Queries    []orchestration.QueryResults
	ExitCode   int
}

// GrowthMsg carries the daily population totals for the sparkline.
type GrowthMsg struct {
	Series []uint64
	Err    error
}

// TickMsg drives the periodic system sampling.
type TickMsg time.Time

// SysStatsMsg holds one system-wide CPU and memory sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// ContextCancelledMsg is sent when the run context is done.
type ContextCancelledMsg struct {
	Generation uint64
	Err        error
}

// TUIProgressReporter implements orchestration.ProgressReporter.
// ExecuteQueries calls DisplayProgress once per query, in order, so the
// reporter numbers queries by counting calls.
type TUIProgressReporter struct {
	ref        *programRef
	generation uint64
	queries    atomic.Int32
}

var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress drains the progress channel and sends ProgressMsg to the
// dashboard, followed by one QueryDoneMsg when the channel closes.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, _ io.Writer) {
	defer wg.Done()
	query := int(t.queries.Add(1)) - 1

	agg := orchestration.NewProgressAggregator(numCalculators)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
	} else {
		for update := range progressChan {
			ap := agg.Update(update)
			t.ref.Send(ProgressMsg{
				Generation:      t.generation,
				Query:           query,
				CalculatorIndex: ap.CalculatorIndex,
				Value:           ap.Value,
				AverageProgress: ap.AverageProgress,
				ETA:             ap.ETA,
			})
		}
	}
	t.ref.Send(QueryDoneMsg{Generation: t.generation, Query: query})
}

// resultForwarder implements orchestration.ResultObserver. It reports each
// finished strategy to the dashboard and then to next, when set.
type resultForwarder struct {
	ref        *programRef
	generation uint64
	next       orchestration.ResultObserver
}

var _ orchestration.ResultObserver = (*resultForwarder)(nil)

func (f *resultForwarder) ObserveCalculation(algorithm string, d time.Duration, total uint64, err error) {
	if f.next != nil {
		f.next.ObserveCalculation(algorithm, d, total, err)
	}
	f.ref.Send(StrategyDoneMsg{
		Generation: f.generation,
		Name:       algorithm,
		Duration:   d,
		Total:      total,
		Err:        err,
	})
}
