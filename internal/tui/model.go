// Package tui implements the terminal dashboard of lanterncalc: live
// per-strategy progress for every day count, the strategy comparison and a
// sparkline of the daily population.
package tui

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/lanterncalc/internal/config"
	apperrors "github.com/agbru/lanterncalc/internal/errors"
	"github.com/agbru/lanterncalc/internal/orchestration"
	"github.com/agbru/lanterncalc/internal/population"
	"github.com/agbru/lanterncalc/internal/sysmon"
)

// ExecutionState holds the execution-related fields of a dashboard session.
type ExecutionState struct {
	ctx         context.Context
	cancel      context.CancelFunc
	calculators []population.Calculator
	generation  uint64
	done        bool
	exitCode    int
}

// Model is the root bubbletea model of the dashboard.
type Model struct {
	header HeaderModel
	keymap KeyMap

	ExecutionState

	width  int
	height int

	parentCtx context.Context
	counters  []population.Counter
	days      []int
	timeout   time.Duration
	observer  orchestration.ResultObserver
	ref       *programRef

	names    []string
	queries  []queryState
	current  int
	selected int
	pinned   bool

	growth    []uint64
	growthErr error
	sys       SysStatsMsg
}

// NewModel creates a dashboard that runs every calculator on counters for
// each day count of cfg. observer, when non-nil, also receives every
// finished strategy run.
func NewModel(parentCtx context.Context, calculators []population.Calculator, counters []population.Counter, cfg config.AppConfig, observer orchestration.ResultObserver, version string) Model {
	names := make([]string, len(calculators))
	for i, c := range calculators {
		names[i] = c.Name()
	}

	ctx, cancel := context.WithCancel(parentCtx)
	m := Model{
		header: NewHeaderModel(version, len(counters)),
		keymap: DefaultKeyMap(),
		ExecutionState: ExecutionState{
			ctx:         ctx,
			cancel:      cancel,
			calculators: calculators,
			exitCode:    apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		counters:  counters,
		days:      slices.Clone(cfg.Days),
		timeout:   cfg.Timeout,
		observer:  observer,
		ref:       &programRef{},
		names:     names,
	}
	m.resetQueries()
	return m
}

func (m *Model) resetQueries() {
	m.queries = make([]queryState, len(m.days))
	for i, d := range m.days {
		m.queries[i] = newQueryState(d, m.names)
	}
	m.current = 0
	m.selected = 0
	m.pinned = false
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		growthCmd(m.counters, slices.Max(append([]int{0}, m.days...))),
		m.startCmd(),
		watchContextCmd(m.ctx, m.generation),
	)
}

func (m Model) startCmd() tea.Cmd {
	return startQueriesCmd(m.ref, m.ctx, m.calculators, m.counters, m.days, m.timeout, m.observer, m.generation)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetWidth(msg.Width)
		return m, nil

	case ProgressMsg:
		if msg.Generation != m.generation || msg.Query >= len(m.queries) {
			return m, nil
		}
		rows := m.queries[msg.Query].rows
		if msg.CalculatorIndex < 0 || msg.CalculatorIndex >= len(rows) {
			return m, nil
		}
		row := &rows[msg.CalculatorIndex]
		row.progress = msg.Value
		if row.status == StatusIdle {
			row.status = StatusRunning
		}
		return m, nil

	case StrategyDoneMsg:
		if msg.Generation != m.generation || m.current >= len(m.queries) {
			return m, nil
		}
		q := &m.queries[m.current]
		if i := slices.Index(m.names, msg.Name); i >= 0 {
			q.rows[i].finish(msg.Total, msg.Duration, msg.Err)
		}
		return m, nil

	case QueryDoneMsg:
		if msg.Generation != m.generation || msg.Query >= len(m.queries) {
			return m, nil
		}
		m.queries[msg.Query].done = true
		m.current = msg.Query + 1
		if !m.pinned && m.current < len(m.queries) {
			m.selected = m.current
		}
		return m, nil

	case QueriesCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from a previous run
		}
		m.applyResults(msg.Queries)
		m.done = true
		m.exitCode = msg.ExitCode
		m.header.SetDone()
		return m, nil

	case GrowthMsg:
		m.growth = msg.Series
		m.growthErr = msg.Err
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		return m, tea.Batch(sampleSysStatsCmd(), tickCmd())

	case SysStatsMsg:
		m.sys = msg
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		if !m.done {
			m.done = true
			m.exitCode = apperrors.ExitCodeFor(msg.Err)
			m.header.SetDone()
		}
		return m, tea.Quit
	}

	return m, nil
}

// applyResults replaces the live rows with the final results.
func (m *Model) applyResults(queries []orchestration.QueryResults) {
	for qi, qr := range queries {
		if qi >= len(m.queries) {
			break
		}
		q := &m.queries[qi]
		for _, r := range qr.Results {
			if i := slices.Index(m.names, r.Name); i >= 0 {
				q.rows[i].finish(r.Total, r.Duration, r.Err)
			}
		}
		q.done = true
	}
	m.current = len(queries)
}

func (r *strategyRow) finish(total uint64, d time.Duration, err error) {
	r.duration = d
	r.err = err
	if err != nil {
		r.status = StatusError
		r.total = 0
		return
	}
	r.status = StatusComplete
	r.total = total
	r.progress = 1
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if !m.done {
			m.done = true
			m.exitCode = apperrors.ExitErrorCanceled
			m.header.SetDone()
		}
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Reset):
		if m.cancel != nil {
			m.cancel()
		}
		m.generation++
		m.ctx, m.cancel = context.WithCancel(m.parentCtx)
		m.resetQueries()
		m.header.Reset()
		m.done = false
		m.exitCode = apperrors.ExitSuccess
		return m, tea.Batch(tickCmd(), m.startCmd(), watchContextCmd(m.ctx, m.generation))

	case key.Matches(msg, m.keymap.Up):
		if m.selected > 0 {
			m.selected--
			m.pinned = true
		}
		return m, nil

	case key.Matches(msg, m.keymap.Down):
		if m.selected < len(m.queries)-1 {
			m.selected++
			m.pinned = true
		}
		return m, nil
	}
	return m, nil
}

// Layout constants for the dashboard.
const (
	queryListWidth = 40
	panelChrome    = 4 // border and padding of a panel
)

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	table := panelStyle.Width(m.width - 2).Render(m.renderStrategyTable())
	list := panelStyle.Width(queryListWidth).Render(m.renderQueryList())
	growthWidth := max(m.width-queryListWidth-2*panelChrome, minSparklineWidth)
	growth := panelStyle.Width(growthWidth + 2).Render(m.renderGrowth(growthWidth))
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, growth)

	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), table, body, m.renderFooter())
}

// Run is the public entry point for the dashboard mode. It creates the
// bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, calculators []population.Calculator, counters []population.Counter, cfg config.AppConfig, observer orchestration.ResultObserver, version string, in io.Reader, out io.Writer) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, calculators, counters, cfg, observer, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if m, ok := finalModel.(Model); ok {
		m.cancel()
		if err != nil && m.exitCode == apperrors.ExitSuccess {
			return apperrors.ExitCodeFor(ctx.Err())
		}
		return m.exitCode
	}
	if err != nil {
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// startQueriesCmd returns a tea.Cmd that runs every query through the
// orchestrator, bounded by timeout.
func startQueriesCmd(ref *programRef, ctx context.Context, calculators []population.Calculator, counters []population.Counter, days []int, timeout time.Duration, observer orchestration.ResultObserver, gen uint64) tea.Cmd {
	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		reporter := &TUIProgressReporter{ref: ref, generation: gen}
		forwarder := &resultForwarder{ref: ref, generation: gen, next: observer}
		queries := orchestration.ExecuteQueries(ctx, calculators, counters, days, reporter, io.Discard,
			orchestration.WithObserver(forwarder))
		return QueriesCompleteMsg{Generation: gen, Queries: queries, ExitCode: orchestration.ExitCode(queries)}
	}
}

// growthCmd simulates the population day by day for the sparkline.
func growthCmd(counters []population.Counter, days int) tea.Cmd {
	return func() tea.Msg {
		s, err := population.NewSnapshot(counters)
		if err != nil {
			return GrowthMsg{Err: err}
		}
		series, err := population.Growth(s, days)
		return GrowthMsg{Series: series, Err: err}
	}
}

// tickCmd returns a command that sends a TickMsg after 500ms.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleSysStatsCmd reads system-wide CPU and memory stats.
func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{CPUPercent: s.CPUPercent, MemPercent: s.MemPercent}
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
