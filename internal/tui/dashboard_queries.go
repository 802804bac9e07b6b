package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/lanterncalc/internal/format"
	"github.com/agbru/lanterncalc/internal/orchestration"
)

// StrategyStatus is the state of one strategy row.
type StrategyStatus int

const (
	StatusIdle StrategyStatus = iota
	StatusRunning
	StatusComplete
	StatusError
)

// strategyRow is one strategy within one query.
type strategyRow struct {
	name     string
	progress float64
	duration time.Duration
	total    uint64
	err      error
	status   StrategyStatus
}

// queryState tracks the strategies of one day count.
type queryState struct {
	days int
	rows []strategyRow
	done bool
}

func newQueryState(days int, names []string) queryState {
	rows := make([]strategyRow, len(names))
	for i, n := range names {
		rows[i] = strategyRow{name: n}
	}
	return queryState{days: days, rows: rows}
}

// results converts the finished rows for orchestration.Consensus.
func (q queryState) results() []orchestration.CalculationResult {
	out := make([]orchestration.CalculationResult, 0, len(q.rows))
	for _, r := range q.rows {
		if r.status != StatusComplete && r.status != StatusError {
			continue
		}
		out = append(out, orchestration.CalculationResult{
			Name: r.name, Days: q.days, Total: r.total, Duration: r.duration, Err: r.err,
		})
	}
	return out
}

// summary is the one-line outcome of a finished query.
func (q queryState) summary() (string, lipgloss.Style) {
	if !q.done {
		return "...", statusRunningStyle
	}
	best, err := orchestration.Consensus(q.results())
	if err != nil {
		return "ERR", statusErrorStyle
	}
	return format.FormatCount(best.Total), statusDoneStyle
}

// Column widths for the strategy table (shared between header and rows).
const (
	colWidthRank     = 3
	colWidthName     = 40
	colWidthProgress = 20
	colWidthPct      = 7
	colWidthDur      = 10
	colWidthTotal    = 28
	colWidthStatus   = 5
)

// renderQueryList renders the day counts with their agreed totals.
func (m Model) renderQueryList() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("DAY COUNTS"))
	b.WriteString("\n")
	for i, q := range m.queries {
		marker := "  "
		style := lipgloss.NewStyle()
		if i == m.selected {
			marker = "> "
			style = selectedStyle
		}
		summary, summaryStyle := q.summary()
		if i > m.current && !m.done {
			summary, summaryStyle = "-", statusIdleStyle
		}
		fmt.Fprintf(&b, "%s%s %s\n",
			marker,
			style.Width(10).Render(fmt.Sprintf("%d days", q.days)),
			summaryStyle.Render(summary))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderStrategyTable renders the strategy comparison for the selected query.
func (m Model) renderStrategyTable() string {
	if m.selected >= len(m.queries) {
		return ""
	}
	q := m.queries[m.selected]

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("STRATEGIES - %d DAYS", q.days)))
	b.WriteString("\n")

	colRank := lipgloss.NewStyle().Width(colWidthRank)
	colName := lipgloss.NewStyle().Width(colWidthName)
	colProgress := lipgloss.NewStyle().Width(colWidthProgress)
	colPct := lipgloss.NewStyle().Width(colWidthPct).Align(lipgloss.Right)
	colDur := lipgloss.NewStyle().Width(colWidthDur).Align(lipgloss.Right)
	colTotal := lipgloss.NewStyle().Width(colWidthTotal).Align(lipgloss.Right)
	colStatus := lipgloss.NewStyle().Width(colWidthStatus).Align(lipgloss.Center)

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		colRank.Render("#"), " ",
		colName.Render("Strategy"), " ",
		colProgress.Render("Progress"), " ",
		colPct.Render("%"), " ",
		colDur.Render("Duration"), " ",
		colTotal.Render("Population"), " ",
		colStatus.Render("State"),
	)
	b.WriteString(tableHeaderStyle.Render(header))
	b.WriteString("\n")

	ranks := rankByDuration(q.rows)
	for i, r := range q.rows {
		rank := "-"
		if n, ok := ranks[i]; ok {
			rank = fmt.Sprintf("%d", n)
		}
		dur, total := "-", "-"
		switch r.status {
		case StatusRunning:
			dur = "..."
		case StatusComplete:
			dur = format.FormatExecutionDuration(r.duration)
			total = format.FormatCount(r.total)
		case StatusError:
			dur = format.FormatExecutionDuration(r.duration)
			total = truncateString(r.err.Error(), colWidthTotal)
		}
		statusText, statusStyle := statusLabel(r.status)

		row := lipgloss.JoinHorizontal(lipgloss.Top,
			colRank.Render(rank), " ",
			colName.Render(truncateString(r.name, colWidthName)), " ",
			renderProgressBar(r.progress, colWidthProgress), " ",
			colPct.Render(fmt.Sprintf("%.1f%%", r.progress*100)), " ",
			colDur.Render(dur), " ",
			colTotal.Render(total), " ",
			statusStyle.Inherit(colStatus).Render(statusText),
		)
		b.WriteString(row)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// rankByDuration returns the 1-based speed rank of each successful row.
func rankByDuration(rows []strategyRow) map[int]int {
	ranks := make(map[int]int)
	for i, r := range rows {
		if r.status != StatusComplete {
			continue
		}
		rank := 1
		for j, o := range rows {
			if o.status == StatusComplete && (o.duration < r.duration || (o.duration == r.duration && j < i)) {
				rank++
			}
		}
		ranks[i] = rank
	}
	return ranks
}

func statusLabel(s StrategyStatus) (string, lipgloss.Style) {
	switch s {
	case StatusRunning:
		return "RUN", statusRunningStyle
	case StatusComplete:
		return "OK", statusDoneStyle
	case StatusError:
		return "ERR", statusErrorStyle
	default:
		return "IDLE", statusIdleStyle
	}
}

// truncateString truncates a string to maxLen characters, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// renderProgressBar renders a progress bar with exact width.
func renderProgressBar(progress float64, width int) string {
	filled := max(0, min(int(progress*float64(width)), width))
	return progressFilled.Render(strings.Repeat("█", filled)) +
		progressEmpty.Render(strings.Repeat("░", width-filled))
}
