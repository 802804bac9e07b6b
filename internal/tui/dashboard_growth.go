package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/lanterncalc/internal/format"
)

// minSparklineWidth keeps the sparkline readable on narrow terminals.
const minSparklineWidth = 16

// growthWindow returns the daily totals from day 0 to days, and whether the
// series stops early because a later total exceeds 64 bits.
func (m Model) growthWindow(days int) ([]uint64, bool) {
	if len(m.growth) == 0 {
		return nil, false
	}
	if days < len(m.growth) {
		return m.growth[:days+1], false
	}
	return m.growth, m.growthErr != nil
}

// renderGrowth renders the per-day population sparkline of the selected
// query on a log scale, width columns wide.
func (m Model) renderGrowth(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("POPULATION GROWTH"))
	b.WriteString(dimStyle.Render("  (per day, log scale)"))
	b.WriteString("\n")

	if m.selected >= len(m.queries) {
		return b.String()
	}
	days := m.queries[m.selected].days
	series, truncated := m.growthWindow(days)
	if len(series) == 0 {
		if m.growthErr != nil {
			b.WriteString(statusErrorStyle.Render(m.growthErr.Error()))
		} else {
			b.WriteString(dimStyle.Render("simulating..."))
		}
		return b.String()
	}

	width = max(width, minSparklineWidth)
	b.WriteString(sparklineStyle.Render(RenderSparkline(Resample(LogScale(series), width))))
	b.WriteString("\n")

	last := len(series) - 1
	left := fmt.Sprintf("day 0: %s", format.FormatCount(series[0]))
	right := fmt.Sprintf("day %d: %s", last, format.FormatCount(series[last]))
	if gap := width - lipgloss.Width(left) - lipgloss.Width(right); gap > 0 {
		b.WriteString(dimStyle.Render(left + spaces(gap) + right))
	} else {
		b.WriteString(dimStyle.Render(left + "  " + right))
	}
	if truncated {
		b.WriteString("\n")
		b.WriteString(statusErrorStyle.Render(fmt.Sprintf("exceeds 64 bits after day %d", last)))
	}
	return b.String()
}
