package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/lanterncalc/internal/format"
)

// HeaderModel renders the top bar: title, population, elapsed time and the
// run status.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	fish      int
	width     int
}

// NewHeaderModel creates a new header for a population of fish individuals.
func NewHeaderModel(version string, fish int) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		fish:      fish,
	}
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// Reset restarts the elapsed timer.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the running time, frozen once SetDone was called.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "Lanternfish Monitor"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}

	pipe := dimStyle.Render(" | ")
	status := statusRunningStyle.Render("RUNNING")
	if !h.endTime.IsZero() {
		status = statusDoneStyle.Render("DONE")
	}

	row := titleStyle.Render(titleText) + pipe +
		accentStyle.Render(fmt.Sprintf("%s fish", format.FormatCount(uint64(h.fish)))) + pipe +
		dimStyle.Render("Elapsed: ") + format.FormatExecutionDuration(h.Elapsed()) + pipe +
		status

	if gap := h.width - 2 - lipgloss.Width(row); gap > 0 {
		row += spaces(gap)
	}
	return headerStyle.Render(row)
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
