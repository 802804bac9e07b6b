package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/agbru/lanterncalc/internal/errors"
)

// renderFooter renders the key help, the system load and the final status.
func (m Model) renderFooter() string {
	var keys []string
	for _, b := range m.keymap.ShortHelp() {
		h := b.Help()
		keys = append(keys, footerKeyStyle.Render(h.Key)+" "+footerDescStyle.Render(h.Desc))
	}
	left := strings.Join(keys, footerDescStyle.Render("  "))

	right := dimStyle.Render(fmt.Sprintf("CPU %5.1f%%  MEM %5.1f%%", m.sys.CPUPercent, m.sys.MemPercent))
	if m.done {
		if m.exitCode == apperrors.ExitSuccess {
			right += "  " + statusDoneStyle.Render("all strategies agree")
		} else {
			right += "  " + statusErrorStyle.Render(fmt.Sprintf("exit %d", m.exitCode))
		}
	}

	gap := m.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	return " " + left + spaces(max(gap, 2)) + right
}
