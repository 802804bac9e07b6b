package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/lanterncalc/internal/ui"
)

// palette holds the lipgloss colors matching one ui theme.
type palette struct {
	accent, dim, text, border      lipgloss.Color
	success, warning, errorC, info lipgloss.Color
}

var (
	darkPalette = palette{
		accent: "51", dim: "245", text: "252", border: "240",
		success: "82", warning: "220", errorC: "196", info: "141",
	}
	lightPalette = palette{
		accent: "25", dim: "240", text: "235", border: "250",
		success: "28", warning: "130", errorC: "124", info: "54",
	}
)

// Style variables for the dashboard, rebuilt by initTUIStyles.
var (
	panelStyle         lipgloss.Style
	headerStyle        lipgloss.Style
	titleStyle         lipgloss.Style
	dimStyle           lipgloss.Style
	accentStyle        lipgloss.Style
	tableHeaderStyle   lipgloss.Style
	selectedStyle      lipgloss.Style
	progressFilled     lipgloss.Style
	progressEmpty      lipgloss.Style
	sparklineStyle     lipgloss.Style
	footerKeyStyle     lipgloss.Style
	footerDescStyle    lipgloss.Style
	statusRunningStyle lipgloss.Style
	statusDoneStyle    lipgloss.Style
	statusErrorStyle   lipgloss.Style
	statusIdleStyle    lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds every style from the active ui theme. Run calls it
// again after app.Run has applied --no-color and LANTERNCALC_THEME.
func initTUIStyles() {
	if !ui.IsColorEnabled() {
		plain := lipgloss.NewStyle()
		panelStyle = plain.Border(lipgloss.NormalBorder()).Padding(0, 1)
		headerStyle = plain.Bold(true).Padding(0, 1)
		titleStyle = plain.Bold(true)
		tableHeaderStyle = plain.Bold(true)
		selectedStyle = plain.Reverse(true)
		for _, s := range []*lipgloss.Style{
			&dimStyle, &accentStyle, &progressFilled, &progressEmpty, &sparklineStyle,
			&footerKeyStyle, &footerDescStyle, &statusRunningStyle, &statusDoneStyle,
			&statusErrorStyle, &statusIdleStyle,
		} {
			*s = plain
		}
		return
	}

	p := darkPalette
	if ui.GetCurrentTheme().Name == ui.LightTheme.Name {
		p = lightPalette
	}

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.border).
		Foreground(p.text).
		Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(p.accent).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.accent)
	dimStyle = lipgloss.NewStyle().Foreground(p.dim)
	accentStyle = lipgloss.NewStyle().Foreground(p.accent).Bold(true)
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(p.info)
	selectedStyle = lipgloss.NewStyle().Foreground(p.accent).Bold(true)
	progressFilled = lipgloss.NewStyle().Foreground(p.accent)
	progressEmpty = lipgloss.NewStyle().Foreground(p.border)
	sparklineStyle = lipgloss.NewStyle().Foreground(p.success)
	footerKeyStyle = lipgloss.NewStyle().Foreground(p.accent).Bold(true)
	footerDescStyle = lipgloss.NewStyle().Foreground(p.dim)
	statusRunningStyle = lipgloss.NewStyle().Foreground(p.info).Bold(true)
	statusDoneStyle = lipgloss.NewStyle().Foreground(p.success).Bold(true)
	statusErrorStyle = lipgloss.NewStyle().Foreground(p.errorC).Bold(true)
	statusIdleStyle = lipgloss.NewStyle().Foreground(p.dim)
}
