package ui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used for boxed terminal output such as
// the REPL banner and status panels.
type Styles struct {
	Banner lipgloss.Style
	Title  lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Error  lipgloss.Style
}

// CurrentStyles returns styles matching the active theme. With colors
// disabled the border is kept and every color is dropped.
func CurrentStyles() Styles {
	if !IsColorEnabled() {
		plain := lipgloss.NewStyle()
		return Styles{
			Banner: plain.Border(lipgloss.NormalBorder()).Padding(0, 1),
			Title:  plain.Bold(true),
			Label:  plain,
			Value:  plain,
			Error:  plain,
		}
	}
	return Styles{
		Banner: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("51")).
			Padding(0, 1),
		Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51")),
		Label: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Value: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82")),
		Error: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// KeyValueBox renders label/value rows inside a bordered box under a title.
// rows are rendered in order as "label: value".
func KeyValueBox(title string, rows [][2]string) string {
	st := CurrentStyles()
	width := 0
	for _, r := range rows {
		if w := lipgloss.Width(r[0]); w > width {
			width = w
		}
	}
	lines := []string{st.Title.Render(title)}
	for _, r := range rows {
		label := st.Label.Width(width + 1).Render(r[0] + ":")
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, label, " ", st.Value.Render(r[1])))
	}
	return st.Banner.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
