package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used by the browser view.
type Styles struct {
	Eyebrow  lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Control  lipgloss.Style
	Active   lipgloss.Style
	Loading  lipgloss.Style
	Error    lipgloss.Style
	Muted    lipgloss.Style
	Cursor   lipgloss.Style
	Selected lipgloss.Style
	Pane     lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the default palette.
func DefaultStyles() Styles {
	accent := lipgloss.Color("#EE1515")
	muted := lipgloss.Color("241")

	return Styles{
		Eyebrow:  lipgloss.NewStyle().Foreground(accent).Bold(true),
		Title:    lipgloss.NewStyle().Bold(true),
		Subtitle: lipgloss.NewStyle().Foreground(muted),
		Control:  lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(muted),
		Active:   lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(accent).Bold(true),
		Loading:  lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		Error:    lipgloss.NewStyle().Foreground(accent),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Cursor:   lipgloss.NewStyle().Reverse(true),
		Selected: lipgloss.NewStyle().Foreground(accent).Bold(true),
		Pane:     lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(muted).Padding(0, 1),
		Help:     lipgloss.NewStyle().Foreground(muted),
	}
}
