package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
	muted  = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(accent).
			Padding(0, 1)

	userLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	botLabelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"})

	userTextStyle = lipgloss.NewStyle().PaddingLeft(2)
	botTextStyle  = lipgloss.NewStyle().PaddingLeft(2)

	busyStyle   = lipgloss.NewStyle().Foreground(muted).Italic(true)
	helpStyle   = lipgloss.NewStyle().Foreground(muted)
	statusStyle = lipgloss.NewStyle().Foreground(muted)

	floatStyle = lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)
)
