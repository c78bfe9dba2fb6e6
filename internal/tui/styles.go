package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorPurple = lipgloss.Color("#A855F7")
	ColorPink   = lipgloss.Color("#EC4899")
	ColorGreen  = lipgloss.Color("#4ADE80")
	ColorYellow = lipgloss.Color("#FBBF24")
	ColorMuted  = lipgloss.Color("#6B7280")
	ColorText   = lipgloss.Color("#E5E7EB")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorPurple).
			Bold(true)

	ClockStyle = lipgloss.NewStyle().
			Foreground(ColorPink).
			Bold(true).
			Padding(1, 4).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPurple)

	RunningStyle = lipgloss.NewStyle().Foreground(ColorGreen)
	PausedStyle  = lipgloss.NewStyle().Foreground(ColorYellow)

	MessageStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPink).
			Padding(1, 2)

	MutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
)
