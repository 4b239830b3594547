package kiosk

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#1D4ED8")
	colorAccent  = lipgloss.Color("#D97706")
	colorError   = lipgloss.Color("#DC2626")
	colorMuted   = lipgloss.Color("#6B7280")
	colorText    = lipgloss.Color("#F9FAFB")

	styleTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleSubtitle = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleLabel = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(22)

	styleLabelFocused = styleLabel.
				Foreground(colorAccent).
				Bold(true)

	styleChoice = lipgloss.NewStyle().
			Foreground(colorText)

	styleChoiceFocused = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2)

	stylePrayer = lipgloss.NewStyle().
			Italic(true).
			Foreground(colorText)

	styleHelp = lipgloss.NewStyle().
			Foreground(colorMuted)
)
