package tui

import "github.com/charmbracelet/lipgloss"

// Shared color palette for all TUI views.
var (
	ColorHeader    = lipgloss.Color("86")  // Cyan
	ColorLabel     = lipgloss.Color("244") // Gray
	ColorValue     = lipgloss.Color("255") // White
	ColorMuted     = lipgloss.Color("240") // Dark gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorWarning   = lipgloss.Color("214") // Orange
	ColorCritical  = lipgloss.Color("196") // Red
	ColorHighlight = lipgloss.Color("212") // Pink
)

// Shared styles for all TUI views.
var (
	HeaderStyle = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	LabelStyle  = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle  = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)

	SuccessStyle  = lipgloss.NewStyle().Foreground(ColorSuccess)
	WarningStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
	CriticalStyle = lipgloss.NewStyle().Foreground(ColorCritical).Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorHeader).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)
)
