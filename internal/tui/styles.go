// Package tui provides the terminal watch-mode interface for Punctual.
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette for the watch view.
var (
	ColorPrimary = lipgloss.Color("#7C3AED") // Purple
	ColorAccent  = lipgloss.Color("#10B981") // Green
	ColorMuted   = lipgloss.Color("#6B7280") // Gray
	ColorWarning = lipgloss.Color("#F59E0B") // Yellow
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorUrgent  = lipgloss.Color("#EF4444") // Red
	ColorBorder  = lipgloss.Color("#4B5563") // Dark gray
)

// Base styles for the watch view.
var (
	// StyleTitle is used for section titles.
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	// StyleSubtitle is used for secondary information.
	StyleSubtitle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StyleMuted is an alias for subtitle text.
	StyleMuted = StyleSubtitle

	// StyleMeeting is used for meeting titles.
	StyleMeeting = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// StyleLink is used for meeting links.
	StyleLink = lipgloss.NewStyle().
			Foreground(ColorAccent)

	// StyleCountdown is used for time-until values.
	StyleCountdown = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	// StyleUrgent is used for alerts about meetings starting now.
	StyleUrgent = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorUrgent)

	// StyleWarning is used for warning messages.
	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// StyleError is used for error messages.
	StyleError = lipgloss.NewStyle().
			Foreground(ColorError)

	// StyleHelp is used for help text at the bottom.
	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1)

	// StyleHelpKey is used for keyboard shortcut keys.
	StyleHelpKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	// StyleHelpDesc is used for keyboard shortcut descriptions.
	StyleHelpDesc = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// Box styles for sections.
var (
	// StyleAgendaBox frames the upcoming meetings list.
	StyleAgendaBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2).
			MarginBottom(1)

	// StyleAlertBox frames a ringing alert.
	StyleAlertBox = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(ColorWarning).
			Padding(1, 2).
			MarginBottom(1)

	// StyleUrgentAlertBox frames an alert whose meeting already started.
	StyleUrgentAlertBox = lipgloss.NewStyle().
				Border(lipgloss.ThickBorder()).
				BorderForeground(ColorUrgent).
				Padding(1, 2).
				MarginBottom(1)
)
