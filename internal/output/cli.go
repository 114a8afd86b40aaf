package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/manav03panchal/punctual/internal/model"
)

// Styles for CLI output.
var (
	// Colors
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorAccent  = lipgloss.Color("#10B981") // Green
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorWarning = lipgloss.Color("#F59E0B") // Yellow
	colorError   = lipgloss.Color("#EF4444") // Red
	colorSuccess = lipgloss.Color("#10B981") // Green

	// Styles
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBold = lipgloss.NewStyle().
			Bold(true)

	styleEvent = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleLink = lipgloss.NewStyle().
			Foreground(colorAccent)

	styleWhen = lipgloss.NewStyle().
			Bold(true)
)

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	if c.IsColorEnabled() {
		c.Println(styleTitle.Render(text))
	} else {
		c.Println(text)
	}
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	if c.IsColorEnabled() {
		c.Println(styleSuccess.Render("✓ " + text))
	} else {
		c.Println("✓ " + text)
	}
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	if c.IsColorEnabled() {
		c.Println(styleWarning.Render("⚠ " + text))
	} else {
		c.Println("⚠ " + text)
	}
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	if c.IsColorEnabled() {
		c.Println(styleError.Render("✗ " + text))
	} else {
		c.Println("✗ " + text)
	}
}

// Muted prints muted text.
func (c *CLIFormatter) Muted(text string) {
	if c.IsColorEnabled() {
		c.Println(styleMuted.Render(text))
	} else {
		c.Println(text)
	}
}

// EventTitle formats an event title.
func (c *CLIFormatter) EventTitle(title string) string {
	if c.IsColorEnabled() {
		return styleEvent.Render(title)
	}
	return title
}

// Link formats a meeting link.
func (c *CLIFormatter) Link(url string) string {
	if c.IsColorEnabled() {
		return styleLink.Render(url)
	}
	return url
}

// When formats a trigger or start time.
func (c *CLIFormatter) When(text string) string {
	if c.IsColorEnabled() {
		return styleWhen.Render(text)
	}
	return text
}

// PrintAgenda prints upcoming events grouped by day.
func (c *CLIFormatter) PrintAgenda(events []model.Event, now time.Time) {
	if len(events) == 0 {
		c.Muted("No upcoming meetings.")
		c.Muted("Use 'punctual source add <url>' to subscribe to a calendar.")
		return
	}

	var day string
	for _, e := range events {
		if d := FormatDate(e.Start); d != day {
			day = d
			c.Title(day)
		}
		line := fmt.Sprintf("  %s  %s (%s)",
			FormatClock(e.Start), c.EventTitle(e.Title), FormatRelative(e.Start, now))
		c.Println(line)
		if e.MeetingLink != "" {
			c.Printf("          %s\n", c.Link(e.MeetingLink))
		}
	}
}

// PrintEventCreated prints a confirmation for a manually created reminder.
func (c *CLIFormatter) PrintEventCreated(event model.Event, now time.Time) {
	c.Success(fmt.Sprintf("Reminder set: %s", c.EventTitle(event.Title)))
	c.Printf("  Starts: %s (%s)\n", FormatTime(event.Start), FormatRelative(event.Start, now))
	if event.Duration() > 0 {
		c.Printf("  Length: %s\n", FormatDuration(event.Duration()))
	}
	if event.MeetingLink != "" {
		c.Printf("  Link: %s\n", c.Link(event.MeetingLink))
	}
}

// PrintSources prints configured calendar sources.
func (c *CLIFormatter) PrintSources(sources []*model.Source) {
	if len(sources) == 0 {
		c.Muted("No calendar sources configured.")
		c.Muted("Use 'punctual source add <url>' to subscribe to a calendar.")
		return
	}

	rows := make([]TableRow, 0, len(sources))
	for _, s := range sources {
		sync := "never"
		if !s.LastSync.IsZero() {
			sync = FormatTime(s.LastSync)
		}
		status := "ok"
		if s.LastError != "" {
			status = s.LastError
		}
		rows = append(rows, TableRow{Columns: []string{s.Name, s.URL, sync, status}})
	}
	c.PrintTable([]string{"NAME", "URL", "LAST SYNC", "STATUS"}, rows)
}

// PrintWebhooks prints configured webhooks with masked URLs.
func (c *CLIFormatter) PrintWebhooks(webhooks []*model.Webhook) {
	if len(webhooks) == 0 {
		c.Muted("No webhooks configured.")
		c.Muted("Use 'punctual webhook add <name> <url>' to add one.")
		return
	}

	rows := make([]TableRow, 0, len(webhooks))
	for _, w := range webhooks {
		state := "disabled"
		if w.Enabled {
			state = "enabled"
		}
		used := "never"
		if !w.LastUsed.IsZero() {
			used = FormatTime(w.LastUsed)
		}
		rows = append(rows, TableRow{Columns: []string{w.Name, w.Type, w.MaskedURL(), state, used}})
	}
	c.PrintTable([]string{"NAME", "TYPE", "URL", "STATE", "LAST USED"}, rows)
}

// PrintPreferences prints the current timing preferences.
func (c *CLIFormatter) PrintPreferences(prefs model.TimingPreferences) {
	c.Title("Alert timing")
	c.Printf("  Default lead time: %s\n", c.When(fmt.Sprintf("%d minutes", prefs.DefaultMinutes)))
	if prefs.UseLengthBased {
		c.Printf("  Short meetings (<30m):  %d minutes\n", prefs.ShortMinutes)
		c.Printf("  Medium meetings (<=1h): %d minutes\n", prefs.MediumMinutes)
		c.Printf("  Long meetings (>1h):    %d minutes\n", prefs.LongMinutes)
	} else {
		c.Muted("  Length-based lead times: off")
	}
	if prefs.SoundEnabled {
		c.Printf("  Sound alert: %d minutes before\n", prefs.SoundMinutes)
	} else {
		c.Muted("  Sound alert: off")
	}
	if prefs.AutoJoin {
		c.Println("  Auto-join: on")
	} else {
		c.Muted("  Auto-join: off")
	}
	c.Printf("  Snooze default: %d minutes\n", prefs.SnoozeMinutes)
}

// PrintAlerts prints the pending alert queue.
func (c *CLIFormatter) PrintAlerts(alerts []model.Alert, now time.Time) {
	if len(alerts) == 0 {
		c.Muted("No pending alerts.")
		return
	}

	rows := make([]TableRow, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, TableRow{Columns: []string{
			FormatTime(a.TriggerAt),
			FormatRelative(a.TriggerAt, now),
			string(a.Kind),
			a.Event.Title,
		}})
	}
	c.PrintTable([]string{"FIRES AT", "IN", "KIND", "MEETING"}, rows)
}

// Table helpers for CLI output.
type TableRow struct {
	Columns []string
}

// PrintTable prints a simple table.
func (c *CLIFormatter) PrintTable(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, col := range row.Columns {
			if i < len(widths) && len(col) > widths[i] {
				widths[i] = len(col)
			}
		}
	}

	// Print headers
	var headerLine strings.Builder
	for i, h := range headers {
		headerLine.WriteString(fmt.Sprintf("%-*s  ", widths[i], h))
	}
	if c.IsColorEnabled() {
		c.Println(styleBold.Render(strings.TrimRight(headerLine.String(), " ")))
	} else {
		c.Println(strings.TrimRight(headerLine.String(), " "))
	}

	// Print separator
	var sep strings.Builder
	for _, w := range widths {
		sep.WriteString(strings.Repeat("─", w) + "  ")
	}
	c.Println(strings.TrimRight(sep.String(), " "))

	// Print rows
	for _, row := range rows {
		var rowLine strings.Builder
		for i, col := range row.Columns {
			if i < len(widths) {
				rowLine.WriteString(fmt.Sprintf("%-*s  ", widths[i], col))
			}
		}
		c.Println(strings.TrimRight(rowLine.String(), " "))
	}
}
