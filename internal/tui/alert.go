package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/manav03panchal/punctual/internal/model"
	"github.com/manav03panchal/punctual/internal/output"
)

// AlertComponent displays the currently ringing alert.
type AlertComponent struct {
	Event      model.Event
	FromSnooze bool
	Width      int
	Now        time.Time
}

// NewAlertComponent creates a new alert component.
func NewAlertComponent(event model.Event, fromSnooze bool, width int, now time.Time) *AlertComponent {
	return &AlertComponent{
		Event:      event,
		FromSnooze: fromSnooze,
		Width:      width,
		Now:        now,
	}
}

// View renders the alert component.
func (ac *AlertComponent) View() string {
	var content strings.Builder

	started := ac.Event.HasStarted(ac.Now)
	header := "⏰ MEETING SOON"
	if ac.FromSnooze {
		header = "⏰ SNOOZED REMINDER"
	}
	if started {
		header = "⏰ MEETING STARTED"
		content.WriteString(StyleUrgent.Render(header))
	} else {
		content.WriteString(StyleWarning.Render(header))
	}
	content.WriteString("\n\n")

	content.WriteString(StyleMeeting.Render(ac.Event.Title))
	content.WriteString("\n")

	countdown := output.FormatRelative(ac.Event.Start, ac.Now)
	if started {
		content.WriteString(StyleUrgent.Render(fmt.Sprintf("started %s", output.FormatClock(ac.Event.Start))))
	} else {
		content.WriteString(StyleCountdown.Render(fmt.Sprintf("starts %s (%s)",
			countdown, output.FormatClock(ac.Event.Start))))
	}

	if ac.Event.Organizer != "" {
		content.WriteString("\n")
		content.WriteString(StyleSubtitle.Render("Organizer: " + ac.Event.Organizer))
	}

	if ac.Event.MeetingLink != "" {
		content.WriteString("\n\n")
		content.WriteString(StyleLink.Render(ac.Event.MeetingLink))
	}

	content.WriteString("\n\n")
	content.WriteString(alertHelp(ac.Event.MeetingLink != ""))

	box := StyleAlertBox
	if started {
		box = StyleUrgentAlertBox
	}
	return box.Width(ac.Width - 4).Render(content.String())
}

func alertHelp(hasLink bool) string {
	keys := []struct {
		key  string
		desc string
	}{
		{"enter/esc", "dismiss"},
		{"s", "snooze"},
		{"1-9", "snooze n min"},
	}
	if hasLink {
		keys = append(keys, struct{ key, desc string }{"j", "join"})
	}

	var parts []string
	for _, k := range keys {
		parts = append(parts, StyleHelpKey.Render(k.key)+" "+StyleHelpDesc.Render(k.desc))
	}
	return StyleHelp.Render(strings.Join(parts, "  •  "))
}

// AgendaComponent displays upcoming meetings.
type AgendaComponent struct {
	Events []model.Event
	Width  int
	Limit  int
	Now    time.Time
}

// NewAgendaComponent creates a new agenda component.
func NewAgendaComponent(events []model.Event, width, limit int, now time.Time) *AgendaComponent {
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return &AgendaComponent{
		Events: events,
		Width:  width,
		Limit:  limit,
		Now:    now,
	}
}

// View renders the agenda component.
func (ag *AgendaComponent) View() string {
	var content strings.Builder

	content.WriteString(StyleTitle.Render("Upcoming Meetings"))
	content.WriteString("\n")

	if len(ag.Events) == 0 {
		content.WriteString(StyleMuted.Render("No upcoming meetings"))
	} else {
		for i, event := range ag.Events {
			if i > 0 {
				content.WriteString("\n")
			}
			content.WriteString(ag.renderEvent(event))
		}
	}

	box := StyleAgendaBox.Width(ag.Width - 4)
	return box.Render(content.String())
}

func (ag *AgendaComponent) renderEvent(event model.Event) string {
	var sb strings.Builder

	sb.WriteString(StyleMeeting.Render(event.Title))
	sb.WriteString("  ")
	sb.WriteString(StyleCountdown.Render(output.FormatRelative(event.Start, ag.Now)))

	sb.WriteString("\n")
	when := fmt.Sprintf("  %s - %s", output.FormatClock(event.Start), output.FormatClock(event.End))
	if event.MeetingLink != "" {
		when += "  \U0001F517"
	}
	sb.WriteString(StyleSubtitle.Render(when))

	return sb.String()
}

// HelpBar renders the help bar at the bottom.
func HelpBar() string {
	keys := []struct {
		key  string
		desc string
	}{
		{"r", "refresh"},
		{"q", "quit"},
	}

	var parts []string
	for _, k := range keys {
		part := StyleHelpKey.Render(k.key) + " " + StyleHelpDesc.Render(k.desc)
		parts = append(parts, part)
	}

	return StyleHelp.Render(strings.Join(parts, "  •  "))
}
