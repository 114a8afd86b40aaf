package calendar

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/manav03panchal/punctual/internal/model"
)

var urlRegex = regexp.MustCompile(`https?://[^\s<>"{}|\\^[\]` + "`" + `]+`)

var nonAlnumRegex = regexp.MustCompile(`[^a-zA-Z0-9]+`)

func parseEvent(comp *ical.Component) *model.Event {
	event := &model.Event{}

	if uidProp := comp.Props.Get(ical.PropUID); uidProp != nil {
		event.ID = uidProp.Value
	}

	if summaryProp := comp.Props.Get(ical.PropSummary); summaryProp != nil {
		event.Title = summaryProp.Value
	}

	if descProp := comp.Props.Get(ical.PropDescription); descProp != nil {
		event.Description = descProp.Value
		event.MeetingLink = extractMeetingLink(descProp.Value)
	}

	if orgProp := comp.Props.Get(ical.PropOrganizer); orgProp != nil {
		event.Organizer = strings.TrimPrefix(orgProp.Value, "mailto:")
	}

	if startProp := comp.Props.Get(ical.PropDateTimeStart); startProp != nil {
		if t, err := parseDateTimeProperty(startProp); err == nil {
			event.Start = t
		}
	}

	if endProp := comp.Props.Get(ical.PropDateTimeEnd); endProp != nil {
		if t, err := parseDateTimeProperty(endProp); err == nil {
			event.End = t
		}
	}

	if statusProp := comp.Props.Get(ical.PropStatus); statusProp != nil {
		event.Status = statusProp.Value
	}

	// Some feeds mark cancellation only in the title.
	if event.Status != "CANCELLED" && isCancelledTitle(event.Title) {
		event.Status = "CANCELLED"
	}

	// Fall back to the location field for the meeting link.
	if locProp := comp.Props.Get(ical.PropLocation); locProp != nil && event.MeetingLink == "" {
		event.MeetingLink = extractMeetingLink(locProp.Value)
	}

	return event
}

func parseDateTimeProperty(prop *ical.Prop) (time.Time, error) {
	if t, err := prop.DateTime(time.Local); err == nil {
		return t.In(time.Local), nil
	}

	// Feeds in the wild carry a few non-standard datetime shapes.
	value := prop.Value
	formats := []string{
		"20060102T150405",
		"20060102T150405Z",
		time.RFC3339,
		"2006-01-02T15:04:05",
	}

	for _, format := range formats {
		if t, err := time.ParseInLocation(format, value, time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse datetime value: %s", value)
}

// extractMeetingLink pulls the first video-call URL out of free text,
// preferring known meeting platforms over arbitrary links.
func extractMeetingLink(text string) string {
	matches := urlRegex.FindAllString(text, -1)

	for _, match := range matches {
		lower := strings.ToLower(match)
		if strings.Contains(lower, "zoom") ||
			strings.Contains(lower, "meet.google") ||
			strings.Contains(lower, "teams.microsoft") ||
			strings.Contains(lower, "webex") ||
			strings.Contains(lower, "gotomeeting") {
			return match
		}
	}

	if len(matches) > 0 {
		return matches[0]
	}

	return ""
}

func isCancelledTitle(title string) bool {
	clean := nonAlnumRegex.ReplaceAllString(strings.ToLower(title), "")
	return strings.HasPrefix(clean, "canceled") || strings.HasPrefix(clean, "cancelled")
}
