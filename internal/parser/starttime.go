// Package parser turns human input into meeting times and lengths.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"

	"github.com/manav03panchal/punctual/internal/errors"
)

// StartTimeResult holds the parsed meeting start and any error.
type StartTimeResult struct {
	Time  time.Time
	Error error
}

// relativeRegex matches relative time expressions like "+5m", "+1h", "+2d".
var relativeRegex = regexp.MustCompile(`^\+(\d+)([smhdw])$`)

// ParseStartTime parses a natural language meeting start expression.
// Supports formats like:
//   - "+5m", "+1h", "+2d" (relative)
//   - "friday 5pm", "tomorrow 2pm" (natural language)
//   - "2026-01-15 14:00" (ISO format)
func ParseStartTime(input string) StartTimeResult {
	input = strings.TrimSpace(input)
	if input == "" {
		return StartTimeResult{Error: errors.NewUserError(
			"meeting time is required",
			`give a time like "tomorrow 2pm" or "+30m"`)}
	}

	if match := relativeRegex.FindStringSubmatch(input); match != nil {
		return parseRelativeStart(match[1], match[2])
	}

	cfg := &dateparser.Configuration{
		CurrentTime: time.Now(),
	}

	result, err := dateparser.Parse(cfg, input)
	if err != nil {
		return StartTimeResult{Error: errors.NewUserErrorWithField(
			"time", input,
			fmt.Sprintf("could not understand %q as a time", input),
			`try "tomorrow 2pm", "friday 10:30", or "+45m"`)}
	}

	// A bare clock time earlier today means the next occurrence.
	if result.Time.Before(time.Now()) {
		if isSameDay(result.Time, time.Now()) {
			result.Time = result.Time.AddDate(0, 0, 1)
		} else {
			return StartTimeResult{Error: errors.ErrDeadlineInPast}
		}
	}

	return StartTimeResult{Time: result.Time}
}

// parseRelativeStart parses relative time expressions.
func parseRelativeStart(numStr, unit string) StartTimeResult {
	num, _ := strconv.Atoi(numStr)
	if num <= 0 {
		return StartTimeResult{Error: fmt.Errorf("invalid duration: must be positive")}
	}

	var d time.Duration
	switch unit {
	case "s":
		d = time.Duration(num) * time.Second
	case "m":
		d = time.Duration(num) * time.Minute
	case "h":
		d = time.Duration(num) * time.Hour
	case "d":
		d = time.Duration(num) * 24 * time.Hour
	case "w":
		d = time.Duration(num) * 7 * 24 * time.Hour
	default:
		return StartTimeResult{Error: fmt.Errorf("invalid time unit: %s", unit)}
	}

	return StartTimeResult{Time: time.Now().Add(d)}
}

// isSameDay checks if two times are on the same day.
func isSameDay(t1, t2 time.Time) bool {
	y1, m1, d1 := t1.Date()
	y2, m2, d2 := t2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// FormatStart formats a meeting start for display.
func FormatStart(t time.Time) string {
	now := time.Now()
	diff := time.Until(t)

	var datePart string
	if isSameDay(t, now) {
		datePart = "Today"
	} else if isSameDay(t, now.AddDate(0, 0, 1)) {
		datePart = "Tomorrow"
	} else if diff < 7*24*time.Hour {
		datePart = t.Format("Monday")
	} else {
		datePart = t.Format("Mon, Jan 2")
	}

	return fmt.Sprintf("%s at %s", datePart, t.Format("3:04 PM"))
}

// FormatTimeUntil formats the duration until a meeting start.
func FormatTimeUntil(t time.Time) string {
	diff := time.Until(t)
	if diff < 0 {
		return "started"
	}

	if diff < time.Minute {
		return "less than a minute"
	}
	if diff < time.Hour {
		mins := int(diff.Minutes())
		if mins == 1 {
			return "in 1 minute"
		}
		return fmt.Sprintf("in %d minutes", mins)
	}
	if diff < 24*time.Hour {
		hours := int(diff.Hours())
		mins := int(diff.Minutes()) % 60
		if hours == 1 {
			if mins > 0 {
				return fmt.Sprintf("in 1 hour %d minutes", mins)
			}
			return "in 1 hour"
		}
		if mins > 0 {
			return fmt.Sprintf("in %d hours %d minutes", hours, mins)
		}
		return fmt.Sprintf("in %d hours", hours)
	}
	if diff < 7*24*time.Hour {
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "in 1 day"
		}
		return fmt.Sprintf("in %d days", days)
	}

	weeks := int(diff.Hours() / (24 * 7))
	if weeks == 1 {
		return "in 1 week"
	}
	return fmt.Sprintf("in %d weeks", weeks)
}
