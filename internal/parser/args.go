package parser

import (
	"regexp"
	"strings"
)

// Keywords that begin the time portion of a remind invocation, so
// "design review tomorrow 2pm" splits into a title and a time expression.
var timeStartKeywords = map[string]bool{
	"today": true, "tonight": true, "tomorrow": true,
	"next": true, "at": true,
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

var (
	// isoDateRegex matches date tokens like 2026-01-15.
	isoDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	// clockRegex matches clock tokens like 14:00, 2pm, 10:30am.
	clockRegex = regexp.MustCompile(`(?i)^\d{1,2}(:\d{2})?(am|pm)$|^\d{1,2}:\d{2}$`)
)

// SplitTitleAndTime divides free-form remind arguments into the meeting
// title and the trailing time expression. The time part starts at the
// first token that reads as a time: a keyword like "tomorrow", a weekday,
// a relative "+30m", an ISO date, or a clock time.
func SplitTitleAndTime(args []string) (title string, timeExpr string) {
	split := len(args)
	for i, arg := range args {
		lower := strings.ToLower(arg)
		if timeStartKeywords[lower] ||
			relativeRegex.MatchString(arg) ||
			isoDateRegex.MatchString(arg) ||
			clockRegex.MatchString(arg) {
			split = i
			break
		}
	}

	title = strings.TrimSpace(strings.Join(args[:split], " "))
	timeExpr = strings.TrimSpace(strings.Join(args[split:], " "))

	// "at" is a connector, not part of the expression dateparser sees.
	timeExpr = strings.TrimSpace(strings.TrimPrefix(timeExpr, "at "))

	return title, timeExpr
}
