package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DurationResult represents the result of parsing a meeting length.
type DurationResult struct {
	Duration time.Duration
	Valid    bool
}

// durationPattern matches length expressions like "2h", "30m", "1h30m",
// "2.5h", "90 minutes".
var durationPattern = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(h|hr|hrs|hour|hours|m|min|mins|minute|minutes)?\s*(?:(\d+(?:\.\d+)?)\s*(m|min|mins|minute|minutes))?$`)

// ParseLength parses a human-readable meeting length.
// Supports formats like:
//   - "30m" or "30 minutes"
//   - "1h30m" or "1 hour 30 minutes"
//   - "2.5h" (2 hours 30 minutes)
//   - "45" (bare numbers are minutes)
func ParseLength(input string) DurationResult {
	input = strings.TrimSpace(input)
	if input == "" {
		return DurationResult{Valid: false}
	}

	// Standard Go duration format first (e.g., "2h30m")
	if d, err := time.ParseDuration(input); err == nil && d > 0 {
		return DurationResult{Duration: d, Valid: true}
	}

	matches := durationPattern.FindStringSubmatch(input)
	if matches == nil {
		return DurationResult{Valid: false}
	}

	var total time.Duration

	if matches[1] != "" {
		value, _ := strconv.ParseFloat(matches[1], 64)
		unit := strings.ToLower(matches[2])
		if unit == "" {
			// A bare number is a minute count, not hours: meeting
			// lengths are short.
			unit = "m"
		}
		total += unitToDuration(value, unit)
	}

	if matches[3] != "" {
		value, _ := strconv.ParseFloat(matches[3], 64)
		total += unitToDuration(value, strings.ToLower(matches[4]))
	}

	if total <= 0 {
		return DurationResult{Valid: false}
	}

	return DurationResult{Duration: total, Valid: true}
}

// unitToDuration converts a value and unit to a duration.
func unitToDuration(value float64, unit string) time.Duration {
	switch unit {
	case "h", "hr", "hrs", "hour", "hours":
		return time.Duration(value * float64(time.Hour))
	case "m", "min", "mins", "minute", "minutes":
		return time.Duration(value * float64(time.Minute))
	default:
		return time.Duration(value * float64(time.Minute))
	}
}
