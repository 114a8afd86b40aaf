package validate

import (
	"strings"
	"unicode"
)

// SanitizeTitle cleans a meeting title for safe storage and display.
func SanitizeTitle(title string) string {
	title = strings.TrimSpace(title)
	title = strings.ReplaceAll(title, "\x00", "")
	return StripControlChars(title)
}

// StripControlChars removes control characters from a string.
func StripControlChars(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if !unicode.IsControl(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// TruncateString truncates a string to maxLen runes, appending an ellipsis.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
