package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Start time parsing
// =============================================================================

func TestParseStartTimeRelative(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"+5m", 5 * time.Minute},
		{"+1h", time.Hour},
		{"+2d", 48 * time.Hour},
		{"+1w", 7 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			before := time.Now()
			result := ParseStartTime(tt.input)
			require.NoError(t, result.Error)
			assert.WithinDuration(t, before.Add(tt.want), result.Time, 2*time.Second)
		})
	}
}

func TestParseStartTimeNaturalLanguage(t *testing.T) {
	result := ParseStartTime("tomorrow 2pm")
	require.NoError(t, result.Error)

	tomorrow := time.Now().AddDate(0, 0, 1)
	assert.Equal(t, tomorrow.Day(), result.Time.Day())
	assert.Equal(t, 14, result.Time.Hour())
}

func TestParseStartTimeISO(t *testing.T) {
	future := time.Now().AddDate(1, 0, 0)
	input := future.Format("2006-01-02") + " 14:00"

	result := ParseStartTime(input)
	require.NoError(t, result.Error)
	assert.Equal(t, 14, result.Time.Hour())
}

func TestParseStartTimeEmpty(t *testing.T) {
	assert.Error(t, ParseStartTime("").Error)
	assert.Error(t, ParseStartTime("   ").Error)
}

func TestParseStartTimeGibberish(t *testing.T) {
	assert.Error(t, ParseStartTime("not a time at all xyz").Error)
}

func TestParseStartTimePastDateRejected(t *testing.T) {
	result := ParseStartTime("2020-01-01 10:00")
	assert.Error(t, result.Error)
}

// =============================================================================
// Meeting length parsing
// =============================================================================

func TestParseLength(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
		valid bool
	}{
		{"30m", 30 * time.Minute, true},
		{"1h", time.Hour, true},
		{"1h30m", 90 * time.Minute, true},
		{"2.5h", 150 * time.Minute, true},
		{"90 minutes", 90 * time.Minute, true},
		{"1 hour 15 min", 75 * time.Minute, true},
		{"45", 45 * time.Minute, true}, // bare numbers are minutes
		{"", 0, false},
		{"soon", 0, false},
		{"0m", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseLength(tt.input)
			assert.Equal(t, tt.valid, result.Valid)
			if tt.valid {
				assert.Equal(t, tt.want, result.Duration)
			}
		})
	}
}

// =============================================================================
// Argument splitting
// =============================================================================

func TestSplitTitleAndTime(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		title    string
		timeExpr string
	}{
		{
			name:     "keyword tomorrow",
			args:     []string{"design", "review", "tomorrow", "2pm"},
			title:    "design review",
			timeExpr: "tomorrow 2pm",
		},
		{
			name:     "at connector stripped",
			args:     []string{"standup", "at", "10:30am"},
			title:    "standup",
			timeExpr: "10:30am",
		},
		{
			name:     "relative expression",
			args:     []string{"quick", "sync", "+30m"},
			title:    "quick sync",
			timeExpr: "+30m",
		},
		{
			name:     "iso date",
			args:     []string{"planning", "2026-09-15", "14:00"},
			title:    "planning",
			timeExpr: "2026-09-15 14:00",
		},
		{
			name:     "weekday",
			args:     []string{"retro", "friday", "4pm"},
			title:    "retro",
			timeExpr: "friday 4pm",
		},
		{
			name:     "no time part",
			args:     []string{"just", "a", "title"},
			title:    "just a title",
			timeExpr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, timeExpr := SplitTitleAndTime(tt.args)
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.timeExpr, timeExpr)
		})
	}
}

// =============================================================================
// Display formatting
// =============================================================================

func TestFormatStart(t *testing.T) {
	assert.Contains(t, FormatStart(time.Now()), "Today")

	tomorrow := time.Now().AddDate(0, 0, 1)
	assert.Contains(t, FormatStart(tomorrow), "Tomorrow")

	farOut := time.Now().AddDate(0, 1, 0)
	assert.Contains(t, FormatStart(farOut), farOut.Format("Jan"))
}

func TestFormatTimeUntil(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "started", FormatTimeUntil(now.Add(-time.Hour)))
	assert.Equal(t, "less than a minute", FormatTimeUntil(now.Add(30*time.Second)))
	assert.Equal(t, "in 5 minutes", FormatTimeUntil(now.Add(5*time.Minute+5*time.Second)))
	assert.Equal(t, "in 2 hours", FormatTimeUntil(now.Add(2*time.Hour+5*time.Second)))
	assert.Equal(t, "in 3 days", FormatTimeUntil(now.Add(3*24*time.Hour+time.Minute)))
}

func TestRelativeRegexRejectsJunk(t *testing.T) {
	assert.False(t, relativeRegex.MatchString("+5x"))
	assert.False(t, relativeRegex.MatchString("5m"))
	assert.False(t, relativeRegex.MatchString("+m"))
}
