package calendar

import (
	"time"

	"github.com/manav03panchal/punctual/internal/model"
)

// shouldInclude decides whether a parsed event belongs in the working set.
// Events with missing times, cancelled events, all-day blocks and events
// entirely outside the sync window are dropped at the boundary so the
// scheduler never sees them.
func shouldInclude(event *model.Event, now, horizon time.Time, stats *filterStats) bool {
	if event.Start.IsZero() || event.End.IsZero() {
		stats.filteredMissingTime++
		return false
	}

	if event.IsCancelled() {
		stats.filteredCancelled++
		return false
	}

	if isAllDay(event) {
		stats.filteredAllDay++
		return false
	}

	if event.HasEnded(now) || event.Start.After(horizon) {
		stats.filteredOutsideWindow++
		return false
	}

	return true
}

// isAllDay treats events spanning 24 hours or more at midnight boundaries
// as all-day blocks rather than meetings.
func isAllDay(event *model.Event) bool {
	if event.Duration() < 24*time.Hour {
		return false
	}
	h, m, s := event.Start.Clock()
	return h == 0 && m == 0 && s == 0
}
