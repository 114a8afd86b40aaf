// Package timing computes alert fire times from events and user preferences.
// It is pure: no clocks, no queues, no side effects.
package timing

import (
	"time"

	"github.com/manav03panchal/punctual/internal/model"
)

// FireTimes maps an event and a preferences snapshot to the alerts the event
// needs, as of now. Rules:
//
//   - Events already over, or cancelled, produce nothing.
//   - Events already started produce nothing new; only snooze-sourced alerts
//     (created elsewhere) may still fire for them.
//   - One Reminder per event, minutes-before chosen by the preferences
//     (fixed or duration-tiered).
//   - A computed time already in the past while the meeting is still ahead
//     ("missed window", e.g. late app launch) clamps to now so the wait loop
//     fires it on its first pass instead of dropping it.
//   - With sound enabled, a second independently timed Sound alert, skipped
//     when its time lands exactly on the Reminder time.
//   - With auto-join on and a meeting link present, a MeetingStart alert at
//     the start instant.
func FireTimes(event model.Event, prefs model.TimingPreferences, now time.Time) []model.Alert {
	if event.IsCancelled() || event.HasEnded(now) || event.HasStarted(now) {
		return nil
	}

	minutes := prefs.MinutesFor(event)
	reminderAt := clampToNow(event.Start.Add(-time.Duration(minutes)*time.Minute), now)

	alerts := []model.Alert{model.NewReminderAlert(event, reminderAt, minutes)}

	if prefs.SoundEnabled {
		soundAt := clampToNow(event.Start.Add(-time.Duration(prefs.SoundMinutes)*time.Minute), now)
		if !soundAt.Equal(reminderAt) {
			alerts = append(alerts, model.NewSoundAlert(event, soundAt, prefs.SoundMinutes))
		}
	}

	if prefs.AutoJoin && event.Joinable() {
		alerts = append(alerts, model.NewMeetingStartAlert(event))
	}

	return alerts
}

// ForEvents computes fire times for a whole working set.
func ForEvents(events []model.Event, prefs model.TimingPreferences, now time.Time) []model.Alert {
	var alerts []model.Alert
	for _, event := range events {
		alerts = append(alerts, FireTimes(event, prefs, now)...)
	}
	return alerts
}

func clampToNow(t, now time.Time) time.Time {
	if t.Before(now) {
		return now
	}
	return t
}
