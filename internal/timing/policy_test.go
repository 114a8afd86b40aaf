package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/punctual/internal/model"
)

func testEvent(start, end time.Time) model.Event {
	return model.Event{ID: "e1", Title: "Standup", Start: start, End: end}
}

func defaultPrefs() model.TimingPreferences {
	return model.DefaultTimingPreferences().Clamped()
}

func TestFireTimesDefaultReminder(t *testing.T) {
	// Scenario A: event at now+300s with default 5-minutes-before prefs
	// yields exactly one Reminder firing right now.
	now := time.Now()
	event := testEvent(now.Add(300*time.Second), now.Add(time.Hour))

	alerts := FireTimes(event, defaultPrefs(), now)
	require.Len(t, alerts, 1)
	assert.Equal(t, model.KindReminder, alerts[0].Kind)
	assert.Equal(t, 5, alerts[0].MinutesBefore)
	assert.True(t, alerts[0].TriggerAt.Equal(now))
}

func TestFireTimesWithSound(t *testing.T) {
	// Scenario B: sound on with one minute before gives a second,
	// independently timed alert.
	now := time.Now()
	event := testEvent(now.Add(300*time.Second), now.Add(time.Hour))

	prefs := defaultPrefs()
	prefs.SoundEnabled = true
	prefs.SoundMinutes = 1

	alerts := FireTimes(event, prefs, now)
	require.Len(t, alerts, 2)
	assert.Equal(t, model.KindReminder, alerts[0].Kind)
	assert.True(t, alerts[0].TriggerAt.Equal(now))
	assert.Equal(t, model.KindSound, alerts[1].Kind)
	assert.True(t, alerts[1].TriggerAt.Equal(now.Add(240*time.Second)))
	assert.False(t, alerts[0].TriggerAt.Equal(alerts[1].TriggerAt))
}

func TestFireTimesSoundCoincidesWithReminder(t *testing.T) {
	now := time.Now()
	event := testEvent(now.Add(time.Hour), now.Add(2*time.Hour))

	prefs := defaultPrefs()
	prefs.SoundEnabled = true
	prefs.SoundMinutes = prefs.DefaultMinutes // identical fire time

	alerts := FireTimes(event, prefs, now)
	require.Len(t, alerts, 1)
	assert.Equal(t, model.KindReminder, alerts[0].Kind)
}

func TestFireTimesDurationTiers(t *testing.T) {
	now := time.Now()
	prefs := defaultPrefs()
	prefs.UseLengthBased = true
	prefs.ShortMinutes = 1
	prefs.MediumMinutes = 2
	prefs.LongMinutes = 5

	tests := []struct {
		name       string
		duration   time.Duration
		wantBefore time.Duration
	}{
		{"short_20m", 20 * time.Minute, time.Minute},
		{"medium_45m", 45 * time.Minute, 2 * time.Minute},
		{"long_90m", 90 * time.Minute, 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := now.Add(2 * time.Hour)
			event := testEvent(start, start.Add(tt.duration))

			alerts := FireTimes(event, prefs, now)
			require.Len(t, alerts, 1)
			assert.True(t, alerts[0].TriggerAt.Equal(start.Add(-tt.wantBefore)))
		})
	}
}

func TestFireTimesMissedWindowFiresImmediately(t *testing.T) {
	// Reminder time already past, meeting still ahead: clamp to now,
	// never drop.
	now := time.Now()
	event := testEvent(now.Add(2*time.Minute), now.Add(time.Hour))

	alerts := FireTimes(event, defaultPrefs(), now) // 5m before = now-3m
	require.Len(t, alerts, 1)
	assert.True(t, alerts[0].TriggerAt.Equal(now))
	assert.True(t, alerts[0].Due(now))
}

func TestFireTimesExpiredEventDropped(t *testing.T) {
	now := time.Now()
	event := testEvent(now.Add(-2*time.Hour), now.Add(-time.Hour))
	assert.Empty(t, FireTimes(event, defaultPrefs(), now))
}

func TestFireTimesStartedEventNotRescheduled(t *testing.T) {
	// Meetings already underway get no retroactive reminder.
	now := time.Now()
	event := testEvent(now.Add(-10*time.Minute), now.Add(50*time.Minute))
	assert.Empty(t, FireTimes(event, defaultPrefs(), now))
}

func TestFireTimesCancelledEventDropped(t *testing.T) {
	now := time.Now()
	event := testEvent(now.Add(time.Hour), now.Add(2*time.Hour))
	event.Status = "CANCELLED"
	assert.Empty(t, FireTimes(event, defaultPrefs(), now))
}

func TestFireTimesMeetingStart(t *testing.T) {
	now := time.Now()
	event := testEvent(now.Add(time.Hour), now.Add(2*time.Hour))
	event.MeetingLink = "https://meet.google.com/abc"

	prefs := defaultPrefs()
	prefs.AutoJoin = true

	alerts := FireTimes(event, prefs, now)
	require.Len(t, alerts, 2)
	assert.Equal(t, model.KindMeetingStart, alerts[1].Kind)
	assert.True(t, alerts[1].TriggerAt.Equal(event.Start))

	// Without a link there is nothing to join.
	noLink := testEvent(now.Add(time.Hour), now.Add(2*time.Hour))
	alerts = FireTimes(noLink, prefs, now)
	require.Len(t, alerts, 1)
	assert.Equal(t, model.KindReminder, alerts[0].Kind)
}

func TestForEvents(t *testing.T) {
	now := time.Now()
	events := []model.Event{
		testEvent(now.Add(time.Hour), now.Add(2*time.Hour)),
		{ID: "expired", Start: now.Add(-2 * time.Hour), End: now.Add(-time.Hour)},
		{ID: "e2", Title: "Review", Start: now.Add(3 * time.Hour), End: now.Add(4 * time.Hour)},
	}

	alerts := ForEvents(events, defaultPrefs(), now)
	require.Len(t, alerts, 2)
	assert.Equal(t, "e1", alerts[0].Event.ID)
	assert.Equal(t, "e2", alerts[1].Event.ID)
}
