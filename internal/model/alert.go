package model

import (
	"time"

	"github.com/google/uuid"
)

// AlertKind distinguishes how an alert was produced and how it is presented.
type AlertKind string

// Alert kinds.
const (
	KindReminder     AlertKind = "reminder"      // computed from timing preferences
	KindSound        AlertKind = "sound"         // independently timed sound-only alert
	KindSnooze       AlertKind = "snooze"        // user deferred a shown alert
	KindMeetingStart AlertKind = "meeting_start" // fires at event start (auto-join)
)

// Alert is one pending notification: an event, an absolute fire instant and a
// kind. Alerts live only in the scheduler's queue; they are never persisted.
type Alert struct {
	ID            string
	Event         Event
	TriggerAt     time.Time
	Kind          AlertKind
	MinutesBefore int    // for Reminder and Sound kinds
	Seq           uint64 // insertion order, tie-break for equal TriggerAt
}

// NewReminderAlert creates a Reminder alert for the event.
func NewReminderAlert(event Event, triggerAt time.Time, minutesBefore int) Alert {
	return Alert{
		ID:            uuid.New().String(),
		Event:         event,
		TriggerAt:     triggerAt,
		Kind:          KindReminder,
		MinutesBefore: minutesBefore,
	}
}

// NewSoundAlert creates a sound-only alert for the event.
func NewSoundAlert(event Event, triggerAt time.Time, minutesBefore int) Alert {
	return Alert{
		ID:            uuid.New().String(),
		Event:         event,
		TriggerAt:     triggerAt,
		Kind:          KindSound,
		MinutesBefore: minutesBefore,
	}
}

// NewSnoozeAlert creates a Snooze alert that fires at the given instant.
func NewSnoozeAlert(event Event, until time.Time) Alert {
	return Alert{
		ID:        uuid.New().String(),
		Event:     event,
		TriggerAt: until,
		Kind:      KindSnooze,
	}
}

// NewMeetingStartAlert creates an alert that fires at the event start.
func NewMeetingStartAlert(event Event) Alert {
	return Alert{
		ID:        uuid.New().String(),
		Event:     event,
		TriggerAt: event.Start,
		Kind:      KindMeetingStart,
	}
}

// Due returns true once now has reached the trigger instant.
func (a Alert) Due(now time.Time) bool {
	return !now.Before(a.TriggerAt)
}

// Remaining returns the time left until the alert fires.
func (a Alert) Remaining(now time.Time) time.Duration {
	return a.TriggerAt.Sub(now)
}

// FromSnooze returns true if the alert was created by a snooze request.
func (a Alert) FromSnooze() bool {
	return a.Kind == KindSnooze
}
