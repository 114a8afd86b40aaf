package sched

import (
	"strconv"
	"time"

	"github.com/manav03panchal/punctual/internal/errors"
	"github.com/manav03panchal/punctual/internal/logging"
	"github.com/manav03panchal/punctual/internal/model"
)

// Snooze defers the alert for an event by the given number of minutes.
// The currently shown alert for the event is hidden, pending Reminder and
// Sound alerts for it are superseded, and exactly one Snooze alert is queued
// at now+minutes. A pending MeetingStart alert is left in place.
//
// There is deliberately no upper bound tied to the meeting: a user may
// snooze past the meeting end. The caller supplies the event explicitly, so
// a snooze is valid even when the overlay has already moved on.
func (s *Scheduler) Snooze(event model.Event, minutes int) error {
	if minutes <= 0 {
		return errors.NewUserErrorWithField("minutes", strconv.Itoa(minutes),
			errors.ErrInvalidSnoozeMinutes.Error(),
			"use a positive number of minutes, e.g. 5")
	}
	if event.ID == "" {
		return errors.NewUserError("cannot snooze an event without an ID",
			"pass the event shown on the alert")
	}

	s.mu.Lock()
	gateway := s.gateway
	s.mu.Unlock()
	gateway.HideAlert()

	until := s.now().Add(time.Duration(minutes) * time.Minute)

	s.mu.Lock()
	s.supersedeEventAlertsLocked(event.ID)
	s.insertLocked(model.NewSnoozeAlert(event, until))
	s.mu.Unlock()

	// The loop may be sleeping past the new deadline; make it re-check.
	s.wakeLoop()

	logging.Info("alert snoozed",
		logging.KeyEvent, event.ID,
		"minutes", minutes,
		logging.KeyTriggerAt, until)
	return nil
}
