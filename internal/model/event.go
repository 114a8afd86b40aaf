package model

import (
	"fmt"
	"time"
)

// Event represents a calendar event consumed by the alert engine.
// The scheduler treats events as read-only; mutation happens only in the
// calendar sync layer before the working set is handed over.
type Event struct {
	Key         string    `json:"key"`
	ID          string    `json:"id"` // iCal UID, or a deterministic fallback
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Organizer   string    `json:"organizer,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	MeetingLink string    `json:"meeting_link,omitempty"`
	Status      string    `json:"status,omitempty"` // CONFIRMED, CANCELLED, NEEDS-ACTION
	SourceID    string    `json:"source_id,omitempty"`
	Manual      bool      `json:"manual,omitempty"` // created via `punctual remind`
}

// SetKey sets the database key for this event.
func (e *Event) SetKey(key string) {
	e.Key = key
}

// GetKey returns the database key for this event.
func (e *Event) GetKey() string {
	return e.Key
}

// GenerateEventKey generates a database key for an event.
func GenerateEventKey(id string) string {
	return fmt.Sprintf("%s:%s", PrefixEvent, id)
}

// Duration returns the event length (end minus start).
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// HasStarted returns true if the event start is at or before now.
func (e Event) HasStarted(now time.Time) bool {
	return !e.Start.After(now)
}

// HasEnded returns true if the event end is at or before now.
func (e Event) HasEnded(now time.Time) bool {
	return !e.End.After(now)
}

// Joinable returns true if the event carries a meeting link.
func (e Event) Joinable() bool {
	return e.MeetingLink != ""
}

// IsCancelled returns true if the event was cancelled by the organizer.
func (e Event) IsCancelled() bool {
	return e.Status == "CANCELLED"
}
