package sched

import "github.com/manav03panchal/punctual/internal/model"

// Gateway is the presentation boundary the scheduler dispatches through.
// The scheduler never touches windows, terminals or webhooks directly.
//
// Implementations must not block: any slow work (building UI, HTTP posts)
// happens behind the interface, off the scheduler's loop. ShowAlert is
// idempotent for the event already being shown and replaces the view for a
// different event. HideAlert is always safe to call, including when nothing
// is shown. Presentation failures are the gateway's to catch and log; the
// scheduler treats every dispatch as delivered and never retries one.
type Gateway interface {
	ShowAlert(event model.Event, fromSnooze bool)
	HideAlert()
	PlaySound(event model.Event)
	OpenMeetingLink(event model.Event)
}

// Snoozer is the narrow back-reference a gateway may hold to request a
// snooze for the event it is showing. Neither side owns the other's
// lifetime; wiring belongs to the application assembly.
type Snoozer interface {
	Snooze(event model.Event, minutes int) error
}

// NopGateway discards every dispatch. Useful as a default and in tests.
type NopGateway struct{}

func (NopGateway) ShowAlert(model.Event, bool) {}
func (NopGateway) HideAlert() {}
func (NopGateway) PlaySound(model.Event) {}
func (NopGateway) OpenMeetingLink(model.Event) {}
