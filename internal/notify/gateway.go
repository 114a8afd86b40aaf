package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/manav03panchal/punctual/internal/logging"
	"github.com/manav03panchal/punctual/internal/model"
)

// Gateway presents fired alerts as webhook notifications. It is the
// presentation surface for daemon mode, where there is no terminal to draw
// an overlay on. Dispatch happens on a goroutine so the caller never blocks
// on slow endpoints.
type Gateway struct {
	dispatcher *Dispatcher
	timeout    time.Duration
	now        func() time.Time
}

// NewGateway creates a webhook-backed presentation gateway.
func NewGateway(dispatcher *Dispatcher) *Gateway {
	return &Gateway{
		dispatcher: dispatcher,
		timeout:    2 * time.Minute,
		now:        time.Now,
	}
}

// ShowAlert sends a meeting alert to all enabled webhooks.
func (g *Gateway) ShowAlert(event model.Event, fromSnooze bool) {
	n := g.buildAlertNotification(event, fromSnooze)
	g.send(n)
}

// HideAlert is a no-op: a delivered webhook message cannot be recalled.
func (g *Gateway) HideAlert() {}

// PlaySound sends a minimal heads-up notification in place of audio.
func (g *Gateway) PlaySound(event model.Event) {
	n := model.NewNotification(model.NotifySound,
		"Heads up: "+event.Title,
		fmt.Sprintf("Starting %s.", g.relativeStart(event)))
	g.send(n)
}

// OpenMeetingLink announces the meeting start with its join link. The
// daemon cannot open a browser on the user's behalf.
func (g *Gateway) OpenMeetingLink(event model.Event) {
	n := model.NewNotification(model.NotifyMeetingStart,
		"Meeting starting: "+event.Title,
		"The meeting is starting now.")
	if event.Joinable() {
		n.WithField("Link", event.MeetingLink)
	}
	g.send(n)
}

// SyncError reports a failed calendar sync to all enabled webhooks.
func (g *Gateway) SyncError(sourceName string, err error) {
	n := model.NewNotification(model.NotifySyncError,
		"Calendar sync failed",
		fmt.Sprintf("Source %q could not be synced: %v", sourceName, err))
	g.send(n)
}

func (g *Gateway) buildAlertNotification(event model.Event, fromSnooze bool) *model.Notification {
	notifyType := model.NotifyMeetingAlert
	title := "Upcoming meeting: " + event.Title
	if fromSnooze {
		notifyType = model.NotifySnoozedAlert
		title = "Snoozed reminder: " + event.Title
	}

	n := model.NewNotification(notifyType, title,
		fmt.Sprintf("%s %s.", event.Title, g.relativeStart(event)))
	n.WithField("Time", event.Start.Format("3:04 PM"))
	if event.Organizer != "" {
		n.WithField("Organizer", event.Organizer)
	}
	if event.Joinable() {
		n.WithField("Link", event.MeetingLink)
	}
	return n
}

// relativeStart phrases the event start relative to now, minute precision.
func (g *Gateway) relativeStart(event model.Event) string {
	until := event.Start.Sub(g.now()).Round(time.Minute)
	switch {
	case until >= time.Minute:
		return fmt.Sprintf("starts in %s", formatMinutes(until))
	case until <= -time.Minute:
		return fmt.Sprintf("started %s ago", formatMinutes(-until))
	default:
		return "starts now"
	}
}

func formatMinutes(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}

func (g *Gateway) send(n *model.Notification) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
		defer cancel()

		results := g.dispatcher.SendNotification(ctx, n)
		for _, result := range results {
			if result.Error != nil {
				logging.Warn("notification delivery failed",
					logging.KeyWebhook, result.WebhookName,
					logging.KeyError, result.Error)
			}
		}
	}()
}
