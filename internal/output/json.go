package output

import (
	"time"

	"github.com/manav03panchal/punctual/internal/model"
)

// EventOutput represents an event in JSON output.
type EventOutput struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Organizer   string `json:"organizer,omitempty"`
	Start       string `json:"start"`
	End         string `json:"end,omitempty"`
	MeetingLink string `json:"meeting_link,omitempty"`
	SourceID    string `json:"source_id,omitempty"`
	Manual      bool   `json:"manual,omitempty"`
}

// NewEventOutput creates an EventOutput from an Event.
func NewEventOutput(e model.Event) *EventOutput {
	out := &EventOutput{
		ID:          e.ID,
		Title:       e.Title,
		Organizer:   e.Organizer,
		Start:       e.Start.Format(time.RFC3339),
		MeetingLink: e.MeetingLink,
		SourceID:    e.SourceID,
		Manual:      e.Manual,
	}
	if !e.End.IsZero() {
		out.End = e.End.Format(time.RFC3339)
	}
	return out
}

// AgendaResponse represents the agenda list output in JSON.
type AgendaResponse struct {
	Events []*EventOutput `json:"events"`
	Count  int            `json:"count"`
}

// NewAgendaResponse creates an AgendaResponse from events.
func NewAgendaResponse(events []model.Event) *AgendaResponse {
	outputs := make([]*EventOutput, len(events))
	for i, e := range events {
		outputs[i] = NewEventOutput(e)
	}
	return &AgendaResponse{Events: outputs, Count: len(outputs)}
}

// SourceOutput represents a calendar source in JSON output.
type SourceOutput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
	LastSync  string `json:"last_sync,omitempty"`
	LastError string `json:"last_error,omitempty"`
}

// NewSourceOutput creates a SourceOutput from a Source.
func NewSourceOutput(s *model.Source) *SourceOutput {
	out := &SourceOutput{
		ID:        s.ID,
		Name:      s.Name,
		URL:       s.URL,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		LastError: s.LastError,
	}
	if !s.LastSync.IsZero() {
		out.LastSync = s.LastSync.Format(time.RFC3339)
	}
	return out
}

// SourcesResponse represents the source list output in JSON.
type SourcesResponse struct {
	Sources []*SourceOutput `json:"sources"`
	Count   int             `json:"count"`
}

// NewSourcesResponse creates a SourcesResponse from sources.
func NewSourcesResponse(sources []*model.Source) *SourcesResponse {
	outputs := make([]*SourceOutput, len(sources))
	for i, s := range sources {
		outputs[i] = NewSourceOutput(s)
	}
	return &SourcesResponse{Sources: outputs, Count: len(outputs)}
}

// WebhookOutput represents a webhook in JSON output. URLs are masked.
type WebhookOutput struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	URL       string `json:"url"`
	Enabled   bool   `json:"enabled"`
	LastUsed  string `json:"last_used,omitempty"`
	LastError string `json:"last_error,omitempty"`
}

// NewWebhookOutput creates a WebhookOutput from a Webhook.
func NewWebhookOutput(w *model.Webhook) *WebhookOutput {
	out := &WebhookOutput{
		Name:      w.Name,
		Type:      w.Type,
		URL:       w.MaskedURL(),
		Enabled:   w.Enabled,
		LastError: w.LastError,
	}
	if !w.LastUsed.IsZero() {
		out.LastUsed = w.LastUsed.Format(time.RFC3339)
	}
	return out
}

// WebhooksResponse represents the webhook list output in JSON.
type WebhooksResponse struct {
	Webhooks []*WebhookOutput `json:"webhooks"`
	Count    int              `json:"count"`
}

// NewWebhooksResponse creates a WebhooksResponse from webhooks.
func NewWebhooksResponse(webhooks []*model.Webhook) *WebhooksResponse {
	outputs := make([]*WebhookOutput, len(webhooks))
	for i, w := range webhooks {
		outputs[i] = NewWebhookOutput(w)
	}
	return &WebhooksResponse{Webhooks: outputs, Count: len(outputs)}
}

// PreferencesOutput represents timing preferences in JSON output.
type PreferencesOutput struct {
	DefaultMinutes int    `json:"default_minutes"`
	UseLengthBased bool   `json:"use_length_based"`
	ShortMinutes   int    `json:"short_minutes"`
	MediumMinutes  int    `json:"medium_minutes"`
	LongMinutes    int    `json:"long_minutes"`
	SoundEnabled   bool   `json:"sound_enabled"`
	SoundMinutes   int    `json:"sound_minutes"`
	AutoJoin       bool   `json:"auto_join"`
	SnoozeMinutes  int    `json:"snooze_minutes"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}

// NewPreferencesOutput creates a PreferencesOutput from preferences.
func NewPreferencesOutput(p model.TimingPreferences) *PreferencesOutput {
	out := &PreferencesOutput{
		DefaultMinutes: p.DefaultMinutes,
		UseLengthBased: p.UseLengthBased,
		ShortMinutes:   p.ShortMinutes,
		MediumMinutes:  p.MediumMinutes,
		LongMinutes:    p.LongMinutes,
		SoundEnabled:   p.SoundEnabled,
		SoundMinutes:   p.SoundMinutes,
		AutoJoin:       p.AutoJoin,
		SnoozeMinutes:  p.SnoozeMinutes,
	}
	if !p.UpdatedAt.IsZero() {
		out.UpdatedAt = p.UpdatedAt.Format(time.RFC3339)
	}
	return out
}

// AlertOutput represents a pending alert in JSON output.
type AlertOutput struct {
	TriggerAt     string `json:"trigger_at"`
	Kind          string `json:"kind"`
	MinutesBefore int    `json:"minutes_before,omitempty"`
	EventID       string `json:"event_id"`
	EventTitle    string `json:"event_title"`
	EventStart    string `json:"event_start"`
}

// NewAlertOutput creates an AlertOutput from an Alert.
func NewAlertOutput(a model.Alert) *AlertOutput {
	return &AlertOutput{
		TriggerAt:     a.TriggerAt.Format(time.RFC3339),
		Kind:          string(a.Kind),
		MinutesBefore: a.MinutesBefore,
		EventID:       a.Event.ID,
		EventTitle:    a.Event.Title,
		EventStart:    a.Event.Start.Format(time.RFC3339),
	}
}

// AlertsResponse represents the pending alert queue in JSON.
type AlertsResponse struct {
	Alerts []*AlertOutput `json:"alerts"`
	Count  int            `json:"count"`
}

// NewAlertsResponse creates an AlertsResponse from alerts.
func NewAlertsResponse(alerts []model.Alert) *AlertsResponse {
	outputs := make([]*AlertOutput, len(alerts))
	for i, a := range alerts {
		outputs[i] = NewAlertOutput(a)
	}
	return &AlertsResponse{Alerts: outputs, Count: len(outputs)}
}

// StatusResponse represents the daemon status output in JSON.
type StatusResponse struct {
	Running bool   `json:"running"`
	PID     int    `json:"pid,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewErrorResponse creates an ErrorResponse from an error.
func NewErrorResponse(err error) *ErrorResponse {
	return &ErrorResponse{
		Status: "error",
		Error:  err.Error(),
	}
}
