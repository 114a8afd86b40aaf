package model

import (
	"time"
)

// NotificationType defines the type of notification.
type NotificationType string

// Notification types.
const (
	NotifyMeetingAlert NotificationType = "meeting_alert"
	NotifySnoozedAlert NotificationType = "snoozed_alert"
	NotifySound        NotificationType = "sound"
	NotifyMeetingStart NotificationType = "meeting_start"
	NotifySyncError    NotificationType = "sync_error"
	NotifyTest         NotificationType = "test"
)

// Notification is a webhook-bound message built from an alert.
type Notification struct {
	Type      NotificationType  `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Color     int               `json:"color,omitempty"` // hex color for embeds
}

// NewNotification creates a new notification.
func NewNotification(t NotificationType, title, message string) *Notification {
	return &Notification{
		Type:      t,
		Title:     title,
		Message:   message,
		Fields:    make(map[string]string),
		Timestamp: time.Now(),
	}
}

// WithField adds a field to the notification.
func (n *Notification) WithField(key, value string) *Notification {
	if n.Fields == nil {
		n.Fields = make(map[string]string)
	}
	n.Fields[key] = value
	return n
}

// WithColor sets the embed color.
func (n *Notification) WithColor(color int) *Notification {
	n.Color = color
	return n
}

// Notification colors (Discord-compatible hex values).
const (
	ColorUrgent  = 0xED4245 // red
	ColorWarning = 0xFEE75C // yellow
	ColorInfo    = 0x5865F2 // blurple
	ColorPrimary = 0x3498DB // blue
)

// DefaultColorForType returns the default color for a notification type.
func DefaultColorForType(t NotificationType) int {
	switch t {
	case NotifyMeetingAlert, NotifySnoozedAlert:
		return ColorWarning
	case NotifyMeetingStart:
		return ColorUrgent
	case NotifySound:
		return ColorInfo
	case NotifySyncError:
		return ColorUrgent
	case NotifyTest:
		return ColorPrimary
	default:
		return ColorInfo
	}
}

// TypeLabel returns a human-readable label for the notification type.
func (n *Notification) TypeLabel() string {
	switch n.Type {
	case NotifyMeetingAlert:
		return "Meeting Alert"
	case NotifySnoozedAlert:
		return "Snoozed Alert"
	case NotifySound:
		return "Sound Alert"
	case NotifyMeetingStart:
		return "Meeting Starting"
	case NotifySyncError:
		return "Calendar Sync Error"
	case NotifyTest:
		return "Test Notification"
	default:
		return "Notification"
	}
}
