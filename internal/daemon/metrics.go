package daemon

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks daemon operational metrics.
type Metrics struct {
	// Counters
	notificationsSent   atomic.Int64
	notificationsFailed atomic.Int64
	syncsTotal          atomic.Int64
	syncFailures        atomic.Int64
	errorsTotal         atomic.Int64

	// Gauges guarded by mutex
	mu                 sync.RWMutex
	eventsLoaded       int
	lastNotificationAt time.Time
	lastSyncAt         time.Time
	lastError          string
	lastErrorAt        time.Time

	// Error breakdown
	errorsByCategory map[string]int64
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		errorsByCategory: make(map[string]int64),
	}
}

// GlobalMetrics is the daemon-wide metrics instance.
var GlobalMetrics = NewMetrics()

// MetricsSnapshot represents a point-in-time view of metrics.
type MetricsSnapshot struct {
	NotificationsSentTotal   int64            `json:"notifications_sent_total"`
	NotificationsFailedTotal int64            `json:"notifications_failed_total"`
	SyncsTotal               int64            `json:"syncs_total"`
	SyncFailuresTotal        int64            `json:"sync_failures_total"`
	ErrorsTotal              int64            `json:"errors_total"`
	EventsLoaded             int              `json:"events_loaded"`
	LastNotificationAt       *time.Time       `json:"last_notification_at,omitempty"`
	LastSyncAt               *time.Time       `json:"last_sync_at,omitempty"`
	LastError                string           `json:"last_error,omitempty"`
	LastErrorAt              *time.Time       `json:"last_error_at,omitempty"`
	ErrorsByCategory         map[string]int64 `json:"errors_by_category,omitempty"`
}

// RecordNotificationSent records a delivered notification.
func (m *Metrics) RecordNotificationSent() {
	m.notificationsSent.Add(1)
	m.mu.Lock()
	m.lastNotificationAt = time.Now()
	m.mu.Unlock()
}

// RecordNotificationFailed records a failed notification.
func (m *Metrics) RecordNotificationFailed(err error) {
	m.notificationsFailed.Add(1)
	m.RecordError("notify", err)
}

// RecordSync records a successful sync pass.
func (m *Metrics) RecordSync() {
	m.syncsTotal.Add(1)
	m.mu.Lock()
	m.lastSyncAt = time.Now()
	m.mu.Unlock()
}

// RecordSyncFailure records a sync pass that reported an error.
func (m *Metrics) RecordSyncFailure(err error) {
	m.syncsTotal.Add(1)
	m.syncFailures.Add(1)
	m.RecordError("sync", err)
}

// RecordEventsLoaded records the size of the current working set.
func (m *Metrics) RecordEventsLoaded(count int) {
	m.mu.Lock()
	m.eventsLoaded = count
	m.mu.Unlock()
}

// RecordError records an error under a category.
func (m *Metrics) RecordError(category string, err error) {
	m.errorsTotal.Add(1)
	m.mu.Lock()
	m.lastError = err.Error()
	m.lastErrorAt = time.Now()
	m.errorsByCategory[category]++
	m.mu.Unlock()
}

// NotificationsSent returns the delivered notification count.
func (m *Metrics) NotificationsSent() int64 {
	return m.notificationsSent.Load()
}

// NotificationsFailed returns the failed notification count.
func (m *Metrics) NotificationsFailed() int64 {
	return m.notificationsFailed.Load()
}

// Syncs returns the total sync pass count.
func (m *Metrics) Syncs() int64 {
	return m.syncsTotal.Load()
}

// SyncFailures returns the failed sync pass count.
func (m *Metrics) SyncFailures() int64 {
	return m.syncFailures.Load()
}

// ErrorsTotal returns the total error count.
func (m *Metrics) ErrorsTotal() int64 {
	return m.errorsTotal.Load()
}

// Snapshot returns a copy of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := MetricsSnapshot{
		NotificationsSentTotal:   m.notificationsSent.Load(),
		NotificationsFailedTotal: m.notificationsFailed.Load(),
		SyncsTotal:               m.syncsTotal.Load(),
		SyncFailuresTotal:        m.syncFailures.Load(),
		ErrorsTotal:              m.errorsTotal.Load(),
		EventsLoaded:             m.eventsLoaded,
		LastError:                m.lastError,
		ErrorsByCategory:         make(map[string]int64, len(m.errorsByCategory)),
	}

	if !m.lastNotificationAt.IsZero() {
		snap.LastNotificationAt = &m.lastNotificationAt
	}
	if !m.lastSyncAt.IsZero() {
		snap.LastSyncAt = &m.lastSyncAt
	}
	if !m.lastErrorAt.IsZero() {
		snap.LastErrorAt = &m.lastErrorAt
	}

	for k, v := range m.errorsByCategory {
		snap.ErrorsByCategory[k] = v
	}

	return snap
}

// JSON returns metrics as JSON.
func (m *Metrics) JSON() ([]byte, error) {
	return json.MarshalIndent(m.Snapshot(), "", "  ")
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.notificationsSent.Store(0)
	m.notificationsFailed.Store(0)
	m.syncsTotal.Store(0)
	m.syncFailures.Store(0)
	m.errorsTotal.Store(0)

	m.mu.Lock()
	m.eventsLoaded = 0
	m.lastNotificationAt = time.Time{}
	m.lastSyncAt = time.Time{}
	m.lastError = ""
	m.lastErrorAt = time.Time{}
	m.errorsByCategory = make(map[string]int64)
	m.mu.Unlock()
}
