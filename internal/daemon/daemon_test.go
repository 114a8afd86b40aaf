package daemon

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// HealthChecker Tests
// =============================================================================

func TestNewHealthChecker(t *testing.T) {
	checker := NewHealthChecker("1.0.0")
	assert.NotNil(t, checker)
	assert.Equal(t, "1.0.0", checker.version)
}

func TestHealthCheckerCheck(t *testing.T) {
	checker := NewHealthChecker("1.0.0")

	status := checker.Check()
	assert.NotNil(t, status)
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "1.0.0", status.Version)
	assert.GreaterOrEqual(t, status.Goroutines, 1)
	assert.GreaterOrEqual(t, status.MemoryMB, 0.0)
}

func TestHealthCheckerSetPendingAlerts(t *testing.T) {
	checker := NewHealthChecker("1.0.0")

	checker.SetPendingAlerts(5)
	status := checker.Check()
	assert.Equal(t, 5, status.PendingAlerts)
}

func TestHealthCheckerAddRemoveCheck(t *testing.T) {
	checker := NewHealthChecker("1.0.0")

	checker.AddCheck("test", func() error {
		return errors.New("test error")
	})

	status := checker.Check()
	assert.Equal(t, "unhealthy", status.Status)

	checker.RemoveCheck("test")

	status = checker.Check()
	assert.Equal(t, "healthy", status.Status)
}

func TestHealthCheckerIsHealthy(t *testing.T) {
	checker := NewHealthChecker("1.0.0")

	assert.True(t, checker.IsHealthy())

	checker.AddCheck("fail", func() error {
		return errors.New("error")
	})

	assert.False(t, checker.IsHealthy())
}

func TestHealthCheckerUptime(t *testing.T) {
	checker := NewHealthChecker("1.0.0")

	time.Sleep(10 * time.Millisecond)

	uptime := checker.Uptime()
	assert.GreaterOrEqual(t, uptime, 10*time.Millisecond)
}

func TestHealthCheckerJSON(t *testing.T) {
	checker := NewHealthChecker("1.0.0")

	data, err := checker.JSON()
	assert.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Contains(t, string(data), "healthy")
	assert.Contains(t, string(data), "1.0.0")
}

func TestHealthCheckerDetailedCheck(t *testing.T) {
	checker := NewHealthChecker("1.0.0")

	checker.AddCheck("db", func() error { return nil })

	details := checker.DetailedCheck()
	assert.NotNil(t, details)
	assert.Equal(t, "healthy", details.Status)
	assert.GreaterOrEqual(t, details.MemoryDetails.AllocMB, 0.0)
	assert.GreaterOrEqual(t, details.MemoryDetails.SysMB, 0.0)
	assert.Len(t, details.Checks, 1)
	assert.Equal(t, "db", details.Checks[0].Name)
	assert.True(t, details.Checks[0].Healthy)
}

func TestHealthCheckerDetailedCheckWithFailure(t *testing.T) {
	checker := NewHealthChecker("1.0.0")

	checker.AddCheck("failing", func() error {
		return errors.New("check failed")
	})

	details := checker.DetailedCheck()
	assert.Len(t, details.Checks, 1)
	assert.False(t, details.Checks[0].Healthy)
	assert.Equal(t, "check failed", details.Checks[0].Error)
}

// =============================================================================
// Metrics Tests
// =============================================================================

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()
	assert.NotNil(t, m)
	assert.Equal(t, int64(0), m.NotificationsSent())
}

func TestMetricsRecordNotificationSent(t *testing.T) {
	m := NewMetrics()

	m.RecordNotificationSent()

	assert.Equal(t, int64(1), m.NotificationsSent())
}

func TestMetricsRecordNotificationFailed(t *testing.T) {
	m := NewMetrics()

	m.RecordNotificationFailed(errors.New("network error"))

	assert.Equal(t, int64(1), m.NotificationsFailed())
	assert.Equal(t, int64(1), m.ErrorsTotal())
}

func TestMetricsRecordSync(t *testing.T) {
	m := NewMetrics()

	m.RecordSync()
	m.RecordSyncFailure(errors.New("feed unreachable"))

	assert.Equal(t, int64(2), m.Syncs())
	assert.Equal(t, int64(1), m.SyncFailures())

	snap := m.Snapshot()
	assert.NotNil(t, snap.LastSyncAt)
	assert.Equal(t, "feed unreachable", snap.LastError)
}

func TestMetricsRecordError(t *testing.T) {
	m := NewMetrics()

	m.RecordError("webhook", errors.New("timeout"))
	m.RecordError("webhook", errors.New("timeout"))
	m.RecordError("storage", errors.New("connection failed"))

	assert.Equal(t, int64(3), m.ErrorsTotal())

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.ErrorsByCategory["webhook"])
	assert.Equal(t, int64(1), snap.ErrorsByCategory["storage"])
}

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()

	m.RecordNotificationSent()
	m.RecordNotificationFailed(errors.New("error"))
	m.RecordEventsLoaded(7)

	snap := m.Snapshot()
	assert.Equal(t, int64(1), snap.NotificationsSentTotal)
	assert.Equal(t, int64(1), snap.NotificationsFailedTotal)
	assert.Equal(t, 7, snap.EventsLoaded)
	assert.NotNil(t, snap.LastNotificationAt)
}

func TestMetricsJSON(t *testing.T) {
	m := NewMetrics()

	m.RecordNotificationSent()

	data, err := m.JSON()
	assert.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Contains(t, string(data), "notifications_sent_total")
}

func TestMetricsReset(t *testing.T) {
	m := NewMetrics()

	m.RecordNotificationSent()
	m.RecordNotificationFailed(errors.New("error"))
	m.RecordSync()
	m.RecordError("test", errors.New("test"))

	m.Reset()

	assert.Equal(t, int64(0), m.NotificationsSent())
	assert.Equal(t, int64(0), m.NotificationsFailed())
	assert.Equal(t, int64(0), m.Syncs())
	assert.Equal(t, int64(0), m.ErrorsTotal())

	snap := m.Snapshot()
	assert.Nil(t, snap.LastNotificationAt)
	assert.Empty(t, snap.LastError)
}

func TestGlobalMetrics(t *testing.T) {
	assert.NotNil(t, GlobalMetrics)

	// Reset before and after to avoid affecting other tests
	GlobalMetrics.Reset()
	defer GlobalMetrics.Reset()

	GlobalMetrics.RecordNotificationSent()
	assert.Equal(t, int64(1), GlobalMetrics.NotificationsSent())
}

// =============================================================================
// PIDFile Tests
// =============================================================================

func TestPIDFileLifecycle(t *testing.T) {
	p := &PIDFile{path: t.TempDir() + "/punctual.pid"}

	_, err := p.Read()
	assert.ErrorIs(t, err, ErrNotRunning)
	assert.False(t, p.IsRunning())

	assert.NoError(t, p.Write())

	pid, err := p.Read()
	assert.NoError(t, err)
	assert.Greater(t, pid, 0)
	assert.True(t, p.IsRunning())
	assert.Equal(t, pid, p.GetRunningPID())

	assert.NoError(t, p.Remove())
	assert.False(t, p.IsRunning())
	assert.NoError(t, p.Remove())
}

func TestPIDFileStalePID(t *testing.T) {
	p := &PIDFile{path: t.TempDir() + "/punctual.pid"}

	assert.NoError(t, p.WritePID(999999))
	assert.False(t, p.IsRunning())
	assert.Zero(t, p.GetRunningPID())
}

func TestIsProcessRunning(t *testing.T) {
	assert.False(t, IsProcessRunning(0))
	assert.False(t, IsProcessRunning(-1))
}

// =============================================================================
// SignalHandler Tests
// =============================================================================

func TestSignalHandlerStopUnblocksWait(t *testing.T) {
	h := NewSignalHandler()
	h.Setup()

	done := make(chan os.Signal, 1)
	go func() {
		done <- h.Wait(context.Background())
	}()

	h.Stop()

	select {
	case sig := <-done:
		assert.Nil(t, sig)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Stop")
	}
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "30s", formatUptime(30*time.Second))
	assert.Equal(t, "5m", formatUptime(5*time.Minute))
	assert.Equal(t, "2h 15m", formatUptime(2*time.Hour+15*time.Minute))
	assert.Equal(t, "3d 4h", formatUptime(76*time.Hour))
}
