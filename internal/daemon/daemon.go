package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/robfig/cron/v3"

	"github.com/manav03panchal/punctual/internal/calendar"
	"github.com/manav03panchal/punctual/internal/config"
	"github.com/manav03panchal/punctual/internal/logging"
	"github.com/manav03panchal/punctual/internal/notify"
	"github.com/manav03panchal/punctual/internal/sched"
	"github.com/manav03panchal/punctual/internal/storage"
)

// Daemon runs the alert engine in the background: it keeps calendar sources
// synced on a cron cadence, feeds the working set to the scheduler, and
// delivers fired alerts through the webhook gateway.
type Daemon struct {
	pidFile    *PIDFile
	lock       *storage.FileLock
	db         *storage.DB
	sources    *storage.SourceRepo
	events     *storage.EventRepo
	prefs      *storage.PrefsRepo
	dispatcher *notify.Dispatcher
	gateway    *notify.Gateway
	syncer     *calendar.Syncer
	scheduler  *sched.Scheduler
	cron       *cron.Cron
	health     *HealthChecker
	startedAt  time.Time
	debug      bool
}

// Status represents the daemon status.
type Status struct {
	Running   bool      `json:"running"`
	PID       int       `json:"pid,omitempty"`
	StartedAt time.Time `json:"started_at,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
}

// NewDaemon creates a new daemon manager.
func NewDaemon(db *storage.DB, version string) *Daemon {
	sources := storage.NewSourceRepo(db)
	events := storage.NewEventRepo(db)
	dispatcher := notify.NewDispatcher(storage.NewWebhookRepo(db))

	return &Daemon{
		pidFile:    NewPIDFile(),
		lock:       storage.NewFileLock(filepath.Join(xdg.StateHome, AppName)),
		db:         db,
		sources:    sources,
		events:     events,
		prefs:      storage.NewPrefsRepo(db),
		dispatcher: dispatcher,
		gateway:    notify.NewGateway(dispatcher),
		syncer:     calendar.NewSyncer(sources, events),
		scheduler:  sched.New(),
		health:     NewHealthChecker(version),
	}
}

// SetDebug enables debug mode.
func (d *Daemon) SetDebug(debug bool) {
	d.debug = debug
}

// Health returns the daemon health checker.
func (d *Daemon) Health() *HealthChecker {
	return d.health
}

// GetStatus returns the current daemon status.
func (d *Daemon) GetStatus() *Status {
	status := &Status{}

	pid := d.pidFile.GetRunningPID()
	if pid > 0 {
		status.Running = true
		status.PID = pid

		if state, err := d.readState(); err == nil {
			status.StartedAt = state.StartedAt
			status.Uptime = formatUptime(time.Since(state.StartedAt))
		}
	}

	return status
}

// IsRunning returns true if the daemon is running.
func (d *Daemon) IsRunning() bool {
	return d.pidFile.IsRunning()
}

// Start runs the daemon in the foreground until a shutdown signal arrives.
func (d *Daemon) Start(ctx context.Context) error {
	if d.IsRunning() {
		return ErrAlreadyRunning
	}

	if err := d.lock.Acquire(); err != nil {
		return err
	}
	defer d.lock.Release()

	if err := d.pidFile.Write(); err != nil {
		return err
	}

	d.startedAt = time.Now()
	if err := d.writeState(&State{StartedAt: d.startedAt}); err != nil {
		d.pidFile.Remove()
		return err
	}

	d.dispatcher.StartRetryQueue()
	defer d.dispatcher.StopRetryQueue()

	d.health.AddCheck("database", func() error {
		if d.db.Badger().IsClosed() {
			return fmt.Errorf("database closed")
		}
		return nil
	})

	// First pass before the cron cadence kicks in. A failed sync is not
	// fatal: the scheduler starts on whatever events are already stored.
	d.resync(ctx)

	d.cron = cron.New()
	spec := fmt.Sprintf("@every %s", config.Global.Sync.Interval)
	if _, err := d.cron.AddFunc(spec, func() { d.resync(context.Background()) }); err != nil {
		d.scheduler.Stop()
		d.pidFile.Remove()
		d.removeState()
		return fmt.Errorf("failed to schedule resync: %w", err)
	}
	d.cron.Start()

	sigHandler := NewSignalHandler()
	sigHandler.Setup()
	defer sigHandler.Cleanup()

	logging.Info("daemon started", "pid", os.Getpid(), "resync", config.Global.Sync.Interval)

	sig := sigHandler.Wait(ctx)
	if sig != nil {
		logging.Info("received signal", "signal", sig.String())
	}

	cronCtx := d.cron.Stop()
	<-cronCtx.Done()
	d.scheduler.Stop()
	d.pidFile.Remove()
	d.removeState()

	return nil
}

// resync pulls every source, rebuilds the scheduler queue from the stored
// working set, and picks up any preference edits made since the last pass.
func (d *Daemon) resync(ctx context.Context) {
	if err := d.syncer.SyncAll(ctx); err != nil {
		GlobalMetrics.RecordSyncFailure(err)
		d.gateway.SyncError("calendar", err)
	} else {
		GlobalMetrics.RecordSync()
	}

	events, err := d.syncer.WorkingSet(time.Now())
	if err != nil {
		GlobalMetrics.RecordError("storage", err)
		logging.Error("failed to load working set", logging.KeyError, err)
		return
	}

	prefs, err := d.prefs.Load()
	if err != nil {
		GlobalMetrics.RecordError("storage", err)
		logging.Error("failed to load preferences", logging.KeyError, err)
		return
	}

	d.scheduler.Start(events, prefs, d.gateway)
	GlobalMetrics.RecordEventsLoaded(len(events))
	d.health.SetPendingAlerts(len(d.scheduler.Pending()))
}

// StartBackground starts the daemon in the background.
func (d *Daemon) StartBackground() (int, error) {
	if d.IsRunning() {
		return d.pidFile.GetRunningPID(), ErrAlreadyRunning
	}

	executable, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("failed to get executable path: %w", err)
	}

	args := []string{"daemon", "start", "--foreground"}
	if d.debug {
		args = append(args, "--debug")
	}

	cmd := exec.Command(executable, args...)
	cmd.Stdin = nil

	logPath := GetLogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err == nil {
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			cmd.Stdout = logFile
			cmd.Stderr = logFile
		}
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start daemon: %w", err)
	}

	// Give the child a moment to come up and write its PID.
	time.Sleep(config.Global.Daemon.StartupWait)

	if !d.pidFile.IsRunning() {
		if errMsg := d.readLastLogError(); errMsg != "" {
			return 0, fmt.Errorf("daemon failed to start: %s", errMsg)
		}
		return 0, fmt.Errorf("daemon failed to start (check logs: %s)", logPath)
	}

	return cmd.Process.Pid, nil
}

// readLastLogError scans the tail of the log file for an error line.
func (d *Daemon) readLastLogError() string {
	data, err := os.ReadFile(GetLogPath())
	if err != nil {
		return ""
	}

	lines := strings.Split(string(data), "\n")
	start := len(lines) - 10
	if start < 0 {
		start = 0
	}

	for i := len(lines) - 1; i >= start; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.Contains(strings.ToLower(line), "error") ||
			strings.Contains(line, "cannot access database") ||
			strings.Contains(line, "failed to") {
			return line
		}
	}
	return ""
}

// Stop stops the running daemon.
func (d *Daemon) Stop() error {
	pid := d.pidFile.GetRunningPID()
	if pid == 0 {
		return ErrNotRunning
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if err := process.Signal(os.Interrupt); err != nil {
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to stop daemon: %w", err)
		}
	}

	done := make(chan error, 1)
	go func() {
		_, err := process.Wait()
		done <- err
	}()

	select {
	case <-done:
	case <-time.After(config.Global.Daemon.KillTimeout):
		process.Kill()
	}

	d.pidFile.Remove()
	d.removeState()

	return nil
}

// State holds persistent daemon state.
type State struct {
	StartedAt time.Time `json:"started_at"`
}

func getStatePath() string {
	return filepath.Join(xdg.StateHome, AppName, "daemon.json")
}

func (d *Daemon) writeState(state *State) error {
	path := getStatePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (d *Daemon) readState() (*State, error) {
	data, err := os.ReadFile(getStatePath())
	if err != nil {
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (d *Daemon) removeState() {
	if err := os.Remove(getStatePath()); err != nil && !os.IsNotExist(err) {
		logging.Warn("failed to remove daemon state file", logging.KeyError, err, "path", getStatePath())
	}
}

// GetLogPath returns the path to the daemon log file.
func GetLogPath() string {
	return filepath.Join(xdg.StateHome, AppName, "daemon.log")
}

// formatUptime formats a duration as uptime.
func formatUptime(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		hours := int(d.Hours())
		minutes := int(d.Minutes()) % 60
		if minutes > 0 {
			return fmt.Sprintf("%dh %dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	}

	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	if hours > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	return fmt.Sprintf("%dd", days)
}
