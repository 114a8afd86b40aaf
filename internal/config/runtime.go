// Package config provides centralized configuration for Punctual runtime values.
package config

import (
	"os"
	"strconv"
	"time"
)

// RuntimeConfig holds runtime tunables. Timing preferences are user data and
// live in storage; these values shape how the process itself behaves.
type RuntimeConfig struct {
	Daemon     DaemonConfig
	HTTP       HTTPConfig
	Scheduler  SchedulerConfig
	Sync       SyncConfig
	RetryQueue RetryQueueConfig
}

// DaemonConfig holds daemon-related configuration.
type DaemonConfig struct {
	// StartupWait is the time to wait for the daemon to start before checking status.
	// Default: 500ms
	StartupWait time.Duration

	// KillTimeout is the timeout for graceful shutdown before force kill.
	// Default: 5s
	KillTimeout time.Duration
}

// HTTPConfig holds HTTP client configuration for webhooks and calendar feeds.
type HTTPConfig struct {
	// Timeout is the default HTTP request timeout.
	// Default: 30s
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts.
	// Default: 3
	MaxRetries int

	// RetryDelays are the delays between retry attempts.
	// Default: [0s, 5s, 30s]
	RetryDelays []time.Duration
}

// SchedulerConfig holds alert scheduler configuration.
type SchedulerConfig struct {
	// IdleWait is how long the wait loop sleeps when the queue is empty
	// before re-checking. Default: 1h
	IdleWait time.Duration

	// FailurePause is how long the loop pauses after an unexpected error
	// so a transient failure cannot spin it. Default: 5s
	FailurePause time.Duration

	// Epsilon is the threshold under which a remaining wait is treated as
	// already due. Default: 50ms
	Epsilon time.Duration
}

// SyncConfig holds calendar sync configuration.
type SyncConfig struct {
	// Interval is how often calendar sources are re-fetched.
	// Default: 5m
	Interval time.Duration

	// Lookahead bounds how far into the future events are kept.
	// Default: 48h
	Lookahead time.Duration

	// Retention bounds how far into the past synced events are kept.
	// Default: 12h
	Retention time.Duration
}

// RetryQueueConfig holds the failed-notification retry queue configuration.
type RetryQueueConfig struct {
	// CheckInterval is how often the queue looks for ready retries.
	// Default: 30s
	CheckInterval time.Duration

	// MaxRetries is how many times a queued notification is retried before
	// being dropped. Default: 5
	MaxRetries int

	// BackoffSchedule is the delay before each retry attempt; the last
	// entry repeats for later attempts. Default: [1m, 5m, 15m, 30m]
	BackoffSchedule []time.Duration
}

// DefaultRuntimeConfig returns the default runtime configuration.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		Daemon: DaemonConfig{
			StartupWait: 500 * time.Millisecond,
			KillTimeout: 5 * time.Second,
		},
		HTTP: HTTPConfig{
			Timeout:    30 * time.Second,
			MaxRetries: 3,
			RetryDelays: []time.Duration{
				0,
				5 * time.Second,
				30 * time.Second,
			},
		},
		Scheduler: SchedulerConfig{
			IdleWait:     time.Hour,
			FailurePause: 5 * time.Second,
			Epsilon:      50 * time.Millisecond,
		},
		Sync: SyncConfig{
			Interval:  5 * time.Minute,
			Lookahead: 48 * time.Hour,
			Retention: 12 * time.Hour,
		},
		RetryQueue: RetryQueueConfig{
			CheckInterval: 30 * time.Second,
			MaxRetries:    5,
			BackoffSchedule: []time.Duration{
				time.Minute,
				5 * time.Minute,
				15 * time.Minute,
				30 * time.Minute,
			},
		},
	}
}

// Global holds the global runtime configuration instance.
// It is initialized with defaults and can be overridden via environment variables.
var Global = initGlobal()

// initGlobal initializes the global config with defaults and environment overrides.
func initGlobal() *RuntimeConfig {
	cfg := DefaultRuntimeConfig()

	cfg.Daemon.StartupWait = envDuration("PUNCTUAL_DAEMON_STARTUP_WAIT", cfg.Daemon.StartupWait)
	cfg.Daemon.KillTimeout = envDuration("PUNCTUAL_DAEMON_KILL_TIMEOUT", cfg.Daemon.KillTimeout)
	cfg.HTTP.Timeout = envDuration("PUNCTUAL_HTTP_TIMEOUT", cfg.HTTP.Timeout)
	cfg.HTTP.MaxRetries = envInt("PUNCTUAL_HTTP_MAX_RETRIES", cfg.HTTP.MaxRetries)
	cfg.Scheduler.IdleWait = envDuration("PUNCTUAL_SCHEDULER_IDLE_WAIT", cfg.Scheduler.IdleWait)
	cfg.Scheduler.FailurePause = envDuration("PUNCTUAL_SCHEDULER_FAILURE_PAUSE", cfg.Scheduler.FailurePause)
	cfg.Scheduler.Epsilon = envDuration("PUNCTUAL_SCHEDULER_EPSILON", cfg.Scheduler.Epsilon)
	cfg.Sync.Interval = envDuration("PUNCTUAL_SYNC_INTERVAL", cfg.Sync.Interval)
	cfg.Sync.Lookahead = envDuration("PUNCTUAL_SYNC_LOOKAHEAD", cfg.Sync.Lookahead)
	cfg.Sync.Retention = envDuration("PUNCTUAL_SYNC_RETENTION", cfg.Sync.Retention)
	cfg.RetryQueue.CheckInterval = envDuration("PUNCTUAL_RETRY_CHECK_INTERVAL", cfg.RetryQueue.CheckInterval)
	cfg.RetryQueue.MaxRetries = envInt("PUNCTUAL_RETRY_MAX_RETRIES", cfg.RetryQueue.MaxRetries)

	return cfg
}

// envDuration reads a duration from the environment, falling back to def.
func envDuration(name string, def time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// envInt reads an integer from the environment, falling back to def.
func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
