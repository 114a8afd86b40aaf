package cmd

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/manav03panchal/punctual/internal/calendar"
	"github.com/manav03panchal/punctual/internal/config"
	"github.com/manav03panchal/punctual/internal/model"
	"github.com/manav03panchal/punctual/internal/sched"
	"github.com/manav03panchal/punctual/internal/tui"
)

// watchCmd runs punctual in the foreground with the terminal overlay.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch for meetings in the foreground",
	Long: `Run punctual in the foreground with a full-screen terminal view.

Upcoming meetings are listed and alerts take over the screen when they
fire. Calendar sources are re-fetched periodically while watching.

Keys: enter/esc dismiss, s snooze, 1-9 snooze N minutes, j join, q quit.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// prefsWatcher pushes timing preference edits made outside the watch
// process (punctual prefs set in another terminal) to the running
// scheduler, keyed on the preferences' UpdatedAt stamp.
type prefsWatcher struct {
	mu      sync.Mutex
	applied time.Time
	load    func() (model.TimingPreferences, error)
	refresh func(model.TimingPreferences)
}

// mark records preferences that already reached the scheduler through a
// full Start pass, so apply does not re-send them.
func (w *prefsWatcher) mark(prefs model.TimingPreferences) {
	w.mu.Lock()
	w.applied = prefs.UpdatedAt
	w.mu.Unlock()
}

// apply reloads preferences and refreshes the scheduler when they changed
// since the last pass.
func (w *prefsWatcher) apply() error {
	prefs, err := w.load()
	if err != nil {
		return err
	}

	w.mu.Lock()
	changed := prefs.UpdatedAt.After(w.applied)
	if changed {
		w.applied = prefs.UpdatedAt
	}
	w.mu.Unlock()

	if changed {
		w.refresh(prefs)
	}
	return nil
}

// runWatch handles the watch command.
func runWatch(cmd *cobra.Command, args []string) error {
	syncer := calendar.NewSyncer(ctx.SourceRepo, ctx.EventRepo)
	scheduler := sched.New()
	gateway := tui.NewGateway()

	watcher := &prefsWatcher{
		load:    ctx.PrefsRepo.Load,
		refresh: scheduler.RefreshPreferences,
	}

	// Feeds the scheduler with a fresh working set. Preference edits are
	// picked up here as well.
	resync := func(c context.Context) error {
		if err := syncer.SyncAll(c); err != nil {
			ctx.Debugf("sync failed: %v", err)
		}

		events, err := syncer.WorkingSet(time.Now())
		if err != nil {
			return err
		}
		prefs, err := ctx.PrefsRepo.Load()
		if err != nil {
			return err
		}

		scheduler.Start(events, prefs, gateway)
		watcher.mark(prefs)
		return nil
	}

	c, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	err := resync(c)
	cancel()
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	jobs := cron.New()
	if _, err := jobs.AddFunc("@every "+config.Global.Sync.Interval.String(), func() {
		c, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		_ = resync(c)
	}); err != nil {
		return err
	}
	jobs.Start()
	defer func() { <-jobs.Stop().Done() }()

	prefs, err := ctx.PrefsRepo.Load()
	if err != nil {
		return err
	}

	watchConfig := tui.WatchConfig{
		// Runs on every overlay refresh, so a prefs edit is re-applied
		// without waiting for the next sync pass.
		LoadEvents: func() ([]model.Event, error) {
			if err := watcher.apply(); err != nil {
				ctx.Debugf("prefs refresh failed: %v", err)
			}
			return syncer.WorkingSet(time.Now())
		},
		Snoozer:       scheduler,
		SnoozeMinutes: prefs.SnoozeMinutes,
	}

	return tui.Run(watchConfig, gateway)
}
