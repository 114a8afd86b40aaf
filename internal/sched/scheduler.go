// Package sched owns the live alert queue and the wait loop that fires it.
//
// One goroutine per Start generation sleeps until the earliest trigger
// instant, wakes, dispatches everything due and goes back to sleep. All
// queue mutation happens under a single mutex (single-writer); producers
// such as resync, preference edits and snooze requests only ever call
// Start, RefreshPreferences or Snooze and return immediately.
package sched

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/manav03panchal/punctual/internal/config"
	"github.com/manav03panchal/punctual/internal/logging"
	"github.com/manav03panchal/punctual/internal/model"
	"github.com/manav03panchal/punctual/internal/timing"
)

// State describes the scheduler's lifecycle phase.
type State string

// Scheduler states.
const (
	StateIdle      State = "idle"      // no events registered
	StateScheduled State = "scheduled" // loop running
	StateStopped   State = "stopped"   // explicitly stopped
)

// Scheduler keeps the time-ordered alert queue for the current event set
// and drives the presentation gateway.
type Scheduler struct {
	mu      sync.Mutex
	queue   []model.Alert
	events  []model.Event
	prefs   model.TimingPreferences
	gateway Gateway
	state   State
	seq     uint64

	cancel context.CancelFunc
	wake   chan struct{}

	// Tunables, taken from runtime config; overridable in tests.
	idleWait     time.Duration
	failurePause time.Duration
	epsilon      time.Duration
	now          func() time.Time
}

// New creates a stopped scheduler with no events.
func New() *Scheduler {
	cfg := config.Global.Scheduler
	return &Scheduler{
		gateway:      NopGateway{},
		state:        StateIdle,
		wake:         make(chan struct{}, 1),
		idleWait:     cfg.IdleWait,
		failurePause: cfg.FailurePause,
		epsilon:      cfg.Epsilon,
		now:          time.Now,
	}
}

// Start (re)initializes scheduling for a full event set. Safe to call
// repeatedly: the running loop is cancelled, the queue rebuilt from the
// timing policy, and unfired future Snooze alerts carried over so a resync
// or preference edit never loses a deferral.
func (s *Scheduler) Start(events []model.Event, prefs model.TimingPreferences, gateway Gateway) {
	s.mu.Lock()
	s.events = append(s.events[:0:0], events...)
	s.prefs = prefs
	if gateway != nil {
		s.gateway = gateway
	}
	s.recomputeLocked(s.now())
	s.state = StateScheduled
	s.restartLoopLocked()
	queued := len(s.queue)
	s.mu.Unlock()

	logging.Info("schedule started",
		logging.KeyCount, queued,
		"events", len(events))
}

// RefreshPreferences recomputes the queue with a new preferences snapshot
// and the last provided event set. Identical to Start in effect; the owner
// of preferences calls this when the user edits timing settings.
func (s *Scheduler) RefreshPreferences(prefs model.TimingPreferences) {
	s.mu.Lock()
	if s.state != StateScheduled {
		s.prefs = prefs
		s.mu.Unlock()
		return
	}
	s.prefs = prefs
	s.recomputeLocked(s.now())
	s.restartLoopLocked()
	queued := len(s.queue)
	s.mu.Unlock()

	logging.Info("schedule recomputed after preference change", logging.KeyCount, queued)
}

// Stop halts all scheduling activity and clears the queue and event set.
// Idempotent: stopping twice, or with nothing running, is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.queue = nil
	s.events = nil
	s.state = StateStopped
	s.mu.Unlock()

	logging.Info("schedule stopped")
}

// CurrentState returns the scheduler's lifecycle phase.
func (s *Scheduler) CurrentState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pending returns a read-only snapshot of the queue, earliest first.
func (s *Scheduler) Pending() []model.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]model.Alert, len(s.queue))
	copy(snapshot, s.queue)
	return snapshot
}

// recomputeLocked rebuilds the queue from the stored events and prefs.
// Unfired Snooze alerts whose trigger is still ahead are preserved, and no
// fresh Reminder or Sound is fabricated for an event that has one pending.
// A MeetingStart alert is still queued for a snoozed event: deferring the
// reminder must not cancel auto-join.
func (s *Scheduler) recomputeLocked(now time.Time) {
	snoozed := make(map[string]bool)
	var next []model.Alert
	for _, alert := range s.queue {
		if alert.Kind == model.KindSnooze && alert.TriggerAt.After(now) {
			next = append(next, alert)
			snoozed[alert.Event.ID] = true
		}
	}

	seen := make(map[string]bool)
	for _, event := range s.events {
		if seen[event.ID] {
			continue
		}
		seen[event.ID] = true
		for _, alert := range timing.FireTimes(event, s.prefs, now) {
			if snoozed[event.ID] && alert.Kind != model.KindMeetingStart {
				continue
			}
			s.seq++
			alert.Seq = s.seq
			next = append(next, alert)
		}
	}

	sortQueue(next)
	s.queue = next
}

// insertLocked places an alert into the queue in sorted position.
func (s *Scheduler) insertLocked(alert model.Alert) {
	s.seq++
	alert.Seq = s.seq
	s.queue = append(s.queue, alert)
	sortQueue(s.queue)
}

// supersedeEventAlertsLocked drops the pending alerts a snooze replaces for
// the given event. A MeetingStart alert survives so auto-join still happens.
func (s *Scheduler) supersedeEventAlertsLocked(eventID string) {
	kept := s.queue[:0]
	for _, alert := range s.queue {
		if alert.Event.ID != eventID || alert.Kind == model.KindMeetingStart {
			kept = append(kept, alert)
		}
	}
	s.queue = kept
}

// restartLoopLocked cancels any in-flight sleep and launches a fresh loop.
func (s *Scheduler) restartLoopLocked() {
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.run(ctx)
}

// wakeLoop nudges a sleeping loop to re-evaluate its deadline.
func (s *Scheduler) wakeLoop() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// run is the cooperative wait loop. It sleeps exactly until the earliest
// trigger instant (or a bounded idle interval when the queue is empty),
// wakes, fires everything due and repeats. Cancellation is checked at the
// top of each iteration; an unexpected panic pauses briefly and resumes so
// a transient error never kills scheduling.
func (s *Scheduler) run(ctx context.Context) {
	for ctx.Err() == nil {
		s.iterate(ctx)
	}
}

func (s *Scheduler) iterate(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("alert loop iteration failed", logging.KeyError, r)
			sleepCtx(ctx, s.failurePause)
		}
	}()

	wait := s.nextWait()
	if wait > s.epsilon {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
			// Queue changed; recompute the deadline next iteration.
			return
		case <-timer.C:
		}
	}

	if ctx.Err() != nil {
		return
	}

	for _, alert := range s.collectDue(s.now()) {
		s.dispatch(alert)
	}
}

// nextWait returns how long the loop should sleep. An empty queue sleeps a
// long bounded interval so scheduling resumes promptly once work appears.
// Negative remaining time (clock skew, overdue batch after system sleep)
// clamps to zero and fires immediately.
func (s *Scheduler) nextWait() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return s.idleWait
	}
	wait := s.queue[0].TriggerAt.Sub(s.now())
	if wait < 0 {
		return 0
	}
	return wait
}

// collectDue removes and returns every alert with TriggerAt <= now, in
// ascending order. After a suspend/resume gap this is the whole overdue
// batch, dispatched back to back.
func (s *Scheduler) collectDue(now time.Time) []model.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for n < len(s.queue) && s.queue[n].Due(now) {
		n++
	}
	if n == 0 {
		return nil
	}
	due := make([]model.Alert, n)
	copy(due, s.queue[:n])
	s.queue = s.queue[n:]
	return due
}

// dispatch hands one fired alert to the gateway.
func (s *Scheduler) dispatch(alert model.Alert) {
	s.mu.Lock()
	gateway := s.gateway
	autoJoin := s.prefs.AutoJoin
	s.mu.Unlock()

	logging.Info("alert fired",
		logging.KeyAlert, alert.ID,
		logging.KeyEvent, alert.Event.ID,
		logging.KeyKind, string(alert.Kind),
		logging.KeyTriggerAt, alert.TriggerAt)

	switch alert.Kind {
	case model.KindSound:
		gateway.PlaySound(alert.Event)
	case model.KindMeetingStart:
		if autoJoin && alert.Event.Joinable() {
			gateway.OpenMeetingLink(alert.Event)
		} else {
			gateway.ShowAlert(alert.Event, false)
		}
	case model.KindSnooze:
		gateway.ShowAlert(alert.Event, true)
	default:
		gateway.ShowAlert(alert.Event, false)
	}
}

// sortQueue keeps the queue time-ascending, ties broken by insertion order.
func sortQueue(queue []model.Alert) {
	sort.SliceStable(queue, func(i, j int) bool {
		if queue[i].TriggerAt.Equal(queue[j].TriggerAt) {
			return queue[i].Seq < queue[j].Seq
		}
		return queue[i].TriggerAt.Before(queue[j].TriggerAt)
	})
}

// sleepCtx sleeps for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
