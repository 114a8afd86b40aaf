package calendar

import (
	"context"
	"time"

	"github.com/manav03panchal/punctual/internal/config"
	"github.com/manav03panchal/punctual/internal/logging"
	"github.com/manav03panchal/punctual/internal/model"
	"github.com/manav03panchal/punctual/internal/storage"
)

// Syncer refreshes the stored working set from all configured sources.
type Syncer struct {
	fetcher *Fetcher
	sources *storage.SourceRepo
	events  *storage.EventRepo
}

// NewSyncer creates a syncer over the given repositories.
func NewSyncer(sources *storage.SourceRepo, events *storage.EventRepo) *Syncer {
	return &Syncer{
		fetcher: NewFetcher(),
		sources: sources,
		events:  events,
	}
}

// SyncSource fetches one source and replaces its stored events. The
// outcome, success or failure, is recorded on the source so `punctual
// source list` can surface broken feeds.
func (s *Syncer) SyncSource(ctx context.Context, source *model.Source) error {
	events, fetchErr := s.fetcher.Fetch(ctx, source)
	if fetchErr == nil {
		fetchErr = s.events.ReplaceSource(source.ID, events)
	}

	if err := s.sources.RecordSync(source.ID, fetchErr); err != nil {
		logging.Error("failed to record sync outcome",
			logging.KeySource, source.Name,
			logging.KeyError, err)
	}

	if fetchErr != nil {
		logging.Error("source sync failed",
			logging.KeySource, source.Name,
			logging.KeyError, fetchErr)
		return fetchErr
	}

	logging.Info("source synced",
		logging.KeySource, source.Name,
		logging.KeyCount, len(events))
	return nil
}

// SyncAll refreshes every source and prunes events past retention. One
// broken feed does not stop the others; the first error is returned after
// all sources were attempted.
func (s *Syncer) SyncAll(ctx context.Context) error {
	sources, err := s.sources.List()
	if err != nil {
		return err
	}

	var firstErr error
	for _, source := range sources {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.SyncSource(ctx, source); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	pruned, err := s.events.Prune(time.Now(), config.Global.Sync.Retention)
	if err != nil {
		logging.Error("event pruning failed", logging.KeyError, err)
	} else if pruned > 0 {
		logging.DebugLog("pruned ended events", logging.KeyCount, pruned)
	}

	return firstErr
}

// WorkingSet returns the events the scheduler should run with: everything
// upcoming within the lookahead window.
func (s *Syncer) WorkingSet(now time.Time) ([]model.Event, error) {
	upcoming, err := s.events.ListUpcoming(now, config.Global.Sync.Lookahead)
	if err != nil {
		return nil, err
	}

	set := make([]model.Event, len(upcoming))
	for i, event := range upcoming {
		set[i] = *event
	}
	return set, nil
}
