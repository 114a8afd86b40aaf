package storage

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/manav03panchal/punctual/internal/model"
)

// EventRepo provides operations for calendar events. Synced events are
// replaced wholesale per source on each resync; manual events (created via
// `punctual remind`) carry no source and survive resyncs.
type EventRepo struct {
	db *DB
}

// NewEventRepo creates a new event repository.
func NewEventRepo(db *DB) *EventRepo {
	return &EventRepo{db: db}
}

// Create stores a single event, generating an ID if absent.
func (r *EventRepo) Create(event *model.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Key == "" {
		event.Key = model.GenerateEventKey(event.ID)
	}
	return r.db.Set(event)
}

// Get retrieves an event by ID.
func (r *EventRepo) Get(id string) (*model.Event, error) {
	event := &model.Event{}
	if err := r.db.Get(model.GenerateEventKey(id), event); err != nil {
		return nil, err
	}
	return event, nil
}

// List retrieves all stored events sorted by start time.
func (r *EventRepo) List() ([]*model.Event, error) {
	events, err := GetAllByPrefix(r.db, model.PrefixEvent+":", func() *model.Event {
		return &model.Event{}
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	return events, nil
}

// ListUpcoming retrieves events that have not ended yet and start within
// the given lookahead window, sorted by start time.
func (r *EventRepo) ListUpcoming(now time.Time, lookahead time.Duration) ([]*model.Event, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}

	horizon := now.Add(lookahead)
	var upcoming []*model.Event
	for _, event := range all {
		if event.HasEnded(now) || event.Start.After(horizon) {
			continue
		}
		upcoming = append(upcoming, event)
	}
	return upcoming, nil
}

// ReplaceSource swaps out all synced events of one source for a fresh set.
// Events from other sources and manual events are untouched.
func (r *EventRepo) ReplaceSource(sourceID string, events []*model.Event) error {
	existing, err := r.List()
	if err != nil {
		return err
	}
	for _, event := range existing {
		if event.SourceID == sourceID {
			if err := r.db.Delete(event.Key); err != nil {
				return err
			}
		}
	}

	batch := make([]model.Model, 0, len(events))
	for _, event := range events {
		event.SourceID = sourceID
		if event.Key == "" {
			event.Key = model.GenerateEventKey(event.ID)
		}
		batch = append(batch, event)
	}
	return r.db.SetAll(batch)
}

// Update updates an existing event.
func (r *EventRepo) Update(event *model.Event) error {
	return r.db.Set(event)
}

// Delete removes an event by ID.
func (r *EventRepo) Delete(id string) error {
	return r.db.Delete(model.GenerateEventKey(id))
}

// DeleteBySource removes all events belonging to a source.
func (r *EventRepo) DeleteBySource(sourceID string) error {
	return r.ReplaceSource(sourceID, nil)
}

// Prune deletes events that ended before the retention cutoff.
func (r *EventRepo) Prune(now time.Time, retention time.Duration) (int, error) {
	all, err := r.List()
	if err != nil {
		return 0, err
	}

	cutoff := now.Add(-retention)
	pruned := 0
	for _, event := range all {
		if event.End.Before(cutoff) {
			if err := r.db.Delete(event.Key); err != nil {
				return pruned, err
			}
			pruned++
		}
	}
	return pruned, nil
}
