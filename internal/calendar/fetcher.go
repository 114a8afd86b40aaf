// Package calendar fetches iCalendar feeds and turns them into events the
// alert engine can schedule. Recurring events are expanded into concrete
// instances within the sync lookahead window.
package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/manav03panchal/punctual/internal/config"
	"github.com/manav03panchal/punctual/internal/errors"
	"github.com/manav03panchal/punctual/internal/logging"
	"github.com/manav03panchal/punctual/internal/model"
)

// Fetcher downloads and parses iCalendar feeds.
type Fetcher struct {
	client    *http.Client
	lookahead time.Duration
	now       func() time.Time
}

// NewFetcher creates a fetcher with the runtime HTTP timeout and sync
// lookahead window.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: config.Global.HTTP.Timeout},
		lookahead: config.Global.Sync.Lookahead,
		now:       time.Now,
	}
}

// Fetch downloads a source's feed and returns its events within the
// lookahead window, stamped with the source ID.
func (f *Fetcher) Fetch(ctx context.Context, source *model.Source) ([]*model.Event, error) {
	events, err := f.fetchAndParse(ctx, source.URL)
	if err != nil {
		return nil, errors.Wrapf(err, "sync source %q", source.Name)
	}

	withoutUID := 0
	for _, event := range events {
		event.SourceID = source.ID
		// Fallback: without an iCal UID, derive a deterministic ID from
		// start time and title so resyncs stay stable.
		if event.ID == "" {
			event.ID = source.ID + "-" + event.Start.Format(time.RFC3339) + "-" + event.Title
			withoutUID++
		}
		event.Key = model.GenerateEventKey(event.ID)
	}

	if withoutUID > 0 {
		logging.DebugLog("generated fallback event IDs",
			logging.KeySource, source.Name,
			logging.KeyCount, withoutUID)
	}

	return events, nil
}

func (f *Fetcher) fetchAndParse(ctx context.Context, feedURL string) ([]*model.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if err := validateFeedFormat(string(body)); err != nil {
		return nil, err
	}

	return f.parseFeed(strings.NewReader(string(body)))
}

// parseFeed decodes every VCALENDAR in the stream and collects filtered,
// deduplicated event instances.
func (f *Fetcher) parseFeed(r io.Reader) ([]*model.Event, error) {
	decoder := ical.NewDecoder(r)

	now := f.now()
	horizon := now.Add(f.lookahead)

	var events []*model.Event
	seenIDs := make(map[string]bool)
	seenKeys := make(map[string]bool) // title + start time
	stats := &filterStats{}

	for {
		cal, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode calendar: %w", err)
		}

		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}
			stats.totalEvents++

			event := parseEvent(comp)

			if rruleProp := comp.Props.Get(ical.PropRecurrenceRule); rruleProp != nil {
				for _, instance := range expandRecurring(event, comp, now, horizon) {
					f.include(instance, now, horizon, &events, seenIDs, seenKeys, stats)
				}
				continue
			}

			f.include(event, now, horizon, &events, seenIDs, seenKeys, stats)
		}
	}

	stats.logSummary(len(events))
	return events, nil
}

func (f *Fetcher) include(event *model.Event, now, horizon time.Time,
	events *[]*model.Event, seenIDs, seenKeys map[string]bool, stats *filterStats) {
	if !shouldInclude(event, now, horizon, stats) {
		return
	}
	if isDuplicate(event, seenIDs, seenKeys, stats) {
		return
	}
	*events = append(*events, event)
}

func validateFeedFormat(body string) error {
	trimmed := strings.TrimSpace(body)
	upper := strings.ToUpper(trimmed)
	if strings.HasPrefix(upper, "<!DOCTYPE") || strings.HasPrefix(upper, "<HTML") {
		return fmt.Errorf("received HTML instead of iCalendar data; the URL may require authentication")
	}

	if !strings.HasPrefix(trimmed, "BEGIN:VCALENDAR") {
		preview := trimmed
		if len(preview) > 100 {
			preview = preview[:100]
		}
		return fmt.Errorf("invalid iCalendar format: expected BEGIN:VCALENDAR, got %q", preview)
	}

	return nil
}

func isDuplicate(event *model.Event, seenIDs, seenKeys map[string]bool, stats *filterStats) bool {
	if seenIDs[event.ID] {
		stats.filteredDuplicates++
		return true
	}

	eventKey := event.Title + "|" + event.Start.Format(time.RFC3339)
	if seenKeys[eventKey] {
		stats.filteredDuplicates++
		return true
	}

	seenIDs[event.ID] = true
	seenKeys[eventKey] = true
	return false
}

type filterStats struct {
	totalEvents           int
	filteredMissingTime   int
	filteredCancelled     int
	filteredAllDay        int
	filteredOutsideWindow int
	filteredDuplicates    int
}

func (s *filterStats) logSummary(includedCount int) {
	filtered := s.filteredMissingTime + s.filteredCancelled + s.filteredAllDay +
		s.filteredOutsideWindow + s.filteredDuplicates
	logging.DebugLog("feed parsed",
		"total", s.totalEvents,
		"included", includedCount,
		"filtered", filtered,
		"cancelled", s.filteredCancelled,
		"all_day", s.filteredAllDay,
		"outside_window", s.filteredOutsideWindow,
		"missing_time", s.filteredMissingTime,
		"duplicates", s.filteredDuplicates)
}
