package calendar

import (
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"

	"github.com/manav03panchal/punctual/internal/logging"
	"github.com/manav03panchal/punctual/internal/model"
)

// expandRecurring expands a recurring event into concrete instances whose
// start falls within [windowStart, windowEnd]. EXDATE exceptions are
// honored. Each instance gets a stable per-occurrence ID so snoozes and
// dedup survive resyncs.
func expandRecurring(base *model.Event, comp *ical.Component, windowStart, windowEnd time.Time) []*model.Event {
	rruleProp := comp.Props.Get(ical.PropRecurrenceRule)
	if rruleProp == nil || base.Start.IsZero() {
		return nil
	}

	rule, err := rrule.StrToRRule(rruleProp.Value)
	if err != nil {
		logging.Warn("unsupported recurrence rule skipped",
			logging.KeyEvent, base.Title,
			logging.KeyError, err)
		return nil
	}

	set := rrule.Set{}
	set.DTStart(base.Start)
	set.RRule(rule)
	for _, exDate := range exceptionDates(comp) {
		set.ExDate(exDate)
	}

	// Reach back one day so an in-progress instance is not missed.
	occurrences := set.Between(windowStart.Add(-24*time.Hour), windowEnd, true)

	duration := base.End.Sub(base.Start)
	instances := make([]*model.Event, 0, len(occurrences))
	for _, start := range occurrences {
		instance := *base
		instance.Start = start
		instance.End = start.Add(duration)
		instance.ID = base.ID + "-" + start.Format(time.RFC3339)
		instances = append(instances, &instance)
	}
	return instances
}

// exceptionDates collects EXDATE values, tolerating comma-joined lists and
// the same loose datetime shapes the rest of the parser accepts.
func exceptionDates(comp *ical.Component) []time.Time {
	var dates []time.Time
	for _, prop := range comp.Props.Values(ical.PropExceptionDates) {
		p := prop
		if !strings.Contains(p.Value, ",") {
			if t, err := parseDateTimeProperty(&p); err == nil {
				dates = append(dates, t)
			}
			continue
		}
		for _, raw := range strings.Split(p.Value, ",") {
			single := p
			single.Value = raw
			if t, err := parseDateTimeProperty(&single); err == nil {
				dates = append(dates, t)
			}
		}
	}
	return dates
}
