package model

import "time"

// Duration tier boundaries for length-based timing.
const (
	ShortMeetingMax  = 30 * time.Minute // exclusive upper bound for short
	MediumMeetingMax = 60 * time.Minute // inclusive upper bound for medium
)

// Minutes-before bounds enforced by Clamped.
const (
	MinAlertMinutes = 0
	MaxAlertMinutes = 1440 // one day
)

// TimingPreferences controls when alerts fire relative to event start.
// The scheduler only ever sees a clamped snapshot; validation belongs to
// the preferences owner, not the scheduling core.
type TimingPreferences struct {
	Key string `json:"key"`

	// DefaultMinutes is the minutes-before used when length-based timing is off.
	DefaultMinutes int `json:"default_minutes"`

	// UseLengthBased selects the duration-tiered minutes below.
	UseLengthBased bool `json:"use_length_based"`
	ShortMinutes   int  `json:"short_minutes"`  // meetings under 30 minutes
	MediumMinutes  int  `json:"medium_minutes"` // 30 to 60 minutes inclusive
	LongMinutes    int  `json:"long_minutes"`   // over 60 minutes

	// SoundEnabled adds a second, independently timed sound-only alert.
	SoundEnabled bool `json:"sound_enabled"`
	SoundMinutes int  `json:"sound_minutes"`

	// AutoJoin opens the meeting link at event start instead of an overlay.
	AutoJoin bool `json:"auto_join"`

	// SnoozeMinutes is the default snooze length offered by the overlay.
	SnoozeMinutes int `json:"snooze_minutes"`

	UpdatedAt time.Time `json:"updated_at"`
}

// SetKey sets the database key for the preferences record.
func (p *TimingPreferences) SetKey(key string) {
	p.Key = key
}

// GetKey returns the database key for the preferences record.
func (p *TimingPreferences) GetKey() string {
	return p.Key
}

// DefaultTimingPreferences returns the out-of-the-box timing preferences.
func DefaultTimingPreferences() *TimingPreferences {
	return &TimingPreferences{
		Key:            KeyPrefs,
		DefaultMinutes: 5,
		UseLengthBased: false,
		ShortMinutes:   2,
		MediumMinutes:  5,
		LongMinutes:    10,
		SoundEnabled:   false,
		SoundMinutes:   1,
		AutoJoin:       false,
		SnoozeMinutes:  5,
	}
}

// Clamped returns a copy with every minutes value forced into valid bounds.
func (p TimingPreferences) Clamped() TimingPreferences {
	p.DefaultMinutes = clampMinutes(p.DefaultMinutes)
	p.ShortMinutes = clampMinutes(p.ShortMinutes)
	p.MediumMinutes = clampMinutes(p.MediumMinutes)
	p.LongMinutes = clampMinutes(p.LongMinutes)
	p.SoundMinutes = clampMinutes(p.SoundMinutes)
	if p.SnoozeMinutes < 1 {
		p.SnoozeMinutes = 1
	}
	if p.SnoozeMinutes > MaxAlertMinutes {
		p.SnoozeMinutes = MaxAlertMinutes
	}
	return p
}

// MinutesFor returns the minutes-before for an event under these preferences.
func (p TimingPreferences) MinutesFor(event Event) int {
	if !p.UseLengthBased {
		return p.DefaultMinutes
	}
	d := event.Duration()
	switch {
	case d < ShortMeetingMax:
		return p.ShortMinutes
	case d <= MediumMeetingMax:
		return p.MediumMinutes
	default:
		return p.LongMinutes
	}
}

func clampMinutes(m int) int {
	if m < MinAlertMinutes {
		return MinAlertMinutes
	}
	if m > MaxAlertMinutes {
		return MaxAlertMinutes
	}
	return m
}
