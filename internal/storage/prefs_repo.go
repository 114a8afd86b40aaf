package storage

import (
	"time"

	"github.com/manav03panchal/punctual/internal/model"
)

// PrefsRepo provides operations for the TimingPreferences singleton.
type PrefsRepo struct {
	db *DB
}

// NewPrefsRepo creates a new preferences repository.
func NewPrefsRepo(db *DB) *PrefsRepo {
	return &PrefsRepo{db: db}
}

// Load retrieves the stored preferences, falling back to defaults when none
// have been saved yet. The returned snapshot is always clamped to valid
// bounds, so a hand-edited or stale record cannot produce out-of-range
// alert offsets.
func (r *PrefsRepo) Load() (model.TimingPreferences, error) {
	prefs := &model.TimingPreferences{}
	err := r.db.Get(model.KeyPrefs, prefs)
	if err == nil {
		return prefs.Clamped(), nil
	}

	if !IsErrKeyNotFound(err) {
		return model.TimingPreferences{}, err
	}

	return model.DefaultTimingPreferences().Clamped(), nil
}

// Save clamps and persists a preferences snapshot.
func (r *PrefsRepo) Save(prefs model.TimingPreferences) (model.TimingPreferences, error) {
	clamped := prefs.Clamped()
	clamped.Key = model.KeyPrefs
	clamped.UpdatedAt = time.Now()
	if err := r.db.Set(&clamped); err != nil {
		return model.TimingPreferences{}, err
	}
	return clamped, nil
}
