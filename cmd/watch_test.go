package cmd

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/punctual/internal/model"
)

func newTestPrefsWatcher(prefs *model.TimingPreferences, loadErr error) (*prefsWatcher, *[]model.TimingPreferences) {
	var refreshed []model.TimingPreferences
	w := &prefsWatcher{
		load: func() (model.TimingPreferences, error) {
			return *prefs, loadErr
		},
		refresh: func(p model.TimingPreferences) {
			refreshed = append(refreshed, p)
		},
	}
	return w, &refreshed
}

func TestPrefsWatcherAppliesEdit(t *testing.T) {
	prefs := model.DefaultTimingPreferences()
	prefs.UpdatedAt = time.Now()
	w, refreshed := newTestPrefsWatcher(prefs, nil)

	require.NoError(t, w.apply())
	require.Len(t, *refreshed, 1)
	assert.Equal(t, prefs.DefaultMinutes, (*refreshed)[0].DefaultMinutes)
}

func TestPrefsWatcherSkipsUnchangedPrefs(t *testing.T) {
	prefs := model.DefaultTimingPreferences()
	prefs.UpdatedAt = time.Now()
	w, refreshed := newTestPrefsWatcher(prefs, nil)

	require.NoError(t, w.apply())
	require.NoError(t, w.apply())
	assert.Len(t, *refreshed, 1, "same UpdatedAt must not refresh twice")

	// An edit advances UpdatedAt and is re-applied.
	prefs.DefaultMinutes = 15
	prefs.UpdatedAt = prefs.UpdatedAt.Add(time.Second)
	require.NoError(t, w.apply())
	require.Len(t, *refreshed, 2)
	assert.Equal(t, 15, (*refreshed)[1].DefaultMinutes)
}

func TestPrefsWatcherMarkSuppressesRefresh(t *testing.T) {
	prefs := model.DefaultTimingPreferences()
	prefs.UpdatedAt = time.Now()
	w, refreshed := newTestPrefsWatcher(prefs, nil)

	// A full scheduler Start pass already carried these prefs.
	w.mark(*prefs)

	require.NoError(t, w.apply())
	assert.Empty(t, *refreshed)
}

func TestPrefsWatcherLoadError(t *testing.T) {
	prefs := model.DefaultTimingPreferences()
	w, refreshed := newTestPrefsWatcher(prefs, errors.New("database closed"))

	assert.Error(t, w.apply())
	assert.Empty(t, *refreshed)
}
