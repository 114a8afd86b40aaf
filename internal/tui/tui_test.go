package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/punctual/internal/model"
)

type fakeSnoozer struct {
	event   model.Event
	minutes int
	calls   int
	err     error
}

func (f *fakeSnoozer) Snooze(event model.Event, minutes int) error {
	f.calls++
	f.event = event
	f.minutes = minutes
	return f.err
}

func testEvent(title string, startIn time.Duration) model.Event {
	now := time.Now()
	return model.Event{
		ID:    "evt-" + title,
		Title: title,
		Start: now.Add(startIn),
		End:   now.Add(startIn + 30*time.Minute),
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func newTestModel(snoozer *fakeSnoozer) *WatchModel {
	m := NewWatchModel(WatchConfig{
		Snoozer:       snoozer,
		SnoozeMinutes: 5,
	})
	m.width = 80
	m.height = 24
	return m
}

// =============================================================================
// WatchModel Tests
// =============================================================================

func TestNewWatchModelDefaults(t *testing.T) {
	m := NewWatchModel(WatchConfig{})
	assert.Equal(t, time.Second, m.refreshInterval)
	assert.Equal(t, 5, m.maxUpcoming)
	assert.Equal(t, 5, m.snoozeMinutes)
}

func TestShowAlertRaisesOverlay(t *testing.T) {
	m := newTestModel(nil)
	event := testEvent("Standup", 5*time.Minute)

	updated, _ := m.Update(showAlertMsg{event: event})
	m = updated.(*WatchModel)

	require.NotNil(t, m.alert)
	assert.Contains(t, m.View(), "Standup")
	assert.Contains(t, m.View(), "MEETING SOON")
}

func TestHideAlertClearsOverlay(t *testing.T) {
	m := newTestModel(nil)
	m.alert = &showAlertMsg{event: testEvent("Standup", 5*time.Minute)}

	updated, _ := m.Update(hideAlertMsg{})
	m = updated.(*WatchModel)
	assert.Nil(t, m.alert)
}

func TestDismissKeys(t *testing.T) {
	for _, key := range []string{"enter", "esc"} {
		t.Run(key, func(t *testing.T) {
			snoozer := &fakeSnoozer{}
			m := newTestModel(snoozer)
			m.alert = &showAlertMsg{event: testEvent("Standup", 5*time.Minute)}

			updated, _ := m.Update(keyMsg(key))
			m = updated.(*WatchModel)

			assert.Nil(t, m.alert)
			assert.Zero(t, snoozer.calls)
		})
	}
}

func TestSnoozeKeyUsesDefaultMinutes(t *testing.T) {
	snoozer := &fakeSnoozer{}
	m := newTestModel(snoozer)
	event := testEvent("Standup", 5*time.Minute)
	m.alert = &showAlertMsg{event: event}

	updated, _ := m.Update(keyMsg("s"))
	m = updated.(*WatchModel)

	assert.Equal(t, 1, snoozer.calls)
	assert.Equal(t, 5, snoozer.minutes)
	assert.Equal(t, event.ID, snoozer.event.ID)
	assert.Nil(t, m.alert)
	assert.Contains(t, m.message, "Snoozed for 5 min")
}

func TestDigitKeysSnoozeThatManyMinutes(t *testing.T) {
	snoozer := &fakeSnoozer{}
	m := newTestModel(snoozer)
	m.alert = &showAlertMsg{event: testEvent("Standup", 5*time.Minute)}

	updated, _ := m.Update(keyMsg("3"))
	m = updated.(*WatchModel)

	assert.Equal(t, 3, snoozer.minutes)
	assert.Nil(t, m.alert)
}

func TestSnoozeErrorKeepsOverlay(t *testing.T) {
	snoozer := &fakeSnoozer{err: errors.New("not scheduled")}
	m := newTestModel(snoozer)
	m.alert = &showAlertMsg{event: testEvent("Standup", 5*time.Minute)}

	updated, _ := m.Update(keyMsg("s"))
	m = updated.(*WatchModel)

	assert.NotNil(t, m.alert)
	assert.Error(t, m.err)
}

func TestAlertKeysIgnoredWithoutAlert(t *testing.T) {
	snoozer := &fakeSnoozer{}
	m := newTestModel(snoozer)

	for _, key := range []string{"s", "3", "j", "enter", "esc"} {
		updated, _ := m.Update(keyMsg(key))
		m = updated.(*WatchModel)
	}
	assert.Zero(t, snoozer.calls)
}

func TestJoinKeyWithoutLink(t *testing.T) {
	m := newTestModel(nil)
	m.alert = &showAlertMsg{event: testEvent("Standup", 5*time.Minute)}

	updated, cmd := m.Update(keyMsg("j"))
	m = updated.(*WatchModel)

	assert.Nil(t, cmd)
	assert.NotNil(t, m.alert)
	assert.Contains(t, m.message, "No meeting link")
}

func TestJoinKeyWithLink(t *testing.T) {
	m := newTestModel(nil)
	event := testEvent("Standup", 5*time.Minute)
	event.MeetingLink = "https://zoom.us/j/1"
	m.alert = &showAlertMsg{event: event}

	updated, cmd := m.Update(keyMsg("j"))
	m = updated.(*WatchModel)

	assert.NotNil(t, cmd)
	assert.Nil(t, m.alert)
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(nil)
	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestSoundMsgFlashesMessage(t *testing.T) {
	m := newTestModel(nil)
	updated, _ := m.Update(soundMsg{event: testEvent("Standup", 2*time.Minute)})
	m = updated.(*WatchModel)

	assert.Nil(t, m.alert)
	assert.Contains(t, m.message, "Standup")
}

func TestJoinMsgRaisesOverlayAndOpens(t *testing.T) {
	m := newTestModel(nil)
	event := testEvent("Standup", 0)
	event.MeetingLink = "https://meet.google.com/abc"

	updated, cmd := m.Update(joinMsg{event: event})
	m = updated.(*WatchModel)

	require.NotNil(t, m.alert)
	assert.NotNil(t, cmd)
}

func TestRefreshLoadsAgenda(t *testing.T) {
	events := []model.Event{testEvent("Standup", time.Hour)}
	m := NewWatchModel(WatchConfig{
		LoadEvents: func() ([]model.Event, error) { return events, nil },
	})
	m.width = 80

	updated, _ := m.Update(refreshMsg{})
	m = updated.(*WatchModel)

	assert.Len(t, m.events, 1)
	assert.Contains(t, m.View(), "Standup")
}

func TestRefreshErrorShown(t *testing.T) {
	m := NewWatchModel(WatchConfig{
		LoadEvents: func() ([]model.Event, error) { return nil, errors.New("db closed") },
	})
	m.width = 80

	updated, _ := m.Update(refreshMsg{})
	m = updated.(*WatchModel)

	assert.Error(t, m.err)
	assert.Contains(t, m.View(), "db closed")
}

func TestWindowSize(t *testing.T) {
	m := NewWatchModel(WatchConfig{})
	assert.Equal(t, "Loading...", m.View())

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(*WatchModel)
	assert.Equal(t, 100, m.width)
	assert.NotEqual(t, "Loading...", m.View())
}

func TestTickClearsExpiredMessage(t *testing.T) {
	m := newTestModel(nil)
	m.message = "stale"
	m.messageExp = time.Now().Add(-time.Second)

	updated, cmd := m.Update(tickMsg(time.Now()))
	m = updated.(*WatchModel)

	assert.Empty(t, m.message)
	assert.NotNil(t, cmd)
}

// =============================================================================
// Component Tests
// =============================================================================

func TestAlertComponentView(t *testing.T) {
	now := time.Now()
	event := testEvent("Design Review", 10*time.Minute)
	event.Organizer = "sam@example.com"
	event.MeetingLink = "https://zoom.us/j/42"

	view := NewAlertComponent(event, false, 80, now).View()
	assert.Contains(t, view, "MEETING SOON")
	assert.Contains(t, view, "Design Review")
	assert.Contains(t, view, "sam@example.com")
	assert.Contains(t, view, "https://zoom.us/j/42")
	assert.Contains(t, view, "join")
}

func TestAlertComponentSnoozed(t *testing.T) {
	view := NewAlertComponent(testEvent("1:1", 10*time.Minute), true, 80, time.Now()).View()
	assert.Contains(t, view, "SNOOZED REMINDER")
}

func TestAlertComponentStartedMeeting(t *testing.T) {
	view := NewAlertComponent(testEvent("1:1", -5*time.Minute), false, 80, time.Now()).View()
	assert.Contains(t, view, "MEETING STARTED")
}

func TestAgendaComponentEmpty(t *testing.T) {
	view := NewAgendaComponent(nil, 80, 5, time.Now()).View()
	assert.Contains(t, view, "No upcoming meetings")
}

func TestAgendaComponentLimitsRows(t *testing.T) {
	events := []model.Event{
		testEvent("A", time.Hour),
		testEvent("B", 2*time.Hour),
		testEvent("C", 3*time.Hour),
	}
	comp := NewAgendaComponent(events, 80, 2, time.Now())
	assert.Len(t, comp.Events, 2)

	view := comp.View()
	assert.Contains(t, view, "A")
	assert.Contains(t, view, "B")
	assert.NotContains(t, view, "C  ")
}

// =============================================================================
// Gateway Tests
// =============================================================================

func TestGatewayForwardsMessages(t *testing.T) {
	g := NewGateway()
	var got []tea.Msg
	g.send = func(msg tea.Msg) { got = append(got, msg) }

	event := testEvent("Standup", 5*time.Minute)
	g.ShowAlert(event, true)
	g.HideAlert()
	g.OpenMeetingLink(event)

	require.Len(t, got, 3)
	show, ok := got[0].(showAlertMsg)
	require.True(t, ok)
	assert.True(t, show.fromSnooze)
	assert.Equal(t, event.ID, show.event.ID)
	assert.IsType(t, hideAlertMsg{}, got[1])
	assert.IsType(t, joinMsg{}, got[2])
}

func TestGatewayUnattachedDropsDispatch(t *testing.T) {
	g := NewGateway()
	assert.NotPanics(t, func() {
		g.ShowAlert(testEvent("Standup", time.Minute), false)
		g.HideAlert()
	})
}
