package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/punctual/internal/model"
)

func testBuffer() (*CLIFormatter, *bytes.Buffer) {
	var buf bytes.Buffer
	f := &Formatter{Writer: &buf, Format: FormatCLI, ColorMode: ColorNever}
	return NewCLIFormatter(f), &buf
}

// =============================================================================
// Formatter Tests
// =============================================================================

func TestNewFormatter(t *testing.T) {
	f := NewFormatter()
	assert.NotNil(t, f)
	assert.Equal(t, FormatCLI, f.Format)
	assert.Equal(t, ColorAuto, f.ColorMode)
}

func TestFormatterIsColorEnabled(t *testing.T) {
	t.Run("color_always", func(t *testing.T) {
		f := &Formatter{ColorMode: ColorAlways}
		assert.True(t, f.IsColorEnabled())
	})

	t.Run("color_never", func(t *testing.T) {
		f := &Formatter{ColorMode: ColorNever}
		assert.False(t, f.IsColorEnabled())
	})

	t.Run("color_auto_non_terminal", func(t *testing.T) {
		var buf bytes.Buffer
		f := &Formatter{
			Writer:    &buf,
			ColorMode: ColorAuto,
		}
		// Buffer is not a terminal
		assert.False(t, f.IsColorEnabled())
	})
}

func TestFormatterPrint(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Writer: &buf}

	f.Print("hello")
	assert.Equal(t, "hello", buf.String())

	buf.Reset()
	f.Println("hello")
	assert.Equal(t, "hello\n", buf.String())

	buf.Reset()
	f.Printf("hello %s", "world")
	assert.Equal(t, "hello world", buf.String())
}

func TestFormatterJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Writer: &buf}

	data := map[string]string{"key": "value"}
	err := f.JSON(data)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `"key": "value"`)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45s", FormatDuration(45*time.Second))
	assert.Equal(t, "5m", FormatDuration(5*time.Minute))
	assert.Equal(t, "1h 30m", FormatDuration(90*time.Minute))
	assert.Equal(t, "2h", FormatDuration(2*time.Hour))
}

func TestFormatRelative(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "in 10m", FormatRelative(now.Add(10*time.Minute), now))
	assert.Equal(t, "5m ago", FormatRelative(now.Add(-5*time.Minute), now))
	assert.Equal(t, "now", FormatRelative(now.Add(10*time.Second), now))
}

// =============================================================================
// CLI Formatter Tests
// =============================================================================

func TestCLIMessages(t *testing.T) {
	c, buf := testBuffer()

	c.Success("created")
	assert.Contains(t, buf.String(), "✓ created")

	buf.Reset()
	c.Warning("careful")
	assert.Contains(t, buf.String(), "⚠ careful")

	buf.Reset()
	c.Error("failed")
	assert.Contains(t, buf.String(), "✗ failed")
}

func TestPrintAgendaEmpty(t *testing.T) {
	c, buf := testBuffer()
	c.PrintAgenda(nil, time.Now())
	assert.Contains(t, buf.String(), "No upcoming meetings")
}

func TestPrintAgendaGroupsByDay(t *testing.T) {
	c, buf := testBuffer()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	events := []model.Event{
		{ID: "a", Title: "Standup", Start: now.Add(30 * time.Minute), End: now.Add(45 * time.Minute)},
		{ID: "b", Title: "Review", Start: now.Add(26 * time.Hour), End: now.Add(27 * time.Hour), MeetingLink: "https://zoom.us/j/1"},
	}

	c.PrintAgenda(events, now)
	out := buf.String()
	assert.Contains(t, out, "2026-03-02")
	assert.Contains(t, out, "2026-03-03")
	assert.Contains(t, out, "Standup")
	assert.Contains(t, out, "in 30m")
	assert.Contains(t, out, "https://zoom.us/j/1")
}

func TestPrintSources(t *testing.T) {
	c, buf := testBuffer()

	c.PrintSources(nil)
	assert.Contains(t, buf.String(), "No calendar sources")

	buf.Reset()
	sources := []*model.Source{
		{Name: "work", URL: "https://cal.example.com/work.ics", LastSync: time.Now()},
		{Name: "team", URL: "https://cal.example.com/team.ics", LastError: "fetch failed"},
	}
	c.PrintSources(sources)
	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "work")
	assert.Contains(t, out, "fetch failed")
	assert.Contains(t, out, "never")
}

func TestPrintWebhooksMasksURL(t *testing.T) {
	c, buf := testBuffer()
	hooks := []*model.Webhook{
		model.NewWebhook("alerts", model.WebhookTypeSlack, "https://hooks.slack.com/services/T000/B000/secrettoken"),
	}
	hooks[0].Enabled = true

	c.PrintWebhooks(hooks)
	out := buf.String()
	assert.Contains(t, out, "alerts")
	assert.Contains(t, out, "enabled")
	assert.NotContains(t, out, "secrettoken")
}

func TestPrintPreferences(t *testing.T) {
	c, buf := testBuffer()
	prefs := model.DefaultTimingPreferences().Clamped()
	prefs.UseLengthBased = true
	prefs.SoundEnabled = true
	prefs.SoundMinutes = 1

	c.PrintPreferences(prefs)
	out := buf.String()
	assert.Contains(t, out, "Default lead time")
	assert.Contains(t, out, "Short meetings")
	assert.Contains(t, out, "Sound alert: 1 minutes before")
	assert.Contains(t, out, "Snooze default")
}

func TestPrintAlerts(t *testing.T) {
	c, buf := testBuffer()
	now := time.Now()
	event := model.Event{ID: "e1", Title: "1:1", Start: now.Add(time.Hour), End: now.Add(90 * time.Minute)}
	alerts := []model.Alert{model.NewReminderAlert(event, now.Add(50*time.Minute), 10)}

	c.PrintAlerts(alerts, now)
	out := buf.String()
	assert.Contains(t, out, "1:1")
	assert.Contains(t, out, "reminder")
	assert.Contains(t, out, "in 50m")
}

func TestPrintTableAlignment(t *testing.T) {
	c, buf := testBuffer()
	c.PrintTable([]string{"A", "LONGHEADER"}, []TableRow{
		{Columns: []string{"xx", "y"}},
	})
	out := buf.String()
	assert.Contains(t, out, "A   LONGHEADER")
	assert.Contains(t, out, "xx  y")
}

// =============================================================================
// JSON Output Tests
// =============================================================================

func TestNewEventOutput(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	e := model.Event{
		ID:          "uid-1",
		Title:       "Planning",
		Start:       start,
		End:         start.Add(time.Hour),
		MeetingLink: "https://meet.google.com/abc",
		SourceID:    "src-1",
	}

	out := NewEventOutput(e)
	assert.Equal(t, "uid-1", out.ID)
	assert.Equal(t, start.Format(time.RFC3339), out.Start)
	assert.Equal(t, "https://meet.google.com/abc", out.MeetingLink)

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "manual")
}

func TestNewAgendaResponse(t *testing.T) {
	resp := NewAgendaResponse([]model.Event{{ID: "a"}, {ID: "b"}})
	assert.Equal(t, 2, resp.Count)
	assert.Len(t, resp.Events, 2)
}

func TestNewSourceOutputOmitsZeroSync(t *testing.T) {
	s := model.NewSource("id-1", "work", "https://cal.example.com/w.ics")
	out := NewSourceOutput(s)
	assert.Empty(t, out.LastSync)

	s.LastSync = time.Now()
	out = NewSourceOutput(s)
	assert.NotEmpty(t, out.LastSync)
}

func TestNewWebhookOutputMasksURL(t *testing.T) {
	w := model.NewWebhook("ops", model.WebhookTypeDiscord, "https://discord.com/api/webhooks/123/secrettoken")
	out := NewWebhookOutput(w)
	assert.NotContains(t, out.URL, "secrettoken")
	assert.Equal(t, model.WebhookTypeDiscord, out.Type)
}

func TestNewPreferencesOutput(t *testing.T) {
	prefs := model.DefaultTimingPreferences().Clamped()
	out := NewPreferencesOutput(prefs)
	assert.Equal(t, prefs.DefaultMinutes, out.DefaultMinutes)
	assert.Empty(t, out.UpdatedAt)
}

func TestNewAlertsResponse(t *testing.T) {
	now := time.Now()
	event := model.Event{ID: "e1", Title: "Sync", Start: now.Add(time.Hour)}
	resp := NewAlertsResponse([]model.Alert{model.NewReminderAlert(event, now.Add(50*time.Minute), 10)})

	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "reminder", resp.Alerts[0].Kind)
	assert.Equal(t, "e1", resp.Alerts[0].EventID)
	assert.Equal(t, 10, resp.Alerts[0].MinutesBefore)
}
