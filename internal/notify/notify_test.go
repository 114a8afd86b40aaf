package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/punctual/internal/model"
	"github.com/manav03panchal/punctual/internal/storage"
)

func sampleNotification() *model.Notification {
	n := model.NewNotification(model.NotifyMeetingAlert, "Upcoming meeting: Standup", "Standup starts in 5 minutes.")
	n.WithField("Time", "10:00 AM")
	n.WithField("Link", "https://meet.google.com/abc")
	return n
}

// =============================================================================
// Formatters
// =============================================================================

func TestGetFormatterByType(t *testing.T) {
	assert.IsType(t, &DiscordFormatter{}, GetFormatter(model.WebhookTypeDiscord))
	assert.IsType(t, &SlackFormatter{}, GetFormatter(model.WebhookTypeSlack))
	assert.IsType(t, &GenericFormatter{}, GetFormatter(model.WebhookTypeGeneric))
	assert.IsType(t, &GenericFormatter{}, GetFormatter("unknown"))
}

func TestDiscordFormat(t *testing.T) {
	payload, err := (&DiscordFormatter{}).Format(sampleNotification())
	require.NoError(t, err)

	var decoded struct {
		Embeds []struct {
			Title  string `json:"title"`
			URL    string `json:"url"`
			Color  int    `json:"color"`
			Footer struct {
				Text string `json:"text"`
			} `json:"footer"`
			Fields []struct {
				Name  string `json:"name"`
				Value string `json:"value"`
			} `json:"fields"`
		} `json:"embeds"`
	}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	require.Len(t, decoded.Embeds, 1)

	embed := decoded.Embeds[0]
	assert.Equal(t, "Upcoming meeting: Standup", embed.Title)
	assert.Equal(t, "https://meet.google.com/abc", embed.URL, "meeting link becomes the embed URL")
	assert.Equal(t, model.ColorWarning, embed.Color)
	assert.Equal(t, "Punctual", embed.Footer.Text)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "Time", embed.Fields[0].Name)
}

func TestSlackFormat(t *testing.T) {
	payload, err := (&SlackFormatter{}).Format(sampleNotification())
	require.NoError(t, err)

	// json.Marshal escapes < and > in the raw bytes, so assert on the
	// decoded payload rather than the byte string.
	var decoded slackPayload
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "*Upcoming meeting: Standup*", decoded.Text)

	var blockTexts []string
	for _, block := range decoded.Blocks {
		if block.Text != nil {
			blockTexts = append(blockTexts, block.Text.Text)
		}
		for _, field := range block.Fields {
			blockTexts = append(blockTexts, field.Text)
		}
	}
	assert.Contains(t, blockTexts, "*Link*\n<https://meet.google.com/abc|Join>")

	var hasFooter bool
	for _, text := range blockTexts {
		if strings.HasPrefix(text, "Punctual | ") {
			hasFooter = true
		}
	}
	assert.True(t, hasFooter, "context block carries the Punctual footer")
}

func TestGenericFormatDefault(t *testing.T) {
	payload, err := (&GenericFormatter{}).Format(sampleNotification())
	require.NoError(t, err)

	var decoded genericPayload
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, string(model.NotifyMeetingAlert), decoded.Type)
	assert.Equal(t, "Upcoming meeting: Standup", decoded.Title)
	assert.Equal(t, model.ColorWarning, decoded.Color)
}

func TestGenericFormatWithTemplate(t *testing.T) {
	formatter := NewGenericFormatter(`{"text":"{{.Title}}"}`)
	payload, err := formatter.Format(sampleNotification())
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"Upcoming meeting: Standup"}`, string(payload))
}

func TestGenericFormatBadTemplate(t *testing.T) {
	formatter := NewGenericFormatter(`{{.Broken`)
	_, err := formatter.Format(sampleNotification())
	assert.Error(t, err)
}

// =============================================================================
// HTTP client
// =============================================================================

func fastClient(maxRetries int) *HTTPClient {
	return &HTTPClient{
		client:     &http.Client{Timeout: 2 * time.Second},
		maxRetries: maxRetries,
		retryDelay: []time.Duration{0, time.Millisecond, time.Millisecond, time.Millisecond},
	}
}

func TestHTTPClientSendSuccess(t *testing.T) {
	var gotContentType atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType.Store(r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	result := fastClient(3).Send(context.Background(), server.URL, "application/json", []byte(`{}`))
	require.NoError(t, result.Error)
	assert.Equal(t, http.StatusNoContent, result.StatusCode)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, "application/json", gotContentType.Load())
}

func TestHTTPClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer server.Close()

	result := fastClient(3).Send(context.Background(), server.URL, "application/json", []byte(`{}`))
	require.Error(t, result.Error)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "try again", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	result := fastClient(3).Send(context.Background(), server.URL, "application/json", []byte(`{}`))
	require.NoError(t, result.Error)
	assert.Equal(t, int32(3), calls.Load())
}

// =============================================================================
// Dispatcher
// =============================================================================

func testDispatcher(t *testing.T) (*Dispatcher, *storage.WebhookRepo) {
	t.Helper()
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := storage.NewWebhookRepo(db)
	d := NewDispatcher(repo)
	d.httpClient = fastClient(1)
	d.retryQueue = NewRetryQueue(d.httpClient)
	return d, repo
}

func TestDispatcherSendsToEnabledWebhooks(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d, repo := testDispatcher(t)
	require.NoError(t, repo.Create(model.NewWebhook("a", model.WebhookTypeGeneric, server.URL)))
	require.NoError(t, repo.Create(model.NewWebhook("b", model.WebhookTypeDiscord, server.URL)))
	disabled := model.NewWebhook("c", model.WebhookTypeSlack, server.URL)
	disabled.Enabled = false
	require.NoError(t, repo.Create(disabled))

	results := d.SendNotification(context.Background(), sampleNotification())
	require.Len(t, results, 2)
	for _, result := range results {
		assert.True(t, result.Success)
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestDispatcherNoWebhooks(t *testing.T) {
	d, _ := testDispatcher(t)
	assert.Nil(t, d.SendNotification(context.Background(), sampleNotification()))
	assert.False(t, d.HasEnabledWebhooks())
}

func TestDispatcherRecordsFailureAndQueuesRetry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	d, repo := testDispatcher(t)
	require.NoError(t, repo.Create(model.NewWebhook("flaky", model.WebhookTypeGeneric, server.URL)))

	results := d.SendNotification(context.Background(), sampleNotification())
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)

	wh, err := repo.Get("flaky")
	require.NoError(t, err)
	assert.NotEmpty(t, wh.LastError)
	assert.Equal(t, 1, d.retryQueue.Pending())
}

func TestDispatcherSendToMissingWebhook(t *testing.T) {
	d, _ := testDispatcher(t)
	result := d.SendToSingle(context.Background(), sampleNotification(), "nope")
	assert.False(t, result.Success)
	assert.Error(t, result.Error)
}

// =============================================================================
// Gateway
// =============================================================================

func TestGatewayBuildsAlertNotification(t *testing.T) {
	d, _ := testDispatcher(t)
	g := NewGateway(d)
	now := time.Now()
	g.now = func() time.Time { return now }

	event := model.Event{
		ID:          "e1",
		Title:       "Standup",
		Start:       now.Add(5 * time.Minute),
		End:         now.Add(35 * time.Minute),
		Organizer:   "alice@example.com",
		MeetingLink: "https://zoom.us/j/1",
	}

	n := g.buildAlertNotification(event, false)
	assert.Equal(t, model.NotifyMeetingAlert, n.Type)
	assert.Contains(t, n.Message, "starts in 5 minutes")
	assert.Equal(t, "https://zoom.us/j/1", n.Fields["Link"])
	assert.Equal(t, "alice@example.com", n.Fields["Organizer"])

	snoozed := g.buildAlertNotification(event, true)
	assert.Equal(t, model.NotifySnoozedAlert, snoozed.Type)
	assert.Contains(t, snoozed.Title, "Snoozed reminder")
}

func TestGatewayRelativeStartPhrasing(t *testing.T) {
	d, _ := testDispatcher(t)
	g := NewGateway(d)
	now := time.Now()
	g.now = func() time.Time { return now }

	assert.Equal(t, "starts in 1 minute",
		g.relativeStart(model.Event{Start: now.Add(time.Minute)}))
	assert.Equal(t, "starts now",
		g.relativeStart(model.Event{Start: now.Add(10 * time.Second)}))
	assert.Equal(t, "started 10 minutes ago",
		g.relativeStart(model.Event{Start: now.Add(-10 * time.Minute)}))
}

// =============================================================================
// Retry queue
// =============================================================================

func TestRetryQueueDeliversAfterBackoff(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	q := NewRetryQueue(fastClient(1))
	q.interval = 10 * time.Millisecond

	q.Enqueue("id-1", "wh", server.URL, "application/json", []byte(`{}`), 3, nil)
	// Force the entry to be ready immediately.
	q.mu.Lock()
	q.queue[0].NextRetry = time.Now()
	q.mu.Unlock()

	q.Start()
	defer q.Stop()

	require.Eventually(t, func() bool {
		return q.Stats().TotalSent == 1
	}, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Zero(t, q.Pending())
}

func TestRetryQueueDropsAfterMaxRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer server.Close()

	q := NewRetryQueue(fastClient(0))
	q.Enqueue("id-1", "wh", server.URL, "application/json", []byte(`{}`), 1, nil)
	q.mu.Lock()
	q.queue[0].NextRetry = time.Now()
	q.mu.Unlock()

	q.processQueue()

	stats := q.Stats()
	assert.Equal(t, 1, stats.TotalFailed)
	assert.Zero(t, stats.QueueSize)
}
