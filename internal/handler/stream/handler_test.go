package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/chat-vibes/backend/internal/analysis/metrics"
	"github.com/zhouzirui/chat-vibes/backend/internal/observability"
	chatservice "github.com/zhouzirui/chat-vibes/backend/internal/service/chat"
)

const transcript = "[01/01/2024, 09:00:00] Ann: morning all\n" +
	"[01/01/2024, 09:05:00] Ben: hey Ann\n" +
	"[01/01/2024, 21:40:00] Ann: good night\n"

type event struct {
	name string
	data string
}

func readEvents(t *testing.T, body string) []event {
	t.Helper()
	var events []event
	var cur event
	sc := bufio.NewScanner(strings.NewReader(body))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			cur.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			cur.data = strings.TrimPrefix(line, "data: ")
		case line == "":
			if cur.name != "" {
				events = append(events, cur)
			}
			cur = event{}
		}
	}
	require.NoError(t, sc.Err())
	return events
}

func setup(t *testing.T) (*chi.Mux, string, *observability.Metrics) {
	t.Helper()
	m := observability.NewMetrics(prometheus.NewRegistry())
	chatSvc := chatservice.NewService()
	session, err := chatSvc.CreateSession(context.Background(), "chat.txt", transcript)
	require.NoError(t, err)

	r := chi.NewRouter()
	New(chatSvc, nil, m).RegisterRoutes(r)
	return r, session.ID, m
}

func TestStreamEmitsEveryMetric(t *testing.T) {
	r, id, m := setup(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stream?session_id="+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	events := readEvents(t, rec.Body.String())
	require.Len(t, events, len(metrics.Names)+2)

	assert.Equal(t, EventSession, events[0].name)
	assert.Contains(t, events[0].data, id)
	for i, name := range metrics.Names {
		assert.Equal(t, name, events[i+1].name)
		assert.True(t, json.Valid([]byte(events[i+1].data)), name)
	}

	var end EndEvent
	last := events[len(events)-1]
	assert.Equal(t, EventEnd, last.name)
	require.NoError(t, json.Unmarshal([]byte(last.data), &end))
	assert.Equal(t, EndEvent{SessionID: id, Metrics: len(metrics.Names), Finished: true}, end)

	assert.Zero(t, testutil.ToFloat64(m.StreamClients.WithLabelValues("sse")))
}

func TestStreamUnknownSession(t *testing.T) {
	r, _, _ := setup(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stream?session_id=missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stream", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStreamStopsWhenClientLeaves(t *testing.T) {
	r, id, _ := setup(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/stream?session_id="+id, nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	events := readEvents(t, rec.Body.String())
	require.Len(t, events, 1)
	assert.Equal(t, EventSession, events[0].name)
}
