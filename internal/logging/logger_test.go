package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel(" warn "))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
	assert.Equal(t, LevelInfo, ParseLevel(""))
}

func TestLogger_JSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(&Config{Level: LevelDebug, ServiceName: "test", JSONFormat: true, Output: buf})

	log.Info("parsed transcript",
		F("messages", 42),
		F("grammar", "bracket-seconds"),
		F("took", 1500*time.Millisecond),
		Err(errors.New("boom")))

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "parsed transcript", e["message"])
	assert.Equal(t, "info", e["level"])
	assert.Equal(t, "test", e["service_name"])
	assert.Equal(t, float64(42), e["messages"])
	assert.Equal(t, "bracket-seconds", e["grammar"])
	assert.Equal(t, "boom", e["error"])
	assert.Contains(t, e, "time")
}

func TestLogger_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(&Config{Level: LevelWarn, JSONFormat: true, Output: buf})

	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("shown")
	log.Error("shown too")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "warn", entries[0]["level"])
	assert.Equal(t, "error", entries[1]["level"])
}

func TestLogger_With(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(&Config{JSONFormat: true, Output: buf}).With(F("session_id", "abc"), F("cached", true))

	log.Info("hit")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0]["session_id"])
	assert.Equal(t, true, entries[0]["cached"])
}

func TestLogger_WithContextRequestID(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(&Config{JSONFormat: true, Output: buf})

	var ctx context.Context
	handler := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx = r.Context()
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	log.WithContext(ctx).Info("request")
	log.WithContext(context.Background()).Info("background")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	assert.NotEmpty(t, entries[0]["request_id"])
	assert.NotContains(t, entries[1], "request_id")
}

func TestLogger_ConsoleFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	NewLogger(&Config{Output: buf}).Info("hello console", F("k", "v"))

	assert.Contains(t, buf.String(), "hello console")
	assert.Contains(t, buf.String(), "k=")
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	log.Info("nothing")
	log.With(F("a", 1)).WithContext(context.Background()).Error("still nothing")
	assert.NotNil(t, log.Zerolog())
}
