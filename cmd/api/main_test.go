package main

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/chat-vibes/backend/internal/config"
	"github.com/zhouzirui/chat-vibes/backend/internal/logging"
	"github.com/zhouzirui/chat-vibes/backend/internal/service/stats"
)

func TestRunServerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	done := make(chan error, 1)
	go func() { done <- runServer(ctx, srv) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestNewCounterFallsBackToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	counter, closeFn := newCounter(context.Background(), config.StatsConfig{
		File:     path,
		RedisURL: "redis://127.0.0.1:1/0",
		RedisKey: "k",
	}, logging.NewNopLogger())
	defer closeFn()

	_, ok := counter.(*stats.FileCounter)
	require.True(t, ok)
}

func TestNewNarratorWithoutCredentials(t *testing.T) {
	svc := newNarrator(context.Background(), config.AIConfig{NarratorEnabled: true}, logging.NewNopLogger(), nil)
	assert.False(t, svc.LLMEnabled())
}
