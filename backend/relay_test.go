package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PrestigeLulu/OmokWeb/backend/omok"
)

func TestRelayForwardsAIMoves(t *testing.T) {
	received := make(chan RelayEvent, 4)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var event RelayEvent
		if err := json.NewDecoder(r.Body).Decode(&event); err == nil {
			received <- event
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.RelayURL = server.URL
	cfg.RelayRatePerSec = 100
	relay := NewMoveRelay(cfg)
	require.True(t, relay.Enabled())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	relay.PublishTurn("s1", []HistoryEntry{
		{Move: omok.NewMove(4, 4), Color: omok.Black},
		{Move: omok.NewMove(5, 5), Color: omok.White, IsAi: true},
	})

	select {
	case event := <-received:
		assert.Equal(t, "s1", event.SessionID)
		assert.Equal(t, 5, event.Row)
		assert.Equal(t, 5, event.Col)
		assert.Equal(t, omok.White, event.Color)
		assert.Equal(t, "ai", event.Source)
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not post the AI move")
	}

	select {
	case event := <-received:
		t.Fatalf("human move should not be relayed, got %+v", event)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}

func TestRelayForwardsHumanMovesWhenEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RelayURL = "http://127.0.0.1:0"
	cfg.RelayHumanMoves = true
	relay := NewMoveRelay(cfg)

	relay.PublishTurn("s1", []HistoryEntry{{Move: omok.NewMove(1, 2), Color: omok.Black}})
	require.Len(t, relay.queue, 1)
	event := <-relay.queue
	assert.Equal(t, "human", event.Source)
}

func TestRelayDisabledDropsEvents(t *testing.T) {
	relay := NewMoveRelay(DefaultConfig())
	assert.False(t, relay.Enabled())
	assert.False(t, relay.Publish(RelayEvent{SessionID: "s1"}))
	assert.Len(t, relay.queue, 0)
}

func TestRelayDropsWhenQueueFull(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RelayURL = "http://127.0.0.1:0"
	relay := NewMoveRelay(cfg)
	for i := 0; i < relayQueueSize; i++ {
		require.True(t, relay.Publish(RelayEvent{Row: i}))
	}
	assert.False(t, relay.Publish(RelayEvent{Row: relayQueueSize}))
}

func TestRelaySendReportsStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.RelayURL = server.URL
	err := NewMoveRelay(cfg).send(context.Background(), RelayEvent{Row: 1, Col: 2, Color: omok.Black})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
