package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/PrestigeLulu/OmokWeb/backend/omok"
)

const relayQueueSize = 64

// RelayEvent is the payload posted to the placement device.
type RelayEvent struct {
	SessionID string     `json:"session_id"`
	Row       int        `json:"row"`
	Col       int        `json:"col"`
	Color     omok.Color `json:"color"`
	Source    string     `json:"source"`
	At        time.Time  `json:"at"`
}

// MoveRelay forwards moves to an external actuator over HTTP. Delivery is
// best effort: a full queue or a failed POST is logged and counted.
type MoveRelay struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
	queue   chan RelayEvent
	human   bool
}

func NewMoveRelay(config Config) *MoveRelay {
	return &MoveRelay{
		url:     config.RelayURL,
		client:  &http.Client{Timeout: time.Duration(config.RelayTimeoutMs) * time.Millisecond},
		limiter: rate.NewLimiter(rate.Limit(config.RelayRatePerSec), 1),
		queue:   make(chan RelayEvent, relayQueueSize),
		human:   config.RelayHumanMoves,
	}
}

func (r *MoveRelay) Enabled() bool {
	return r.url != ""
}

// PublishTurn queues the moves of one turn. Human moves are only relayed when
// configured.
func (r *MoveRelay) PublishTurn(sessionID string, placed []HistoryEntry) {
	for _, entry := range placed {
		if !entry.IsAi && !r.human {
			continue
		}
		source := "human"
		if entry.IsAi {
			source = "ai"
		}
		r.Publish(RelayEvent{
			SessionID: sessionID,
			Row:       entry.Move.Row,
			Col:       entry.Move.Col,
			Color:     entry.Color,
			Source:    source,
			At:        time.Now(),
		})
	}
}

func (r *MoveRelay) Publish(event RelayEvent) bool {
	if !r.Enabled() {
		relayEvents.WithLabelValues("disabled").Inc()
		return false
	}
	select {
	case r.queue <- event:
		return true
	default:
		relayEvents.WithLabelValues("dropped").Inc()
		log.Printf("[relay] queue full, dropping move (%d,%d) of session %s", event.Row, event.Col, event.SessionID)
		return false
	}
}

// Run drains the queue until ctx is done.
func (r *MoveRelay) Run(ctx context.Context) error {
	if !r.Enabled() {
		log.Printf("[relay] disabled (no relay_url)")
		<-ctx.Done()
		return nil
	}
	log.Printf("[relay] forwarding moves to %s", r.url)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-r.queue:
			if err := r.limiter.Wait(ctx); err != nil {
				return nil
			}
			if err := r.send(ctx, event); err != nil {
				relayEvents.WithLabelValues("failed").Inc()
				log.Printf("[relay] %v", err)
				continue
			}
			relayEvents.WithLabelValues("sent").Inc()
		}
	}
}

func (r *MoveRelay) send(ctx context.Context, event RelayEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode move: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("post move (%d,%d): %w", event.Row, event.Col, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("post move (%d,%d): status %s", event.Row, event.Col, resp.Status)
	}
	return nil
}
