package main

import (
	"context"
	"net/http"
	"sync"

	"github.com/PrestigeLulu/OmokWeb/backend/omok"
)

// analysisPayload describes one finished deepening iteration.
type analysisPayload struct {
	SessionID string    `json:"session_id"`
	Depth     int       `json:"depth"`
	Best      omok.Move `json:"best"`
	Score     int       `json:"score"`
	Nodes     int64     `json:"nodes"`
	ElapsedMs int64     `json:"elapsed_ms"`
}

// AnalysisHub streams search progress to spectators of the engine.
type AnalysisHub struct {
	mu        sync.Mutex
	clients   map[*Client]struct{}
	broadcast chan analysisPayload
}

func NewAnalysisHub() *AnalysisHub {
	return &AnalysisHub{
		clients:   make(map[*Client]struct{}),
		broadcast: make(chan analysisPayload, 32),
	}
}

func (h *AnalysisHub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case payload := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				client.sendJSON(wsMessage{Type: "analysis", Payload: mustMarshal(payload)})
			}
			h.mu.Unlock()
		}
	}
}

// IterationListener returns an engine callback tagged with sessionID, or nil
// when nobody is watching.
func (h *AnalysisHub) IterationListener(sessionID string) func(omok.IterationInfo) {
	if !h.HasClients() {
		return nil
	}
	return func(info omok.IterationInfo) {
		h.Publish(analysisPayload{
			SessionID: sessionID,
			Depth:     info.Depth,
			Best:      info.Result.Move,
			Score:     info.Result.Score,
			Nodes:     info.Nodes,
			ElapsedMs: info.Elapsed.Milliseconds(),
		})
	}
}

func (h *AnalysisHub) Publish(payload analysisPayload) {
	select {
	case h.broadcast <- payload:
	default:
	}
}

func (h *AnalysisHub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *AnalysisHub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *AnalysisHub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func serveAnalysisWS(hub *AnalysisHub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := newClient()
	hub.Register(client)

	go func() {
		defer conn.Close()
		_ = writeWSWithHeartbeat(conn, client.send, GetConfig().PingInterval())
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			hub.Unregister(client)
			return
		}
	}
}
