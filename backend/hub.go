package main

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/PrestigeLulu/OmokWeb/backend/omok"
)

// Hub fans every session's board events out to read-only viewers.
type Hub struct {
	mu              sync.Mutex
	clients         map[*Client]struct{}
	broadcastUpdate chan updatePayload
	broadcastWin    chan winPayload
	broadcastReset  chan resetPayload
}

type Client struct {
	send chan []byte
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type updatePayload struct {
	SessionID string         `json:"session_id"`
	Board     [][]int        `json:"board"`
	Placed    []HistoryEntry `json:"placed"`
	LastMove  *omok.Move     `json:"last_move,omitempty"`
	Status    string         `json:"status"`
}

type winPayload struct {
	SessionID string      `json:"session_id"`
	Winner    omok.Color  `json:"winner"`
	Line      []omok.Move `json:"line"`
}

type resetPayload struct {
	SessionID string `json:"session_id"`
	BoardSize int    `json:"board_size"`
}

func NewHub() *Hub {
	return &Hub{
		clients:         make(map[*Client]struct{}),
		broadcastUpdate: make(chan updatePayload, 32),
		broadcastWin:    make(chan winPayload, 8),
		broadcastReset:  make(chan resetPayload, 8),
	}
}

func newClient() *Client {
	return &Client{send: make(chan []byte, 16)}
}

func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case payload := <-h.broadcastUpdate:
			h.fanOut(wsMessage{Type: "update", Payload: mustMarshal(payload)})
		case payload := <-h.broadcastWin:
			h.fanOut(wsMessage{Type: "win", Payload: mustMarshal(payload)})
		case payload := <-h.broadcastReset:
			h.fanOut(wsMessage{Type: "reset", Payload: mustMarshal(payload)})
		}
	}
}

func (h *Hub) fanOut(msg wsMessage) {
	h.mu.Lock()
	for client := range h.clients {
		client.sendJSON(msg)
	}
	h.mu.Unlock()
}

// PublishTurn queues the viewer events for one turn without blocking the
// session that produced it.
func (h *Hub) PublishTurn(snapshot SessionSnapshot, result TurnResult) {
	update := updatePayload{
		SessionID: snapshot.ID,
		Board:     snapshot.Board,
		Placed:    result.Placed,
		LastMove:  snapshot.LastMove,
		Status:    snapshot.Status,
	}
	select {
	case h.broadcastUpdate <- update:
	default:
	}
	if result.HasWinner {
		select {
		case h.broadcastWin <- winPayload{SessionID: snapshot.ID, Winner: result.Winner, Line: result.WinningLine}:
		default:
		}
	}
}

func (h *Hub) PublishReset(sessionID string, boardSize int) {
	select {
	case h.broadcastReset <- resetPayload{SessionID: sessionID, BoardSize: boardSize}:
	default:
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func (c *Client) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}
