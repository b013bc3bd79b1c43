package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/PrestigeLulu/OmokWeb/backend/omok"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type chooseTeamPayload struct {
	Color omok.Color `json:"color"`
}

type placeStonePayload struct {
	Row   int        `json:"row"`
	Col   int        `json:"col"`
	Color omok.Color `json:"color,omitempty"`
}

type boardUpdatePayload struct {
	Board    [][]int        `json:"board"`
	LastMove *omok.Move     `json:"last_move,omitempty"`
	Placed   []HistoryEntry `json:"placed"`
	Status   string         `json:"status"`
}

type playerWinPayload struct {
	Winner omok.Color  `json:"winner"`
	Line   []omok.Move `json:"line"`
}

type errorPayload struct {
	Error string `json:"error"`
}

// gameServer wires player connections to sessions and the fan-out hubs.
type gameServer struct {
	store   *SessionStore
	viewers *Hub
	relay   *MoveRelay
}

func (g *gameServer) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	session := g.store.Create()
	client := newClient()
	log.Printf("[session %s] connected from %s", session.ID, r.RemoteAddr)

	go func() {
		defer conn.Close()
		_ = writeWSWithHeartbeat(conn, client.send, GetConfig().PingInterval())
	}()

	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(session.Snapshot())})

	defer func() {
		g.store.Remove(session.ID)
		close(client.send)
		log.Printf("[session %s] disconnected", session.ID)
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			client.sendJSON(errorMessage(errors.New("invalid message")))
			continue
		}
		g.handleMessage(ctx, session, client, msg)
	}
}

// handleMessage runs one client request to completion on the read loop, so an
// AI search finishes before the next message is read. ctx is cancelled once
// the connection's read loop exits.
func (g *gameServer) handleMessage(ctx context.Context, session *Session, client *Client, msg wsMessage) {
	switch msg.Type {
	case "request_status":
		client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(session.Snapshot())})

	case "choose_team":
		var payload chooseTeamPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			client.sendJSON(errorMessage(ErrInvalidColor))
			return
		}
		result, err := session.ChooseTeam(ctx, payload.Color)
		if err != nil {
			client.sendJSON(errorMessage(err))
			return
		}
		client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(session.Snapshot())})
		if len(result.Placed) > 0 {
			g.publishTurn(session, client, result)
		}

	case "place_stone":
		var payload placeStonePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			client.sendJSON(errorMessage(errors.New("invalid payload")))
			return
		}
		result, err := session.PlaceStone(ctx, omok.NewMove(payload.Row, payload.Col))
		if err != nil {
			client.sendJSON(errorMessage(err))
			return
		}
		g.publishTurn(session, client, result)

	case "place_stone_without_ai":
		var payload placeStonePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			client.sendJSON(errorMessage(errors.New("invalid payload")))
			return
		}
		result, err := session.PlaceStoneWithoutAI(omok.NewMove(payload.Row, payload.Col), payload.Color)
		if err != nil {
			client.sendJSON(errorMessage(err))
			return
		}
		g.publishTurn(session, client, result)

	case "reset":
		result := session.Reset(ctx)
		snapshot := session.Snapshot()
		client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(snapshot)})
		g.viewers.PublishReset(session.ID, len(snapshot.Board))
		if len(result.Placed) > 0 {
			g.publishTurn(session, client, result)
		}

	default:
		client.sendJSON(errorMessage(errors.New("unknown message type " + msg.Type)))
	}
}

func (g *gameServer) publishTurn(session *Session, client *Client, result TurnResult) {
	snapshot := session.Snapshot()
	client.sendJSON(wsMessage{Type: "update", Payload: mustMarshal(boardUpdatePayload{
		Board:    snapshot.Board,
		LastMove: snapshot.LastMove,
		Placed:   result.Placed,
		Status:   snapshot.Status,
	})})
	switch {
	case result.HasWinner:
		client.sendJSON(wsMessage{Type: "win", Payload: mustMarshal(playerWinPayload{Winner: result.Winner, Line: result.WinningLine})})
	case result.Draw:
		client.sendJSON(wsMessage{Type: "draw"})
	}
	g.viewers.PublishTurn(snapshot, result)
	g.relay.PublishTurn(session.ID, result.Placed)
}

func errorMessage(err error) wsMessage {
	return wsMessage{Type: "error", Payload: mustMarshal(errorPayload{Error: err.Error()})}
}

func serveViewerWS(hub *Hub, w http.ResponseWriter, r *http.Request) {
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
