package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PrestigeLulu/OmokWeb/backend/omok"
)

func newTestServer(t *testing.T) (*httptest.Server, *gameServer) {
	t.Helper()
	analysis := NewAnalysisHub()
	game := &gameServer{
		store:   NewSessionStore(func() int { return GetConfig().BoardSize }, engineFactory(analysis)),
		viewers: NewHub(),
		relay:   NewMoveRelay(DefaultConfig()),
	}
	server := httptest.NewServer(newRouter(game, analysis))
	t.Cleanup(server.Close)
	return server, game
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestPing(t *testing.T) {
	server, _ := newTestServer(t)
	resp, err := http.Get(server.URL + "/api/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]bool
	decodeBody(t, resp, &body)
	assert.True(t, body["ok"])
}

func TestBestMoveTakesWinningPoint(t *testing.T) {
	useConfig(t, func(c *Config) { c.AiDepth = 2 })
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/best-move", map[string]any{
		"board":    fourInRow(),
		"ai_color": "black",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body bestMoveResponse
	decodeBody(t, resp, &body)
	require.NotNil(t, body.Move)
	assert.Equal(t, omok.NewMove(4, 1), *body.Move)
	assert.Equal(t, "win", body.Reason)
}

func TestBestMoveBlocksOpponentFour(t *testing.T) {
	useConfig(t, func(c *Config) { c.AiTimeBudgetMs = 0 })
	server, _ := newTestServer(t)
	board := fourInRow()
	board[4][1] = 2

	resp := postJSON(t, server.URL+"/api/best-move", bestMoveRequest{
		Board:   board,
		AiColor: omok.White,
		Depth:   2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body bestMoveResponse
	decodeBody(t, resp, &body)
	require.NotNil(t, body.Move)
	assert.Equal(t, omok.NewMove(4, 6), *body.Move)
	assert.Equal(t, "search", body.Reason)
	assert.Equal(t, 2, body.Depth)
	assert.Positive(t, body.Nodes)
}

func TestBestMoveOnDecidedBoard(t *testing.T) {
	server, _ := newTestServer(t)
	board := fourInRow()
	board[4][6] = 1

	resp := postJSON(t, server.URL+"/api/best-move", map[string]any{"board": board, "ai_color": "white"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body bestMoveResponse
	decodeBody(t, resp, &body)
	assert.Nil(t, body.Move)
	assert.Equal(t, "game_over", body.Reason)
}

func TestBestMoveOnFullBoard(t *testing.T) {
	server, _ := newTestServer(t)
	board := make([][]int, 5)
	for r := range board {
		board[r] = make([]int, 5)
		for c := range board[r] {
			// stripes of two never line up five
			if (c+2*r)%4 < 2 {
				board[r][c] = 1
			} else {
				board[r][c] = 2
			}
		}
	}

	resp := postJSON(t, server.URL+"/api/best-move", map[string]any{"board": board, "ai_color": "black"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var raw map[string]any
	decodeBody(t, resp, &raw)
	assert.Nil(t, raw["move"])
	assert.Equal(t, "none", raw["reason"])
}

func TestBestMoveRejectsBadInput(t *testing.T) {
	server, _ := newTestServer(t)
	cases := map[string]any{
		"color": map[string]any{"board": fourInRow(), "ai_color": "green"},
		"board": map[string]any{"board": [][]int{{0}}, "ai_color": "black"},
		"depth": map[string]any{"board": fourInRow(), "ai_color": "black", "depth": 42},
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			resp := postJSON(t, server.URL+"/api/best-move", payload)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var body map[string]string
			decodeBody(t, resp, &body)
			assert.NotEmpty(t, body["error"])
		})
	}

	resp, err := http.Post(server.URL+"/api/best-move", "application/json", bytes.NewBufferString("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWinner(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/winner", map[string]any{"board": fourInRow()})
	var body winnerResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "", body.Winner)

	board := fourInRow()
	board[4][1] = 1
	resp = postJSON(t, server.URL+"/api/winner", map[string]any{"board": board})
	decodeBody(t, resp, &body)
	assert.Equal(t, "black", body.Winner)
}

func TestConfigEndpoints(t *testing.T) {
	useConfig(t, func(*Config) {})
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/config", map[string]any{"ai_depth": 2, "ai_defense_weight": 1.0})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated Config
	decodeBody(t, resp, &updated)
	assert.Equal(t, 2, updated.AiDepth)
	assert.Equal(t, DefaultConfig().ListenAddr, updated.ListenAddr)
	assert.Equal(t, 2, GetConfig().AiDepth)

	resp = postJSON(t, server.URL+"/api/config", map[string]any{"ai_depth": 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 2, GetConfig().AiDepth)

	get, err := http.Get(server.URL + "/api/config")
	require.NoError(t, err)
	defer get.Body.Close()
	var current Config
	decodeBody(t, get, &current)
	assert.InDelta(t, 1.0, current.AiDefenseWeight, 1e-9)
}

func TestSessionsEndpoint(t *testing.T) {
	server, game := newTestServer(t)
	a := game.store.Create()
	b := game.store.Create()
	t.Cleanup(func() {
		game.store.Remove(a.ID)
		game.store.Remove(b.ID)
	})

	resp, err := http.Get(server.URL + "/api/sessions")
	require.NoError(t, err)
	defer resp.Body.Close()
	var body sessionsResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, 2, body.Count)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, body.IDs)
}

func TestMetricsEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	postJSON(t, server.URL+"/api/best-move", map[string]any{"board": fourInRow(), "ai_color": "black"})

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "omok_ai_decisions_total")
}
