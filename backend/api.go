package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PrestigeLulu/OmokWeb/backend/omok"
)

type bestMoveRequest struct {
	Board   [][]int    `json:"board"`
	AiColor omok.Color `json:"ai_color"`
	Depth   int        `json:"depth,omitempty"`
}

type bestMoveResponse struct {
	Move   *omok.Move `json:"move"`
	Reason string     `json:"reason"`
	Score  int        `json:"score"`
	Depth  int        `json:"depth"`
	Nodes  int64      `json:"nodes"`
}

type winnerRequest struct {
	Board [][]int `json:"board"`
}

type winnerResponse struct {
	Winner string `json:"winner"`
}

type sessionsResponse struct {
	Count int      `json:"count"`
	IDs   []string `json:"ids"`
}

func newRouter(game *gameServer, analysis *AnalysisHub) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, GetConfig())
	})
	r.Post("/api/config", handleUpdateConfig)
	r.Post("/api/best-move", handleBestMove)
	r.Post("/api/winner", handleWinner)
	r.Get("/api/sessions", func(w http.ResponseWriter, r *http.Request) {
		ids := game.store.IDs()
		writeJSON(w, http.StatusOK, sessionsResponse{Count: len(ids), IDs: ids})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/ws/", game.serveWS)
	r.Get("/ws/viewer", func(w http.ResponseWriter, r *http.Request) {
		serveViewerWS(game.viewers, w, r)
	})
	r.Get("/ws/analysis", func(w http.ResponseWriter, r *http.Request) {
		serveAnalysisWS(analysis, w, r)
	})
	return r
}

// handleUpdateConfig merges the posted fields over the running config.
func handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	config := GetConfig()
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := config.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	configStore.Update(config)
	writeJSON(w, http.StatusOK, config)
}

func handleBestMove(w http.ResponseWriter, r *http.Request) {
	var payload bestMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if !payload.AiColor.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ErrInvalidColor.Error()})
		return
	}
	board, err := boardFromSlice(payload.Board)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	config := GetConfig()
	limits := config.SearchLimits()
	if payload.Depth != 0 {
		if payload.Depth < 1 || payload.Depth > 8 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": omok.ErrInvalidDepth.Error()})
			return
		}
		limits = limits.WithDepth(payload.Depth)
	}

	start := time.Now()
	decision, err := omok.NewEngine(limits, config.Evaluator()).Decide(r.Context(), board, payload.AiColor)
	observeDecision(decision, err, time.Since(start))
	switch {
	case err == nil:
		move := decision.Move
		writeJSON(w, http.StatusOK, bestMoveResponse{
			Move:   &move,
			Reason: string(decision.Reason),
			Score:  decision.Score,
			Depth:  decision.Depth,
			Nodes:  decision.Stats.Nodes,
		})
	case errors.Is(err, omok.ErrNoLegalMoves):
		writeJSON(w, http.StatusOK, bestMoveResponse{Reason: "none"})
	case errors.Is(err, omok.ErrGameOver):
		writeJSON(w, http.StatusOK, bestMoveResponse{Reason: "game_over"})
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
}

func handleWinner(w http.ResponseWriter, r *http.Request) {
	var payload winnerRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	board, err := boardFromSlice(payload.Board)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	response := winnerResponse{}
	if winner, ok := omok.FindWinner(board); ok {
		response.Winner = winner.String()
	}
	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
