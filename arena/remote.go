package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PrestigeLulu/OmokWeb/backend/omok"
)

type remoteEngine struct {
	client  *http.Client
	baseURL string
}

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

func newRemoteEngine(baseURL string, timeout time.Duration) *remoteEngine {
	return &remoteEngine{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (e *remoteEngine) BestMove(ctx context.Context, board *omok.Board, ai omok.Color, depth int) (bestMoveResponse, error) {
	request := bestMoveRequest{Board: boardToInts(board), AiColor: ai, Depth: depth}
	var response bestMoveResponse
	if err := e.postJSON(ctx, "/api/best-move", request, &response); err != nil {
		return bestMoveResponse{}, err
	}
	return response, nil
}

func (e *remoteEngine) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("POST %s -> %d: %s", path, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func boardToInts(board *omok.Board) [][]int {
	size := board.Size()
	rows := make([][]int, size)
	for r := 0; r < size; r++ {
		rows[r] = make([]int, size)
		for c := 0; c < size; c++ {
			switch board.At(r, c) {
			case omok.CellBlack:
				rows[r][c] = 1
			case omok.CellWhite:
				rows[r][c] = 2
			}
		}
	}
	return rows
}
