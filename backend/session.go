package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/PrestigeLulu/OmokWeb/backend/omok"
)

type GameStatus int

const (
	StatusWaiting GameStatus = iota
	StatusRunning
	StatusBlackWon
	StatusWhiteWon
	StatusDraw
)

var (
	ErrOutOfBounds  = errors.New("out of bounds")
	ErrOccupied     = errors.New("occupied")
	ErrGameOver     = errors.New("game over")
	ErrNoTeam       = errors.New("choose a team first")
	ErrInvalidColor = errors.New("invalid color")
)

// Decider is the slice of the engine a session needs.
type Decider interface {
	Decide(ctx context.Context, b *omok.Board, ai omok.Color) (omok.Decision, error)
}

// EngineFactory builds the decider for one AI turn of a session, so config
// changes apply from the next move on.
type EngineFactory func(sessionID string) Decider

type HistoryEntry struct {
	Move      omok.Move   `json:"move"`
	Color     omok.Color  `json:"color"`
	IsAi      bool        `json:"is_ai"`
	ElapsedMs float64     `json:"elapsed_ms"`
	Depth     int         `json:"depth,omitempty"`
	Reason    omok.Reason `json:"reason,omitempty"`
}

type TurnResult struct {
	Placed      []HistoryEntry
	Winner      omok.Color
	HasWinner   bool
	WinningLine []omok.Move
	Draw        bool
}

// Session owns the board of one match. Every method holds the session lock,
// so at most one engine call runs against the board at a time.
type Session struct {
	ID string

	mu         sync.Mutex
	board      *omok.Board
	human      omok.Color
	ai         omok.Color
	hasTeam    bool
	status     GameStatus
	history    []HistoryEntry
	turnStart  time.Time
	newDecider EngineFactory
}

func NewSession(id string, boardSize int, factory EngineFactory) *Session {
	return &Session{
		ID:         id,
		board:      omok.NewBoard(boardSize),
		status:     StatusWaiting,
		turnStart:  time.Now(),
		newDecider: factory,
	}
}

// ChooseTeam fixes the human's colour. When the AI holds black on an empty
// board it opens immediately.
func (s *Session) ChooseTeam(ctx context.Context, human omok.Color) (TurnResult, error) {
	if !human.Valid() {
		return TurnResult{}, ErrInvalidColor
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.human = human
	s.ai = human.Opponent()
	s.hasTeam = true
	if s.status == StatusWaiting {
		s.status = StatusRunning
	}
	s.turnStart = time.Now()
	log.Printf("[session %s] human plays %s, ai plays %s", s.ID, s.human, s.ai)
	result := TurnResult{}
	if s.status == StatusRunning && s.ai == omok.Black && s.board.Stones() == 0 {
		s.aiTurn(ctx, &result)
	}
	return result, nil
}

func (s *Session) PlaceStone(ctx context.Context, move omok.Move) (TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasTeam {
		return TurnResult{}, ErrNoTeam
	}
	if err := s.validate(move); err != nil {
		return TurnResult{}, err
	}
	result := TurnResult{}
	if s.apply(move, s.human, false, omok.Decision{}, &result) {
		return result, nil
	}
	s.aiTurn(ctx, &result)
	return result, nil
}

// PlaceStoneWithoutAI places a stone of any colour with no engine reply.
func (s *Session) PlaceStoneWithoutAI(move omok.Move, color omok.Color) (TurnResult, error) {
	if !color.Valid() {
		return TurnResult{}, ErrInvalidColor
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.validate(move); err != nil {
		return TurnResult{}, err
	}
	if s.status == StatusWaiting {
		s.status = StatusRunning
	}
	result := TurnResult{}
	s.apply(move, color, false, omok.Decision{}, &result)
	return result, nil
}

// Reset clears the board and keeps the chosen team. When the AI holds black it
// opens the new game right away, as after ChooseTeam.
func (s *Session) Reset(ctx context.Context) TurnResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.Clear()
	s.history = nil
	s.status = StatusWaiting
	if s.hasTeam {
		s.status = StatusRunning
	}
	s.turnStart = time.Now()
	log.Printf("[session %s] reset", s.ID)
	result := TurnResult{}
	if s.hasTeam && s.ai == omok.Black {
		s.aiTurn(ctx, &result)
	}
	return result
}

type SessionSnapshot struct {
	ID       string         `json:"id"`
	Board    [][]int        `json:"board"`
	Human    *omok.Color    `json:"human,omitempty"`
	AI       *omok.Color    `json:"ai,omitempty"`
	Status   string         `json:"status"`
	History  []HistoryEntry `json:"history"`
	LastMove *omok.Move     `json:"last_move,omitempty"`
}

func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := SessionSnapshot{
		ID:      s.ID,
		Board:   boardToSlice(s.board),
		Status:  statusToString(s.status),
		History: append([]HistoryEntry(nil), s.history...),
	}
	if s.hasTeam {
		human, ai := s.human, s.ai
		snapshot.Human = &human
		snapshot.AI = &ai
	}
	if n := len(s.history); n > 0 {
		last := s.history[n-1].Move
		snapshot.LastMove = &last
	}
	return snapshot
}

func (s *Session) validate(move omok.Move) error {
	if s.status != StatusRunning && s.status != StatusWaiting {
		return ErrGameOver
	}
	if !s.board.InBounds(move.Row, move.Col) {
		return ErrOutOfBounds
	}
	if s.board.At(move.Row, move.Col) != omok.CellEmpty {
		return ErrOccupied
	}
	return nil
}

// apply places a stone, records it and reports whether the game ended.
func (s *Session) apply(move omok.Move, color omok.Color, isAi bool, decision omok.Decision, result *TurnResult) bool {
	s.board.Place(move.Row, move.Col, color)
	entry := HistoryEntry{
		Move:      move,
		Color:     color,
		IsAi:      isAi,
		ElapsedMs: float64(time.Since(s.turnStart).Milliseconds()),
		Depth:     decision.Depth,
		Reason:    decision.Reason,
	}
	s.history = append(s.history, entry)
	result.Placed = append(result.Placed, entry)
	s.turnStart = time.Now()

	if omok.IsWinningMove(s.board, move.Row, move.Col, color) {
		line, _ := omok.WinningLine(s.board, move.Row, move.Col)
		result.Winner = color
		result.HasWinner = true
		result.WinningLine = line
		s.status = statusForWinner(color)
		log.Printf("[session %s] %s wins with %v", s.ID, color, move)
		return true
	}
	if s.board.IsFull() {
		result.Draw = true
		s.status = StatusDraw
		log.Printf("[session %s] draw", s.ID)
		return true
	}
	return false
}

func (s *Session) aiTurn(ctx context.Context, result *TurnResult) {
	decider := s.newDecider(s.ID)
	start := time.Now()
	decision, err := decider.Decide(ctx, s.board, s.ai)
	observeDecision(decision, err, time.Since(start))
	if err != nil {
		if errors.Is(err, omok.ErrNoLegalMoves) {
			result.Draw = true
			s.status = StatusDraw
		}
		log.Printf("[session %s] ai has no move: %v", s.ID, err)
		return
	}
	log.Printf("[session %s] ai %s plays %v (%s depth=%d nodes=%d took=%s)",
		s.ID, s.ai, decision.Move, decision.Reason, decision.Depth, decision.Stats.Nodes, time.Since(start).Round(time.Millisecond))
	s.apply(decision.Move, s.ai, true, decision, result)
}

func statusForWinner(color omok.Color) GameStatus {
	if color == omok.Black {
		return StatusBlackWon
	}
	return StatusWhiteWon
}

func statusToString(status GameStatus) string {
	switch status {
	case StatusWaiting:
		return "waiting"
	case StatusBlackWon:
		return "black_won"
	case StatusWhiteWon:
		return "white_won"
	case StatusDraw:
		return "draw"
	default:
		return "running"
	}
}

func boardToSlice(board *omok.Board) [][]int {
	size := board.Size()
	rows := make([][]int, size)
	for r := 0; r < size; r++ {
		rows[r] = make([]int, size)
		for c := 0; c < size; c++ {
			rows[r][c] = cellToInt(board.At(r, c))
		}
	}
	return rows
}

func boardFromSlice(rows [][]int) (*omok.Board, error) {
	size := len(rows)
	if size < omok.WinLength {
		return nil, fmt.Errorf("board must be at least %dx%d", omok.WinLength, omok.WinLength)
	}
	board := omok.NewBoard(size)
	for r, row := range rows {
		if len(row) != size {
			return nil, fmt.Errorf("row %d has %d cells, want %d", r, len(row), size)
		}
		for c, value := range row {
			cell, err := intToCell(value)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", r, c, err)
			}
			board.Set(r, c, cell)
		}
	}
	return board, nil
}

func cellToInt(cell omok.Cell) int {
	switch cell {
	case omok.CellBlack:
		return 1
	case omok.CellWhite:
		return 2
	default:
		return 0
	}
}

func intToCell(value int) (omok.Cell, error) {
	switch value {
	case 0:
		return omok.CellEmpty, nil
	case 1:
		return omok.CellBlack, nil
	case 2:
		return omok.CellWhite, nil
	default:
		return omok.CellEmpty, fmt.Errorf("unknown cell value %d", value)
	}
}
