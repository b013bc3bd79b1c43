package omok

import (
	"context"
	"errors"
	"math"
)

type Reason string

const (
	ReasonWin      Reason = "win"
	ReasonSearch   Reason = "search"
	ReasonFallback Reason = "fallback"
)

type Decision struct {
	Move   Move
	Score  int
	Reason Reason
	Depth  int
	Stats  SearchStats
}

// Engine picks moves for one colour at a time. It is stateless apart from its
// settings and may be shared; a given Board must not be decided on from two
// goroutines at once.
type Engine struct {
	Limits    Limits
	Evaluator Evaluator
}

func NewEngine(limits Limits, evaluator Evaluator) *Engine {
	return &Engine{Limits: limits, Evaluator: evaluator}
}

// ComputeBestMove returns the engine's move for ai searching depth plies, or
// false when the board is full or already decided.
func ComputeBestMove(b *Board, ai Color, depth int) (Move, bool) {
	engine := NewEngine(DefaultLimits().WithDepth(depth), DefaultEvaluator())
	decision, err := engine.Decide(context.Background(), b, ai)
	if err != nil {
		return Move{}, false
	}
	return decision.Move, true
}

func (e *Engine) Decide(ctx context.Context, b *Board, ai Color) (Decision, error) {
	if _, won := FindWinner(b); won {
		return Decision{}, ErrGameOver
	}
	if b.IsFull() {
		return Decision{}, ErrNoLegalMoves
	}
	if move, ok := immediateWin(b, ai); ok {
		return Decision{Move: move, Score: WinScore, Reason: ReasonWin}, nil
	}

	result, stats, err := Search(ctx, b, ai, e.Limits)
	switch {
	case err == nil:
		return Decision{Move: result.Move, Score: result.Score, Reason: ReasonSearch, Depth: stats.CompletedDepth, Stats: stats}, nil
	case errors.Is(err, ErrSearchAborted):
		move, score, ok := e.greedyMove(b, ai)
		if !ok {
			return Decision{}, ErrNoLegalMoves
		}
		return Decision{Move: move, Score: score, Reason: ReasonFallback, Stats: stats}, nil
	default:
		return Decision{}, err
	}
}

// immediateWin scans empty cells row-major for a move that completes five.
func immediateWin(b *Board, ai Color) (Move, bool) {
	size := b.Size()
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if b.At(r, c) != CellEmpty {
				continue
			}
			if winsAt(b, r, c, ai) {
				return Move{Row: r, Col: c}, true
			}
		}
	}
	return Move{}, false
}

func winsAt(b *Board, row, col int, color Color) bool {
	b.Place(row, col, color)
	defer b.Remove(row, col)
	return IsWinningMove(b, row, col, color)
}

// greedyMove is the one-ply attack plus defence choice used when no search
// iteration finished in time.
func (e *Engine) greedyMove(b *Board, ai Color) (Move, int, bool) {
	opp := ai.Opponent()
	best := Move{}
	bestScore := math.MinInt
	found := false
	for _, move := range Candidates(b) {
		score := e.probe(b, move, ai, opp) + e.probe(b, move, opp, ai)
		if !found || score > bestScore {
			best = move
			bestScore = score
			found = true
		}
	}
	return best, bestScore, found
}

func (e *Engine) probe(b *Board, move Move, me, opp Color) int {
	b.Place(move.Row, move.Col, me)
	defer b.Remove(move.Row, move.Col)
	return e.Evaluator.Evaluate(b, me, opp)
}
