package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/PrestigeLulu/OmokWeb/backend/omok"
)

type matchOptions struct {
	Size         int
	BlackDepth   int
	WhiteDepth   int
	OpeningPlies int
	TimeBudget   time.Duration
}

type gameResult struct {
	Board     *omok.Board
	Winner    omok.Color
	HasWinner bool
	Plies     int
	Line      []omok.Move
}

type matchSummary struct {
	Games      int
	BlackWins  int
	WhiteWins  int
	Draws      int
	TotalPlies int
}

func (s *matchSummary) add(result gameResult) {
	s.Games++
	s.TotalPlies += result.Plies
	switch {
	case !result.HasWinner:
		s.Draws++
	case result.Winner == omok.Black:
		s.BlackWins++
	default:
		s.WhiteWins++
	}
}

// buildOpeningSuite picks distinct points around the centre, one opening per
// game, reproducible for a given seed.
func buildOpeningSuite(rng *rand.Rand, size, plies, count int) [][]omok.Move {
	center := size / 2
	offsets := []omok.Move{
		{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 0, Col: 1}, {Row: -1, Col: 0}, {Row: 0, Col: -1},
		{Row: 1, Col: 1}, {Row: -1, Col: -1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}, {Row: 2, Col: 0}, {Row: 0, Col: 2},
	}
	if plies > len(offsets) {
		plies = len(offsets)
	}
	if plies < 0 || count < 0 {
		return nil
	}
	suite := make([][]omok.Move, 0, count)
	for i := 0; i < count; i++ {
		used := make(map[omok.Move]bool, plies)
		opening := make([]omok.Move, 0, plies)
		for len(opening) < plies {
			off := offsets[rng.Intn(len(offsets))]
			move := omok.NewMove(center+off.Row, center+off.Col)
			if !move.IsValid(size) || used[move] {
				continue
			}
			used[move] = true
			opening = append(opening, move)
		}
		suite = append(suite, opening)
	}
	return suite
}

// playGame replays the opening then lets both engines alternate until a five
// or a full board.
func playGame(ctx context.Context, opts matchOptions, opening []omok.Move) (gameResult, error) {
	board := omok.NewBoard(opts.Size)
	engines := map[omok.Color]*omok.Engine{
		omok.Black: omok.NewEngine(engineLimits(opts.BlackDepth, opts.TimeBudget), omok.DefaultEvaluator()),
		omok.White: omok.NewEngine(engineLimits(opts.WhiteDepth, opts.TimeBudget), omok.DefaultEvaluator()),
	}
	result := gameResult{Board: board}
	toMove := omok.Black

	place := func(move omok.Move) bool {
		board.Place(move.Row, move.Col, toMove)
		result.Plies++
		if omok.IsWinningMove(board, move.Row, move.Col, toMove) {
			result.Winner = toMove
			result.HasWinner = true
			result.Line, _ = omok.WinningLine(board, move.Row, move.Col)
			return true
		}
		toMove = toMove.Opponent()
		return board.IsFull()
	}

	for _, move := range opening {
		if !board.IsEmpty(move.Row, move.Col) {
			return result, fmt.Errorf("opening move %v is occupied", move)
		}
		if place(move) {
			return result, nil
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		decision, err := engines[toMove].Decide(ctx, board, toMove)
		if errors.Is(err, omok.ErrNoLegalMoves) {
			return result, nil
		}
		if err != nil {
			return result, fmt.Errorf("%s to move after %d plies: %w", toMove, result.Plies, err)
		}
		if place(decision.Move) {
			return result, nil
		}
	}
}

func engineLimits(depth int, budget time.Duration) omok.Limits {
	return omok.DefaultLimits().WithDepth(depth).WithMovetime(budget)
}
