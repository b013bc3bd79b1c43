package omok

import (
	"context"
	"errors"
	"math"
	"time"
)

var (
	ErrNoLegalMoves  = errors.New("omok: no legal moves")
	ErrGameOver      = errors.New("omok: game already decided")
	ErrSearchAborted = errors.New("omok: search stopped before completing depth 1")
	ErrInvalidDepth  = errors.New("omok: depth must be positive")
)

// SearchResult is one node's value from the root maximiser's point of view.
type SearchResult struct {
	Score   int
	Move    Move
	HasMove bool
}

type searcher struct {
	ctx       context.Context
	limits    Limits
	maximizer Color
	minimizer Color
	deadline  time.Time
	stats     *SearchStats
	aborted   bool
}

func newSearcher(ctx context.Context, maximizer Color, limits Limits, stats *SearchStats) *searcher {
	s := &searcher{
		ctx:       ctx,
		limits:    limits,
		maximizer: maximizer,
		minimizer: maximizer.Opponent(),
		stats:     stats,
	}
	if limits.Movetime > 0 {
		s.deadline = stats.Start.Add(limits.Movetime)
	}
	return s
}

// Search runs iterative deepening up to limits.Depth. When a node or time
// budget interrupts an iteration, the last completed iteration is returned.
func Search(ctx context.Context, b *Board, maximizer Color, limits Limits) (SearchResult, SearchStats, error) {
	stats := SearchStats{Start: time.Now()}
	if limits.Depth <= 0 {
		return SearchResult{}, stats, ErrInvalidDepth
	}
	if ctx == nil {
		ctx = context.Background()
	}
	s := newSearcher(ctx, maximizer, limits, &stats)
	var best SearchResult
	for depth := 1; depth <= limits.Depth; depth++ {
		result := s.minimax(b, depth, true, math.MinInt, math.MaxInt)
		if s.aborted {
			stats.Aborted = true
			break
		}
		if !result.HasMove {
			stats.Elapsed = time.Since(stats.Start)
			return SearchResult{}, stats, rootFailure(b)
		}
		best = result
		stats.CompletedDepth = depth
		if limits.OnIteration != nil {
			limits.OnIteration(IterationInfo{
				Depth:   depth,
				Result:  result,
				Nodes:   stats.Nodes,
				Elapsed: time.Since(stats.Start),
			})
		}
	}
	stats.Elapsed = time.Since(stats.Start)
	if stats.CompletedDepth == 0 {
		return SearchResult{}, stats, ErrSearchAborted
	}
	return best, stats, nil
}

// AlphaBeta is a single unbounded pass at exactly depth.
func AlphaBeta(b *Board, depth int, maximizer Color) (SearchResult, error) {
	if depth <= 0 {
		return SearchResult{}, ErrInvalidDepth
	}
	stats := SearchStats{Start: time.Now()}
	s := newSearcher(context.Background(), maximizer, Limits{Depth: depth}, &stats)
	result := s.minimax(b, depth, true, math.MinInt, math.MaxInt)
	if !result.HasMove {
		return SearchResult{}, rootFailure(b)
	}
	return result, nil
}

func rootFailure(b *Board) error {
	if _, won := FindWinner(b); won {
		return ErrGameOver
	}
	return ErrNoLegalMoves
}

func (s *searcher) minimax(b *Board, depth int, maximizing bool, alpha, beta int) SearchResult {
	if s.shouldStop() {
		return SearchResult{}
	}
	s.stats.Nodes++
	if winner, ok := FindWinner(b); ok {
		s.stats.Leaves++
		if winner == s.maximizer {
			return SearchResult{Score: WinScore}
		}
		return SearchResult{Score: -WinScore}
	}
	if depth == 0 {
		return s.leaf(b)
	}
	moves := Candidates(b)
	if len(moves) == 0 {
		return s.leaf(b)
	}

	color := s.maximizer
	if !maximizing {
		color = s.minimizer
	}
	best := SearchResult{}
	for _, move := range moves {
		child := s.child(b, move, color, depth-1, !maximizing, alpha, beta)
		if s.aborted {
			break
		}
		if maximizing {
			if !best.HasMove || child.Score > best.Score {
				best = SearchResult{Score: child.Score, Move: move, HasMove: true}
			}
			alpha = max(alpha, best.Score)
		} else {
			if !best.HasMove || child.Score < best.Score {
				best = SearchResult{Score: child.Score, Move: move, HasMove: true}
			}
			beta = min(beta, best.Score)
		}
		if beta <= alpha {
			s.stats.Cutoffs++
			break
		}
	}
	return best
}

// child plays move for color, searches below it and always takes it back.
func (s *searcher) child(b *Board, move Move, color Color, depth int, maximizing bool, alpha, beta int) SearchResult {
	b.Place(move.Row, move.Col, color)
	defer b.Remove(move.Row, move.Col)
	return s.minimax(b, depth, maximizing, alpha, beta)
}

func (s *searcher) leaf(b *Board) SearchResult {
	s.stats.Leaves++
	return SearchResult{Score: LeafScore(b, s.maximizer, s.minimizer)}
}

func (s *searcher) shouldStop() bool {
	if s.aborted {
		return true
	}
	if s.limits.Nodes > 0 && s.stats.Nodes >= s.limits.Nodes {
		s.aborted = true
		return true
	}
	if s.stats.Nodes&63 != 0 {
		return false
	}
	if s.ctx.Err() != nil {
		s.aborted = true
		return true
	}
	if !s.deadline.IsZero() && time.Now().After(s.deadline) {
		s.aborted = true
	}
	return s.aborted
}
