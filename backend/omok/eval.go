package omok

import (
	"math"
	"sync"
)

const (
	scoreFive            = 100000
	WinScore             = 1_000_000
	DefaultDefenseWeight = 0.8
)

// runScores[length][openEnds]; lengths of five or more use row 5.
var runScores = [6][3]int{
	{0, 0, 0},
	{0, 0, 10},
	{0, 10, 100},
	{0, 100, 1000},
	{0, 1000, 10000},
	{scoreFive, scoreFive, scoreFive},
}

func runScore(length, openEnds int) int {
	if length <= 0 {
		return 0
	}
	if length > WinLength {
		length = WinLength
	}
	return runScores[length][openEnds]
}

type lineCache struct {
	mu    sync.Mutex
	lines map[int][][]int
}

var cachedLines = &lineCache{lines: make(map[int][][]int)}

func linesForSize(size int) [][]int {
	cachedLines.mu.Lock()
	defer cachedLines.mu.Unlock()
	if lines, ok := cachedLines.lines[size]; ok {
		return lines
	}
	lines := buildLines(size)
	cachedLines.lines[size] = lines
	return lines
}

// buildLines returns every row, column and diagonal as cell indices.
func buildLines(size int) [][]int {
	lines := [][]int{}
	if size <= 0 {
		return lines
	}
	for r := 0; r < size; r++ {
		lines = append(lines, collectLine(size, r, 0, 0, 1))
	}
	for c := 0; c < size; c++ {
		lines = append(lines, collectLine(size, 0, c, 1, 0))
	}
	// ↘
	for c := 0; c < size; c++ {
		lines = append(lines, collectLine(size, 0, c, 1, 1))
	}
	for r := 1; r < size; r++ {
		lines = append(lines, collectLine(size, r, 0, 1, 1))
	}
	// ↙
	for c := 0; c < size; c++ {
		lines = append(lines, collectLine(size, 0, c, 1, -1))
	}
	for r := 1; r < size; r++ {
		lines = append(lines, collectLine(size, r, size-1, 1, -1))
	}
	return lines
}

func collectLine(size, row, col, dr, dc int) []int {
	line := []int{}
	for row >= 0 && col >= 0 && row < size && col < size {
		line = append(line, row*size+col)
		row += dr
		col += dc
	}
	return line
}

// ScoreLine sums the run table over every maximal run of mine in line. A run
// is scored once, at its first cell.
func ScoreLine(line []Cell, mine Cell) int {
	score := 0
	n := len(line)
	for i := 0; i < n; i++ {
		if line[i] != mine {
			continue
		}
		start := i
		for i < n && line[i] == mine {
			i++
		}
		openEnds := 0
		if start > 0 && line[start-1] == CellEmpty {
			openEnds++
		}
		if i < n && line[i] == CellEmpty {
			openEnds++
		}
		score += runScore(i-start, openEnds)
	}
	return score
}

func ScoreBoard(b *Board, color Color) int {
	mine := color.Cell()
	var bufStack [64]Cell
	buf := bufStack[:0]
	score := 0
	for _, line := range linesForSize(b.Size()) {
		buf = buf[:0]
		for _, idx := range line {
			buf = append(buf, b.cells[idx])
		}
		score += ScoreLine(buf, mine)
	}
	return score
}

// Evaluator weighs the opponent's shape against ours. DefenseWeight below 1
// makes the engine favour building over blocking.
type Evaluator struct {
	DefenseWeight float64
}

func DefaultEvaluator() Evaluator {
	return Evaluator{DefenseWeight: DefaultDefenseWeight}
}

func (e Evaluator) Evaluate(b *Board, me, opp Color) int {
	defense := float64(ScoreBoard(b, opp)) * e.DefenseWeight
	return ScoreBoard(b, me) - int(math.Round(defense))
}

// EvaluateBoard scores the position for me with the default defence weight.
func EvaluateBoard(b *Board, me, opp Color) int {
	return DefaultEvaluator().Evaluate(b, me, opp)
}

// LeafScore is the plain signed difference used at search leaves.
func LeafScore(b *Board, maximizer, minimizer Color) int {
	return ScoreBoard(b, maximizer) - ScoreBoard(b, minimizer)
}
