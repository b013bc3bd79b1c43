package omok

const WinLength = 5

// axes are the four line directions: horizontal, vertical, ↘ and ↙.
var axes = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// IsWinningMove reports whether the stone of color at (row, col) sits on a
// run of at least WinLength along any axis.
func IsWinningMove(b *Board, row, col int, color Color) bool {
	if !b.InBounds(row, col) || b.At(row, col) != color.Cell() {
		return false
	}
	for _, axis := range axes {
		count := 1
		count += countDirection(b, row, col, axis[0], axis[1])
		count += countDirection(b, row, col, -axis[0], -axis[1])
		if count >= WinLength {
			return true
		}
	}
	return false
}

// FindWinner scans occupied cells row-major and returns the first colour that
// owns a winning run.
func FindWinner(b *Board) (Color, bool) {
	size := b.Size()
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			color, ok := b.At(r, c).Color()
			if !ok {
				continue
			}
			if IsWinningMove(b, r, c, color) {
				return color, true
			}
		}
	}
	return 0, false
}

// WinningLine returns the cells of the first axis through (row, col) whose run
// reaches WinLength, ordered from one end to the other.
func WinningLine(b *Board, row, col int) ([]Move, bool) {
	if !b.InBounds(row, col) || b.At(row, col) == CellEmpty {
		return nil, false
	}
	target := b.At(row, col)
	for _, axis := range axes {
		dr, dc := axis[0], axis[1]
		r, c := row, col
		for b.InBounds(r-dr, c-dc) && b.At(r-dr, c-dc) == target {
			r -= dr
			c -= dc
		}
		line := []Move{}
		for b.InBounds(r, c) && b.At(r, c) == target {
			line = append(line, Move{Row: r, Col: c})
			r += dr
			c += dc
		}
		if len(line) >= WinLength {
			return line, true
		}
	}
	return nil, false
}

func countDirection(b *Board, row, col, dr, dc int) int {
	target := b.At(row, col)
	r := row + dr
	c := col + dc
	count := 0
	for b.InBounds(r, c) && b.At(r, c) == target {
		count++
		r += dr
		c += dc
	}
	return count
}
