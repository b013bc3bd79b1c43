package omok

const proximityRadius = 2

// Candidates returns the empty cells within Chebyshev distance 2 of any stone,
// in row-major discovery order. An empty board yields only the centre.
func Candidates(b *Board) []Move {
	size := b.Size()
	if b.Stones() == 0 {
		center := size / 2
		return []Move{{Row: center, Col: center}}
	}
	moves := []Move{}
	seen := make([]bool, size*size)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if b.At(r, c) == CellEmpty {
				continue
			}
			for dr := -proximityRadius; dr <= proximityRadius; dr++ {
				for dc := -proximityRadius; dc <= proximityRadius; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					nr := r + dr
					nc := c + dc
					if !b.IsEmpty(nr, nc) {
						continue
					}
					idx := nr*size + nc
					if !seen[idx] {
						seen[idx] = true
						moves = append(moves, Move{Row: nr, Col: nc})
					}
				}
			}
		}
	}
	return moves
}
