package omok

import (
	"fmt"
	"strings"
)

// Text boards use one line per row: '.' empty, 'X' black, 'O' white.
// Spaces inside a row are ignored and blank lines are skipped.
const (
	emptyGlyph = '.'
	blackGlyph = 'X'
	whiteGlyph = 'O'
)

func ParseBoard(text string) (*Board, error) {
	rows := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.ReplaceAll(strings.TrimSpace(line), " ", "")
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty board text")
	}
	size := len(rows)
	board := NewBoard(size)
	for r, row := range rows {
		if len(row) != size {
			return nil, fmt.Errorf("row %d has %d cells, want %d", r, len(row), size)
		}
		for c := 0; c < size; c++ {
			switch row[c] {
			case emptyGlyph, '+', '_':
			case blackGlyph, 'x', 'B', 'b':
				board.Set(r, c, CellBlack)
			case whiteGlyph, 'o', 'W', 'w':
				board.Set(r, c, CellWhite)
			default:
				return nil, fmt.Errorf("row %d col %d: unexpected %q", r, c, row[c])
			}
		}
	}
	return board, nil
}

func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow(b.size * (b.size + 1))
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			sb.WriteByte(glyph(b.At(r, c)))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func glyph(cell Cell) byte {
	switch cell {
	case CellBlack:
		return blackGlyph
	case CellWhite:
		return whiteGlyph
	default:
		return emptyGlyph
	}
}
