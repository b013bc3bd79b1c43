// Package omok chooses moves for an automated five-in-a-row opponent.
package omok

import "fmt"

const DefaultBoardSize = 19

type Cell uint8

const (
	CellEmpty Cell = iota
	CellBlack
	CellWhite
)

type Color uint8

const (
	Black Color = iota + 1
	White
)

// Board is a square grid stored row-major. It performs no occupancy checks;
// callers own consistency.
type Board struct {
	size  int
	cells []Cell
}

func NewBoard(size int) *Board {
	b := &Board{}
	b.Reset(size)
	return b
}

func (b *Board) Reset(size int) {
	b.size = size
	b.cells = make([]Cell, size*size)
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) At(row, col int) Cell {
	return b.cells[b.index(row, col)]
}

func (b *Board) Set(row, col int, cell Cell) {
	b.cells[b.index(row, col)] = cell
}

func (b *Board) Place(row, col int, color Color) {
	b.cells[b.index(row, col)] = color.Cell()
}

func (b *Board) Remove(row, col int) {
	b.cells[b.index(row, col)] = CellEmpty
}

func (b *Board) Clear() {
	for i := range b.cells {
		b.cells[i] = CellEmpty
	}
}

func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < b.size && col < b.size
}

func (b *Board) IsEmpty(row, col int) bool {
	return b.InBounds(row, col) && b.At(row, col) == CellEmpty
}

// Stones counts occupied cells.
func (b *Board) Stones() int {
	count := 0
	for _, cell := range b.cells {
		if cell != CellEmpty {
			count++
		}
	}
	return count
}

func (b *Board) IsFull() bool {
	for _, cell := range b.cells {
		if cell == CellEmpty {
			return false
		}
	}
	return true
}

func (b *Board) Clone() *Board {
	clone := &Board{size: b.size, cells: make([]Cell, len(b.cells))}
	copy(clone.cells, b.cells)
	return clone
}

func (b *Board) Equal(other *Board) bool {
	if other == nil || b.size != other.size {
		return false
	}
	for i, cell := range b.cells {
		if other.cells[i] != cell {
			return false
		}
	}
	return true
}

func (b *Board) index(row, col int) int {
	return row*b.size + col
}

func (c Cell) String() string {
	switch c {
	case CellBlack:
		return "Black"
	case CellWhite:
		return "White"
	default:
		return "Empty"
	}
}

// Color reports the stone colour held by the cell.
func (c Cell) Color() (Color, bool) {
	switch c {
	case CellBlack:
		return Black, true
	case CellWhite:
		return White, true
	default:
		return 0, false
	}
}

func (c Color) Cell() Cell {
	if c == White {
		return CellWhite
	}
	return CellBlack
}

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) Valid() bool {
	return c == Black || c == White
}

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "invalid"
	}
}

func ParseColor(s string) (Color, error) {
	switch s {
	case "black", "Black", "b", "B":
		return Black, nil
	case "white", "White", "w", "W":
		return White, nil
	default:
		return 0, fmt.Errorf("unknown color %q", s)
	}
}

func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid color %d", uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
