package omok

import "fmt"

type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func NewMove(row, col int) Move {
	return Move{Row: row, Col: col}
}

func (m Move) IsValid(boardSize int) bool {
	return m.Row >= 0 && m.Col >= 0 && m.Row < boardSize && m.Col < boardSize
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}
