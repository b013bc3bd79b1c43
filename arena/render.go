package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/PrestigeLulu/OmokWeb/backend/omok"
)

type boardRenderer struct {
	out *termenv.Output
}

func newBoardRenderer(w io.Writer, opts ...termenv.OutputOption) *boardRenderer {
	return &boardRenderer{out: termenv.NewOutput(w, opts...)}
}

// Render writes the board with column letters and row numbers. Stones on
// highlight are drawn bold.
func (r *boardRenderer) Render(board *omok.Board, highlight []omok.Move) {
	marked := make(map[omok.Move]bool, len(highlight))
	for _, move := range highlight {
		marked[move] = true
	}
	size := board.Size()

	var header strings.Builder
	header.WriteString("    ")
	for c := 0; c < size; c++ {
		fmt.Fprintf(&header, "%c ", columnLabel(c))
	}
	fmt.Fprintln(r.out, strings.TrimRight(header.String(), " "))

	for row := 0; row < size; row++ {
		var line strings.Builder
		fmt.Fprintf(&line, "%3d ", row)
		for col := 0; col < size; col++ {
			line.WriteString(r.cell(board.At(row, col), marked[omok.NewMove(row, col)]))
			if col < size-1 {
				line.WriteByte(' ')
			}
		}
		fmt.Fprintln(r.out, line.String())
	}
}

func (r *boardRenderer) cell(cell omok.Cell, bold bool) string {
	var style termenv.Style
	switch cell {
	case omok.CellBlack:
		style = r.out.String("X").Foreground(r.out.Color("1"))
	case omok.CellWhite:
		style = r.out.String("O").Foreground(r.out.Color("4"))
	default:
		return r.out.String(".").Faint().String()
	}
	if bold {
		style = style.Bold()
	}
	return style.String()
}

func (r *boardRenderer) Summary(summary matchSummary) {
	avg := 0.0
	if summary.Games > 0 {
		avg = float64(summary.TotalPlies) / float64(summary.Games)
	}
	fmt.Fprintf(r.out, "games=%d black=%d white=%d draws=%d avg_plies=%.1f\n",
		summary.Games, summary.BlackWins, summary.WhiteWins, summary.Draws, avg)
}

func columnLabel(col int) rune {
	if col < 26 {
		return rune('A' + col)
	}
	return rune('a' + col - 26)
}
