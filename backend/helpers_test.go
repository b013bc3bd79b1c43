package main

import (
	"context"
	"testing"

	"github.com/PrestigeLulu/OmokWeb/backend/omok"
)

// useConfig swaps the live config for the duration of a test.
func useConfig(t *testing.T, mutate func(*Config)) Config {
	t.Helper()
	prev := GetConfig()
	cfg := prev
	mutate(&cfg)
	configStore.Update(cfg)
	t.Cleanup(func() { configStore.Update(prev) })
	return cfg
}

func shallowEngine(string) Decider {
	return omok.NewEngine(omok.DefaultLimits().WithDepth(1), omok.DefaultEvaluator())
}

type scriptedDecider struct {
	moves []omok.Move
	err   error
	calls int
}

func (d *scriptedDecider) Decide(ctx context.Context, b *omok.Board, ai omok.Color) (omok.Decision, error) {
	d.calls++
	if d.err != nil {
		return omok.Decision{}, d.err
	}
	move := d.moves[0]
	d.moves = d.moves[1:]
	return omok.Decision{Move: move, Reason: omok.ReasonSearch, Depth: 1}, nil
}

func (d *scriptedDecider) factory(string) Decider {
	return d
}

// fourInRow is a 9x9 board where black has an open four on row 4.
func fourInRow() [][]int {
	rows := make([][]int, 9)
	for r := range rows {
		rows[r] = make([]int, 9)
	}
	for c := 2; c <= 5; c++ {
		rows[4][c] = 1
	}
	rows[3][4] = 2
	rows[5][4] = 2
	rows[6][5] = 2
	return rows
}
