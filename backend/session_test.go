package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PrestigeLulu/OmokWeb/backend/omok"
)

func TestPlaceStoneRequiresTeam(t *testing.T) {
	session := NewSession("s1", 9, shallowEngine)
	_, err := session.PlaceStone(context.Background(), omok.NewMove(4, 4))
	require.ErrorIs(t, err, ErrNoTeam)
}

func TestChooseTeamRejectsInvalidColor(t *testing.T) {
	session := NewSession("s1", 9, shallowEngine)
	_, err := session.ChooseTeam(context.Background(), omok.Color(0))
	require.ErrorIs(t, err, ErrInvalidColor)
}

func TestAIOpensAtCentreWhenHumanTakesWhite(t *testing.T) {
	session := NewSession("s1", 9, shallowEngine)
	result, err := session.ChooseTeam(context.Background(), omok.White)
	require.NoError(t, err)

	require.Len(t, result.Placed, 1)
	assert.Equal(t, omok.NewMove(4, 4), result.Placed[0].Move)
	assert.Equal(t, omok.Black, result.Placed[0].Color)
	assert.True(t, result.Placed[0].IsAi)

	snapshot := session.Snapshot()
	assert.Equal(t, 1, snapshot.Board[4][4])
	require.NotNil(t, snapshot.Human)
	assert.Equal(t, omok.White, *snapshot.Human)
	assert.Equal(t, "running", snapshot.Status)
}

func TestPlaceStoneGetsAIReply(t *testing.T) {
	decider := &scriptedDecider{moves: []omok.Move{omok.NewMove(0, 0)}}
	session := NewSession("s1", 9, decider.factory)
	_, err := session.ChooseTeam(context.Background(), omok.Black)
	require.NoError(t, err)
	assert.Equal(t, 0, decider.calls)

	result, err := session.PlaceStone(context.Background(), omok.NewMove(4, 4))
	require.NoError(t, err)
	require.Len(t, result.Placed, 2)
	assert.Equal(t, omok.Black, result.Placed[0].Color)
	assert.False(t, result.Placed[0].IsAi)
	assert.Equal(t, omok.White, result.Placed[1].Color)
	assert.Equal(t, omok.NewMove(0, 0), result.Placed[1].Move)
	assert.Equal(t, omok.ReasonSearch, result.Placed[1].Reason)

	snapshot := session.Snapshot()
	require.NotNil(t, snapshot.LastMove)
	assert.Equal(t, omok.NewMove(0, 0), *snapshot.LastMove)
	assert.Len(t, snapshot.History, 2)
}

func TestPlaceStoneValidation(t *testing.T) {
	decider := &scriptedDecider{moves: []omok.Move{omok.NewMove(0, 0)}}
	session := NewSession("s1", 9, decider.factory)
	_, err := session.ChooseTeam(context.Background(), omok.Black)
	require.NoError(t, err)

	_, err = session.PlaceStone(context.Background(), omok.NewMove(9, 0))
	require.ErrorIs(t, err, ErrOutOfBounds)
	_, err = session.PlaceStone(context.Background(), omok.NewMove(-1, 3))
	require.ErrorIs(t, err, ErrOutOfBounds)

	_, err = session.PlaceStone(context.Background(), omok.NewMove(4, 4))
	require.NoError(t, err)
	_, err = session.PlaceStone(context.Background(), omok.NewMove(0, 0))
	require.ErrorIs(t, err, ErrOccupied)
	assert.Equal(t, 1, decider.calls)
}

func TestHumanFiveEndsGameWithoutAIReply(t *testing.T) {
	decider := &scriptedDecider{moves: []omok.Move{
		omok.NewMove(0, 0), omok.NewMove(0, 1), omok.NewMove(0, 2), omok.NewMove(0, 3),
	}}
	session := NewSession("s1", 9, decider.factory)
	_, err := session.ChooseTeam(context.Background(), omok.Black)
	require.NoError(t, err)

	for c := 2; c < 6; c++ {
		_, err := session.PlaceStone(context.Background(), omok.NewMove(4, c))
		require.NoError(t, err)
	}
	result, err := session.PlaceStone(context.Background(), omok.NewMove(4, 6))
	require.NoError(t, err)

	require.True(t, result.HasWinner)
	assert.Equal(t, omok.Black, result.Winner)
	assert.Len(t, result.WinningLine, 5)
	assert.Len(t, result.Placed, 1)
	assert.Equal(t, 4, decider.calls)
	assert.Equal(t, "black_won", session.Snapshot().Status)

	_, err = session.PlaceStone(context.Background(), omok.NewMove(8, 8))
	require.ErrorIs(t, err, ErrGameOver)
}

func TestPlaceStoneWithoutAIDetectsWin(t *testing.T) {
	session := NewSession("s1", 9, shallowEngine)
	for r := 0; r < 4; r++ {
		result, err := session.PlaceStoneWithoutAI(omok.NewMove(r, r), omok.White)
		require.NoError(t, err)
		assert.False(t, result.HasWinner)
	}
	result, err := session.PlaceStoneWithoutAI(omok.NewMove(4, 4), omok.White)
	require.NoError(t, err)
	require.True(t, result.HasWinner)
	assert.Equal(t, omok.White, result.Winner)
	assert.Equal(t, "white_won", session.Snapshot().Status)

	_, err = session.PlaceStoneWithoutAI(omok.NewMove(8, 0), omok.Color(3))
	require.ErrorIs(t, err, ErrInvalidColor)
}

func TestAIWithoutMovesIsDraw(t *testing.T) {
	decider := &scriptedDecider{err: omok.ErrNoLegalMoves}
	session := NewSession("s1", 9, decider.factory)
	_, err := session.ChooseTeam(context.Background(), omok.Black)
	require.NoError(t, err)

	result, err := session.PlaceStone(context.Background(), omok.NewMove(4, 4))
	require.NoError(t, err)
	assert.True(t, result.Draw)
	assert.Equal(t, "draw", session.Snapshot().Status)
}

func TestAIErrorLeavesGameRunning(t *testing.T) {
	decider := &scriptedDecider{err: errors.New("boom")}
	session := NewSession("s1", 9, decider.factory)
	_, err := session.ChooseTeam(context.Background(), omok.Black)
	require.NoError(t, err)

	result, err := session.PlaceStone(context.Background(), omok.NewMove(4, 4))
	require.NoError(t, err)
	assert.Len(t, result.Placed, 1)
	assert.Equal(t, "running", session.Snapshot().Status)
}

func TestResetKeepsTeam(t *testing.T) {
	decider := &scriptedDecider{moves: []omok.Move{omok.NewMove(0, 0)}}
	session := NewSession("s1", 9, decider.factory)
	_, err := session.ChooseTeam(context.Background(), omok.Black)
	require.NoError(t, err)
	_, err = session.PlaceStone(context.Background(), omok.NewMove(4, 4))
	require.NoError(t, err)

	result := session.Reset(context.Background())
	assert.Empty(t, result.Placed)
	snapshot := session.Snapshot()
	assert.Equal(t, "running", snapshot.Status)
	assert.Empty(t, snapshot.History)
	assert.Nil(t, snapshot.LastMove)
	require.NotNil(t, snapshot.Human)
	assert.Equal(t, omok.Black, *snapshot.Human)
	assert.Equal(t, 0, snapshot.Board[4][4])
}

func TestResetLetsBlackAIOpenAgain(t *testing.T) {
	session := NewSession("s1", 9, shallowEngine)
	_, err := session.ChooseTeam(context.Background(), omok.White)
	require.NoError(t, err)
	_, err = session.PlaceStone(context.Background(), omok.NewMove(0, 0))
	require.NoError(t, err)

	result := session.Reset(context.Background())
	require.Len(t, result.Placed, 1)
	assert.Equal(t, omok.Black, result.Placed[0].Color)
	assert.True(t, result.Placed[0].IsAi)
	assert.Equal(t, omok.NewMove(4, 4), result.Placed[0].Move)

	turn, err := session.PlaceStone(context.Background(), omok.NewMove(0, 0))
	require.NoError(t, err)
	require.Len(t, turn.Placed, 2)
	assert.Equal(t, omok.White, turn.Placed[0].Color)
	assert.Equal(t, omok.Black, turn.Placed[1].Color)

	history := session.Snapshot().History
	require.Len(t, history, 3)
	assert.Equal(t, omok.Black, history[0].Color)
}

func TestBoardFromSlice(t *testing.T) {
	board, err := boardFromSlice(fourInRow())
	require.NoError(t, err)
	assert.Equal(t, 9, board.Size())
	assert.Equal(t, omok.CellBlack, board.At(4, 2))
	assert.Equal(t, omok.CellWhite, board.At(6, 5))
	assert.Equal(t, fourInRow(), boardToSlice(board))

	_, err = boardFromSlice([][]int{{0, 0}, {0, 0}})
	require.Error(t, err)

	ragged := fourInRow()
	ragged[3] = ragged[3][:5]
	_, err = boardFromSlice(ragged)
	require.Error(t, err)

	badValue := fourInRow()
	badValue[0][0] = 7
	_, err = boardFromSlice(badValue)
	require.Error(t, err)
}
