package state_test

import (
	"encoding/json"
	"testing"

	"goCrashSim/config"
	"goCrashSim/game"
	"goCrashSim/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookAddEventOrder(t *testing.T) {
	t.Parallel()

	book := state.NewBook(3, config.BaseGameType)

	err := book.AddEvent(game.Event{Index: 1, Type: game.EventFinalWin, Amount: 2})
	assert.ErrorIs(t, err, state.ErrEventOutOfOrder)

	require.NoError(t, book.AddEvent(game.Event{Index: 0, Type: game.EventCrashPointRevealed, CrashPoint: 2, Payout: 2}))
	require.NoError(t, book.AddEvent(game.Event{Index: 1, Type: game.EventFinalWin, Amount: 2}))

	err = book.AddEvent(game.Event{Index: 1, Type: game.EventFinalWin, Amount: 2})
	assert.ErrorIs(t, err, state.ErrEventOutOfOrder)

	assert.Len(t, book.Events, 2)
	assert.Equal(t, 2.0, book.CrashPoint())
}

func TestNewBookFromOutcome(t *testing.T) {
	t.Parallel()

	executor, err := game.NewRoundExecutor(nil, game.ExecutorConfig{})
	require.NoError(t, err)

	rec, err := executor.ExecuteRound(90)
	require.NoError(t, err)

	book, err := state.NewBookFromOutcome(rec)
	require.NoError(t, err)

	assert.Equal(t, int64(90), book.ID)
	assert.Equal(t, rec.Events, book.Events)
	assert.Equal(t, 1.11, book.CrashPoint())
	assert.Equal(t, rec.PayoutMultiplier, book.PayoutMultiplier)
	assert.Equal(t, rec.Seed, book.Seed())
	assert.Equal(t, rec.SourceHash, book.Fairness.SourceHash)
}

func TestNewBookFromOutcomeRejectsBadOrder(t *testing.T) {
	t.Parallel()

	rec := game.OutcomeRecord{
		Events: []game.Event{
			{Index: 1, Type: game.EventFinalWin, Amount: 1},
			{Index: 0, Type: game.EventCrashPointRevealed, CrashPoint: 1, Payout: 1},
		},
	}

	_, err := state.NewBookFromOutcome(rec)
	assert.ErrorIs(t, err, state.ErrEventOutOfOrder)
}

func TestBookJSON(t *testing.T) {
	t.Parallel()

	executor, err := game.NewRoundExecutor(nil, game.ExecutorConfig{})
	require.NoError(t, err)
	rec, err := executor.ExecuteRound(200)
	require.NoError(t, err)
	book, err := state.NewBookFromOutcome(rec)
	require.NoError(t, err)

	data, err := json.Marshal(book)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	events := raw["events"].([]any)
	require.Len(t, events, 2)
	assert.Equal(t, map[string]any{"index": 0.0, "type": "crashPointRevealed", "crashPoint": 3.18, "payout": 3.18}, events[0])
	assert.Equal(t, map[string]any{"index": 1.0, "type": "finalWin", "amount": 3.18}, events[1])
	assert.Equal(t, "basegame", raw["criteria"])
	assert.Equal(t, 0.0, raw["freeGameWins"])
}

func TestBookOutcomeVerifies(t *testing.T) {
	t.Parallel()

	executor, err := game.NewRoundExecutor(nil, game.ExecutorConfig{})
	require.NoError(t, err)

	rec, err := executor.ExecuteRound(631)
	require.NoError(t, err)

	book, err := state.NewBookFromOutcome(rec)
	require.NoError(t, err)
	assert.Equal(t, rec, book.Outcome())

	ok, err := game.VerifyOutcome(book.Outcome(), executor.RTP())
	require.NoError(t, err)
	assert.True(t, ok)

	book.PayoutMultiplier = 1.0
	ok, err = game.VerifyOutcome(book.Outcome(), executor.RTP())
	require.NoError(t, err)
	assert.False(t, ok)
}
