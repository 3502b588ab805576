package state

import (
	"errors"
	"fmt"

	"goCrashSim/game"

	"github.com/ethereum/go-ethereum/common"
)

var ErrEventOutOfOrder = errors.New("event out of order")

// FairnessProof is what a player needs to re-derive the round.
type FairnessProof struct {
	RoundID    string      `json:"roundId"`
	ClientSeed string      `json:"clientSeed"`
	Nonce      uint64      `json:"nonce"`
	SourceHash common.Hash `json:"sourceHash"`
}

// Book is the stored form of one simulated round.
type Book struct {
	ID               int64         `json:"id"`
	PayoutMultiplier float64       `json:"payoutMultiplier"`
	Events           []game.Event  `json:"events"`
	Criteria         string        `json:"criteria"`
	BaseGameWins     float64       `json:"baseGameWins"`
	FreeGameWins     float64       `json:"freeGameWins"`
	Fairness         FairnessProof `json:"fairness"`
}

func NewBook(id int64, criteria string) *Book {
	return &Book{
		ID:       id,
		Events:   make([]game.Event, 0, 2),
		Criteria: criteria,
	}
}

// AddEvent appends an event. Events must arrive in index order starting at 0.
func (b *Book) AddEvent(ev game.Event) error {
	if ev.Index != len(b.Events) {
		return fmt.Errorf("%w: book %d expected index %d, got %d", ErrEventOutOfOrder, b.ID, len(b.Events), ev.Index)
	}
	b.Events = append(b.Events, ev)
	return nil
}

// CrashPoint returns the revealed crash point, or 0 if it has not been revealed.
func (b *Book) CrashPoint() float64 {
	for _, ev := range b.Events {
		if ev.Type == game.EventCrashPointRevealed {
			return ev.CrashPoint
		}
	}
	return 0
}

// NewBookFromOutcome replays an outcome's events into a fresh book.
func NewBookFromOutcome(rec game.OutcomeRecord) (*Book, error) {
	book := NewBook(rec.RoundIndex, rec.Criteria)
	for _, ev := range rec.Events {
		if err := book.AddEvent(ev); err != nil {
			return nil, err
		}
	}

	book.PayoutMultiplier = rec.PayoutMultiplier
	book.BaseGameWins = rec.BaseGameWins
	book.FreeGameWins = rec.FreeGameWins
	book.Fairness = FairnessProof{
		RoundID:    rec.Seed.RoundID,
		ClientSeed: rec.Seed.ClientSeed,
		Nonce:      rec.Seed.Nonce,
		SourceHash: rec.SourceHash,
	}
	return book, nil
}

// Outcome rebuilds the outcome record the book was made from.
func (b *Book) Outcome() game.OutcomeRecord {
	events := make([]game.Event, len(b.Events))
	copy(events, b.Events)

	return game.OutcomeRecord{
		RoundIndex:       b.ID,
		Seed:             b.Seed(),
		SourceHash:       b.Fairness.SourceHash,
		CrashPoint:       b.CrashPoint(),
		PayoutMultiplier: b.PayoutMultiplier,
		Events:           events,
		Criteria:         b.Criteria,
		BaseGameWins:     b.BaseGameWins,
		FreeGameWins:     b.FreeGameWins,
	}
}

// Seed rebuilds the committed inputs recorded in the book.
func (b *Book) Seed() game.RoundSeed {
	return game.RoundSeed{
		RoundID:    b.Fairness.RoundID,
		ClientSeed: b.Fairness.ClientSeed,
		Nonce:      b.Fairness.Nonce,
	}
}
