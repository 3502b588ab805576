package game

import (
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

// RoundSeed is the committed input triple for one round.
type RoundSeed struct {
	RoundID    string `json:"roundId"`
	ClientSeed string `json:"clientSeed"`
	Nonce      uint64 `json:"nonce"`
}

// Commitment returns the message that is hashed for this round:
// round_id:client_seed:nonce with the nonce in decimal.
func (s RoundSeed) Commitment() string {
	return s.RoundID + ":" + s.ClientSeed + ":" + strconv.FormatUint(s.Nonce, 10)
}

// FairnessResult is the crash point derived from a RoundSeed together with
// the full digest it was taken from.
type FairnessResult struct {
	CrashPoint float64     `json:"crashPoint"`
	SourceHash common.Hash `json:"sourceHash"`
}

type EventType string

const (
	EventCrashPointRevealed EventType = "crashPointRevealed"
	EventFinalWin           EventType = "finalWin"
)

// Event is one entry of a round's event sequence. Payload fields that do not
// belong to the event type are left zero and dropped from JSON.
type Event struct {
	Index      int       `json:"index"`
	Type       EventType `json:"type"`
	CrashPoint float64   `json:"crashPoint,omitempty"`
	Payout     float64   `json:"payout,omitempty"`
	Amount     float64   `json:"amount,omitempty"`
}

// OutcomeRecord is everything a driver needs to record a finished round.
type OutcomeRecord struct {
	RoundIndex       int64       `json:"id"`
	Seed             RoundSeed   `json:"seed"`
	SourceHash       common.Hash `json:"sourceHash"`
	CrashPoint       float64     `json:"crashPoint"`
	PayoutMultiplier float64     `json:"payoutMultiplier"`
	Events           []Event     `json:"events"`
	Criteria         string      `json:"criteria"`
	BaseGameWins     float64     `json:"baseGameWins"`
	FreeGameWins     float64     `json:"freeGameWins"`
}
