package game

import (
	"fmt"

	"goCrashSim/crypto"
)

// ClientSeedSource supplies the client seed for a round. The executor is
// given one at construction so simulation and production differ only in
// configuration.
type ClientSeedSource interface {
	ClientSeed(roundIndex int64) (string, error)
}

// SimulationSeeds derives the seed from the round index: hex(sha256("client_<index>")).
type SimulationSeeds struct{}

func (SimulationSeeds) ClientSeed(roundIndex int64) (string, error) {
	return crypto.SimulationClientSeed(roundIndex), nil
}

// FixedClientSeed is an externally supplied client seed used for every round.
type FixedClientSeed struct {
	seed string
}

// NewFixedClientSeed validates seed as a hex byte string.
func NewFixedClientSeed(seed string) (*FixedClientSeed, error) {
	if err := crypto.ValidateClientSeed(seed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return &FixedClientSeed{seed: seed}, nil
}

func (f *FixedClientSeed) ClientSeed(int64) (string, error) {
	return f.seed, nil
}

// Seed returns the client seed revealed for every round.
func (f *FixedClientSeed) Seed() string {
	return f.seed
}

// NewRandomClientSeed generates a fresh client seed and returns it with the
// SHA-256 hash to publish before any round is played.
func NewRandomClientSeed() (*FixedClientSeed, string, error) {
	seed, hash, err := crypto.GenerateClientSeed()
	if err != nil {
		return nil, "", err
	}
	return &FixedClientSeed{seed: seed}, hash, nil
}
