package game

import (
	"fmt"

	"goCrashSim/crypto"
)

// ValidateSeed checks the parts of a RoundSeed a player can get wrong.
func ValidateSeed(seed RoundSeed) error {
	if seed.RoundID == "" {
		return fmt.Errorf("%w: empty round id", ErrInvalidInput)
	}
	if err := crypto.ValidateClientSeed(seed.ClientSeed); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

// VerifyRound recomputes the crash point for a published round and reports
// whether it equals the claimed value. Both sides are already rounded to two
// decimals by the same rule, so the comparison is exact.
func VerifyRound(seed RoundSeed, rtp float64, claimed float64) (FairnessResult, bool, error) {
	if err := ValidateSeed(seed); err != nil {
		return FairnessResult{}, false, err
	}
	if err := ValidateRTP(rtp); err != nil {
		return FairnessResult{}, false, err
	}

	result := defaultEngine.ComputeSeed(seed, rtp)
	return result, result.CrashPoint == claimed, nil
}

// VerifyOutcome re-derives a recorded outcome from its own seed.
func VerifyOutcome(rec OutcomeRecord, rtp float64) (bool, error) {
	result, ok, err := VerifyRound(rec.Seed, rtp, rec.CrashPoint)
	if err != nil {
		return false, err
	}
	return ok && result.SourceHash == rec.SourceHash && rec.PayoutMultiplier == rec.CrashPoint, nil
}
