package game

import (
	"fmt"
	"strconv"

	"goCrashSim/config"
)

// RoundRunner is what a simulation driver calls once per round index.
type RoundRunner interface {
	ExecuteRound(roundIndex int64) (OutcomeRecord, error)
}

// ExecutorConfig selects the RTP and the client seed source. A nil Seeds
// means simulation seeds; a nil RTP means config.DefaultRTP. A set RTP is
// validated as given.
type ExecutorConfig struct {
	RTP   *float64
	Seeds ClientSeedSource
}

// RoundExecutor turns a round index into an OutcomeRecord. Crash rounds never
// repeat, so every call runs the lifecycle exactly once.
type RoundExecutor struct {
	engine *FairnessEngine
	seeds  ClientSeedSource
	rtp    float64
}

var _ RoundRunner = (*RoundExecutor)(nil)

func NewRoundExecutor(engine *FairnessEngine, cfg ExecutorConfig) (*RoundExecutor, error) {
	if engine == nil {
		engine = NewFairnessEngine()
	}

	rtp := config.DefaultRTP
	if cfg.RTP != nil {
		rtp = *cfg.RTP
	}
	if err := ValidateRTP(rtp); err != nil {
		return nil, err
	}

	seeds := cfg.Seeds
	if seeds == nil {
		seeds = SimulationSeeds{}
	}

	return &RoundExecutor{
		engine: engine,
		seeds:  seeds,
		rtp:    rtp,
	}, nil
}

func (x *RoundExecutor) RTP() float64 {
	return x.rtp
}

// DeriveSeed builds the committed inputs for a round index.
func (x *RoundExecutor) DeriveSeed(roundIndex int64) (RoundSeed, error) {
	if roundIndex < 0 {
		return RoundSeed{}, fmt.Errorf("%w: negative round index %d", ErrInvalidInput, roundIndex)
	}

	clientSeed, err := x.seeds.ClientSeed(roundIndex)
	if err != nil {
		return RoundSeed{}, fmt.Errorf("failed to get client seed for round %d: %w", roundIndex, err)
	}

	return RoundSeed{
		RoundID:    config.SimRoundPrefix + strconv.FormatInt(roundIndex, 10),
		ClientSeed: clientSeed,
		Nonce:      uint64(roundIndex % config.NonceModulus),
	}, nil
}

func (x *RoundExecutor) ExecuteRound(roundIndex int64) (OutcomeRecord, error) {
	lifecycle := NewRoundLifecycle()

	seed, err := x.DeriveSeed(roundIndex)
	if err != nil {
		return OutcomeRecord{}, err
	}

	if err := lifecycle.Advance(PhaseSpinning); err != nil {
		return OutcomeRecord{}, err
	}
	result := x.engine.ComputeSeed(seed, x.rtp)

	// No cashout strategy is modelled: the payout is the crash point itself.
	payout := result.CrashPoint

	events := make([]Event, 0, 2)
	events = append(events, Event{
		Index:      len(events),
		Type:       EventCrashPointRevealed,
		CrashPoint: result.CrashPoint,
		Payout:     payout,
	})
	if err := lifecycle.Advance(PhaseRevealed); err != nil {
		return OutcomeRecord{}, err
	}

	events = append(events, Event{
		Index:  len(events),
		Type:   EventFinalWin,
		Amount: payout,
	})
	if err := lifecycle.Advance(PhaseClosed); err != nil {
		return OutcomeRecord{}, err
	}

	return OutcomeRecord{
		RoundIndex:       roundIndex,
		Seed:             seed,
		SourceHash:       result.SourceHash,
		CrashPoint:       result.CrashPoint,
		PayoutMultiplier: payout,
		Events:           events,
		Criteria:         config.BaseGameType,
		BaseGameWins:     payout,
		FreeGameWins:     0,
	}, nil
}

// ValidateRTP accepts values in (0, 1].
func ValidateRTP(rtp float64) error {
	if !(rtp > 0 && rtp <= 1) {
		return fmt.Errorf("%w: rtp %v outside (0, 1]", ErrInvalidInput, rtp)
	}
	return nil
}
