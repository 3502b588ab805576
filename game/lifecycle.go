package game

import "fmt"

type RoundPhase string

const (
	PhaseIdle     RoundPhase = "idle"
	PhaseSpinning RoundPhase = "spinning"
	PhaseRevealed RoundPhase = "revealed"
	PhaseClosed   RoundPhase = "closed"
)

// nextPhase is the only edge out of each phase. Closed is terminal.
var nextPhase = map[RoundPhase]RoundPhase{
	PhaseIdle:     PhaseSpinning,
	PhaseSpinning: PhaseRevealed,
	PhaseRevealed: PhaseClosed,
}

// RoundLifecycle tracks a single round through Idle, Spinning, Revealed and
// Closed. It is not shared between rounds.
type RoundLifecycle struct {
	phase RoundPhase
}

func NewRoundLifecycle() *RoundLifecycle {
	return &RoundLifecycle{phase: PhaseIdle}
}

func (l *RoundLifecycle) Phase() RoundPhase {
	return l.phase
}

// Advance moves to the given phase if it directly follows the current one.
func (l *RoundLifecycle) Advance(to RoundPhase) error {
	next, ok := nextPhase[l.phase]
	if !ok || next != to {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, l.phase, to)
	}
	l.phase = to
	return nil
}

func (l *RoundLifecycle) Closed() bool {
	return l.phase == PhaseClosed
}
