package game

import (
	"crypto/sha256"
	"encoding/binary"
	"math"

	"goCrashSim/config"
)

// hashSpace is 2^32, the size of the range the leading digest word is drawn from.
const hashSpace = float64(1 << 32)

// FairnessEngine maps a committed round seed to a crash point. It holds no
// state beyond the digest function and is safe for concurrent use. The zero
// value hashes with SHA-256.
type FairnessEngine struct {
	digest func([]byte) [sha256.Size]byte
}

// NewFairnessEngine returns an engine that hashes commitments with SHA-256.
func NewFairnessEngine() *FairnessEngine {
	return &FairnessEngine{digest: sha256.Sum256}
}

var defaultEngine = NewFairnessEngine()

// ComputeCrashPoint computes the crash point with the default SHA-256 engine.
func ComputeCrashPoint(roundID, clientSeed string, nonce uint64, rtp float64) FairnessResult {
	return defaultEngine.ComputeCrashPoint(roundID, clientSeed, nonce, rtp)
}

// ComputeCrashPoint hashes round_id:client_seed:nonce and turns the leading
// 32 bits of the digest into a multiplier:
//
//	(2^32 / h) * (rtp / 100), clamped to [0.10, 99.99], rounded to 2 decimals
//
// The rtp/100 factor is part of the published formula and must not be
// changed, otherwise previously issued rounds no longer verify. A leading
// word of zero is treated as 1, which lands on the 99.99 ceiling.
func (e *FairnessEngine) ComputeCrashPoint(roundID, clientSeed string, nonce uint64, rtp float64) FairnessResult {
	seed := RoundSeed{RoundID: roundID, ClientSeed: clientSeed, Nonce: nonce}
	digest := e.digest
	if digest == nil {
		digest = sha256.Sum256
	}
	sum := digest([]byte(seed.Commitment()))

	h := binary.BigEndian.Uint32(sum[:4])
	if h == 0 {
		h = 1
	}

	multiplier := (hashSpace / float64(h)) * (rtp / 100)
	if math.IsNaN(multiplier) {
		multiplier = config.MinCrashPoint
	}
	multiplier = math.Max(config.MinCrashPoint, math.Min(multiplier, config.WinCap))

	return FairnessResult{
		CrashPoint: RoundToDecimal(multiplier, config.CrashPointPrecision),
		SourceHash: sum,
	}
}

// ComputeSeed is ComputeCrashPoint for an already assembled RoundSeed.
func (e *FairnessEngine) ComputeSeed(seed RoundSeed, rtp float64) FairnessResult {
	return e.ComputeCrashPoint(seed.RoundID, seed.ClientSeed, seed.Nonce, rtp)
}

// RoundToDecimal rounds half away from zero to the given number of places.
func RoundToDecimal(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
