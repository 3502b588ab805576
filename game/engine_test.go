package game

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// engineWithLeadingWord returns an engine whose digest always starts with h.
func engineWithLeadingWord(h uint32) *FairnessEngine {
	return &FairnessEngine{
		digest: func([]byte) [sha256.Size]byte {
			var sum [sha256.Size]byte
			binary.BigEndian.PutUint32(sum[:4], h)
			return sum
		},
	}
}

func TestComputeCrashPointGoldenVectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		roundID    string
		clientSeed string
		nonce      uint64
		crashPoint float64
		sourceHash string
	}{
		{
			roundID:    "sim_0",
			clientSeed: "07c40e0440ce81984d9c55e99919a9f3bc824470d6942b10dd06515b662143cc",
			nonce:      0,
			crashPoint: 0.10,
			sourceHash: "0xf38490a524727c2c6f9eb6c7a59d201e74da9dc67f2cb1eab7af587f0bf63247",
		},
		{
			roundID:    "sim_5",
			clientSeed: "bf8da8115d52e9239dc9fb46a064f5c9574d20c06f4f13f2fea79405f3345113",
			nonce:      5,
			crashPoint: 0.16,
			sourceHash: "0x0ff84eac4c6c73e6aba6b83258fdd139590f0a615b86935a7f17541f089c04ca",
		},
		{
			roundID:    "sim_10",
			clientSeed: "195136c758b1a15d5e2783099529ff94cd1e6951b3201b4507a4de92dab70a58",
			nonce:      10,
			crashPoint: 0.30,
			sourceHash: "0x0862438b362820154b4d2eedd947062348ecfbb996495cb7d0d282281c44a470",
		},
	}

	for _, tt := range tests {
		t.Run(tt.roundID, func(t *testing.T) {
			t.Parallel()

			result := ComputeCrashPoint(tt.roundID, tt.clientSeed, tt.nonce, 0.97)
			assert.Equal(t, tt.crashPoint, result.CrashPoint)
			assert.Equal(t, tt.sourceHash, result.SourceHash.Hex())
		})
	}
}

func TestComputeCrashPointDeterministic(t *testing.T) {
	t.Parallel()

	engine := NewFairnessEngine()
	first := engine.ComputeCrashPoint("round-42", "deadbeef", 42, 0.97)

	for i := 0; i < 100; i++ {
		assert.Equal(t, first, engine.ComputeCrashPoint("round-42", "deadbeef", 42, 0.97))
	}
	assert.Equal(t, first, ComputeCrashPoint("round-42", "deadbeef", 42, 0.97))
}

func TestZeroValueEngineUsesSHA256(t *testing.T) {
	t.Parallel()

	var engine FairnessEngine
	result := engine.ComputeCrashPoint("sim_0", "07c40e0440ce81984d9c55e99919a9f3bc824470d6942b10dd06515b662143cc", 0, 0.97)

	assert.Equal(t, 0.10, result.CrashPoint)
	assert.Equal(t, "0xf38490a524727c2c6f9eb6c7a59d201e74da9dc67f2cb1eab7af587f0bf63247", result.SourceHash.Hex())
}

func TestComputeCrashPointZeroHash(t *testing.T) {
	t.Parallel()

	result := engineWithLeadingWord(0).ComputeCrashPoint("any", "00", 0, 0.97)
	assert.Equal(t, 99.99, result.CrashPoint)
}

func TestComputeCrashPointFormula(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		h    uint32
		rtp  float64
		want float64
	}{
		{name: "one is clamped to cap", h: 1, rtp: 0.97, want: 99.99},
		{name: "2^20", h: 1 << 20, rtp: 0.97, want: 39.73},
		{name: "2^22", h: 1 << 22, rtp: 0.97, want: 9.93},
		{name: "2^24", h: 1 << 24, rtp: 0.97, want: 2.48},
		{name: "2^24 full rtp", h: 1 << 24, rtp: 1, want: 2.56},
		{name: "max word is clamped to floor", h: math.MaxUint32, rtp: 0.97, want: 0.10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := engineWithLeadingWord(tt.h).ComputeCrashPoint("r", "00", 0, tt.rtp)
			assert.Equal(t, tt.want, result.CrashPoint)
		})
	}
}

func TestComputeCrashPointDegenerateRTP(t *testing.T) {
	t.Parallel()

	// The engine is total; validation happens in the executor.
	for _, rtp := range []float64{0, -1, math.NaN()} {
		result := engineWithLeadingWord(1).ComputeCrashPoint("r", "00", 0, rtp)
		assert.GreaterOrEqual(t, result.CrashPoint, 0.10)
		assert.LessOrEqual(t, result.CrashPoint, 99.99)
	}
}

func TestComputeCrashPointBoundsAndRounding(t *testing.T) {
	t.Parallel()

	engine := NewFairnessEngine()
	for nonce := uint64(0); nonce < 5000; nonce++ {
		result := engine.ComputeCrashPoint("bounds", "a1b2c3", nonce, 0.97)

		require.GreaterOrEqual(t, result.CrashPoint, 0.10)
		require.LessOrEqual(t, result.CrashPoint, 99.99)

		cents := result.CrashPoint * 100
		require.InDelta(t, math.Round(cents), cents, 1e-6, "crash point %v has more than 2 decimals", result.CrashPoint)
	}
}

func TestComputeCrashPointConcurrent(t *testing.T) {
	t.Parallel()

	engine := NewFairnessEngine()
	want := make([]FairnessResult, 64)
	for i := range want {
		want[i] = engine.ComputeCrashPoint("concurrent", "ff00", uint64(i), 0.97)
	}

	var wg sync.WaitGroup
	got := make([]FairnessResult, len(want))
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = engine.ComputeCrashPoint("concurrent", "ff00", uint64(i), 0.97)
		}()
	}
	wg.Wait()

	assert.Equal(t, want, got)
}

func TestCommitment(t *testing.T) {
	t.Parallel()

	seed := RoundSeed{RoundID: "sim_7", ClientSeed: "abcd", Nonce: 7}
	assert.Equal(t, "sim_7:abcd:7", seed.Commitment())

	sum := sha256.Sum256([]byte("sim_7:abcd:7"))
	assert.Equal(t, [32]byte(NewFairnessEngine().ComputeSeed(seed, 0.97).SourceHash), sum)
}

func TestRoundToDecimal(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.24, RoundToDecimal(1.235, 2))
	assert.Equal(t, 0.16, RoundToDecimal(0.15549202921518973, 2))
	assert.Equal(t, 2.5, RoundToDecimal(2.45, 1))
}
