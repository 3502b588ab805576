package crypto_test

import (
	"strings"
	"testing"

	"goCrashSim/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulationClientSeed(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "07c40e0440ce81984d9c55e99919a9f3bc824470d6942b10dd06515b662143cc", crypto.SimulationClientSeed(0))
	assert.Equal(t, "914e1681af0f4df7627b30092c5c2077d304fc0b0d05b3dab50e52d2a2d4f4a7", crypto.SimulationClientSeed(1))
	assert.NotEqual(t, crypto.SimulationClientSeed(2), crypto.SimulationClientSeed(3))
}

func TestGenerateClientSeed(t *testing.T) {
	t.Parallel()

	seed, hash, err := crypto.GenerateClientSeed()
	require.NoError(t, err)

	assert.Len(t, seed, crypto.ClientSeedBytes*2)
	assert.NoError(t, crypto.ValidateClientSeed(seed))
	assert.True(t, crypto.VerifySeed(seed, hash))
	assert.False(t, crypto.VerifySeed(seed, strings.Repeat("0", 64)))

	other, _, err := crypto.GenerateClientSeed()
	require.NoError(t, err)
	assert.NotEqual(t, seed, other)
}

func TestValidateClientSeed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seed  string
		valid bool
	}{
		{seed: "00", valid: true},
		{seed: "DEADbeef", valid: true},
		{seed: crypto.SimulationClientSeed(7), valid: true},
		{seed: "", valid: false},
		{seed: "abc", valid: false},
		{seed: "0x00", valid: false},
		{seed: "gg", valid: false},
		{seed: "ab:cd", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.seed, func(t *testing.T) {
			t.Parallel()

			err := crypto.ValidateClientSeed(tt.seed)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, crypto.ErrMalformedSeed)
			}
		})
	}
}
