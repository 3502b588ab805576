package config_test

import (
	"testing"

	"goCrashSim/config"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettingsValid(t *testing.T) {
	t.Parallel()

	assert.NoError(t, config.DefaultSettings().Validate())
}

func TestSettingsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*config.Settings)
	}{
		{name: "zero rtp", modify: func(s *config.Settings) { s.RTP = 0 }},
		{name: "percentage rtp", modify: func(s *config.Settings) { s.RTP = 97 }},
		{name: "negative sims", modify: func(s *config.Settings) { s.NumSims = -1 }},
		{name: "no threads", modify: func(s *config.Settings) { s.Threads = 0 }},
		{name: "no batch", modify: func(s *config.Settings) { s.BatchSize = 0 }},
		{name: "unknown mode", modify: func(s *config.Settings) { s.BetMode = "bonus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			settings := config.DefaultSettings()
			tt.modify(&settings)
			assert.ErrorIs(t, settings.Validate(), config.ErrInvalidSettings)
		})
	}
}

func TestBetModeByName(t *testing.T) {
	t.Parallel()

	mode, ok := config.BetModeByName("base")
	assert.True(t, ok)
	assert.Equal(t, 1.0, mode.Cost)
	assert.Equal(t, config.WinCap, mode.MaxWin)
	assert.Equal(t, []config.Distribution{{Criteria: config.BaseGameType, Quota: 1.0}}, mode.Distributions)

	_, ok = config.BetModeByName("missing")
	assert.False(t, ok)
}
