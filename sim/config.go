package sim

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"goCrashSim/config"
)

// GameConfigFileName is written next to the books of a run.
const GameConfigFileName = "config.json"

// GameConfig describes the game and its bet modes for whoever loads the books.
type GameConfig struct {
	GameID   string           `json:"gameId"`
	WinType  string           `json:"winType"`
	WinCap   float64          `json:"wincap"`
	RTP      float64          `json:"rtp"`
	BetModes []config.BetMode `json:"betModes"`
}

// NewGameConfig returns the game's configuration for a run at rtp. Every bet
// mode reports the run's RTP.
func NewGameConfig(rtp float64) GameConfig {
	modes := make([]config.BetMode, len(config.BetModes))
	copy(modes, config.BetModes)
	for i := range modes {
		modes[i].RTP = rtp
	}

	return GameConfig{
		GameID:   config.GameID,
		WinType:  config.WinType,
		WinCap:   config.WinCap,
		RTP:      rtp,
		BetModes: modes,
	}
}

// WriteGameConfig writes config.json for a run at rtp into dir and returns
// its path.
func WriteGameConfig(dir string, rtp float64) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	data, err := json.MarshalIndent(NewGameConfig(rtp), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal game config: %w", err)
	}

	path := filepath.Join(dir, GameConfigFileName)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to write game config: %w", err)
	}
	return path, nil
}
