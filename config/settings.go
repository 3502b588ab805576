package config

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidSettings = errors.New("invalid settings")

// Settings holds the values a simulation or server run is started with.
// Connection strings for Postgres and Redis are read from the environment by
// the db package.
type Settings struct {
	RTP         float64
	NumSims     int
	Threads     int
	BatchSize   int
	Compression bool
	OutputDir   string
	BetMode     string

	// ClientSeed switches the executor to production mode when set. The value
	// RandomClientSeed generates a fresh seed for the run.
	ClientSeed string

	ServerAddr string
}

func DefaultSettings() Settings {
	return Settings{
		RTP:        DefaultRTP,
		NumSims:    DefaultNumSims,
		Threads:    DefaultThreads,
		BatchSize:  DefaultBatchSize,
		OutputDir:  DefaultOutputDir,
		BetMode:    DefaultBetMode,
		ServerAddr: ServerHost + ":" + ServerPort,
	}
}

func (s Settings) Validate() error {
	var problems []string

	if !(s.RTP > 0 && s.RTP <= 1) {
		problems = append(problems, fmt.Sprintf("rtp %v must be in (0, 1]", s.RTP))
	}
	if s.NumSims < 0 {
		problems = append(problems, fmt.Sprintf("num-sims %d must not be negative", s.NumSims))
	}
	if s.Threads < 1 {
		problems = append(problems, fmt.Sprintf("threads %d must be at least 1", s.Threads))
	}
	if s.BatchSize < 1 {
		problems = append(problems, fmt.Sprintf("batch-size %d must be at least 1", s.BatchSize))
	}
	if _, ok := BetModeByName(s.BetMode); !ok {
		problems = append(problems, fmt.Sprintf("unknown bet mode %q", s.BetMode))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(problems, "; "))
	}
	return nil
}

func BetModeByName(name string) (BetMode, bool) {
	for _, mode := range BetModes {
		if mode.Name == name {
			return mode, true
		}
	}
	return BetMode{}, false
}
