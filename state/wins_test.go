package state_test

import (
	"sync"
	"testing"

	"goCrashSim/config"
	"goCrashSim/state"

	"github.com/stretchr/testify/assert"
)

func TestWinManager(t *testing.T) {
	t.Parallel()

	wins := state.NewWinManager()

	wins.UpdateSpinWin(1.5)
	wins.UpdateGameTypeWins(config.BaseGameType)

	wins.UpdateSpinWin(0)
	wins.UpdateGameTypeWins(config.BaseGameType)

	wins.UpdateSpinWin(0.25)
	wins.UpdateGameTypeWins(config.FreeGameType)

	totals := wins.Totals()
	assert.Equal(t, 1.5, totals.BaseGameWins)
	assert.Equal(t, 0.25, totals.FreeGameWins)
	assert.Equal(t, 1.75, totals.TotalWins)
	assert.Equal(t, int64(3), totals.Spins)
}

func TestWinManagerConcurrent(t *testing.T) {
	t.Parallel()

	wins := state.NewWinManager()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wins.UpdateSpinWin(1)
		}()
	}
	wg.Wait()
	wins.UpdateGameTypeWins(config.BaseGameType)

	assert.Equal(t, 100.0, wins.Totals().BaseGameWins)
}
