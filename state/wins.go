package state

import (
	"sync"

	"goCrashSim/config"
)

// WinTotals is a snapshot of a WinManager.
type WinTotals struct {
	BaseGameWins float64 `json:"baseGameWins"`
	FreeGameWins float64 `json:"freeGameWins"`
	TotalWins    float64 `json:"totalWins"`
	Spins        int64   `json:"spins"`
}

// WinManager accumulates wins across rounds, split by game type.
type WinManager struct {
	mu sync.Mutex

	spinWin     float64
	gameTypeWin map[string]float64
	spins       int64
}

func NewWinManager() *WinManager {
	return &WinManager{
		gameTypeWin: map[string]float64{
			config.BaseGameType: 0,
			config.FreeGameType: 0,
		},
	}
}

// UpdateSpinWin adds to the win of the round in progress.
func (w *WinManager) UpdateSpinWin(amount float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.spinWin += amount
}

// UpdateGameTypeWins moves the current spin win into the running total for
// gameType and closes the spin.
func (w *WinManager) UpdateGameTypeWins(gameType string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.gameTypeWin[gameType] += w.spinWin
	w.spinWin = 0
	w.spins++
}

func (w *WinManager) Totals() WinTotals {
	w.mu.Lock()
	defer w.mu.Unlock()

	totals := WinTotals{
		BaseGameWins: w.gameTypeWin[config.BaseGameType],
		FreeGameWins: w.gameTypeWin[config.FreeGameType],
		Spins:        w.spins,
	}
	totals.TotalWins = totals.BaseGameWins + totals.FreeGameWins
	return totals
}
