package sim

import (
	"fmt"
	"io"

	"goCrashSim/game"
)

// BatchStat is the outcome of one quick check batch.
type BatchStat struct {
	Batch      int
	Rounds     int
	Hits       int
	AverageWin float64
}

// QuickBatches runs a few small consecutive batches and prints one line per
// batch. It is a sanity check, not a substitute for CreateBooks.
func QuickBatches(out io.Writer, runner game.RoundRunner, batches, size int) ([]BatchStat, error) {
	fmt.Fprintf(out, "Running %d batches of %d rounds each...\n\n", batches, size)

	stats := make([]BatchStat, 0, batches)
	for batch := 0; batch < batches; batch++ {
		stat := BatchStat{Batch: batch + 1, Rounds: size}
		var total float64

		for i := 0; i < size; i++ {
			rec, err := runner.ExecuteRound(int64(batch*size + i))
			if err != nil {
				return nil, err
			}
			total += rec.PayoutMultiplier
			if rec.PayoutMultiplier >= 1.0 {
				stat.Hits++
			}
		}

		if size > 0 {
			stat.AverageWin = total / float64(size)
		}
		stats = append(stats, stat)

		fmt.Fprintf(out, "Batch %d: hits %d/%d | Avg win: %.3fx | RTP: %.1f%%\n",
			stat.Batch, stat.Hits, stat.Rounds, stat.AverageWin, stat.AverageWin*100)
	}

	return stats, nil
}
