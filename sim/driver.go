package sim

import (
	"context"
	"fmt"
	"log"
	"time"

	"goCrashSim/config"
	"goCrashSim/game"
	"goCrashSim/state"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// chunksPerThread splits a batch finer than the thread count so a slow
// worker does not hold up the rest of the batch.
const chunksPerThread = 4

// Options controls a simulation run.
type Options struct {
	BetMode   string
	NumSims   int
	Threads   int
	BatchSize int
}

func OptionsFromSettings(s config.Settings) Options {
	return Options{
		BetMode:   s.BetMode,
		NumSims:   s.NumSims,
		Threads:   s.Threads,
		BatchSize: s.BatchSize,
	}
}

// Sink receives finished books batch by batch, in round index order.
type Sink interface {
	WriteBatch(ctx context.Context, runID string, books []*state.Book) error
}

// CreateBooks runs rounds 0..NumSims-1 through runner. Rounds inside a batch
// are computed in parallel; books are always handed to sinks in index order.
func CreateBooks(ctx context.Context, runner game.RoundRunner, opts Options, sinks ...Sink) (*Summary, error) {
	mode, ok := config.BetModeByName(opts.BetMode)
	if !ok {
		return nil, fmt.Errorf("unknown bet mode %q", opts.BetMode)
	}
	if opts.Threads < 1 || opts.BatchSize < 1 {
		return nil, fmt.Errorf("threads and batch size must be positive, got %d and %d", opts.Threads, opts.BatchSize)
	}

	runID := uuid.NewString()
	summary := newSummary(runID, mode)
	wins := state.NewWinManager()
	started := time.Now()

	log.Printf("🎰 Starting run %s - mode: %s, sims: %d, threads: %d, batch: %d",
		runID, mode.Name, opts.NumSims, opts.Threads, opts.BatchSize)

	for start := 0; start < opts.NumSims; start += opts.BatchSize {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run %s cancelled at round %d: %w", runID, start, err)
		}

		end := min(start+opts.BatchSize, opts.NumSims)
		outcomes, err := runBatch(ctx, runner, int64(start), int64(end), opts.Threads)
		if err != nil {
			return nil, fmt.Errorf("run %s failed: %w", runID, err)
		}

		books := make([]*state.Book, len(outcomes))
		for i, rec := range outcomes {
			book, err := state.NewBookFromOutcome(rec)
			if err != nil {
				return nil, fmt.Errorf("failed to build book for round %d: %w", rec.RoundIndex, err)
			}
			books[i] = book

			wins.UpdateSpinWin(rec.PayoutMultiplier)
			wins.UpdateGameTypeWins(rec.Criteria)
			summary.add(rec)
		}

		for _, sink := range sinks {
			if err := sink.WriteBatch(ctx, runID, books); err != nil {
				return nil, fmt.Errorf("failed to write batch %d-%d: %w", start, end-1, err)
			}
		}

		log.Printf("📦 Batch %d-%d done (%d/%d)", start, end-1, end, opts.NumSims)
	}

	summary.finish(wins.Totals())

	log.Printf("✅ Run %s finished in %s - rounds: %d, observed RTP: %.4f",
		runID, time.Since(started).Round(time.Millisecond), summary.Rounds, summary.ObservedRTP)
	return summary, nil
}

// runBatch executes rounds [start, end) and returns them indexed from start.
func runBatch(ctx context.Context, runner game.RoundRunner, start, end int64, threads int) ([]game.OutcomeRecord, error) {
	out := make([]game.OutcomeRecord, end-start)
	n := len(out)
	if n == 0 {
		return out, nil
	}

	chunk := max(1, n/(threads*chunksPerThread))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)

	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				index := start + int64(i)
				rec, err := runner.ExecuteRound(index)
				if err != nil {
					return fmt.Errorf("round %d: %w", index, err)
				}
				out[i] = rec
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
