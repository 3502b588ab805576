package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"goCrashSim/api"
	"goCrashSim/config"
	"goCrashSim/crypto"
	"goCrashSim/db"
	"goCrashSim/game"
	"goCrashSim/sim"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables")
	} else {
		log.Println("✅ Loaded environment variables from .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defaults := config.DefaultSettings()

	cmd := &cli.Command{
		Name:  "crashsim",
		Usage: "provably fair crash rounds: simulate, verify and serve audits",
		Commands: []*cli.Command{
			{
				Name:  "simulate",
				Usage: "simulate rounds and write books",
				Flags: []cli.Flag{
					rtpFlag(defaults.RTP),
					&cli.IntFlag{
						Name:    "num-sims",
						Value:   defaults.NumSims,
						Sources: cli.EnvVars("CRASH_NUM_SIMS"),
					},
					&cli.IntFlag{
						Name:    "threads",
						Value:   defaults.Threads,
						Sources: cli.EnvVars("CRASH_THREADS"),
					},
					&cli.IntFlag{
						Name:    "batch-size",
						Value:   defaults.BatchSize,
						Sources: cli.EnvVars("CRASH_BATCH_SIZE"),
					},
					&cli.BoolFlag{
						Name:    "compression",
						Value:   true,
						Sources: cli.EnvVars("CRASH_COMPRESSION"),
					},
					&cli.StringFlag{
						Name:    "output-dir",
						Value:   defaults.OutputDir,
						Sources: cli.EnvVars("CRASH_OUTPUT_DIR"),
					},
					&cli.StringFlag{
						Name:    "bet-mode",
						Value:   defaults.BetMode,
						Sources: cli.EnvVars("CRASH_BET_MODE"),
					},
					&cli.StringFlag{
						Name:    "client-seed",
						Usage:   "use this hex client seed for every round instead of simulation seeds, or \"random\" to generate one",
						Sources: cli.EnvVars("CRASH_CLIENT_SEED"),
					},
				},
				Action: runSimulate,
			},
			{
				Name:  "verify",
				Usage: "recompute the crash point of one round",
				Flags: []cli.Flag{
					rtpFlag(defaults.RTP),
					&cli.StringFlag{Name: "round-id", Required: true},
					&cli.StringFlag{Name: "client-seed", Required: true},
					&cli.Uint64Flag{Name: "nonce"},
					&cli.FloatFlag{Name: "crash-point", Usage: "claimed crash point to compare against"},
					&cli.StringFlag{Name: "seed-hash", Usage: "published sha256 commitment of the client seed"},
				},
				Action: runVerify,
			},
			{
				Name:  "quick",
				Usage: "run a few small batches and print their RTP",
				Flags: []cli.Flag{
					rtpFlag(defaults.RTP),
					&cli.IntFlag{Name: "batches", Value: 5},
					&cli.IntFlag{Name: "size", Value: 100},
				},
				Action: runQuick,
			},
			{
				Name:  "serve",
				Usage: "serve the fairness audit API",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Value:   defaults.ServerAddr,
						Sources: cli.EnvVars("CRASH_SERVER_ADDR"),
					},
					&cli.StringFlag{
						Name:    "data-dir",
						Usage:   "directory holding the local book archive",
						Value:   defaults.OutputDir,
						Sources: cli.EnvVars("CRASH_OUTPUT_DIR"),
					},
				},
				Action: runServe,
			},
		},
		DefaultCommand: "simulate",
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal("❌ ", err)
	}
}

func rtpFlag(value float64) cli.Flag {
	return &cli.FloatFlag{
		Name:    "rtp",
		Value:   value,
		Sources: cli.EnvVars("CRASH_RTP"),
	}
}

func newExecutor(settings config.Settings) (*game.RoundExecutor, error) {
	cfg := game.ExecutorConfig{RTP: &settings.RTP}

	switch settings.ClientSeed {
	case "":
	case config.RandomClientSeed:
		seeds, hash, err := game.NewRandomClientSeed()
		if err != nil {
			return nil, err
		}
		cfg.Seeds = seeds
		log.Printf("🔐 Generated client seed, commitment hash: %s", hash)
		log.Printf("   Reveal after the run: %s", seeds.Seed())
	default:
		seeds, err := game.NewFixedClientSeed(settings.ClientSeed)
		if err != nil {
			return nil, err
		}
		cfg.Seeds = seeds
		log.Println("🔐 Using externally supplied client seed")
	}

	return game.NewRoundExecutor(game.NewFairnessEngine(), cfg)
}

func runSimulate(ctx context.Context, cmd *cli.Command) error {
	settings := config.DefaultSettings()
	settings.RTP = cmd.Float("rtp")
	settings.NumSims = cmd.Int("num-sims")
	settings.Threads = cmd.Int("threads")
	settings.BatchSize = cmd.Int("batch-size")
	settings.Compression = cmd.Bool("compression")
	settings.OutputDir = cmd.String("output-dir")
	settings.BetMode = cmd.String("bet-mode")
	settings.ClientSeed = cmd.String("client-seed")

	if err := settings.Validate(); err != nil {
		return err
	}

	executor, err := newExecutor(settings)
	if err != nil {
		return err
	}

	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()

	books, err := sim.NewBookWriter(settings.OutputDir, settings.BetMode, settings.Compression)
	if err != nil {
		return err
	}
	closers = append(closers, books)

	lookup, err := sim.NewLookupTableWriter(settings.OutputDir, settings.BetMode)
	if err != nil {
		return err
	}
	closers = append(closers, lookup)

	store, err := db.OpenBookStore(settings.OutputDir)
	if err != nil {
		return err
	}
	closers = append(closers, store)

	sinks := []sim.Sink{books, lookup, store}

	if os.Getenv("DATABASE_URL") != "" {
		if err := db.InitPostgres(); err != nil {
			log.Printf("⚠️  Warning: PostgreSQL initialization failed: %v", err)
			log.Println("   Rounds will not be archived")
		} else {
			defer db.ClosePostgres()
			sinks = append(sinks, db.PostgresSink{})
		}
	}

	if os.Getenv("REDIS_URL") != "" {
		if err := db.InitRedis(); err != nil {
			log.Printf("⚠️  Warning: Redis initialization failed: %v", err)
		} else {
			defer db.CloseRedis()
			sinks = append(sinks, db.RedisSink{})
		}
	}

	summary, err := sim.CreateBooks(ctx, executor, sim.OptionsFromSettings(settings), sinks...)
	if err != nil {
		return err
	}

	// Flush the files before reporting success.
	pending := closers
	closers = nil
	var closeErrs []error
	for _, c := range pending {
		closeErrs = append(closeErrs, c.Close())
	}
	if err := errors.Join(closeErrs...); err != nil {
		return fmt.Errorf("failed to finish output files: %w", err)
	}

	configPath, err := sim.WriteGameConfig(settings.OutputDir, executor.RTP())
	if err != nil {
		return err
	}

	if err := db.StoreRun(ctx, summary); err != nil {
		log.Printf("⚠️  Warning: %v", err)
	}
	if err := db.CacheRunSummary(ctx, summary); err != nil {
		log.Printf("⚠️  Warning: %v", err)
	}

	log.Printf("📁 Books: %s", books.Path())
	log.Printf("📁 Lookup table: %s", lookup.Path())
	log.Printf("📁 Game config: %s", configPath)

	return printJSON(summary)
}

func runVerify(_ context.Context, cmd *cli.Command) error {
	seed := game.RoundSeed{
		RoundID:    cmd.String("round-id"),
		ClientSeed: cmd.String("client-seed"),
		Nonce:      cmd.Uint64("nonce"),
	}

	claimed := cmd.Float("crash-point")
	result, matches, err := game.VerifyRound(seed, cmd.Float("rtp"), claimed)
	if err != nil {
		return err
	}

	fmt.Printf("Commitment:  %s\n", seed.Commitment())
	fmt.Printf("Source hash: %s\n", result.SourceHash.Hex())
	fmt.Printf("Crash point: %.2fx\n", result.CrashPoint)

	if cmd.IsSet("crash-point") {
		if !matches {
			return fmt.Errorf("claimed crash point %.2fx does not match %.2fx", claimed, result.CrashPoint)
		}
		fmt.Println("✅ Claimed crash point verified")
	}

	if hash := cmd.String("seed-hash"); hash != "" {
		if !crypto.VerifySeed(seed.ClientSeed, hash) {
			return fmt.Errorf("client seed does not match commitment hash %s", hash)
		}
		fmt.Println("✅ Client seed matches its commitment hash")
	}
	return nil
}

func runQuick(_ context.Context, cmd *cli.Command) error {
	rtp := cmd.Float("rtp")
	executor, err := game.NewRoundExecutor(game.NewFairnessEngine(), game.ExecutorConfig{RTP: &rtp})
	if err != nil {
		return err
	}

	_, err = sim.QuickBatches(os.Stdout, executor, cmd.Int("batches"), cmd.Int("size"))
	return err
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	if err := db.InitPostgres(); err != nil {
		log.Printf("⚠️  Warning: PostgreSQL initialization failed: %v", err)
		log.Println("   Round lookups will be disabled")
	}
	defer db.ClosePostgres()

	if err := db.InitRedis(); err != nil {
		log.Printf("⚠️  Warning: Redis initialization failed: %v", err)
		log.Println("   Run summaries will be disabled")
	}
	defer db.CloseRedis()

	if err := db.InitBookStore(cmd.String("data-dir")); err != nil {
		log.Printf("⚠️  Warning: local book archive unavailable: %v", err)
	}
	defer db.CloseBookStore()

	server := &http.Server{
		Addr:              cmd.String("addr"),
		Handler:           api.NewRouter(),
		ReadHeaderTimeout: config.ReadHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		log.Println("🛑 Shutting down server...")
		server.Shutdown(context.Background())
	}()

	log.Printf("🚀 Server starting on %s", server.Addr)
	log.Println("")
	log.Println("🔌 API Endpoints:")
	log.Println("   POST /api/verify - Recompute a round's crash point")
	log.Println("   GET  /api/runs/{runID} - Get a simulation run summary")
	log.Println("   GET  /api/runs/{runID}/rounds/{index} - Get an archived round (PostgreSQL, then local archive)")
	log.Println("   GET  /api/health - Health check (Redis + PostgreSQL)")
	log.Println("")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
