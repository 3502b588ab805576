package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"goCrashSim/config"
	"goCrashSim/game"
	"goCrashSim/sim"
	"goCrashSim/state"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// PostgresPool is the global PostgreSQL connection pool
	PostgresPool *pgxpool.Pool
)

// RoundRecord is an archived round as stored in crash_rounds.
type RoundRecord struct {
	RunID            string    `json:"runId"`
	RoundIndex       int64     `json:"roundIndex"`
	RoundID          string    `json:"roundId"`
	ClientSeed       string    `json:"clientSeed"`
	Nonce            int64     `json:"nonce"`
	CrashPoint       float64   `json:"crashPoint"`
	PayoutMultiplier float64   `json:"payoutMultiplier"`
	SourceHash       string    `json:"sourceHash"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Seed returns the committed inputs of the archived round.
func (r *RoundRecord) Seed() game.RoundSeed {
	return game.RoundSeed{
		RoundID:    r.RoundID,
		ClientSeed: r.ClientSeed,
		Nonce:      uint64(r.Nonce),
	}
}

// InitPostgres initializes the PostgreSQL connection pool
func InitPostgres() error {
	log.Println("🔌 Connecting to PostgreSQL...")

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.ConnectTimeout)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = config.MaxConns
	poolConfig.MinConns = config.MinConns
	poolConfig.MaxConnLifetime = config.ConnMaxLifetime

	PostgresPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := PostgresPool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ PostgreSQL connected successfully")

	if err := InitSchema(context.Background()); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// ClosePostgres closes the PostgreSQL connection pool
func ClosePostgres() {
	if PostgresPool != nil {
		log.Println("🔌 Closing PostgreSQL connection...")
		PostgresPool.Close()
	}
}

// InitSchema creates the database tables if they don't exist
func InitSchema(ctx context.Context) error {
	log.Println("📋 Initializing database schema...")

	simRunsSchema := `
	CREATE TABLE IF NOT EXISTS sim_runs (
		run_id TEXT PRIMARY KEY,
		bet_mode TEXT NOT NULL,
		target_rtp DOUBLE PRECISION NOT NULL,
		rounds BIGINT NOT NULL,
		observed_rtp DOUBLE PRECISION NOT NULL,
		summary JSONB NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_sim_runs_created_at ON sim_runs(created_at DESC);
	`

	if _, err := PostgresPool.Exec(ctx, simRunsSchema); err != nil {
		return fmt.Errorf("failed to create sim_runs table: %w", err)
	}

	crashRoundsSchema := `
	CREATE TABLE IF NOT EXISTS crash_rounds (
		run_id TEXT NOT NULL,
		round_index BIGINT NOT NULL,
		round_id TEXT NOT NULL,
		client_seed TEXT NOT NULL,
		nonce BIGINT NOT NULL,
		crash_point DOUBLE PRECISION NOT NULL,
		payout_multiplier DOUBLE PRECISION NOT NULL,
		source_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		PRIMARY KEY (run_id, round_index)
	);

	CREATE INDEX IF NOT EXISTS idx_crash_rounds_round_id ON crash_rounds(round_id);
	`

	if _, err := PostgresPool.Exec(ctx, crashRoundsSchema); err != nil {
		return fmt.Errorf("failed to create crash_rounds table: %w", err)
	}

	log.Println("✅ Database schema initialized")
	return nil
}

/* =========================
   SIMULATION RUNS
========================= */

// StoreRun stores a finished run's summary
func StoreRun(ctx context.Context, summary *sim.Summary) error {
	if PostgresPool == nil {
		log.Println("⚠️  PostgreSQL not initialized, skipping run storage")
		return nil
	}

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	query := `
		INSERT INTO sim_runs
		(run_id, bet_mode, target_rtp, rounds, observed_rtp, summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (run_id) DO NOTHING
	`

	_, err = PostgresPool.Exec(
		ctx,
		query,
		summary.RunID,
		summary.BetMode,
		summary.TargetRTP,
		summary.Rounds,
		summary.ObservedRTP,
		summaryJSON,
		summary.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store run: %w", err)
	}

	log.Printf("✅ Stored run %s - rounds: %d, RTP: %.4f", summary.RunID, summary.Rounds, summary.ObservedRTP)
	return nil
}

/* =========================
   CRASH ROUNDS
========================= */

var crashRoundColumns = []string{
	"run_id", "round_index", "round_id", "client_seed", "nonce",
	"crash_point", "payout_multiplier", "source_hash",
}

// StoreRoundBatch copies a batch of books into crash_rounds
func StoreRoundBatch(ctx context.Context, runID string, books []*state.Book) error {
	if PostgresPool == nil {
		return nil
	}

	rows := make([][]any, 0, len(books))
	for _, book := range books {
		rows = append(rows, []any{
			runID,
			book.ID,
			book.Fairness.RoundID,
			book.Fairness.ClientSeed,
			int64(book.Fairness.Nonce),
			book.CrashPoint(),
			book.PayoutMultiplier,
			book.Fairness.SourceHash.Hex(),
		})
	}

	copied, err := PostgresPool.CopyFrom(ctx, pgx.Identifier{"crash_rounds"}, crashRoundColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to copy crash rounds: %w", err)
	}
	if copied != int64(len(rows)) {
		return fmt.Errorf("copied %d of %d crash rounds", copied, len(rows))
	}

	return nil
}

const roundSelect = `
	SELECT run_id, round_index, round_id, client_seed, nonce,
	       crash_point, payout_multiplier, source_hash, created_at
	FROM crash_rounds
`

func scanRound(row pgx.Row) (*RoundRecord, error) {
	var record RoundRecord
	err := row.Scan(
		&record.RunID,
		&record.RoundIndex,
		&record.RoundID,
		&record.ClientSeed,
		&record.Nonce,
		&record.CrashPoint,
		&record.PayoutMultiplier,
		&record.SourceHash,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetRound retrieves one archived round, or nil if it does not exist
func GetRound(ctx context.Context, runID string, roundIndex int64) (*RoundRecord, error) {
	if PostgresPool == nil {
		return nil, nil
	}

	row := PostgresPool.QueryRow(ctx, roundSelect+" WHERE run_id = $1 AND round_index = $2", runID, roundIndex)
	record, err := scanRound(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get crash round: %w", err)
	}

	return record, nil
}

// GetRunRounds retrieves up to limit rounds of a run in index order
func GetRunRounds(ctx context.Context, runID string, limit int) ([]*RoundRecord, error) {
	if PostgresPool == nil {
		return []*RoundRecord{}, nil
	}

	rows, err := PostgresPool.Query(ctx, roundSelect+" WHERE run_id = $1 ORDER BY round_index LIMIT $2", runID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query crash rounds: %w", err)
	}
	defer rows.Close()

	var records []*RoundRecord
	for rows.Next() {
		record, err := scanRound(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

// PostgresSink archives every book of a run in crash_rounds
type PostgresSink struct{}

var _ sim.Sink = PostgresSink{}

func (PostgresSink) WriteBatch(ctx context.Context, runID string, books []*state.Book) error {
	return StoreRoundBatch(ctx, runID, books)
}

/* =========================
   HEALTH CHECK
========================= */

// HealthCheckPostgres performs a PostgreSQL health check
func HealthCheckPostgres(ctx context.Context) error {
	if PostgresPool == nil {
		return fmt.Errorf("PostgreSQL connection pool not initialized")
	}
	return PostgresPool.Ping(ctx)
}
