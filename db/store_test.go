package db

import (
	"context"
	"fmt"
	"os"
	"testing"

	"goCrashSim/config"
	"goCrashSim/game"
	"goCrashSim/sim"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustExecutor(t *testing.T) *game.RoundExecutor {
	t.Helper()

	executor, err := game.NewRoundExecutor(nil, game.ExecutorConfig{})
	require.NoError(t, err)
	return executor
}

func loadTestEnv() {
	// A missing .env is fine; the variables may come from the environment.
	_ = godotenv.Load("../.env")
}

func TestStoresWithoutConnections(t *testing.T) {
	ctx := context.Background()

	record, err := GetRound(ctx, "run", 0)
	require.NoError(t, err)
	assert.Nil(t, record)

	summary, err := GetRunSummary(ctx, "run")
	require.NoError(t, err)
	assert.Nil(t, summary)

	points, err := GetRecentCrashPoints(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, points)

	assert.NoError(t, StoreRoundBatch(ctx, "run", executeBooks(t, 0)))
	assert.Error(t, HealthCheckPostgres(ctx))
	assert.Error(t, HealthCheck(ctx))
}

func TestPostgresRoundArchive(t *testing.T) {
	loadTestEnv()
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set")
	}

	if err := InitPostgres(); err != nil {
		t.Fatalf("Failed to init postgres: %v", err)
	}
	defer func() {
		ClosePostgres()
		PostgresPool = nil
	}()

	ctx := context.Background()
	runID := "test-" + uuid.NewString()
	defer func() {
		_, _ = PostgresPool.Exec(ctx, "DELETE FROM crash_rounds WHERE run_id = $1", runID)
		_, _ = PostgresPool.Exec(ctx, "DELETE FROM sim_runs WHERE run_id = $1", runID)
	}()

	books := executeBooks(t, 0, 5, 10, 200)
	require.NoError(t, PostgresSink{}.WriteBatch(ctx, runID, books))

	t.Run("GetRound", func(t *testing.T) {
		record, err := GetRound(ctx, runID, 200)
		require.NoError(t, err)
		require.NotNil(t, record)

		assert.Equal(t, 3.18, record.CrashPoint)
		assert.Equal(t, "sim_200", record.RoundID)
		assert.Equal(t, books[3].Fairness.SourceHash.Hex(), record.SourceHash)
		assert.Equal(t, books[3].Seed(), record.Seed())
	})

	t.Run("GetRunRounds", func(t *testing.T) {
		records, err := GetRunRounds(ctx, runID, 3)
		require.NoError(t, err)
		require.Len(t, records, 3)

		assert.Equal(t, int64(0), records[0].RoundIndex)
		assert.Equal(t, int64(5), records[1].RoundIndex)
		assert.Equal(t, int64(10), records[2].RoundIndex)
	})

	t.Run("StoreRun", func(t *testing.T) {
		summary, err := sim.CreateBooks(ctx, mustExecutor(t), sim.Options{
			BetMode: config.DefaultBetMode, NumSims: 10, Threads: 2, BatchSize: 10,
		})
		require.NoError(t, err)

		summary.RunID = runID
		require.NoError(t, StoreRun(ctx, summary))
	})
}

func TestRedisRunCache(t *testing.T) {
	loadTestEnv()
	if os.Getenv("REDIS_URL") == "" {
		t.Skip("REDIS_URL not set")
	}

	if err := InitRedis(); err != nil {
		t.Fatalf("Failed to init redis: %v", err)
	}
	defer func() {
		CloseRedis()
		RedisClient = nil
	}()

	ctx := context.Background()

	summary, err := sim.CreateBooks(ctx, mustExecutor(t), sim.Options{
		BetMode: config.DefaultBetMode, NumSims: 20, Threads: 2, BatchSize: 10,
	}, RedisSink{})
	require.NoError(t, err)
	defer RedisClient.Del(ctx, fmt.Sprintf(config.RedisRunSummaryKey, summary.RunID))

	require.NoError(t, CacheRunSummary(ctx, summary))

	cached, err := GetRunSummary(ctx, summary.RunID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, summary.Rounds, cached.Rounds)
	assert.InDelta(t, summary.TotalPayout, cached.TotalPayout, 1e-9)

	// The last batch holds rounds 10..19; newest is pushed last so it comes first.
	points, err := GetRecentCrashPoints(ctx, 1)
	require.NoError(t, err)
	require.Len(t, points, 1)

	books := executeBooks(t, 19)
	assert.Equal(t, books[0].CrashPoint(), points[0])
}
