package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"goCrashSim/config"
	"goCrashSim/sim"
	"goCrashSim/state"

	"github.com/redis/go-redis/v9"
)

var (
	// RedisClient is the global Redis client instance
	RedisClient *redis.Client
)

// InitRedis initializes the Redis client connection
func InitRedis() error {
	log.Println("🔌 Connecting to Redis...")

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = config.RedisDefaultAddr
	}

	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			redisDB = db
		}
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:         redisURL,
		Password:     redisPassword,
		DB:           redisDB,
		DialTimeout:  config.RedisDialTimeout,
		ReadTimeout:  config.RedisReadWriteTimeout,
		WriteTimeout: config.RedisReadWriteTimeout,
		PoolSize:     config.RedisPoolSize,
		MinIdleConns: config.RedisMinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), config.RedisDialTimeout)
	defer cancel()

	if err := RedisClient.Ping(ctx).Err(); err != nil {
		RedisClient.Close()
		RedisClient = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Printf("✅ Redis connected successfully - URL: %s", redisURL)
	return nil
}

// CloseRedis closes the Redis connection
func CloseRedis() error {
	if RedisClient != nil {
		log.Println("🔌 Closing Redis connection...")
		return RedisClient.Close()
	}
	return nil
}

/* =========================
   RUN SUMMARIES
   Redis Key: crash:run:{runId} -> JSON summary
========================= */

// CacheRunSummary stores a run summary for quick lookup by the audit API
func CacheRunSummary(ctx context.Context, summary *sim.Summary) error {
	if RedisClient == nil {
		return nil
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	key := fmt.Sprintf(config.RedisRunSummaryKey, summary.RunID)
	if err := RedisClient.Set(ctx, key, data, config.RunSummaryTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache run summary: %w", err)
	}

	return nil
}

// GetRunSummary retrieves a cached run summary, or nil if it is not cached
func GetRunSummary(ctx context.Context, runID string) (*sim.Summary, error) {
	if RedisClient == nil {
		return nil, nil
	}

	data, err := RedisClient.Get(ctx, fmt.Sprintf(config.RedisRunSummaryKey, runID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run summary: %w", err)
	}

	var summary sim.Summary
	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run summary: %w", err)
	}

	return &summary, nil
}

/* =========================
   RECENT CRASH POINTS
   Redis Key: crash:recent -> List (newest first)
========================= */

// PushRecentCrashPoints prepends crash points and trims the list
func PushRecentCrashPoints(ctx context.Context, points []float64) error {
	if RedisClient == nil || len(points) == 0 {
		return nil
	}

	values := make([]any, len(points))
	for i, p := range points {
		values[i] = strconv.FormatFloat(p, 'f', config.CrashPointPrecision, 64)
	}

	_, err := RedisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, config.RedisRecentCrashKey, values...)
		pipe.LTrim(ctx, config.RedisRecentCrashKey, 0, config.MaxRecentCrashPoints-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to push recent crash points: %w", err)
	}

	return nil
}

// GetRecentCrashPoints returns up to limit crash points, newest first
func GetRecentCrashPoints(ctx context.Context, limit int) ([]float64, error) {
	if RedisClient == nil {
		return []float64{}, nil
	}

	data, err := RedisClient.LRange(ctx, config.RedisRecentCrashKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get recent crash points: %w", err)
	}

	points := make([]float64, 0, len(data))
	for _, s := range data {
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid crash point %q: %w", s, err)
		}
		points = append(points, p)
	}

	return points, nil
}

// RedisSink keeps the recent crash point list up to date during a run
type RedisSink struct{}

var _ sim.Sink = RedisSink{}

// WriteBatch pushes only the tail of the batch that can survive the trim.
func (RedisSink) WriteBatch(ctx context.Context, _ string, books []*state.Book) error {
	if len(books) > config.MaxRecentCrashPoints {
		books = books[len(books)-config.MaxRecentCrashPoints:]
	}

	points := make([]float64, len(books))
	for i, book := range books {
		points[i] = book.CrashPoint()
	}
	return PushRecentCrashPoints(ctx, points)
}

/* =========================
   HEALTH CHECK
========================= */

// HealthCheck performs a Redis health check
func HealthCheck(ctx context.Context) error {
	if RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}
	return RedisClient.Ping(ctx).Err()
}
