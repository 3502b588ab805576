package config

import "time"

/* =========================
   GAME MECHANICS - CRASH
========================= */

const (
	GameID  = "crash_game"
	WinType = "other"

	// Crash point bounds
	MinCrashPoint       = 0.10
	WinCap              = 99.99
	CrashPointPrecision = 2

	// Return to player, as a fraction
	DefaultRTP = 0.97

	// Round derivation in simulation mode
	SimRoundPrefix = "sim_"
	NonceModulus   = 1_000_000

	// Game types used for win bookkeeping and book criteria
	BaseGameType = "basegame"
	FreeGameType = "freegame"
)

/* =========================
   BET MODES
========================= */

// Distribution is a slice of a bet mode's simulations that share a criteria.
type Distribution struct {
	Criteria string  `json:"criteria"`
	Quota    float64 `json:"quota"`
}

// BetMode describes one way of playing the game.
type BetMode struct {
	Name              string         `json:"name"`
	Cost              float64        `json:"cost"`
	RTP               float64        `json:"rtp"`
	MaxWin            float64        `json:"maxWin"`
	AutoCloseDisabled bool           `json:"autoCloseDisabled"`
	IsFeature         bool           `json:"isFeature"`
	IsBuyBonus        bool           `json:"isBuyBonus"`
	Distributions     []Distribution `json:"distributions"`
}

const DefaultBetMode = "base"

// RandomClientSeed asks for a freshly generated client seed.
const RandomClientSeed = "random"

// BetModes lists the game's bet modes. Crash has a single base mode.
var BetModes = []BetMode{
	{
		Name:       DefaultBetMode,
		Cost:       1.0,
		RTP:        DefaultRTP,
		MaxWin:     WinCap,
		IsFeature:  true,
		IsBuyBonus: false,
		Distributions: []Distribution{
			{Criteria: BaseGameType, Quota: 1.0},
		},
	},
}

/* =========================
   SIMULATION DEFAULTS
========================= */

const (
	DefaultNumSims   = 10_000
	DefaultThreads   = 20
	DefaultBatchSize = 50_000
	DefaultOutputDir = "library"

	// Histogram bucket edges for run summaries
	SummaryBucketWidth = 1.0
)

/* =========================
   REDIS CONFIGURATION
========================= */

const (
	// Run summary TTL
	// Key: crash:run:{runId}
	RunSummaryTTL = 24 * time.Hour

	// Most recent crash points kept in the list
	// Key: crash:recent
	MaxRecentCrashPoints = 50

	RedisRunSummaryKey    = "crash:run:%s"
	RedisRecentCrashKey   = "crash:recent"
	RedisDefaultAddr      = "localhost:6379"
	RedisPoolSize         = 10
	RedisMinIdleConns     = 5
	RedisDialTimeout      = 5 * time.Second
	RedisReadWriteTimeout = 3 * time.Second
)

/* =========================
   POSTGRESQL CONFIGURATION
========================= */

const (
	MaxConns        = 25
	MinConns        = 5
	ConnMaxLifetime = 5 * time.Minute
	ConnectTimeout  = 10 * time.Second
)

/* =========================
   BOLT CONFIGURATION
========================= */

const (
	BoltFileName    = "books.db"
	BoltOpenTimeout = 1 * time.Second
)

/* =========================
   API CONFIGURATION
========================= */

const (
	ServerHost = "0.0.0.0"
	ServerPort = "8080"

	AllowOrigin = "*"

	MaxRequestBodyBytes = 64 * 1024
	ReadHeaderTimeout   = 5 * time.Second
)
