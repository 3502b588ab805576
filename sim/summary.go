package sim

import (
	"math"
	"sort"
	"time"

	"goCrashSim/config"
	"goCrashSim/game"
	"goCrashSim/state"
)

// histogramBuckets caps the histogram; everything above lands in the last bucket.
const histogramBuckets = 100

type HistogramBucket struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int64   `json:"count"`
}

// Summary describes a finished simulation run.
type Summary struct {
	RunID     string    `json:"runId"`
	BetMode   string    `json:"betMode"`
	Cost      float64   `json:"cost"`
	TargetRTP float64   `json:"targetRtp"`
	CreatedAt time.Time `json:"createdAt"`

	Rounds        int64   `json:"rounds"`
	TotalPayout   float64 `json:"totalPayout"`
	AveragePayout float64 `json:"averagePayout"`
	ObservedRTP   float64 `json:"observedRtp"`
	HitRate       float64 `json:"hitRate"`
	MinCrashPoint float64 `json:"minCrashPoint"`
	MaxCrashPoint float64 `json:"maxCrashPoint"`
	WinCapHits    int64   `json:"winCapHits"`
	FloorHits     int64   `json:"floorHits"`

	Wins      state.WinTotals   `json:"wins"`
	Histogram []HistogramBucket `json:"histogram"`

	hits    int64
	buckets map[int]int64
}

func newSummary(runID string, mode config.BetMode) *Summary {
	return &Summary{
		RunID:         runID,
		BetMode:       mode.Name,
		Cost:          mode.Cost,
		TargetRTP:     mode.RTP,
		CreatedAt:     time.Now().UTC(),
		MinCrashPoint: math.Inf(1),
		buckets:       make(map[int]int64),
	}
}

func (s *Summary) add(rec game.OutcomeRecord) {
	s.Rounds++
	s.TotalPayout += rec.PayoutMultiplier

	if rec.PayoutMultiplier >= 1.0 {
		s.hits++
	}
	if rec.CrashPoint < s.MinCrashPoint {
		s.MinCrashPoint = rec.CrashPoint
	}
	if rec.CrashPoint > s.MaxCrashPoint {
		s.MaxCrashPoint = rec.CrashPoint
	}
	if rec.CrashPoint >= config.WinCap {
		s.WinCapHits++
	}
	if rec.CrashPoint <= config.MinCrashPoint {
		s.FloorHits++
	}

	bucket := min(int(rec.CrashPoint/config.SummaryBucketWidth), histogramBuckets-1)
	s.buckets[bucket]++
}

func (s *Summary) finish(wins state.WinTotals) {
	s.Wins = wins

	if s.Rounds == 0 {
		s.MinCrashPoint = 0
		return
	}

	s.AveragePayout = s.TotalPayout / float64(s.Rounds)
	s.ObservedRTP = s.TotalPayout / (float64(s.Rounds) * s.Cost)
	s.HitRate = float64(s.hits) / float64(s.Rounds)

	keys := make([]int, 0, len(s.buckets))
	for k := range s.buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	s.Histogram = make([]HistogramBucket, 0, len(keys))
	for _, k := range keys {
		s.Histogram = append(s.Histogram, HistogramBucket{
			Lower: float64(k) * config.SummaryBucketWidth,
			Upper: float64(k+1) * config.SummaryBucketWidth,
			Count: s.buckets[k],
		})
	}
}
