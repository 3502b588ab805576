package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"goCrashSim/config"
	"goCrashSim/db"
	"goCrashSim/game"

	"github.com/joho/godotenv"
)

func main() {
	runID := flag.String("run", "", "run id to audit")
	limit := flag.Int("limit", 1000, "maximum rounds to check")
	rtp := flag.Float64("rtp", config.DefaultRTP, "rtp the run was simulated with")
	dataDir := flag.String("data-dir", config.DefaultOutputDir, "local book archive used when DATABASE_URL is not set")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env not found")
	}

	if *runID == "" {
		log.Fatal("-run is required")
	}

	var mismatches, checked int
	if os.Getenv("DATABASE_URL") != "" {
		mismatches, checked = auditPostgres(*runID, *limit, *rtp)
	} else {
		log.Printf("DATABASE_URL not set, auditing local archive in %s", *dataDir)
		mismatches, checked = auditLocal(*dataDir, *runID, *limit, *rtp)
	}

	if mismatches > 0 {
		fmt.Printf("\n❌ %d of %d rounds failed verification\n", mismatches, checked)
		os.Exit(1)
	}
	fmt.Printf("\n✅ All %d rounds verified\n", checked)
}

func auditPostgres(runID string, limit int, rtp float64) (int, int) {
	if err := db.InitPostgres(); err != nil {
		log.Fatalf("Failed to init postgres: %v", err)
	}
	defer db.ClosePostgres()

	records, err := db.GetRunRounds(context.Background(), runID, limit)
	if err != nil {
		log.Fatalf("Failed to load rounds: %v", err)
	}

	fmt.Printf("Auditing %d rounds of run %s...\n", len(records), runID)

	mismatches := 0
	for _, r := range records {
		result, ok, err := game.VerifyRound(r.Seed(), rtp, r.CrashPoint)
		if err != nil {
			fmt.Printf("  #%d %s: %v\n", r.RoundIndex, r.RoundID, err)
			mismatches++
			continue
		}
		if !ok || result.SourceHash.Hex() != r.SourceHash {
			fmt.Printf("  #%d %s: stored %.2fx, recomputed %.2fx\n", r.RoundIndex, r.RoundID, r.CrashPoint, result.CrashPoint)
			mismatches++
		}
	}

	return mismatches, len(records)
}

func auditLocal(dataDir, runID string, limit int, rtp float64) (int, int) {
	store, err := db.OpenBookStore(dataDir)
	if err != nil {
		log.Fatalf("Failed to open local archive: %v", err)
	}
	defer store.Close()

	report, err := store.AuditRun(runID, rtp, limit)
	if err != nil {
		log.Fatalf("Failed to audit run: %v", err)
	}

	fmt.Printf("Audited %d of %d stored rounds of run %s\n", report.Checked, report.Stored, runID)
	for _, index := range report.Failed {
		fmt.Printf("  #%d failed verification\n", index)
	}

	return len(report.Failed), report.Checked
}
