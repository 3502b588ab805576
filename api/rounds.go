package api

import (
	"log"
	"net/http"
	"strconv"

	"goCrashSim/db"
	"goCrashSim/sim"
)

type RunResponse struct {
	Success       bool         `json:"success"`
	Summary       *sim.Summary `json:"summary"`
	RecentCrashes []float64    `json:"recentCrashes,omitempty"`
}

type RoundResponse struct {
	Success bool            `json:"success"`
	Round   *db.RoundRecord `json:"round"`
}

// HandleGetRun returns the cached summary of a simulation run
// GET /api/runs/{runID}
func HandleGetRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	runID := r.PathValue("runID")

	summary, err := db.GetRunSummary(ctx, runID)
	if err != nil {
		log.Printf("❌ Failed to get run summary: %v", err)
		sendError(w, http.StatusInternalServerError, "Failed to retrieve run")
		return
	}
	if summary == nil {
		sendError(w, http.StatusNotFound, "Run not found")
		return
	}

	recent, err := db.GetRecentCrashPoints(ctx, 10)
	if err != nil {
		log.Printf("⚠️  Failed to get recent crash points: %v", err)
	}

	sendJSON(w, http.StatusOK, RunResponse{
		Success:       true,
		Summary:       summary,
		RecentCrashes: recent,
	})
}

// HandleGetRound returns one archived round of a run, from PostgreSQL or
// else from the local book archive
// GET /api/runs/{runID}/rounds/{index}
func HandleGetRound(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("runID")

	index, err := strconv.ParseInt(r.PathValue("index"), 10, 64)
	if err != nil || index < 0 {
		sendError(w, http.StatusBadRequest, "Round index must be a non-negative integer")
		return
	}

	record, err := db.GetRound(r.Context(), runID, index)
	if err != nil {
		log.Printf("❌ Failed to get round %s/%d: %v", runID, index, err)
		sendError(w, http.StatusInternalServerError, "Failed to retrieve round")
		return
	}
	if record == nil {
		record, err = db.GetLocalRound(runID, index)
		if err != nil {
			log.Printf("❌ Failed to read local round %s/%d: %v", runID, index, err)
			sendError(w, http.StatusInternalServerError, "Failed to retrieve round")
			return
		}
	}
	if record == nil {
		sendError(w, http.StatusNotFound, "Round not found")
		return
	}

	sendJSON(w, http.StatusOK, RoundResponse{Success: true, Round: record})
}
