package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"goCrashSim/config"
	"goCrashSim/crypto"
	"goCrashSim/db"
	"goCrashSim/game"
)

/* =========================
   REQUEST/RESPONSE TYPES
========================= */

// VerifyRequest carries the published inputs of a round. RTP defaults to
// the game's RTP when omitted; CrashPoint is optional and, when given, is
// compared. SeedHash, when given, must be the SHA-256 commitment published
// for the client seed before the round.
type VerifyRequest struct {
	RoundID    string   `json:"roundId"`
	ClientSeed string   `json:"clientSeed"`
	Nonce      uint64   `json:"nonce"`
	RTP        *float64 `json:"rtp,omitempty"`
	CrashPoint *float64 `json:"crashPoint,omitempty"`
	SeedHash   string   `json:"seedHash,omitempty"`
}

type VerifyResponse struct {
	Success       bool    `json:"success"`
	Valid         bool    `json:"valid"`
	CrashPoint    float64 `json:"crashPoint"`
	SourceHash    string  `json:"sourceHash"`
	Commitment    string  `json:"commitment"`
	SeedCommitted *bool   `json:"seedCommitted,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

/* =========================
   VERIFICATION ENDPOINT
========================= */

// HandleVerify recomputes a round's crash point from its inputs
// POST /api/verify
func HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	body := http.MaxBytesReader(w, r.Body, config.MaxRequestBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rtp := config.DefaultRTP
	if req.RTP != nil {
		rtp = *req.RTP
	}

	seed := game.RoundSeed{
		RoundID:    req.RoundID,
		ClientSeed: req.ClientSeed,
		Nonce:      req.Nonce,
	}

	var claimed float64
	if req.CrashPoint != nil {
		claimed = *req.CrashPoint
	}

	result, matches, err := game.VerifyRound(seed, rtp, claimed)
	if errors.Is(err, game.ErrInvalidInput) {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Printf("❌ Failed to verify round %s: %v", req.RoundID, err)
		sendError(w, http.StatusInternalServerError, "Failed to verify round")
		return
	}

	// Without a claimed value there is nothing to contradict.
	valid := req.CrashPoint == nil || matches

	var seedCommitted *bool
	if req.SeedHash != "" {
		committed := crypto.VerifySeed(req.ClientSeed, req.SeedHash)
		seedCommitted = &committed
		valid = valid && committed
	}

	log.Printf("✅ Round verified - RoundID: %s, CrashPoint: %.2fx, valid: %t", req.RoundID, result.CrashPoint, valid)

	sendJSON(w, http.StatusOK, VerifyResponse{
		Success:       true,
		Valid:         valid,
		CrashPoint:    result.CrashPoint,
		SourceHash:    result.SourceHash.Hex(),
		Commitment:    seed.Commitment(),
		SeedCommitted: seedCommitted,
	})
}

/* =========================
   HEALTH CHECK ENDPOINT
========================= */

// HandleHealthCheck handles health check requests
// GET /api/health
func HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	redisHealth := "ok"
	if err := db.HealthCheck(ctx); err != nil {
		redisHealth = "error: " + err.Error()
	}

	postgresHealth := "ok"
	if err := db.HealthCheckPostgres(ctx); err != nil {
		postgresHealth = "error: " + err.Error()
	}

	sendJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"redis":    redisHealth,
		"postgres": postgresHealth,
		"message":  "Health check completed",
	})
}

func sendJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

func sendError(w http.ResponseWriter, statusCode int, message string) {
	sendJSON(w, statusCode, ErrorResponse{
		Success: false,
		Error:   message,
	})
}
