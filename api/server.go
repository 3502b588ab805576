package api

import (
	"net/http"

	"goCrashSim/config"
)

// NewRouter registers the audit endpoints.
func NewRouter() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/verify", HandleVerify)
	mux.HandleFunc("GET /api/runs/{runID}", HandleGetRun)
	mux.HandleFunc("GET /api/runs/{runID}/rounds/{index}", HandleGetRound)
	mux.HandleFunc("GET /api/health", HandleHealthCheck)

	return corsMiddleware(mux)
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = config.AllowOrigin
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		// Handle preflight OPTIONS request
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		handler.ServeHTTP(w, r)
	})
}
