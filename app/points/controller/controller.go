package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ayggdrasil/options-trading-base-sub001/app/points/types"
)

type Controller struct {
	App *types.App
}

// NewController returns a new controller.
func NewController(app *types.App) *Controller {
	return &Controller{
		App: app,
	}
}

// NewRouter returns a new router with all the routes defined in this file.
func (c *Controller) NewRouter() (*mux.Router, error) {
	r := mux.NewRouter()

	r.Handle("/healthz", http.HandlerFunc(c.HandleHealth)).Methods(http.MethodGet)
	r.Handle("/readyz", http.HandlerFunc(c.HandleReady)).Methods(http.MethodGet)
	r.Handle("/status", http.HandlerFunc(c.HandleStatus)).Methods(http.MethodGet)

	r.HandleFunc("/v1/leaderboard", c.HandleLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/v1/users/{address}/points", c.HandleUserPointInfo).Methods(http.MethodGet)

	// Manual triggers mirroring the scheduled invocations.
	r.HandleFunc("/v1/jobs/olp-deposit-points", c.HandleApplyDailyOlpDepositPoints).Methods(http.MethodPost)
	r.HandleFunc("/v1/jobs/weekly-reward-points", c.HandleApplyWeeklyRewardPoints).Methods(http.MethodPost)

	return r, nil
}

// WithCORS is a middleware that adds CORS headers to the response.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", http.MethodGet+", "+http.MethodPost+", "+http.MethodOptions)

		// Fast-path the preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeJSON writes data as a JSON response
func (c *Controller) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response
func (c *Controller) writeError(w http.ResponseWriter, statusCode int, message string) {
	c.writeJSON(w, statusCode, map[string]string{"error": message})
}
