package controller

import (
	"net/http"

	"github.com/ayggdrasil/options-trading-base-sub001/app/points/types"
)

func (c *Controller) HandleHealth(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (c *Controller) HandleReady(w http.ResponseWriter, r *http.Request) {
	if err := c.App.Redis.Health(r.Context()); err != nil {
		c.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "errored", "error": "redis connection error"})
		return
	}
	c.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleStatus reports the most recent outcome of each scheduled job.
func (c *Controller) HandleStatus(w http.ResponseWriter, r *http.Request) {
	runs := map[string]*types.JobRun{}
	c.App.JobRuns.Range(func(name string, run *types.JobRun) bool {
		runs[name] = run
		return true
	})
	c.writeJSON(w, http.StatusOK, runs)
}
