package controller

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HandleApplyDailyOlpDepositPoints triggers the daily deposit job outside
// its schedule. Re-running within the same day is a no-op thanks to the day
// flag.
func (c *Controller) HandleApplyDailyOlpDepositPoints(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	if err := c.App.Jobs.ApplyDailyOlpDepositPoints(r.Context(), now); err != nil {
		c.App.Logger.Error("Manual daily deposit job failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "daily deposit job failed")
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]string{"status": "applied"})
}

// HandleApplyWeeklyRewardPoints triggers the weekly reward distribution
// outside its schedule.
func (c *Controller) HandleApplyWeeklyRewardPoints(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	if err := c.App.Jobs.ApplyWeeklyRewardPoints(r.Context(), now); err != nil {
		c.App.Logger.Error("Manual weekly reward job failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "weekly reward job failed")
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]string{"status": "applied"})
}
