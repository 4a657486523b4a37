package controller

import (
	"net/http"
	"time"
)

// HandleLeaderboard returns the all-time top 50 and the current-week top 50
// with estimated rewards from the in-progress weekly pool.
func (c *Controller) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := c.App.Queries.Leaderboard(r.Context(), time.Now())
	if err != nil {
		c.writeError(w, http.StatusInternalServerError, "leaderboard query failed")
		return
	}

	c.writeJSON(w, http.StatusOK, board)
}
