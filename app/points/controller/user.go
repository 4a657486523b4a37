package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ayggdrasil/options-trading-base-sub001/pkg/ledger"
)

// HandleUserPointInfo returns one account's point profile.
func (c *Controller) HandleUserPointInfo(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]
	if address == "" {
		c.writeError(w, http.StatusBadRequest, "missing address")
		return
	}

	info, err := c.App.Queries.UserPointInfo(r.Context(), address, time.Now())
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidAddress) {
			c.writeError(w, http.StatusBadRequest, "invalid address")
			return
		}
		c.writeError(w, http.StatusInternalServerError, "user point query failed")
		return
	}

	c.writeJSON(w, http.StatusOK, info)
}
