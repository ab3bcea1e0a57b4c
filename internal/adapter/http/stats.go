package httpadapter

import (
	"net/http"
	"time"

	"pocket-market/internal/core/port"
)

// handleStatsOverview returns aggregated impression counts over a
// specified period. It accepts optional `from`, `to` (RFC3339 timestamps)
// and `boost_id` query parameters. If no period is provided, it defaults to
// the last 24 hours. Invalid parameters result in HTTP 400.
func (h *Handler) handleStatsOverview(w http.ResponseWriter, r *http.Request) {
	if callerID(r) == "" {
		h.writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required"})
		return
	}

	var (
		q       = r.URL.Query()
		fromStr = q.Get("from")
		toStr   = q.Get("to")
		req     port.StatsReq
		err     error
	)

	if fromStr != "" {
		req.From, err = time.Parse(time.RFC3339, fromStr)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid 'from' timestamp"})
			return
		}
	} else {
		req.From = time.Now().Add(-24 * time.Hour)
	}

	if toStr != "" {
		req.To, err = time.Parse(time.RFC3339, toStr)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid 'to' timestamp"})
			return
		}
	} else {
		req.To = time.Now()
	}

	if id := q.Get("boost_id"); id != "" {
		req.BoostID = &id
	}

	stats, err := h.svc.ImpressionStats(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}
