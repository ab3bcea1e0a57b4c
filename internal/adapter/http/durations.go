package httpadapter

import "net/http"

// handleDurations lists the purchasable boost tiers. Works anonymously;
// with a caller identity the response also carries the Pro flag and
// free-boost availability so the purchase dialog can preselect.
func (h *Handler) handleDurations(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.DurationTiers(r.Context(), callerID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// handleStatus reports the caller's free-boost entitlement, including the
// countdown to the next reset when today's free boost is spent.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	userID := callerID(r)
	if userID == "" {
		h.writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required"})
		return
	}
	resp, err := h.svc.BoostStatus(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// handleRules returns the carousel constants clients show in help text.
func (h *Handler) handleRules(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.Rules())
}
