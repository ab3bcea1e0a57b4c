package httpadapter

import (
	"encoding/json"
	"net/http"

	"pocket-market/internal/core/port"
)

// handleActivateFree grants the caller's daily free boost to one of their
// listings. Expected failures (not Pro, quota spent, slot occupied) come
// back as structured errors the client renders, including the reset
// countdown on 429.
func (h *Handler) handleActivateFree(w http.ResponseWriter, r *http.Request) {
	userID := callerID(r)
	if userID == "" {
		h.writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required"})
		return
	}

	var req struct {
		ListingID string `json:"listing_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ListingID == "" {
		h.writeJSON(w, http.StatusBadRequest, errorBody{Error: "listing_id required"})
		return
	}

	boost, err := h.svc.ActivateFreeBoost(r.Context(), userID, req.ListingID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, struct {
		OK    bool               `json:"ok"`
		Boost *port.BoostSummary `json:"boost"`
	}{true, boost})
}

// handleCreateCheckout opens a payment-collection session for a paid boost
// and returns the provider's redirect URL. The boost itself is only created
// when the provider confirms payment.
func (h *Handler) handleCreateCheckout(w http.ResponseWriter, r *http.Request) {
	userID := callerID(r)
	if userID == "" {
		h.writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required"})
		return
	}

	var req struct {
		ListingID string `json:"listing_id"`
		Hours     int    `json:"hours"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ListingID == "" {
		h.writeJSON(w, http.StatusBadRequest, errorBody{Error: "listing_id and hours required"})
		return
	}

	url, err := h.svc.StartCheckout(r.Context(), userID, req.ListingID, req.Hours)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, struct {
		URL string `json:"url"`
	}{url})
}
