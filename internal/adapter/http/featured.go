package httpadapter

import (
	"net/http"

	"pocket-market/internal/core/port"
)

// handleFeatured returns the current carousel batch. Anonymous requests are
// fine; a caller identity only affects the viewer recorded on impressions.
// An empty carousel is a normal 200 with an empty list.
func (h *Handler) handleFeatured(w http.ResponseWriter, r *http.Request) {
	var viewerID *string
	if id := callerID(r); id != "" {
		viewerID = &id
	}

	batch, err := h.svc.Featured(r.Context(), viewerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	ids := make([]string, 0, len(batch))
	for _, f := range batch {
		ids = append(ids, f.ListingID)
	}
	h.writeJSON(w, http.StatusOK, struct {
		FeaturedListingIDs []string               `json:"featured_listing_ids"`
		Listings           []port.FeaturedListing `json:"listings"`
	}{ids, batch})
}
