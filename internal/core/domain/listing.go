package domain

import "time"

// Listing is the read-only view of a marketplace listing this subsystem
// needs: ownership for permission checks, sold/draft flags for filtering,
// and a few display fields for the carousel payload. Listing CRUD lives in
// an external collaborator.
type Listing struct {
	ID         string
	SellerID   string
	Title      string
	PriceCents int64
	IsSold     bool
	IsDraft    bool
	CreatedAt  time.Time
}

// Displayable reports whether the listing may appear in the carousel.
// Sold and draft listings are skipped silently during selection.
func (l *Listing) Displayable() bool {
	return !l.IsSold && !l.IsDraft
}
