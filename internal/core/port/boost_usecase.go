package port

import (
	"context"
	"time"
)

// BoostUseCase is the primary port into the boost subsystem. All operations
// that depend on active-boost state run the lazy expiry sweep first, so
// callers always observe a wall-clock-consistent view.
type BoostUseCase interface {
	// Featured selects the carousel batch and records one impression per
	// selected boost. An empty batch is a normal outcome, not an error.
	// viewerID may be nil for anonymous viewers.
	Featured(ctx context.Context, viewerID *string) ([]FeaturedListing, error)

	// DurationTiers lists the purchasable paid tiers. When userID is
	// non-empty the response also carries the caller's Pro flag and
	// free-boost availability.
	DurationTiers(ctx context.Context, userID string) (*TiersResp, error)

	// BoostStatus reports the caller's free-boost entitlement state.
	BoostStatus(ctx context.Context, userID string) (*BoostStatusResp, error)

	// Rules returns the carousel constants clients render in help text.
	Rules() *RulesResp

	// ActivateFreeBoost grants the caller's daily free boost to one of
	// their listings. Errors: domain.ErrForbidden, domain.ErrProRequired,
	// *domain.RateLimitedError, domain.ErrAlreadyBoosted,
	// domain.ErrListingNotFound.
	ActivateFreeBoost(ctx context.Context, userID, listingID string) (*BoostSummary, error)

	// StartCheckout opens a payment-collection session for a paid boost
	// and returns the redirect URL. No boost row is created yet. Errors:
	// domain.ErrForbidden, domain.ErrAlreadyBoosted,
	// domain.ErrInvalidDuration, domain.ErrPriceNotConfigured,
	// domain.ErrListingNotFound.
	StartCheckout(ctx context.Context, userID, listingID string, hours int) (string, error)

	// ConfirmPayment handles the asynchronous confirmation callback from
	// the payment provider. The payload is untrusted until its signature
	// verifies (domain.ErrBadSignature otherwise). A confirmation for a
	// slot that is no longer free is logged and dropped, never granted
	// twice.
	ConfirmPayment(ctx context.Context, payload []byte, signature string) error

	// ImpressionStats aggregates the impression log over a period.
	ImpressionStats(ctx context.Context, req StatsReq) (*StatsResp, error)
}

// FeaturedListing is one carousel slot: the boosted listing's id plus the
// denormalized summary the home page renders.
type FeaturedListing struct {
	ListingID  string    `json:"listing_id"`
	Title      string    `json:"title"`
	PriceCents int64     `json:"price_cents"`
	SellerID   string    `json:"seller_id"`
	BoostType  string    `json:"boost_type"`
	BoostEnds  time.Time `json:"boost_ends_at"`
}

// DurationTier is one purchasable boost duration with its price.
type DurationTier struct {
	Label      string `json:"label"`
	Hours      int    `json:"hours"`
	PriceCents int64  `json:"price_cents"`
}

// TiersResp is the response of DurationTiers. IsPro and FreeBoostAvailable
// are only meaningful when the request carried a caller identity.
type TiersResp struct {
	Tiers              []DurationTier `json:"durations"`
	IsPro              bool           `json:"is_pro"`
	FreeBoostAvailable bool           `json:"free_boost_available"`
}

// BoostStatusResp reports a caller's free-boost entitlement.
type BoostStatusResp struct {
	IsPro              bool   `json:"is_pro"`
	FreeBoostAvailable bool   `json:"free_boost_available"`
	CountdownSeconds   int64  `json:"countdown_seconds"`
	LastUsedDay        string `json:"last_used_day,omitempty"`
}

// RulesResp lists the carousel constants.
type RulesResp struct {
	CarouselSlots  int `json:"carousel_slots"`
	PerSellerCap   int `json:"per_seller_cap"`
	PaidWeight     int `json:"paid_weight"`
	FreeWeight     int `json:"free_weight"`
	FreeBoostHours int `json:"free_boost_hours"`
}

// BoostSummary describes a freshly created boost.
type BoostSummary struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	EndsAt    time.Time `json:"ends_at"`
	Hours     int       `json:"hours"`
	Type      string    `json:"type"`
}
