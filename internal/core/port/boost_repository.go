package port

import (
	"context"
	"time"

	"pocket-market/internal/core/domain"
)

// ActiveBoost pairs an active boost with the listing fields the selection
// engine filters on. The join happens in the repository so selection does
// not issue one lookup per candidate.
type ActiveBoost struct {
	Boost   domain.Boost
	Listing domain.Listing
}

// BoostRepository is the outbound persistence port for the boost subsystem.
// Implementations must be safe for concurrent use. The per-listing active
// slot is guarded twice: callers pre-check through ActiveBoosts, and the
// store itself rejects a second active row per listing. InsertBoost and
// InsertFreeBoost surface that rejection as domain.ErrAlreadyBoosted.
type BoostRepository interface {
	// InsertBoost stores a new boost row.
	InsertBoost(ctx context.Context, b *domain.Boost) error
	// InsertFreeBoost stores a free boost and marks the owner's daily
	// free-boost quota as consumed for day, atomically. Neither half may
	// commit without the other.
	InsertFreeBoost(ctx context.Context, b *domain.Boost, userID, day string) error
	// ActiveBoosts returns all boosts with status=active and ends_at after
	// now, oldest creation first, with their listings joined in.
	ActiveBoosts(ctx context.Context, now time.Time) ([]ActiveBoost, error)
	// ExpireStale transitions active boosts whose window has elapsed to
	// expired. Idempotent; returns the number of rows transitioned.
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
	// AdvanceRotation atomically advances the shared rotation cursor by
	// step modulo total and returns the window start position (the cursor
	// value before the advance).
	AdvanceRotation(ctx context.Context, step, total int) (int, error)
	// RecordImpressions appends impression rows.
	RecordImpressions(ctx context.Context, imps []domain.Impression) error
	// ImpressionStats aggregates the impression log over a period.
	ImpressionStats(ctx context.Context, req StatsReq) (*StatsResp, error)

	// GetUser returns a user by id, or nil when absent.
	GetUser(ctx context.Context, id string) (*domain.User, error)
	// GetListing returns a listing by id, or nil when absent.
	GetListing(ctx context.Context, id string) (*domain.Listing, error)

	// GetPaymentCustomer returns the cached billing identity for a user,
	// or "" when none is stored.
	GetPaymentCustomer(ctx context.Context, userID string) (string, error)
	// SavePaymentCustomer stores a user's billing identity. Idempotent.
	SavePaymentCustomer(ctx context.Context, userID, customerID string) error
}

// StatsReq selects the impression-log period to aggregate. BoostID narrows
// the aggregation to one boost when non-nil.
type StatsReq struct {
	From    time.Time
	To      time.Time
	BoostID *string
}

// StatsResp is the aggregated impression count for a period.
type StatsResp struct {
	Impressions   int64
	UniqueViewers int64
}
