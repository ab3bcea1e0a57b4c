package domain

import "time"

// BoostStatus describes the lifecycle state of a boost. Boosts move from
// active to expired when their window elapses (swept lazily) or to canceled
// on explicit cancelation. Rows are never deleted while the listing exists.
type BoostStatus string

const (
	BoostActive   BoostStatus = "active"
	BoostExpired  BoostStatus = "expired"
	BoostCanceled BoostStatus = "canceled"
)

// BoostType is a closed variant over the two kinds of boost. Weight and
// default duration are derived from the type so a new variant cannot be
// added without deciding both.
type BoostType string

const (
	BoostPaid    BoostType = "paid"
	BoostFreePro BoostType = "free_pro"
)

// Carousel weight of this boost type. Paid boosts contribute three pool
// entries for every one of a free boost.
func (t BoostType) Weight() int {
	switch t {
	case BoostPaid:
		return 3
	case BoostFreePro:
		return 1
	default:
		return 0
	}
}

// DefaultDurationHours returns the duration applied when the caller does
// not pick a tier. Free boosts are always 24 hours.
func (t BoostType) DefaultDurationHours() int {
	switch t {
	case BoostFreePro:
		return 24
	default:
		return 24
	}
}

// DurationTiers lists the purchasable paid durations in hours.
var DurationTiers = []int{24, 72, 168}

// ValidDuration reports whether hours is a purchasable tier.
func ValidDuration(hours int) bool {
	for _, h := range DurationTiers {
		if h == hours {
			return true
		}
	}
	return false
}

// Boost is a time-boxed grant of featured placement for one listing. At
// most one boost per listing may be active and unexpired at any instant;
// the storage layer backs this with a partial unique index.
type Boost struct {
	ID            string
	ListingID     string
	StartsAt      time.Time
	EndsAt        time.Time
	Status        BoostStatus
	DurationHours int
	PaidCents     int64
	Type          BoostType
	CreatedAt     time.Time
}

// ActiveAt reports whether the boost counts as active at the given instant,
// regardless of whether the expiry sweep has caught up with it yet.
func (b *Boost) ActiveAt(now time.Time) bool {
	return b.Status == BoostActive && b.EndsAt.After(now)
}
