package domain

import (
	"errors"
	"fmt"
)

// Expected, user-facing outcomes. Handlers map these to structured HTTP
// responses; anything else is treated as an internal failure.
var (
	// ErrForbidden means the caller does not own the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrProRequired means the operation needs a Pro-tier account.
	ErrProRequired = errors.New("pro subscription required")
	// ErrAlreadyBoosted means the listing's active slot is occupied. It is
	// the normal outcome of a lost race and must never be retried
	// automatically.
	ErrAlreadyBoosted = errors.New("listing already has an active boost")
	// ErrListingNotFound means the target listing does not exist.
	ErrListingNotFound = errors.New("listing not found")
	// ErrUserNotFound means the caller's user record does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidDuration means the requested hours are not a known tier.
	ErrInvalidDuration = errors.New("invalid boost duration")
	// ErrPriceNotConfigured means no price is set server-side for the tier.
	ErrPriceNotConfigured = errors.New("boost price not configured")
	// ErrBadSignature means a payment confirmation failed verification.
	ErrBadSignature = errors.New("invalid payment signature")
)

// RateLimitedError is returned when today's free boost is already consumed.
// ResetSeconds tells the caller when the quota resets so a client can
// render a countdown.
type RateLimitedError struct {
	ResetSeconds int64
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("free boost already used today, resets in %ds", e.ResetSeconds)
}
