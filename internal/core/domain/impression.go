package domain

import "time"

// Impression is an append-only record of a boost being shown in the
// carousel. ViewerID is nil for anonymous viewers. Impressions are never
// mutated or deleted; they exist for analytics.
type Impression struct {
	ID       string
	BoostID  string
	ViewerID *string
	ShownAt  time.Time
}
