package domain

import "time"

// The daily free-boost quota resets at midnight in a single fixed-offset
// reference zone so the reset instant is the same for every user. The
// original schema documents the day field as UTC-based, so the offset is
// zero. Not a real IANA zone: no DST shifts, ever.
var resetZone = time.FixedZone("boost-reset", 0)

const daySeconds = 24 * 60 * 60

// ResetDay formats now as the "YYYY-MM-DD" reference day used for the
// free-boost quota.
func ResetDay(now time.Time) string {
	return now.In(resetZone).Format("2006-01-02")
}

// SecondsUntilReset returns the number of seconds until the next reference
// midnight. Exactly at midnight the answer is a full day, not zero: the
// countdown restarts the moment the day rolls over.
func SecondsUntilReset(now time.Time) int64 {
	t := now.In(resetZone)
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, resetZone)
	elapsed := t.Sub(midnight)
	return daySeconds - int64(elapsed.Seconds())
}
