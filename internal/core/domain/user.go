package domain

// User is the slice of the user record the boost subsystem reads and
// writes. ProFreeBoostLastUsedDay is a "YYYY-MM-DD" string in the reference
// timezone and is the sole source of truth for whether today's free boost
// has been consumed. Empty means never used.
type User struct {
	ID                      string
	Email                   string
	DisplayName             string
	IsPro                   bool
	ProFreeBoostLastUsedDay string
}

// FreeBoostAvailable reports whether the user may activate a free boost at
// dayString's instant. Only Pro users qualify, at most once per reference
// day.
func (u *User) FreeBoostAvailable(day string) bool {
	return u.IsPro && u.ProFreeBoostLastUsedDay != day
}
