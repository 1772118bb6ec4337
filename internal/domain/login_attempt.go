package domain

import "time"

// LoginAttempt counts failed logins from one client identifier.
type LoginAttempt struct {
	IP             string
	Attempts       int
	FirstAttemptAt time.Time
	LastAttemptAt  time.Time
}

// ExpiredAt reports whether the attempt window that started at FirstAttemptAt
// has elapsed by now. Expired records are treated as absent.
func (a *LoginAttempt) ExpiredAt(now time.Time, window time.Duration) bool {
	return a.FirstAttemptAt.Unix() < now.Add(-window).Unix()
}

// ResetAt is when the window for this record ends.
func (a *LoginAttempt) ResetAt(window time.Duration) time.Time {
	return a.FirstAttemptAt.Add(window)
}
