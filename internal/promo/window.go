package promo

import "time"

// IsActiveAt reports whether the special's window covers the provided
// instant. The window is half-open: a special starting exactly at now is
// active, one ending exactly at now is expired. A malformed window
// (StartsAt >= EndsAt, or zero timestamps) never activates.
func IsActiveAt(s Special, now time.Time) bool {
	if s.StartsAt.IsZero() || s.EndsAt.IsZero() {
		return false
	}
	if !s.StartsAt.Before(s.EndsAt) {
		return false
	}
	return !now.Before(s.StartsAt) && now.Before(s.EndsAt)
}

// StatusAt re-derives the lifecycle label from the window timestamps.
// The stored Status field is never consulted. Malformed windows report
// expired so broken campaigns drop out of list filters.
func StatusAt(s Special, now time.Time) Status {
	if s.StartsAt.IsZero() || s.EndsAt.IsZero() || !s.StartsAt.Before(s.EndsAt) {
		return StatusExpired
	}
	switch {
	case now.Before(s.StartsAt):
		return StatusScheduled
	case now.Before(s.EndsAt):
		return StatusActive
	default:
		return StatusExpired
	}
}
