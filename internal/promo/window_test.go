package promo

import (
	"testing"
	"time"
)

func TestIsActiveAtHalfOpenBoundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := Special{StartsAt: now, EndsAt: now.Add(time.Hour)}
	if !IsActiveAt(s, now) {
		t.Fatal("special starting exactly now should be active")
	}
	ending := Special{StartsAt: now.Add(-time.Hour), EndsAt: now}
	if IsActiveAt(ending, now) {
		t.Fatal("special ending exactly now should not be active")
	}
}

func TestIsActiveAtMalformedWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cases := []Special{
		{StartsAt: now, EndsAt: now},
		{StartsAt: now.Add(time.Hour), EndsAt: now},
		{},
	}
	for i, s := range cases {
		if IsActiveAt(s, now) {
			t.Fatalf("case %d: malformed window should never be active", i)
		}
	}
}

func TestStatusAtIgnoresStoredLabel(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := Special{
		StartsAt: now.Add(-2 * time.Hour),
		EndsAt:   now.Add(-time.Hour),
		Status:   StatusActive, // stale cache
	}
	if got := StatusAt(s, now); got != StatusExpired {
		t.Fatalf("expected expired, got %s", got)
	}
}

func TestStatusAtLifecycle(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	window := Special{StartsAt: now.Add(time.Hour), EndsAt: now.Add(2 * time.Hour)}
	if got := StatusAt(window, now); got != StatusScheduled {
		t.Fatalf("expected scheduled, got %s", got)
	}
	if got := StatusAt(window, now.Add(90*time.Minute)); got != StatusActive {
		t.Fatalf("expected active, got %s", got)
	}
	if got := StatusAt(window, now.Add(3*time.Hour)); got != StatusExpired {
		t.Fatalf("expected expired, got %s", got)
	}
}
