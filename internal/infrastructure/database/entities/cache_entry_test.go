package entities

import (
	"testing"
	"time"
)

func TestCacheEntryExpired(t *testing.T) {
	now := time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"future expiry", now.Add(time.Minute), false},
		{"exact boundary", now, true},
		{"past expiry", now.Add(-time.Minute), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry := CacheEntry{ExpiresAt: tc.expiresAt}
			if got := entry.Expired(now); got != tc.want {
				t.Errorf("Expired() = %v, want %v", got, tc.want)
			}
		})
	}
}
