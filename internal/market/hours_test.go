package market

import (
	"testing"
	"time"
)

func TestIsMarketHours(t *testing.T) {
	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"weekday mid-session", time.Date(2024, 3, 6, 16, 0, 0, 0, time.UTC), true},
		{"open boundary inclusive", time.Date(2024, 3, 6, 14, 30, 0, 0, time.UTC), true},
		{"minute before open", time.Date(2024, 3, 6, 14, 29, 0, 0, time.UTC), false},
		{"close boundary exclusive", time.Date(2024, 3, 6, 21, 0, 0, 0, time.UTC), false},
		{"minute before close", time.Date(2024, 3, 6, 20, 59, 0, 0, time.UTC), true},
		{"saturday", time.Date(2024, 3, 9, 16, 0, 0, 0, time.UTC), false},
		{"sunday", time.Date(2024, 3, 10, 16, 0, 0, 0, time.UTC), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsMarketHours(tc.at); got != tc.want {
				t.Errorf("IsMarketHours(%v) = %v, want %v", tc.at, got, tc.want)
			}
		})
	}
}

func TestIsMarketHoursNonUTCInput(t *testing.T) {
	// 10:00 in New York during EST is 15:00 UTC, inside the session.
	est := time.FixedZone("EST", -5*3600)
	at := time.Date(2024, 3, 6, 10, 0, 0, 0, est)
	if !IsMarketHours(at) {
		t.Errorf("expected %v to be within market hours", at)
	}
}

func TestTTLFor(t *testing.T) {
	open := time.Date(2024, 3, 6, 16, 0, 0, 0, time.UTC)
	if got := TTLFor(open); got != MarketHoursTTL {
		t.Errorf("TTLFor during market hours = %v, want %v", got, MarketHoursTTL)
	}

	closed := time.Date(2024, 3, 6, 22, 0, 0, 0, time.UTC)
	if got := TTLFor(closed); got != OffHoursTTL {
		t.Errorf("TTLFor off hours = %v, want %v", got, OffHoursTTL)
	}
}

func TestIsMarketOpen(t *testing.T) {
	// 12:00 UTC Wednesday is 21:00 in Tokyo (closed) and 13:00 in
	// London (open).
	at := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)

	if IsMarketOpen("Asia/Tokyo", at) {
		t.Error("Tokyo should be closed at 21:00 local")
	}
	if !IsMarketOpen("Europe/London", at) {
		t.Error("London should be open at 12:00 local")
	}
	if IsMarketOpen("Not/AZone", at) {
		t.Error("unknown timezone should report closed")
	}

	saturday := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	if IsMarketOpen("Europe/London", saturday) {
		t.Error("weekend should report closed")
	}
}
