package market

import (
	"time"
)

// Cache TTLs keyed off US equity trading hours. A single simplified
// calendar is used for TTL selection; per-index open state uses the
// index's own timezone below.
const (
	MarketHoursTTL = 30 * time.Second
	OffHoursTTL    = 5 * time.Minute
)

// IsMarketHours reports whether t falls within US equity market hours,
// Monday-Friday 14:30-21:00 UTC. Holidays and early closes are ignored.
func IsMarketHours(t time.Time) bool {
	utc := t.UTC()
	switch utc.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	minuteOfDay := utc.Hour()*60 + utc.Minute()
	return minuteOfDay >= 14*60+30 && minuteOfDay < 21*60
}

// TTLFor returns the cache TTL appropriate for time t.
func TTLFor(t time.Time) time.Duration {
	if IsMarketHours(t) {
		return MarketHoursTTL
	}
	return OffHoursTTL
}

// IsMarketOpen reports whether an exchange in the given IANA timezone is
// open at time t, using a simplified Mon-Fri 09:00-17:00 local-time rule.
// Unknown timezones report closed rather than erroring.
func IsMarketOpen(timezone string, t time.Time) bool {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return false
	}

	local := t.In(loc)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	return local.Hour() >= 9 && local.Hour() < 17
}
