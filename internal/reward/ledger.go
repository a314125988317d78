package reward

import "time"

// DefaultPeriod is how long points accumulate before the total resets
const DefaultPeriod = 7 * 24 * time.Hour

// Ledger accumulates points over a fixed period
type Ledger struct {
	PeriodStart time.Time
	Total       int64
}

// DayStart truncates t to local midnight
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Expired reports whether the current period has run its course at now
func (l *Ledger) Expired(now time.Time, period time.Duration) bool {
	return !l.PeriodStart.IsZero() && now.Sub(l.PeriodStart) >= period
}

// Roll starts a new, empty period when the current one has expired. It
// reports whether a rollover happened.
func (l *Ledger) Roll(now time.Time, period time.Duration) bool {
	if !l.Expired(now, period) {
		return false
	}
	l.PeriodStart = DayStart(now)
	l.Total = 0
	return true
}

// Add credits points, first starting a new period when the old one has
// expired. It reports whether a rollover happened.
func (l *Ledger) Add(now time.Time, period time.Duration, points int64) bool {
	if l.PeriodStart.IsZero() {
		l.PeriodStart = DayStart(now)
	}
	rolled := l.Roll(now, period)
	l.Total += points
	return rolled
}
