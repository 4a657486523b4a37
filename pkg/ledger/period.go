package ledger

import "time"

// PeriodKeyLayout is the calendar-date layout used for week and day bucket keys.
const PeriodKeyLayout = "2006-01-02"

// WeekStart returns the week bucket key for ts: the calendar date of the
// Monday 00:00 UTC that begins the week containing ts. Every timestamp in
// [Monday 00:00, next Monday 00:00) maps to the same key.
func WeekStart(ts time.Time) string {
	t := ts.UTC()
	// Monday-based offset: Monday=0 ... Sunday=6
	offset := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -offset)
	return monday.Format(PeriodKeyLayout)
}

// PrevWeekStart returns the week bucket key for the week before the one
// containing ts. Tier classification and weekly reward distribution both
// read the previous week's buckets.
func PrevWeekStart(ts time.Time) string {
	return WeekStart(ts.UTC().AddDate(0, 0, -7))
}

// Day returns the day bucket key for ts (UTC calendar date). Only the daily
// deposit job's idempotency flag is keyed by day.
func Day(ts time.Time) string {
	return ts.UTC().Format(PeriodKeyLayout)
}
