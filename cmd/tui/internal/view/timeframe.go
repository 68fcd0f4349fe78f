package view

import "time"

// Timeframe narrows ledger rows to a date window.
type Timeframe int

const (
	TimeframeAll Timeframe = iota
	TimeframeThisWeek
	TimeframeLastWeek
	TimeframeThisMonth
	TimeframeLastMonth

	timeframeCount
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeAll:
		return "All Time"
	case TimeframeThisWeek:
		return "This Week"
	case TimeframeLastWeek:
		return "Last Week"
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	}

	return "Unknown"
}

// Next cycles through the timeframes, wrapping back to All.
func (t Timeframe) Next() Timeframe {
	return (t + 1) % timeframeCount
}

// Range returns the half-open [start, end) window around now. ok is false for
// TimeframeAll.
func (t Timeframe) Range(now time.Time) (start, end time.Time, ok bool) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// Weeks start on Monday.
	offset := int(day.Weekday()+6) % 7
	monday := day.AddDate(0, 0, -offset)
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	switch t {
	case TimeframeThisWeek:
		return monday, monday.AddDate(0, 0, 7), true
	case TimeframeLastWeek:
		return monday.AddDate(0, 0, -7), monday, true
	case TimeframeThisMonth:
		return firstOfMonth, firstOfMonth.AddDate(0, 1, 0), true
	case TimeframeLastMonth:
		return firstOfMonth.AddDate(0, -1, 0), firstOfMonth, true
	}

	return time.Time{}, time.Time{}, false
}

// Contains reports whether ts falls inside the timeframe as seen from now.
func (t Timeframe) Contains(ts, now time.Time) bool {
	start, end, ok := t.Range(now)
	if !ok {
		return true
	}

	ts = ts.In(now.Location())

	return !ts.Before(start) && ts.Before(end)
}
