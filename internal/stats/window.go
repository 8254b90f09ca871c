// Package stats holds the productivity aggregation core: time windows,
// per-day duration bucketing, work-hour and productivity math, weekly
// ranking, and the end-of-day snapshot persister.
package stats

import "time"

// Period selects the aggregation window.
type Period int

const (
	Weekly Period = iota
	Monthly
)

// Window is a contiguous span of calendar days starting at Start.
type Window struct {
	Start time.Time
	Days  int
}

// monthlyDays is fixed at 30 regardless of the actual month length; the
// monthly view is a rolling 30-slot chart, not a true calendar month.
const monthlyDays = 30

// ResolveWindow computes the bucket window containing reference. Weekly
// windows start on the Monday of the ISO week; monthly windows start on the
// first of the month and always span 30 days. The reference is normalized to
// UTC so window dates line up with the store's UTC timestamps.
func ResolveWindow(p Period, reference time.Time) Window {
	reference = reference.UTC()
	day := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, time.UTC)

	switch p {
	case Monthly:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return Window{Start: start, Days: monthlyDays}
	default:
		weekday := day.Weekday()
		if weekday == time.Sunday {
			weekday = 7
		}
		start := day.AddDate(0, 0, -int(weekday-time.Monday))
		return Window{Start: start, Days: 7}
	}
}

// End returns the exclusive end of the window.
func (w Window) End() time.Time {
	return w.Start.AddDate(0, 0, w.Days)
}

// Dates returns the YYYY-MM-DD keys of every day in the window, in order.
func (w Window) Dates() []string {
	dates := make([]string, w.Days)
	for i := 0; i < w.Days; i++ {
		dates[i] = w.Start.AddDate(0, 0, i).Format(DateLayout)
	}
	return dates
}

// WeekWindow returns the Monday-start week containing reference, shifted back
// by weeksAgo whole weeks.
func WeekWindow(reference time.Time, weeksAgo int) Window {
	w := ResolveWindow(Weekly, reference)
	w.Start = w.Start.AddDate(0, 0, -7*weeksAgo)
	return w
}

// DateLayout is the calendar-day key format used throughout the core.
const DateLayout = "2006-01-02"
