package stats

import (
	"github.com/sadopc/flowtrack/internal/store"
)

// DayTotals holds summed task minutes for one calendar day, split by
// completion state.
type DayTotals struct {
	CompletedMinutes int64
	PendingMinutes   int64
}

// Aggregate folds tasks into per-date minute totals. The bucket key is the
// date portion of each task's creation timestamp, taken verbatim with no
// timezone conversion. Dates with no tasks are absent from the map; callers
// iterating a full window must treat a missing key as zero. Record order does
// not affect the result.
func Aggregate(tasks []store.Task) map[string]DayTotals {
	totals := make(map[string]DayTotals)
	for _, t := range tasks {
		date := t.CreatedAt.Format(DateLayout)
		dt := totals[date]
		if t.Completed {
			dt.CompletedMinutes += t.Duration
		} else {
			dt.PendingMinutes += t.Duration
		}
		totals[date] = dt
	}
	return totals
}
