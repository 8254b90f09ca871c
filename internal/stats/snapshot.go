package stats

import (
	"time"

	"github.com/sadopc/flowtrack/internal/store"
)

// DailyBucket is the derived productivity summary for one calendar day. It is
// recomputed on every fetch and only persisted through the snapshot upsert.
type DailyBucket struct {
	Date             string
	CompletedMinutes int64
	PendingMinutes   int64
	WorkHours        int
	Productivity     float64 // unclamped
}

// BuildBucket combines one day's aggregated totals with its sleep schedule.
// scheduled is false when no usable schedule exists for the day; the bucket
// then carries the raw totals with zero hours and zero productivity.
func BuildBucket(date string, totals DayTotals, sched *store.SleepSchedule, onDate time.Time) (b DailyBucket, scheduled bool) {
	b = DailyBucket{
		Date:             date,
		CompletedMinutes: totals.CompletedMinutes,
		PendingMinutes:   totals.PendingMinutes,
	}
	if sched == nil {
		return b, false
	}
	hours, ok := WorkHours(sched.WakeUpTime, sched.SleepTime, onDate)
	if !ok {
		return b, false
	}
	b.WorkHours = hours
	b.Productivity = Productivity(totals.CompletedMinutes, hours)
	return b, true
}

// Persister writes end-of-day productivity snapshots.
type Persister struct {
	Store *store.Store
}

// PersistDay computes today's bucket from the store and upserts the snapshot.
// It reports saved=false (with no error) when the day has no task stats or no
// usable sleep schedule; the snapshot is skipped, not zeroed. Writing twice
// for the same day overwrites. now is normalized to UTC so the snapshot date
// matches the store's task timestamps.
func (p Persister) PersistDay(userName string, now time.Time) (saved bool, err error) {
	now = now.UTC()
	date := now.Format(DateLayout)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	tasks, err := p.Store.ListTasks(store.TaskFilter{UserName: userName, From: &dayStart, To: &dayEnd})
	if err != nil {
		return false, err
	}
	totals, present := Aggregate(tasks)[date]
	if !present {
		return false, nil
	}

	sched, err := p.Store.GetSleepSchedule(userName, date)
	if err != nil {
		return false, err
	}
	bucket, scheduled := BuildBucket(date, totals, sched, now)
	if !scheduled {
		return false, nil
	}

	snap := &store.DailyProductivity{
		UserName:             userName,
		Date:                 date,
		ProductivityPercent:  ClampPercent(bucket.Productivity),
		TotalWorkHours:       float64(bucket.CompletedMinutes) / 60,
		AvailableHours:       int64(bucket.WorkHours),
		CompletedTaskMinutes: bucket.CompletedMinutes,
		PendingTaskMinutes:   bucket.PendingMinutes,
	}
	if err := p.Store.UpsertDailyProductivity(snap); err != nil {
		return false, err
	}
	return true, nil
}

// NearDayEnd reports whether now is within the final minute before 23:59 on
// the UTC clock the rest of the core keeps. A once-a-minute ticker checking
// this fires the persister at most a couple of times per day boundary; the
// upsert makes repeats harmless.
func NearDayEnd(now time.Time) bool {
	now = now.UTC()
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, time.UTC)
	return endOfDay.Sub(now) <= time.Minute
}
