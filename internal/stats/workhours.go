package stats

import "time"

const clockLayout = "15:04"

// WorkHours derives the available work hours for a day from its wake-up and
// sleep times (HH:mm). A sleep time numerically before the wake-up time means
// sleeping past midnight, so the sleep instant is advanced by one day before
// differencing. The result is truncated to whole hours. ok is false when
// either time is missing or malformed: "no schedule configured", not a
// meaningful zero.
func WorkHours(wakeUp, sleep string, onDate time.Time) (hours int, ok bool) {
	if wakeUp == "" || sleep == "" {
		return 0, false
	}
	wakeAt, err := parseClock(wakeUp, onDate)
	if err != nil {
		return 0, false
	}
	sleepAt, err := parseClock(sleep, onDate)
	if err != nil {
		return 0, false
	}
	if sleepAt.Before(wakeAt) {
		sleepAt = sleepAt.AddDate(0, 0, 1)
	}
	return int(sleepAt.Sub(wakeAt).Hours()), true
}

// Productivity computes the completed-time share of the available work hours
// as a percentage. Zero work hours yields zero (not an error). The result is
// deliberately NOT capped at 100: completing more than the modeled work hours
// reports >100%, and display/persistence paths clamp where needed.
func Productivity(completedMinutes int64, workHours int) float64 {
	if workHours == 0 {
		return 0
	}
	completedHours := float64(completedMinutes) / 60
	return completedHours / float64(workHours) * 100
}

// ClampPercent bounds a percentage to at most 100 for display and snapshot
// persistence. The raw ratio stays unclamped inside the core.
func ClampPercent(v float64) float64 {
	if v > 100 {
		return 100
	}
	return v
}

// UntilSleep returns the time remaining from now until the next occurrence of
// the sleep time. A sleep instant already past rolls to tomorrow. ok is false
// when sleepTime is missing or malformed.
func UntilSleep(sleepTime string, now time.Time) (time.Duration, bool) {
	if sleepTime == "" {
		return 0, false
	}
	now = now.UTC()
	at, err := parseClock(sleepTime, now)
	if err != nil {
		return 0, false
	}
	if at.Before(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at.Sub(now), true
}

func parseClock(value string, onDate time.Time) (time.Time, error) {
	t, err := time.Parse(clockLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(onDate.Year(), onDate.Month(), onDate.Day(),
		t.Hour(), t.Minute(), 0, 0, onDate.Location()), nil
}
