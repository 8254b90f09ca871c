package stats

import (
	"sort"

	"github.com/sadopc/flowtrack/internal/store"
)

// TopWinners is how many entries a historical week keeps.
const TopWinners = 3

// Performance is one user's ranked total for a week.
type Performance struct {
	UserName     string
	TotalSeconds int64
	Position     int // 1-based, strictly sequential
	WeekStart    string
	WeekEnd      string
}

// Rank sums session seconds per user, sorts descending, and assigns strictly
// sequential 1-based positions. Equal totals still get distinct positions;
// the sort is stable, so they keep first-appearance order within the input.
// Users with no sessions in the window are simply absent.
func Rank(sessions []store.FocusSession, w Window) []Performance {
	totals := make(map[string]int64)
	var order []string
	for _, fs := range sessions {
		if _, seen := totals[fs.UserName]; !seen {
			order = append(order, fs.UserName)
		}
		totals[fs.UserName] += fs.Duration
	}

	weekStart := w.Start.Format(DateLayout)
	weekEnd := w.Start.AddDate(0, 0, w.Days-1).Format(DateLayout)

	ranked := make([]Performance, 0, len(order))
	for _, user := range order {
		ranked = append(ranked, Performance{
			UserName:     user,
			TotalSeconds: totals[user],
			WeekStart:    weekStart,
			WeekEnd:      weekEnd,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalSeconds > ranked[j].TotalSeconds
	})
	for i := range ranked {
		ranked[i].Position = i + 1
	}
	return ranked
}

// TopN truncates a ranked list, used for historical ("hall of fame") weeks.
// Current-week queries keep the full set.
func TopN(ranked []Performance, n int) []Performance {
	if len(ranked) <= n {
		return ranked
	}
	return ranked[:n]
}
