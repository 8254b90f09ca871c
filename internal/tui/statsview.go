package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/flowtrack/internal/stats"
	"github.com/sadopc/flowtrack/internal/store"
)

type statsViewModel struct {
	store    *store.Store
	userName string
	width    int
	height   int

	period  stats.Period
	window  stats.Window
	totals  map[string]stats.DayTotals
	sched   *store.SleepSchedule
	history []store.DailyProductivity

	untilSleep   time.Duration
	hasCountdown bool

	chart barchart.Model

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	wakeTime  *string
	sleepTime *string
}

func newStatsViewModel(s *store.Store) statsViewModel {
	wake, sleep := "", ""
	return statsViewModel{
		store:     s,
		period:    stats.Weekly,
		chart:     barchart.New(60, 12),
		wakeTime:  &wake,
		sleepTime: &sleep,
	}
}

func (v *statsViewModel) setSize(w, h int) {
	v.width = w
	v.height = h
}

func (v *statsViewModel) setUser(name string) {
	v.userName = name
	v.totals = nil
	v.sched = nil
	v.history = nil
}

type statsDataMsg struct {
	window  stats.Window
	totals  map[string]stats.DayTotals
	sched   *store.SleepSchedule
	history []store.DailyProductivity
}

func (v statsViewModel) refresh() tea.Cmd {
	user := v.userName
	period := v.period
	return func() tea.Msg {
		now := time.Now().UTC()
		w := stats.ResolveWindow(period, now)
		start := w.Start
		end := w.End()

		tasks, _ := v.store.ListTasks(store.TaskFilter{UserName: user, From: &start, To: &end})
		totals := stats.Aggregate(tasks)

		today := now.Format(stats.DateLayout)
		sched, _ := v.store.GetSleepSchedule(user, today)

		weekAgo := now.AddDate(0, 0, -7).Format(stats.DateLayout)
		history, _ := v.store.ListDailyProductivity(user, weekAgo)

		return statsDataMsg{window: w, totals: totals, sched: sched, history: history}
	}
}

func (v statsViewModel) update(msg tea.Msg) (statsViewModel, tea.Cmd) {
	if v.formActive && v.form != nil {
		return v.updateForm(msg)
	}

	switch msg := msg.(type) {
	case statsDataMsg:
		v.window = msg.window
		v.totals = msg.totals
		v.sched = msg.sched
		v.history = msg.history
		v.buildChart()
		return v, nil

	case tickMsg:
		v.hasCountdown = false
		if v.sched != nil {
			if d, ok := stats.UntilSleep(v.sched.SleepTime, time.Now()); ok {
				v.untilSleep = d
				v.hasCountdown = true
			}
		}
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Pause):
			if v.period == stats.Weekly {
				v.period = stats.Monthly
			} else {
				v.period = stats.Weekly
			}
			return v, v.refresh()
		case key.Matches(msg, keys.Refresh):
			return v, v.refresh()
		case key.Matches(msg, keys.Start):
			return v.showScheduleForm()
		}
	}
	return v, nil
}

func (v statsViewModel) showScheduleForm() (statsViewModel, tea.Cmd) {
	if v.sched != nil {
		*v.wakeTime = v.sched.WakeUpTime
		*v.sleepTime = v.sched.SleepTime
	} else {
		*v.wakeTime = v.getVal("wake_up_time", "07:00")
		*v.sleepTime = v.getVal("sleep_time", "22:00")
	}

	v.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Wake up (HH:MM)").Value(v.wakeTime),
			huh.NewInput().Title("Sleep (HH:MM)").Value(v.sleepTime),
		),
	).WithShowHelp(true).WithShowErrors(true)

	v.formActive = true
	return v, v.form.Init()
}

func (v statsViewModel) getVal(k, fallback string) string {
	val, err := v.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return val
}

func (v statsViewModel) updateForm(msg tea.Msg) (statsViewModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			v.formActive = false
			v.form = nil
			return v, nil
		}
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	if v.form.State == huh.StateCompleted {
		v.formActive = false
		today := time.Now().UTC().Format(stats.DateLayout)
		wake := strings.TrimSpace(*v.wakeTime)
		sleep := strings.TrimSpace(*v.sleepTime)
		v.store.UpsertSleepSchedule(v.userName, today, wake, sleep)
		// New times become the defaults for future days.
		v.store.SetSetting("wake_up_time", wake)
		v.store.SetSetting("sleep_time", sleep)
		return v, v.refresh()
	}

	return v, cmd
}

func (v *statsViewModel) buildChart() {
	chartWidth := v.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if v.height > 30 {
		chartHeight = 16
	}

	v.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for i, date := range v.window.Dates() {
		day := v.window.Start.AddDate(0, 0, i)
		label := day.Format("Mon 02")
		if v.period == stats.Monthly {
			label = day.Format("02")
		}

		dt := v.totals[date]
		values := []barchart.BarValue{
			{
				Name:  "done",
				Value: float64(dt.CompletedMinutes) / 60,
				Style: lipgloss.NewStyle().Foreground(colorSuccess),
			},
			{
				Name:  "pending",
				Value: float64(dt.PendingMinutes) / 60,
				Style: lipgloss.NewStyle().Foreground(colorWarning),
			},
		}

		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: values,
		})
	}

	v.chart.PushAll(bars)
	v.chart.Draw()
}

func (v statsViewModel) view() string {
	w := v.width - 4

	if v.formActive && v.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Sleep Schedule"), "", v.form.View(),
		)
		return panelStyle.Width(w).Render(content)
	}

	// Period tabs
	weeklyTab := inactiveTabStyle.Render("Weekly")
	monthlyTab := inactiveTabStyle.Render("Monthly")
	if v.period == stats.Weekly {
		weeklyTab = activeTabStyle.Render("Weekly")
	} else {
		monthlyTab = activeTabStyle.Render("Monthly")
	}
	periodTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, weeklyTab, monthlyTab)

	rangeLabel := mutedStyle.Render(fmt.Sprintf("%s — %s",
		v.window.Start.Format("Jan 02"),
		v.window.End().AddDate(0, 0, -1).Format("Jan 02, 2006"),
	))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Stats"), "  ", periodTabs, "  ", rangeLabel,
	)

	chartView := v.chart.View()
	legend := fmt.Sprintf("  %s done  %s pending",
		successStyle.Render("■"), warningStyle.Render("■"))

	today := v.renderTodayCard()
	history := v.renderHistory(w)

	nav := mutedStyle.Render("  space: weekly/monthly  s: sleep schedule  r: refresh")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, legend, "", today, history, "", nav,
		),
	)
}

func (v statsViewModel) renderTodayCard() string {
	now := time.Now().UTC()
	today := now.Format(stats.DateLayout)
	dt := v.totals[today]

	var rows []string
	rows = append(rows, titleStyle.Render("Today"))

	line := fmt.Sprintf("  done %s  pending %s",
		successStyle.Render(formatMinutes(dt.CompletedMinutes)),
		warningStyle.Render(formatMinutes(dt.PendingMinutes)),
	)

	if v.sched != nil {
		if hours, ok := stats.WorkHours(v.sched.WakeUpTime, v.sched.SleepTime, now); ok {
			pct := stats.ClampPercent(stats.Productivity(dt.CompletedMinutes, hours))
			line += fmt.Sprintf("  %s of %dh day",
				highlightStyle.Render(fmt.Sprintf("%.0f%%", pct)), hours)
		}
		schedLine := mutedStyle.Render(fmt.Sprintf("  wake %s  sleep %s", v.sched.WakeUpTime, v.sched.SleepTime))
		if v.hasCountdown {
			schedLine += mutedStyle.Render("  sleep in ") + highlightStyle.Render(formatCountdown(v.untilSleep))
		}
		rows = append(rows, line, schedLine)
	} else {
		rows = append(rows, line, mutedStyle.Render("  No sleep schedule. Press s to set one."))
	}

	return strings.Join(rows, "\n")
}

func (v statsViewModel) renderHistory(w int) string {
	if len(v.history) == 0 {
		return ""
	}

	var rows []string
	rows = append(rows, "")
	rows = append(rows, titleStyle.Render("Recent days"))
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %8s %10s %10s", "Date", "Score", "Done", "Pending")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 44))))

	// Newest last in store order; show newest first.
	for i := len(v.history) - 1; i >= 0; i-- {
		sn := v.history[i]
		rows = append(rows, fmt.Sprintf("  %-12s %7.0f%% %10s %10s",
			sn.Date, sn.ProductivityPercent,
			formatMinutes(sn.CompletedTaskMinutes), formatMinutes(sn.PendingTaskMinutes),
		))
	}
	return strings.Join(rows, "\n")
}
