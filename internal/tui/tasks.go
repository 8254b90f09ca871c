package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/flowtrack/internal/stats"
	"github.com/sadopc/flowtrack/internal/store"
)

type tasksModel struct {
	store    *store.Store
	userName string
	width    int
	height   int

	tasks  []store.Task
	sched  *store.SleepSchedule
	cursor int

	// Countdown to tonight's sleep time, refreshed on every tick.
	untilSleep   time.Duration
	hasCountdown bool

	// Wellness break timer; empty label means idle.
	wellnessLabel string
	wellnessEnd   time.Time
	wellnessLeft  time.Duration

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formText     *string
	formDuration *string
}

func newTasksModel(s *store.Store) tasksModel {
	text, dur := "", ""
	return tasksModel{
		store:        s,
		formText:     &text,
		formDuration: &dur,
	}
}

func (t *tasksModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t *tasksModel) setUser(name string) {
	t.userName = name
	t.cursor = 0
	t.tasks = nil
	t.wellnessLabel = ""
}

// wellnessDuration is the fixed length of an exercise or meditation break.
const wellnessDuration = 15 * time.Minute

type tasksDataMsg struct {
	tasks []store.Task
	sched *store.SleepSchedule
}

func (t tasksModel) refresh() tea.Cmd {
	user := t.userName
	return func() tea.Msg {
		tasks, _ := t.store.ListTasks(store.TaskFilter{UserName: user})
		today := time.Now().UTC().Format(stats.DateLayout)
		sched, _ := t.store.GetSleepSchedule(user, today)
		return tasksDataMsg{tasks: tasks, sched: sched}
	}
}

func (t tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		t.tasks = msg.tasks
		t.sched = msg.sched
		if t.cursor >= len(t.tasks) {
			t.cursor = max(0, len(t.tasks)-1)
		}
		return t, nil

	case tickMsg:
		t.hasCountdown = false
		if t.sched != nil {
			if d, ok := stats.UntilSleep(t.sched.SleepTime, time.Now()); ok {
				t.untilSleep = d
				t.hasCountdown = true
			}
		}
		if t.wellnessLabel != "" {
			t.wellnessLeft = time.Until(t.wellnessEnd)
			if t.wellnessLeft <= 0 {
				label := t.wellnessLabel
				t.wellnessLabel = ""
				return t, announce(t.store, cueSessionDone, label+" done")
			}
		}
		return t, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if t.cursor > 0 {
				t.cursor--
			}
		case key.Matches(msg, keys.Down):
			if t.cursor < len(t.tasks)-1 {
				t.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if len(t.tasks) > 0 {
				task := t.tasks[t.cursor]
				if err := t.store.ToggleTask(task.ID, !task.Completed); err != nil {
					return t, errorStatus("Update task", err)
				}
				if !task.Completed {
					return t, tea.Batch(t.refresh(), announce(t.store, cueTaskDone, ""))
				}
				return t, t.refresh()
			}
		case key.Matches(msg, keys.New):
			return t.showNewTaskForm()
		case key.Matches(msg, keys.Wellness):
			return t.cycleWellness()
		case key.Matches(msg, keys.Delete):
			if len(t.tasks) > 0 {
				if err := t.store.DeleteTask(t.tasks[t.cursor].ID); err != nil {
					return t, errorStatus("Delete task", err)
				}
				return t, t.refresh()
			}
		}
	}
	return t, nil
}

// cycleWellness steps the break timer idle -> exercise -> meditation -> idle.
// Each start resets the 15-minute countdown.
func (t tasksModel) cycleWellness() (tasksModel, tea.Cmd) {
	switch t.wellnessLabel {
	case "":
		t.wellnessLabel = "Exercise"
	case "Exercise":
		t.wellnessLabel = "Meditation"
	default:
		t.wellnessLabel = ""
		return t, nil
	}
	t.wellnessEnd = time.Now().Add(wellnessDuration)
	t.wellnessLeft = wellnessDuration
	return t, announce(t.store, cueWorkStart, t.wellnessLabel+" started")
}

func (t tasksModel) showNewTaskForm() (tasksModel, tea.Cmd) {
	*t.formText = ""
	*t.formDuration = t.defaultDuration()

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("What will you do?").Value(t.formText),
			huh.NewInput().Title("Duration (min)").Value(t.formDuration),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t tasksModel) defaultDuration() string {
	if v, err := t.store.GetSetting("task_duration"); err == nil {
		return v
	}
	return "30"
}

func (t tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		text := strings.TrimSpace(*t.formText)
		if text != "" {
			mins, err := strconv.ParseInt(strings.TrimSpace(*t.formDuration), 10, 64)
			if err != nil || mins <= 0 {
				mins = 30
			}
			if _, err := t.store.CreateTask(t.userName, text, mins); err != nil {
				return t, errorStatus("Create task", err)
			}
		}
		return t, t.refresh()
	}

	return t, cmd
}

// todayTotals sums today's minutes from the loaded tasks.
func (t tasksModel) todayTotals() stats.DayTotals {
	today := time.Now().UTC().Format(stats.DateLayout)
	return stats.Aggregate(t.tasks)[today]
}

func (t tasksModel) view() string {
	w := t.width - 4

	if t.formActive && t.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("New Task"), "", t.form.View(),
		)
		return panelStyle.Width(w).Render(content)
	}

	totals := t.todayTotals()
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Tasks"), "  ",
		successStyle.Render("done "+formatMinutes(totals.CompletedMinutes)), "  ",
		warningStyle.Render("pending "+formatMinutes(totals.PendingMinutes)),
	)
	if t.hasCountdown {
		header = lipgloss.JoinHorizontal(lipgloss.Bottom, header, "  ",
			mutedStyle.Render("sleep in "+formatCountdown(t.untilSleep)),
		)
	}
	if t.wellnessLabel != "" {
		header = lipgloss.JoinHorizontal(lipgloss.Bottom, header, "  ",
			accentStyle.Render(t.wellnessLabel+" "+formatPomodoroTime(t.wellnessLeft)),
		)
	}

	if len(t.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			mutedStyle.Render("No tasks yet. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, header)
	rows = append(rows, "")

	for i, task := range t.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == t.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		check := mutedStyle.Render("○")
		text := task.Text
		if task.Completed {
			check = successStyle.Render("✓")
			text = mutedStyle.Render(text)
		}
		dur := mutedStyle.Render(fmt.Sprintf(" [%s]", formatMinutes(task.Duration)))
		when := mutedStyle.Render("  " + task.CreatedAt.Local().Format("Jan 02"))
		rows = append(rows, style.Render(cursor)+check+" "+text+dur+when)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: toggle  d: delete  w: wellness break"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
