package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/flowtrack/internal/stats"
	"github.com/sadopc/flowtrack/internal/store"
)

type diaryModel struct {
	store    *store.Store
	userName string
	width    int
	height   int

	entries []store.DiaryEntry
	cursor  int

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	youngerSelf    *string
	lesson         *string
	taskCompletion *int
	focusLevel     *int
	timeManagement *int
	energyLevel    *int
	doneHabits     *[]string
}

func newDiaryModel(s *store.Store) diaryModel {
	ys, le := "", ""
	tc, fl, tm, el := 6, 6, 8, 7
	var habits []string
	return diaryModel{
		store:          s,
		youngerSelf:    &ys,
		lesson:         &le,
		taskCompletion: &tc,
		focusLevel:     &fl,
		timeManagement: &tm,
		energyLevel:    &el,
		doneHabits:     &habits,
	}
}

func (d *diaryModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d *diaryModel) setUser(name string) {
	d.userName = name
	d.cursor = 0
	d.entries = nil
}

type diaryDataMsg struct {
	entries []store.DiaryEntry
}

func (d diaryModel) refresh() tea.Cmd {
	user := d.userName
	return func() tea.Msg {
		entries, _ := d.store.ListDiaryEntries(user)
		return diaryDataMsg{entries: entries}
	}
}

func (d diaryModel) update(msg tea.Msg) (diaryModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case diaryDataMsg:
		d.entries = msg.entries
		if d.cursor >= len(d.entries) {
			d.cursor = max(0, len(d.entries)-1)
		}
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < len(d.entries)-1 {
				d.cursor++
			}
		case key.Matches(msg, keys.New), key.Matches(msg, keys.Enter):
			return d.showEntryForm()
		}
	}
	return d, nil
}

// showEntryForm opens today's entry, prefilled when it already exists.
func (d diaryModel) showEntryForm() (diaryModel, tea.Cmd) {
	today := time.Now().UTC().Format(stats.DateLayout)

	var existing *store.DiaryEntry
	for i := range d.entries {
		if d.entries[i].Date == today {
			existing = &d.entries[i]
			break
		}
	}

	if existing != nil {
		*d.youngerSelf = existing.YoungerSelf
		*d.lesson = existing.Lesson
		*d.taskCompletion = existing.TaskCompletion
		*d.focusLevel = existing.FocusLevel
		*d.timeManagement = existing.TimeManagement
		*d.energyLevel = existing.EnergyLevel
		var done []string
		for _, h := range existing.Habits {
			if h.Completed {
				done = append(done, h.HabitName)
			}
		}
		*d.doneHabits = done
	} else {
		*d.youngerSelf = ""
		*d.lesson = ""
		*d.taskCompletion = 6
		*d.focusLevel = 6
		*d.timeManagement = 8
		*d.energyLevel = 7
		*d.doneHabits = nil
	}

	scoreOptions := make([]huh.Option[int], 10)
	for i := range scoreOptions {
		scoreOptions[i] = huh.NewOption(fmt.Sprintf("%d", i+1), i+1)
	}
	habitOptions := make([]huh.Option[string], len(store.DefaultHabits))
	for i, h := range store.DefaultHabits {
		habitOptions[i] = huh.NewOption(h.HabitName, h.HabitName)
	}

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().Title("Note to your younger self").Value(d.youngerSelf),
			huh.NewText().Title("Lesson of the day").Value(d.lesson),
		),
		huh.NewGroup(
			huh.NewSelect[int]().Title("Task completion").Options(scoreOptions...).Value(d.taskCompletion),
			huh.NewSelect[int]().Title("Focus level").Options(scoreOptions...).Value(d.focusLevel),
			huh.NewSelect[int]().Title("Time management").Options(scoreOptions...).Value(d.timeManagement),
			huh.NewSelect[int]().Title("Energy level").Options(scoreOptions...).Value(d.energyLevel),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().Title("Habits done today").Options(habitOptions...).Value(d.doneHabits),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d diaryModel) updateForm(msg tea.Msg) (diaryModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateCompleted {
		d.formActive = false
		d.saveEntry()
		return d, d.refresh()
	}

	return d, cmd
}

func (d diaryModel) saveEntry() {
	today := time.Now().UTC().Format(stats.DateLayout)

	dayNumber := len(d.entries) + 1
	for _, e := range d.entries {
		if e.Date == today {
			dayNumber = e.DayNumber
			break
		}
	}

	done := make(map[string]bool, len(*d.doneHabits))
	for _, name := range *d.doneHabits {
		done[name] = true
	}
	habits := make([]store.DailyHabit, len(store.DefaultHabits))
	for i, h := range store.DefaultHabits {
		habits[i] = store.DailyHabit{HabitName: h.HabitName, Completed: done[h.HabitName]}
	}

	entry := &store.DiaryEntry{
		UserName:       d.userName,
		Date:           today,
		DayNumber:      dayNumber,
		YoungerSelf:    *d.youngerSelf,
		Lesson:         *d.lesson,
		TaskCompletion: *d.taskCompletion,
		FocusLevel:     *d.focusLevel,
		TimeManagement: *d.timeManagement,
		EnergyLevel:    *d.energyLevel,
		Habits:         habits,
	}
	d.store.SaveDiaryEntry(entry)
}

func (d diaryModel) view() string {
	w := d.width - 4

	if d.formActive && d.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Today's Entry"), "", d.form.View(),
		)
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Diary")

	if len(d.entries) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No entries yet. Press n to write today's."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, e := range d.entries {
		cursor := "  "
		style := normalItemStyle
		if i == d.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		scores := mutedStyle.Render(fmt.Sprintf("  tasks %d  focus %d  time %d  energy %d",
			e.TaskCompletion, e.FocusLevel, e.TimeManagement, e.EnergyLevel))
		habits := fmt.Sprintf("  %d/%d habits", countDone(e.Habits), len(e.Habits))
		rows = append(rows, style.Render(fmt.Sprintf("%sDay %d  %s", cursor, e.DayNumber, e.Date))+scores+mutedStyle.Render(habits))

		if i == d.cursor && e.Lesson != "" {
			rows = append(rows, mutedStyle.Render("    "+truncate(e.Lesson, w-8)))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n/enter: today's entry  ↑/↓: browse"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func countDone(habits []store.DailyHabit) int {
	n := 0
	for _, h := range habits {
		if h.Completed {
			n++
		}
	}
	return n
}

func truncate(s string, w int) string {
	if w < 4 {
		w = 4
	}
	runes := []rune(s)
	if len(runes) <= w {
		return s
	}
	return string(runes[:w-1]) + "…"
}
