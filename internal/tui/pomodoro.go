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
	"github.com/sadopc/flowtrack/internal/store"
)

type pomodoroPhase int

const (
	pomodoroIdle pomodoroPhase = iota
	pomodoroWork
	pomodoroShortBreak
	pomodoroLongBreak
	pomodoroCompleted
)

type pomodoroModel struct {
	store    *store.Store
	userName string
	width    int
	height   int

	phase          pomodoroPhase
	completedCount int
	targetCount    int

	// Countdown state
	remaining time.Duration
	phaseEnd  time.Time

	// Durations from settings
	workDuration      time.Duration
	breakDuration     time.Duration
	longBreakDuration time.Duration

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formWork      *string
	formBreak     *string
	formLongBreak *string
	formCount     *string
	formVolume    *string
}

func newPomodoroModel(s *store.Store) pomodoroModel {
	work, brk, long, count, vol := "", "", "", "", ""
	m := pomodoroModel{
		store:         s,
		phase:         pomodoroIdle,
		targetCount:   4,
		formWork:      &work,
		formBreak:     &brk,
		formLongBreak: &long,
		formCount:     &count,
		formVolume:    &vol,
	}
	m.loadSettings()
	return m
}

func (p *pomodoroModel) loadSettings() {
	p.workDuration = p.getSettingDuration("pomodoro_work", 25*time.Minute)
	p.breakDuration = p.getSettingDuration("pomodoro_break", 5*time.Minute)
	p.longBreakDuration = p.getSettingDuration("pomodoro_long_break", 15*time.Minute)

	if v, err := p.store.GetSetting("pomodoro_count"); err == nil {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.targetCount = n
		}
	}
}

func (p *pomodoroModel) getSettingDuration(key string, fallback time.Duration) time.Duration {
	if v, err := p.store.GetSetting(key); err == nil {
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p *pomodoroModel) setUser(name string) {
	p.userName = name
	p.phase = pomodoroIdle
	p.completedCount = 0
	p.remaining = 0
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tickMsg:
		if p.phase == pomodoroWork || p.phase == pomodoroShortBreak || p.phase == pomodoroLongBreak {
			p.remaining = time.Until(p.phaseEnd)
			if p.remaining <= 0 {
				return p.advancePhase()
			}
		}
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			if p.phase == pomodoroIdle || p.phase == pomodoroCompleted {
				return p.startSession()
			}
		case key.Matches(msg, keys.Stop):
			if p.phase != pomodoroIdle {
				return p.cancelSession()
			}
		case key.Matches(msg, keys.Pause):
			// Skip break
			if p.phase == pomodoroShortBreak || p.phase == pomodoroLongBreak {
				return p.startWorkPhase()
			}
		case key.Matches(msg, keys.New):
			// Durations are locked while a session is running.
			if p.phase == pomodoroIdle || p.phase == pomodoroCompleted {
				return p.showSettingsForm()
			}
		}
	}
	return p, nil
}

func (p pomodoroModel) showSettingsForm() (pomodoroModel, tea.Cmd) {
	*p.formWork = strconv.Itoa(int(p.workDuration.Minutes()))
	*p.formBreak = strconv.Itoa(int(p.breakDuration.Minutes()))
	*p.formLongBreak = strconv.Itoa(int(p.longBreakDuration.Minutes()))
	*p.formCount = strconv.Itoa(p.targetCount)
	if v, err := p.store.GetSetting("sound_volume"); err == nil {
		*p.formVolume = v
	} else {
		*p.formVolume = "50"
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Work (min)").Value(p.formWork),
			huh.NewInput().Title("Short break (min)").Value(p.formBreak),
			huh.NewInput().Title("Long break (min)").Value(p.formLongBreak),
			huh.NewInput().Title("Sessions per cycle").Value(p.formCount),
			huh.NewInput().Title("Sound volume (0-100)").Value(p.formVolume),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p pomodoroModel) updateForm(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		p.saveSettings()
		p.loadSettings()
		return p, func() tea.Msg {
			return statusMsg{text: "Pomodoro settings saved"}
		}
	}

	return p, cmd
}

// saveSettings writes the form values back to the settings table. Durations
// are stored in seconds; invalid fields keep their old values.
func (p pomodoroModel) saveSettings() {
	if mins, err := strconv.Atoi(strings.TrimSpace(*p.formWork)); err == nil && mins > 0 {
		p.store.SetSetting("pomodoro_work", strconv.Itoa(mins*60))
	}
	if mins, err := strconv.Atoi(strings.TrimSpace(*p.formBreak)); err == nil && mins > 0 {
		p.store.SetSetting("pomodoro_break", strconv.Itoa(mins*60))
	}
	if mins, err := strconv.Atoi(strings.TrimSpace(*p.formLongBreak)); err == nil && mins > 0 {
		p.store.SetSetting("pomodoro_long_break", strconv.Itoa(mins*60))
	}
	if n, err := strconv.Atoi(strings.TrimSpace(*p.formCount)); err == nil && n > 0 {
		p.store.SetSetting("pomodoro_count", strconv.Itoa(n))
	}
	if vol, err := strconv.Atoi(strings.TrimSpace(*p.formVolume)); err == nil && vol >= 0 && vol <= 100 {
		p.store.SetSetting("sound_volume", strconv.Itoa(vol))
	}
}

func (p pomodoroModel) startSession() (pomodoroModel, tea.Cmd) {
	p.completedCount = 0
	p.loadSettings()
	return p.startWorkPhase()
}

func (p pomodoroModel) startWorkPhase() (pomodoroModel, tea.Cmd) {
	p.phase = pomodoroWork
	p.remaining = p.workDuration
	p.phaseEnd = time.Now().Add(p.workDuration)
	return p, announce(p.store, cueWorkStart, "")
}

func (p pomodoroModel) advancePhase() (pomodoroModel, tea.Cmd) {
	switch p.phase {
	case pomodoroWork:
		p.completedCount++

		// Each finished work phase counts toward the weekly ranking.
		var cmds []tea.Cmd
		if _, err := p.store.RecordFocusSession(p.userName, int64(p.workDuration.Seconds()), time.Now().UTC()); err != nil {
			cmds = append(cmds, errorStatus("Save session", err))
		}

		if p.completedCount >= p.targetCount {
			p.phase = pomodoroCompleted
			cmds = append(cmds, announce(p.store, cueSessionDone, ""))
			return p, tea.Batch(cmds...)
		}

		if p.completedCount%p.targetCount == 0 {
			p.phase = pomodoroLongBreak
			p.remaining = p.longBreakDuration
			p.phaseEnd = time.Now().Add(p.longBreakDuration)
		} else {
			p.phase = pomodoroShortBreak
			p.remaining = p.breakDuration
			p.phaseEnd = time.Now().Add(p.breakDuration)
		}
		cmds = append(cmds, announce(p.store, cueBreakStart, ""))
		return p, tea.Batch(cmds...)

	case pomodoroShortBreak, pomodoroLongBreak:
		return p.startWorkPhase()
	}
	return p, nil
}

func (p pomodoroModel) cancelSession() (pomodoroModel, tea.Cmd) {
	p.phase = pomodoroIdle
	p.remaining = 0
	return p, func() tea.Msg {
		return statusMsg{text: "Pomodoro cancelled"}
	}
}

func (p pomodoroModel) view() string {
	w := p.width - 4

	if p.formActive && p.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Pomodoro Settings"), "", p.form.View(),
		)
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Pomodoro")

	var timeDisplay string
	var phaseLabel string
	var indicator string

	switch p.phase {
	case pomodoroIdle:
		timeDisplay = timerStyle.Width(w - 6).Render(formatPomodoroTime(p.workDuration))
		phaseLabel = mutedStyle.Render("Ready to start")
		indicator = mutedStyle.Render("Press s to begin")
	case pomodoroWork:
		timeDisplay = accentStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatPomodoroTime(p.remaining))
		phaseLabel = accentStyle.Bold(true).Render("FOCUS")
		indicator = p.renderProgress()
	case pomodoroShortBreak:
		timeDisplay = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatPomodoroTime(p.remaining))
		phaseLabel = successStyle.Bold(true).Render("SHORT BREAK")
		indicator = p.renderProgress()
	case pomodoroLongBreak:
		timeDisplay = highlightStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatPomodoroTime(p.remaining))
		phaseLabel = highlightStyle.Bold(true).Render("LONG BREAK")
		indicator = p.renderProgress()
	case pomodoroCompleted:
		timeDisplay = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render("Done!")
		phaseLabel = successStyle.Bold(true).Render("SESSION COMPLETE")
		indicator = p.renderProgress()
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		timeDisplay,
		phaseLabel,
		"",
		indicator,
	)

	var controls string
	switch p.phase {
	case pomodoroIdle, pomodoroCompleted:
		controls = mutedStyle.Render("s: start  n: settings  q: quit")
	case pomodoroWork:
		controls = mutedStyle.Render("x: cancel")
	case pomodoroShortBreak, pomodoroLongBreak:
		controls = mutedStyle.Render("space: skip break  x: cancel")
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

func (p pomodoroModel) renderProgress() string {
	var parts []string
	for i := 0; i < p.targetCount; i++ {
		if i < p.completedCount {
			parts = append(parts, successStyle.Render("●"))
		} else if i == p.completedCount && p.phase == pomodoroWork {
			parts = append(parts, accentStyle.Render("◐"))
		} else {
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	progress := strings.Join(parts, " ")
	counter := mutedStyle.Render(fmt.Sprintf("  %d/%d", p.completedCount, p.targetCount))
	return progress + counter
}

func formatPomodoroTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}
