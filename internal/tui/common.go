package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// viewState represents the currently active tab.
type viewState int

const (
	viewTasks viewState = iota
	viewPomodoro
	viewDiary
	viewStats
	viewLeaders
	viewCommunity
)

var viewNames = []string{"Tasks", "Pomodoro", "Diary", "Stats", "Leaders", "Community"}

// viewSlugs are the stable identifiers saved in the session file.
var viewSlugs = []string{"tasks", "pomodoro", "diary", "stats", "leaders", "community"}

func viewFromSlug(slug string) viewState {
	for i, s := range viewSlugs {
		if s == slug {
			return viewState(i)
		}
	}
	return viewTasks
}

// --- Messages ---

type tickMsg time.Time

type statusMsg struct {
	text    string
	isError bool
}

type loginDoneMsg struct {
	userName string
}

// tableChangedMsg arrives after any write to a watched table. It carries no
// payload; interested views re-fetch.
type tableChangedMsg struct {
	table string
}

type snapshotSavedMsg struct {
	date string
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// errorStatus surfaces a failed store write in the status line.
func errorStatus(what string, err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("%s: %v", what, err), isError: true}
	}
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs int64) string {
	return formatDuration(time.Duration(secs) * time.Second)
}

// formatMinutes renders task minutes the short way: "45m", "1h 30m".
func formatMinutes(mins int64) string {
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %dm", mins/60, mins%60)
}

// formatCountdown renders a remaining duration without seconds.
func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
