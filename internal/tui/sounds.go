package tui

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/flowtrack/internal/store"
)

// soundCue enumerates every audible event in the app. Adding a cue means
// adding a case to label; there is no fallthrough default.
type soundCue int

const (
	cueWorkStart soundCue = iota
	cueBreakStart
	cueSessionDone
	cueTaskDone
	cueDayEnd
)

func (c soundCue) label() string {
	switch c {
	case cueWorkStart:
		return "Focus time"
	case cueBreakStart:
		return "Break time"
	case cueSessionDone:
		return "Session complete"
	case cueTaskDone:
		return "Task done"
	case cueDayEnd:
		return "Day wrapped up"
	}
	return ""
}

// soundEnabled reads the persisted volume; 0 silences every cue.
func soundEnabled(s *store.Store) bool {
	v, err := s.GetSetting("sound_volume")
	if err != nil {
		return true
	}
	vol, err := strconv.Atoi(v)
	if err != nil {
		return true
	}
	return vol > 0
}

// announce turns a cue into a status line, ringing the terminal bell when
// sound is enabled.
func announce(s *store.Store, c soundCue, text string) tea.Cmd {
	return func() tea.Msg {
		if text == "" {
			text = c.label()
		}
		if soundEnabled(s) {
			text += "\a"
		}
		return statusMsg{text: text}
	}
}
