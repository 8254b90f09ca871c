package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/flowtrack/internal/stats"
	"github.com/sadopc/flowtrack/internal/store"
)

type leadersModel struct {
	store    *store.Store
	userName string
	width    int
	height   int

	// weeksAgo is 0 for the current week; past weeks show winners only.
	weeksAgo int
	ranked   []stats.Performance
}

func newLeadersModel(s *store.Store) leadersModel {
	return leadersModel{store: s}
}

func (l *leadersModel) setSize(w, h int) {
	l.width = w
	l.height = h
}

func (l *leadersModel) setUser(name string) {
	l.userName = name
	l.weeksAgo = 0
	l.ranked = nil
}

type leadersDataMsg struct {
	weeksAgo int
	ranked   []stats.Performance
}

func (l leadersModel) refresh() tea.Cmd {
	weeksAgo := l.weeksAgo
	return func() tea.Msg {
		w := stats.WeekWindow(time.Now().UTC(), weeksAgo)
		sessions, _ := l.store.ListFocusSessions(w.Start, w.End())
		ranked := stats.Rank(sessions, w)
		if weeksAgo > 0 {
			ranked = stats.TopN(ranked, stats.TopWinners)
		}
		return leadersDataMsg{weeksAgo: weeksAgo, ranked: ranked}
	}
}

func (l leadersModel) update(msg tea.Msg) (leadersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case leadersDataMsg:
		// Drop stale answers from a previous week navigation.
		if msg.weeksAgo == l.weeksAgo {
			l.ranked = msg.ranked
		}
		return l, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			l.weeksAgo++
			return l, l.refresh()
		case key.Matches(msg, keys.Right):
			if l.weeksAgo > 0 {
				l.weeksAgo--
			}
			return l, l.refresh()
		case key.Matches(msg, keys.Refresh):
			return l, l.refresh()
		}
	}
	return l, nil
}

func (l leadersModel) view() string {
	w := l.width - 4

	weekLabel := "This week"
	if l.weeksAgo == 1 {
		weekLabel = "Last week"
	} else if l.weeksAgo > 1 {
		weekLabel = fmt.Sprintf("%d weeks ago", l.weeksAgo)
	}

	window := stats.WeekWindow(time.Now().UTC(), l.weeksAgo)
	rangeLabel := mutedStyle.Render(fmt.Sprintf("%s — %s",
		window.Start.Format("Jan 02"),
		window.End().AddDate(0, 0, -1).Format("Jan 02"),
	))

	var rows []string
	rows = append(rows, titleStyle.Render("Leaders")+"  "+highlightStyle.Render(weekLabel)+"  "+rangeLabel)
	rows = append(rows, "")

	if len(l.ranked) == 0 {
		rows = append(rows, mutedStyle.Render("  No focus sessions this week yet."))
	} else {
		for _, p := range l.ranked {
			marker := fmt.Sprintf("%2d.", p.Position)
			style := normalItemStyle
			switch p.Position {
			case 1:
				style = accentStyle.Bold(true)
			case 2, 3:
				style = highlightStyle
			}
			name := p.UserName
			if name == l.userName {
				name += mutedStyle.Render(" (you)")
			}
			rows = append(rows, style.Render(fmt.Sprintf("  %s %-20s", marker, name))+
				formatSeconds(p.TotalSeconds))
		}
		if l.weeksAgo > 0 {
			rows = append(rows, "")
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("  Top %d only for past weeks", stats.TopWinners)))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ←/→: weeks  r: refresh"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
