package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/flowtrack/internal/export"
	"github.com/sadopc/flowtrack/internal/session"
	"github.com/sadopc/flowtrack/internal/stats"
	"github.com/sadopc/flowtrack/internal/store"
)

// leadersRefreshEvery is the background refresh cadence for the weekly
// ranking, in ticks (seconds).
const leadersRefreshEvery = 300

// App is the root Bubble Tea model.
type App struct {
	store       *store.Store
	ctx         session.Context
	sessionPath string

	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	login     loginModel
	tasks     tasksModel
	pomodoro  pomodoroModel
	diary     diaryModel
	stats     statsViewModel
	leaders   leadersModel
	community communityModel

	help   help.Model
	status string

	// changes receives table names written to by the store.
	changes chan string

	tickCount    int
	snapshotDate string // last date an end-of-day snapshot was written
}

func NewApp(s *store.Store, ctx session.Context, sessionPath string) App {
	h := help.New()
	h.ShowAll = false

	a := App{
		store:       s,
		ctx:         ctx,
		sessionPath: sessionPath,
		activeView:  viewFromSlug(ctx.ActiveTab),
		login:       newLoginModel(s),
		tasks:       newTasksModel(s),
		pomodoro:    newPomodoroModel(s),
		diary:       newDiaryModel(s),
		stats:       newStatsViewModel(s),
		leaders:     newLeadersModel(s),
		community:   newCommunityModel(s),
		help:        h,
		changes:     make(chan string, 16),
	}

	for _, table := range []string{store.TableTasks, store.TablePosts, store.TableSessions} {
		table := table
		s.Subscribe(table, func() {
			select {
			case a.changes <- table:
			default:
			}
		})
	}

	if a.signedIn() {
		a.setUser(ctx.UserName)
	}
	return a
}

func (a App) signedIn() bool {
	return a.ctx.SignedIn()
}

func (a *App) setUser(name string) {
	a.ctx.UserName = name
	a.tasks.setUser(name)
	a.pomodoro.setUser(name)
	a.diary.setUser(name)
	a.stats.setUser(name)
	a.leaders.setUser(name)
	a.community.setUser(name)
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(), a.listenChanges()}
	if a.signedIn() {
		cmds = append(cmds, a.refreshAll())
	} else {
		cmds = append(cmds, a.login.Init())
	}
	return tea.Batch(cmds...)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) listenChanges() tea.Cmd {
	ch := a.changes
	return func() tea.Msg {
		return tableChangedMsg{table: <-ch}
	}
}

func (a App) refreshAll() tea.Cmd {
	return tea.Batch(
		a.tasks.refresh(),
		a.diary.refresh(),
		a.stats.refresh(),
		a.leaders.refresh(),
		a.community.refresh(),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.login.setSize(a.width, contentHeight)
		a.tasks.setSize(a.width, contentHeight)
		a.pomodoro.setSize(a.width, contentHeight)
		a.diary.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		a.leaders.setSize(a.width, contentHeight)
		a.community.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if !a.signedIn() {
			if msg.String() == "ctrl+c" {
				return a, tea.Quit
			}
			var cmd tea.Cmd
			a.login, cmd = a.login.update(msg)
			return a, cmd
		}

		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Logout):
			return a.logout()
		case key.Matches(msg, keys.Quit):
			a.saveSession()
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewTasks)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewPomodoro)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewDiary)
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewStats)
		case key.Matches(msg, keys.Tab5):
			return a.switchView(viewLeaders)
		case key.Matches(msg, keys.Tab6):
			return a.switchView(viewCommunity)
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % viewState(len(viewNames)))
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())
		a.tickCount++

		// Countdown-bearing views always get ticks.
		var cmd tea.Cmd
		a.tasks, cmd = a.tasks.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		a.pomodoro, cmd = a.pomodoro.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		a.stats, cmd = a.stats.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}

		if a.signedIn() {
			if a.tickCount%leadersRefreshEvery == 0 {
				cmds = append(cmds, a.leaders.refresh())
			}
			// End-of-day snapshot: checked once a minute, fired in the
			// final minute before 23:59. The upsert makes repeats safe.
			now := time.Now().UTC()
			if a.tickCount%60 == 0 && stats.NearDayEnd(now) && a.snapshotDate != now.Format(stats.DateLayout) {
				cmds = append(cmds, a.persistSnapshot())
			}
		}
		return a, tea.Batch(cmds...)

	case tableChangedMsg:
		cmds = append(cmds, a.listenChanges())
		switch msg.table {
		case store.TableTasks:
			cmds = append(cmds, a.tasks.refresh(), a.stats.refresh())
		case store.TablePosts:
			cmds = append(cmds, a.community.refresh())
		case store.TableSessions:
			cmds = append(cmds, a.leaders.refresh())
		}
		return a, tea.Batch(cmds...)

	case loginDoneMsg:
		a.setUser(msg.userName)
		a.saveSession()
		a.status = "Signed in as " + msg.userName
		return a, a.refreshAll()

	case snapshotSavedMsg:
		a.snapshotDate = msg.date
		return a, announce(a.store, cueDayEnd, "Daily snapshot saved")

	case statusMsg:
		a.status = msg.text
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	a.ctx.ActiveTab = viewSlugs[v]
	return a, a.refreshCurrentView()
}

func (a App) logout() (tea.Model, tea.Cmd) {
	a.setUser("")
	a.saveSession()
	a.login = newLoginModel(a.store)
	a.login.setSize(a.width, a.height-4)
	a.status = "Signed out"
	return a, a.login.Init()
}

func (a App) saveSession() {
	session.Save(a.sessionPath, a.ctx)
}

func (a App) persistSnapshot() tea.Cmd {
	user := a.ctx.UserName
	s := a.store
	return func() tea.Msg {
		now := time.Now().UTC()
		p := stats.Persister{Store: s}
		saved, err := p.PersistDay(user, now)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Snapshot error: %v", err), isError: true}
		}
		if !saved {
			return nil
		}
		return snapshotSavedMsg{date: now.Format(stats.DateLayout)}
	}
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if !a.signedIn() {
		a.login, cmd = a.login.update(msg)
		return a, cmd
	}
	switch a.activeView {
	case viewTasks:
		a.tasks, cmd = a.tasks.update(msg)
	case viewPomodoro:
		a.pomodoro, cmd = a.pomodoro.update(msg)
	case viewDiary:
		a.diary, cmd = a.diary.update(msg)
	case viewStats:
		a.stats, cmd = a.stats.update(msg)
	case viewLeaders:
		a.leaders, cmd = a.leaders.update(msg)
	case viewCommunity:
		a.community, cmd = a.community.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTasks:
		return a.tasks.formActive
	case viewPomodoro:
		return a.pomodoro.formActive
	case viewDiary:
		return a.diary.formActive
	case viewStats:
		return a.stats.formActive
	case viewCommunity:
		return a.community.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewTasks:
		return a.tasks.refresh()
	case viewDiary:
		return a.diary.refresh()
	case viewStats:
		return a.stats.refresh()
	case viewLeaders:
		return a.leaders.refresh()
	case viewCommunity:
		return a.community.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	if !a.signedIn() {
		content = a.login.view()
	} else {
		switch a.activeView {
		case viewTasks:
			content = a.tasks.view()
		case viewPomodoro:
			content = a.pomodoro.view()
		case viewDiary:
			content = a.diary.view()
		case viewStats:
			content = a.stats.view()
		case viewLeaders:
			content = a.leaders.view()
		case viewCommunity:
			content = a.community.view()
		}
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if a.signedIn() && viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("flowtrack")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	user := ""
	if a.signedIn() {
		user = highlightStyle.Render(" " + a.ctx.UserName)
	}

	left := footerStyle.Render(helpView)
	right := user + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV (tasks + snapshots)", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	user := a.ctx.UserName
	s := a.store
	return func() tea.Msg {
		tasks, err := s.ListTasks(store.TaskFilter{UserName: user})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		snaps, err := s.ListDailyProductivity(user, "")
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, _ := os.UserHomeDir()
		dateStr := time.Now().UTC().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("flowtrack-tasks-%s.csv", dateStr))
			if err := export.TasksToCSV(tasks, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
			snapPath := filepath.Join(home, fmt.Sprintf("flowtrack-days-%s.csv", dateStr))
			if err := export.SnapshotsToCSV(snaps, snapPath); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("flowtrack-export-%s.json", dateStr))
			if err := export.ToJSON(user, tasks, snaps, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
