package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/flowtrack/internal/session"
	"github.com/sadopc/flowtrack/internal/stats"
	"github.com/sadopc/flowtrack/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestApp(t *testing.T, userName string) App {
	t.Helper()
	ctx := session.Context{UserName: userName, ActiveTab: "tasks"}
	return NewApp(newTestStore(t), ctx, t.TempDir()+"/session.json")
}

func keyRunes(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

// runCmd executes a command and flattens any batches into single messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, runCmd(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func hasErrorStatus(msgs []tea.Msg) bool {
	for _, m := range msgs {
		if status, ok := m.(statusMsg); ok && status.isError {
			return true
		}
	}
	return false
}

// ============================================================
// Formatting helpers
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{0, "00:00:00"},
		{90 * time.Second, "00:01:30"},
		{time.Hour + 5*time.Minute + 3*time.Second, "01:05:03"},
		{25 * time.Hour, "25:00:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.expected {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.expected)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	if got := formatSeconds(3661); got != "01:01:01" {
		t.Errorf("formatSeconds(3661) = %q, want 01:01:01", got)
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		mins     int64
		expected string
	}{
		{0, "0m"},
		{30, "30m"},
		{59, "59m"},
		{60, "1h 0m"},
		{90, "1h 30m"},
		{150, "2h 30m"},
	}
	for _, tt := range tests {
		if got := formatMinutes(tt.mins); got != tt.expected {
			t.Errorf("formatMinutes(%d) = %q, want %q", tt.mins, got, tt.expected)
		}
	}
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{-time.Minute, "0m"},
		{45 * time.Minute, "45m"},
		{time.Hour + 5*time.Minute, "1h 05m"},
		{10*time.Hour + 30*time.Minute, "10h 30m"},
	}
	for _, tt := range tests {
		if got := formatCountdown(tt.d); got != tt.expected {
			t.Errorf("formatCountdown(%v) = %q, want %q", tt.d, got, tt.expected)
		}
	}
}

func TestMinMax(t *testing.T) {
	if min(2, 5) != 2 || min(5, 2) != 2 {
		t.Error("min broken")
	}
	if max(2, 5) != 5 || max(5, 2) != 5 {
		t.Error("max broken")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate should keep short strings, got %q", got)
	}
	got := truncate("a very long line of text", 10)
	if len([]rune(got)) != 10 {
		t.Errorf("truncated length = %d, want 10", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("truncated string should end with ellipsis, got %q", got)
	}
}

func TestCountDone(t *testing.T) {
	habits := []store.DailyHabit{
		{HabitName: "Reading", Completed: true},
		{HabitName: "Gym", Completed: false},
		{HabitName: "Meditation", Completed: true},
	}
	if got := countDone(habits); got != 2 {
		t.Errorf("countDone = %d, want 2", got)
	}
	if countDone(nil) != 0 {
		t.Error("countDone(nil) should be 0")
	}
}

// ============================================================
// View state
// ============================================================

func TestViewNamesAndSlugsAligned(t *testing.T) {
	if len(viewNames) != len(viewSlugs) {
		t.Fatalf("viewNames (%d) and viewSlugs (%d) must have the same length",
			len(viewNames), len(viewSlugs))
	}
	if len(viewNames) != 6 {
		t.Fatalf("expected 6 views, got %d", len(viewNames))
	}
}

func TestViewFromSlug(t *testing.T) {
	tests := []struct {
		slug     string
		expected viewState
	}{
		{"tasks", viewTasks},
		{"pomodoro", viewPomodoro},
		{"diary", viewDiary},
		{"stats", viewStats},
		{"leaders", viewLeaders},
		{"community", viewCommunity},
		{"", viewTasks},
		{"bogus", viewTasks},
	}
	for _, tt := range tests {
		if got := viewFromSlug(tt.slug); got != tt.expected {
			t.Errorf("viewFromSlug(%q) = %v, want %v", tt.slug, got, tt.expected)
		}
	}
}

// ============================================================
// Sounds
// ============================================================

func TestSoundCueLabels(t *testing.T) {
	cues := []soundCue{cueWorkStart, cueBreakStart, cueSessionDone, cueTaskDone, cueDayEnd}
	seen := map[string]bool{}
	for _, c := range cues {
		label := c.label()
		if label == "" {
			t.Errorf("cue %d has empty label", c)
		}
		if seen[label] {
			t.Errorf("duplicate cue label %q", label)
		}
		seen[label] = true
	}
}

func TestSoundEnabled(t *testing.T) {
	s := newTestStore(t)

	// Default volume is 50
	if !soundEnabled(s) {
		t.Error("sound should be enabled by default")
	}

	s.SetSetting("sound_volume", "0")
	if soundEnabled(s) {
		t.Error("volume 0 should silence cues")
	}

	s.SetSetting("sound_volume", "75")
	if !soundEnabled(s) {
		t.Error("non-zero volume should enable sound")
	}
}

func TestAnnounce(t *testing.T) {
	s := newTestStore(t)

	msg := announce(s, cueTaskDone, "")()
	status, ok := msg.(statusMsg)
	if !ok {
		t.Fatalf("expected statusMsg, got %T", msg)
	}
	if !strings.HasPrefix(status.text, "Task done") {
		t.Errorf("expected cue label as text, got %q", status.text)
	}
	if !strings.Contains(status.text, "\a") {
		t.Error("expected bell with sound enabled")
	}

	s.SetSetting("sound_volume", "0")
	msg = announce(s, cueTaskDone, "custom")()
	status = msg.(statusMsg)
	if status.text != "custom" {
		t.Errorf("expected custom text without bell, got %q", status.text)
	}
}

// ============================================================
// Pomodoro phase machine
// ============================================================

func TestPomodoroInit(t *testing.T) {
	p := newPomodoroModel(newTestStore(t))

	if p.phase != pomodoroIdle {
		t.Errorf("initial phase = %v, want idle", p.phase)
	}
	// Defaults come from the settings table
	if p.workDuration != 25*time.Minute {
		t.Errorf("work duration = %v, want 25m", p.workDuration)
	}
	if p.breakDuration != 5*time.Minute {
		t.Errorf("break duration = %v, want 5m", p.breakDuration)
	}
	if p.longBreakDuration != 15*time.Minute {
		t.Errorf("long break duration = %v, want 15m", p.longBreakDuration)
	}
	if p.targetCount != 4 {
		t.Errorf("target count = %d, want 4", p.targetCount)
	}
}

func TestPomodoroLoadsCustomSettings(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("pomodoro_work", "3000")
	s.SetSetting("pomodoro_count", "2")

	p := newPomodoroModel(s)
	if p.workDuration != 50*time.Minute {
		t.Errorf("work duration = %v, want 50m", p.workDuration)
	}
	if p.targetCount != 2 {
		t.Errorf("target count = %d, want 2", p.targetCount)
	}
}

func TestPomodoroStartSession(t *testing.T) {
	p := newPomodoroModel(newTestStore(t))

	p, cmd := p.startSession()
	if p.phase != pomodoroWork {
		t.Errorf("phase after start = %v, want work", p.phase)
	}
	if p.remaining != p.workDuration {
		t.Errorf("remaining = %v, want %v", p.remaining, p.workDuration)
	}
	if cmd == nil {
		t.Fatal("start should announce")
	}
	if status, ok := cmd().(statusMsg); !ok || !strings.HasPrefix(status.text, "Focus time") {
		t.Errorf("expected focus announcement, got %v", cmd())
	}
}

func TestPomodoroCancelSession(t *testing.T) {
	p := newPomodoroModel(newTestStore(t))
	p, _ = p.startSession()

	p, cmd := p.cancelSession()
	if p.phase != pomodoroIdle {
		t.Errorf("phase after cancel = %v, want idle", p.phase)
	}
	if p.remaining != 0 {
		t.Errorf("remaining after cancel = %v, want 0", p.remaining)
	}
	if cmd == nil {
		t.Fatal("cancel should post a status")
	}
}

func TestPomodoroWorkToBreakRecordsSession(t *testing.T) {
	s := newTestStore(t)
	p := newPomodoroModel(s)
	p.setUser("alice")
	p, _ = p.startSession()

	p, _ = p.advancePhase()
	if p.phase != pomodoroShortBreak {
		t.Errorf("phase after first work = %v, want short break", p.phase)
	}
	if p.completedCount != 1 {
		t.Errorf("completed count = %d, want 1", p.completedCount)
	}

	now := time.Now()
	sessions, err := s.ListFocusSessions(now.Add(-time.Minute), now.Add(time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 recorded focus session, got %d", len(sessions))
	}
	if sessions[0].UserName != "alice" {
		t.Errorf("session user = %s, want alice", sessions[0].UserName)
	}
	if sessions[0].Duration != int64(p.workDuration.Seconds()) {
		t.Errorf("session duration = %d, want %d", sessions[0].Duration, int64(p.workDuration.Seconds()))
	}
}

func TestPomodoroRecordFailureSurfaced(t *testing.T) {
	s := newTestStore(t)
	p := newPomodoroModel(s)
	p.setUser("alice")
	p, _ = p.startSession()

	s.Close()
	p, cmd := p.advancePhase()
	if p.phase != pomodoroShortBreak {
		t.Errorf("phase should still advance on a failed write, got %v", p.phase)
	}
	if !hasErrorStatus(runCmd(cmd)) {
		t.Error("failed session write should surface an error status")
	}
}

func TestPomodoroBreakToWork(t *testing.T) {
	p := newPomodoroModel(newTestStore(t))
	p.setUser("alice")
	p, _ = p.startSession()
	p, _ = p.advancePhase() // work -> short break

	p, _ = p.advancePhase() // break -> work
	if p.phase != pomodoroWork {
		t.Errorf("phase after break = %v, want work", p.phase)
	}
	if p.completedCount != 1 {
		t.Errorf("completed count should survive break, got %d", p.completedCount)
	}
}

func TestPomodoroFullCycle(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("pomodoro_count", "2")
	p := newPomodoroModel(s)
	p.setUser("alice")
	p, _ = p.startSession()

	p, _ = p.advancePhase() // work 1 -> break
	p, _ = p.advancePhase() // break -> work 2
	p, cmd := p.advancePhase()

	if p.phase != pomodoroCompleted {
		t.Errorf("phase after final work = %v, want completed", p.phase)
	}
	if p.completedCount != 2 {
		t.Errorf("completed count = %d, want 2", p.completedCount)
	}
	if status, ok := cmd().(statusMsg); !ok || !strings.HasPrefix(status.text, "Session complete") {
		t.Errorf("expected completion announcement, got %v", cmd())
	}
}

func TestPomodoroSkipBreak(t *testing.T) {
	p := newPomodoroModel(newTestStore(t))
	p.setUser("alice")
	p, _ = p.startSession()
	p, _ = p.advancePhase() // work -> break

	p, _ = p.update(keyRunes(" "))
	if p.phase != pomodoroWork {
		t.Errorf("space during break should skip to work, got %v", p.phase)
	}
}

func TestPomodoroSetUserResets(t *testing.T) {
	p := newPomodoroModel(newTestStore(t))
	p.setUser("alice")
	p, _ = p.startSession()
	p, _ = p.advancePhase()

	p.setUser("bob")
	if p.phase != pomodoroIdle || p.completedCount != 0 {
		t.Error("setUser should reset the phase machine")
	}
}

func TestPomodoroSettingsForm(t *testing.T) {
	s := newTestStore(t)
	p := newPomodoroModel(s)

	p, cmd := p.showSettingsForm()
	if !p.formActive {
		t.Fatal("settings form should be active")
	}
	if cmd == nil {
		t.Fatal("opening the form should init it")
	}
	if *p.formWork != "25" || *p.formCount != "4" || *p.formVolume != "50" {
		t.Errorf("form should be prefilled from settings, got work=%s count=%s volume=%s",
			*p.formWork, *p.formCount, *p.formVolume)
	}
}

func TestPomodoroSaveSettings(t *testing.T) {
	s := newTestStore(t)
	p := newPomodoroModel(s)
	p, _ = p.showSettingsForm()

	*p.formWork = "50"
	*p.formCount = "2"
	*p.formVolume = "0"
	p.saveSettings()
	p.loadSettings()

	if p.workDuration != 50*time.Minute {
		t.Errorf("work duration = %v, want 50m", p.workDuration)
	}
	if p.targetCount != 2 {
		t.Errorf("target count = %d, want 2", p.targetCount)
	}
	if soundEnabled(s) {
		t.Error("volume 0 should disable sound")
	}
}

func TestPomodoroSaveSettingsIgnoresInvalid(t *testing.T) {
	s := newTestStore(t)
	p := newPomodoroModel(s)
	p, _ = p.showSettingsForm()

	*p.formWork = "not a number"
	*p.formCount = "-1"
	p.saveSettings()
	p.loadSettings()

	if p.workDuration != 25*time.Minute || p.targetCount != 4 {
		t.Error("invalid fields should keep the stored values")
	}
}

func TestFormatPomodoroTime(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{25 * time.Minute, "25:00"},
		{90 * time.Second, "01:30"},
		{-time.Second, "00:00"},
		{65 * time.Minute, "65:00"},
	}
	for _, tt := range tests {
		if got := formatPomodoroTime(tt.d); got != tt.expected {
			t.Errorf("formatPomodoroTime(%v) = %q, want %q", tt.d, got, tt.expected)
		}
	}
}

// ============================================================
// Tasks view
// ============================================================

func TestTasksTodayTotals(t *testing.T) {
	s := newTestStore(t)
	m := newTasksModel(s)
	m.setUser("alice")

	s.CreateTask("alice", "A", 45)
	done, _ := s.CreateTask("alice", "B", 30)
	s.ToggleTask(done.ID, true)

	msg := m.refresh()()
	m, _ = m.update(msg)

	totals := m.todayTotals()
	if totals.CompletedMinutes != 30 {
		t.Errorf("completed minutes = %d, want 30", totals.CompletedMinutes)
	}
	if totals.PendingMinutes != 45 {
		t.Errorf("pending minutes = %d, want 45", totals.PendingMinutes)
	}
}

func TestTasksCursorClamped(t *testing.T) {
	s := newTestStore(t)
	m := newTasksModel(s)
	m.setUser("alice")
	s.CreateTask("alice", "only", 30)

	m.cursor = 5
	msg := m.refresh()()
	m, _ = m.update(msg)

	if m.cursor != 0 {
		t.Errorf("cursor should clamp to last task, got %d", m.cursor)
	}
}

func TestTasksToggleAnnouncesCompletion(t *testing.T) {
	s := newTestStore(t)
	m := newTasksModel(s)
	m.setUser("alice")
	s.CreateTask("alice", "A", 30)

	msg := m.refresh()()
	m, _ = m.update(msg)

	m, cmd := m.update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("toggle should produce a command")
	}
	task, _ := s.ListTasks(store.TaskFilter{UserName: "alice"})
	if !task[0].Completed {
		t.Error("enter should complete the pending task")
	}
}

func TestTasksToggleFailureSurfaced(t *testing.T) {
	s := newTestStore(t)
	m := newTasksModel(s)
	m.setUser("alice")
	s.CreateTask("alice", "A", 30)

	msg := m.refresh()()
	m, _ = m.update(msg)

	s.Close()
	m, cmd := m.update(tea.KeyMsg{Type: tea.KeyEnter})
	if !hasErrorStatus(runCmd(cmd)) {
		t.Error("failed toggle should surface an error status")
	}
}

func TestTasksWellnessCycle(t *testing.T) {
	m := newTasksModel(newTestStore(t))
	m.setUser("alice")

	m, cmd := m.cycleWellness()
	if m.wellnessLabel != "Exercise" {
		t.Errorf("first cycle = %q, want Exercise", m.wellnessLabel)
	}
	if m.wellnessLeft != 15*time.Minute {
		t.Errorf("wellness countdown = %v, want 15m", m.wellnessLeft)
	}
	if cmd == nil {
		t.Fatal("starting a wellness break should announce")
	}

	m, _ = m.cycleWellness()
	if m.wellnessLabel != "Meditation" {
		t.Errorf("second cycle = %q, want Meditation", m.wellnessLabel)
	}

	m, _ = m.cycleWellness()
	if m.wellnessLabel != "" {
		t.Errorf("third cycle should stop the timer, got %q", m.wellnessLabel)
	}
}

func TestTasksWellnessExpires(t *testing.T) {
	m := newTasksModel(newTestStore(t))
	m.setUser("alice")
	m, _ = m.cycleWellness()
	m.wellnessEnd = time.Now().Add(-time.Second)

	m, cmd := m.update(tickMsg(time.Now()))
	if m.wellnessLabel != "" {
		t.Error("expired wellness timer should reset")
	}
	if cmd == nil {
		t.Fatal("expiry should announce")
	}
	if status, ok := cmd().(statusMsg); !ok || !strings.HasPrefix(status.text, "Exercise done") {
		t.Errorf("expected completion announcement, got %v", cmd())
	}
}

// ============================================================
// Login
// ============================================================

func TestLoginModeSwitching(t *testing.T) {
	l := newLoginModel(newTestStore(t))
	if l.mode != modeSignIn {
		t.Fatalf("initial mode = %v, want sign in", l.mode)
	}

	l, _ = l.update(tea.KeyMsg{Type: tea.KeyCtrlN})
	if l.mode != modeRegister {
		t.Errorf("ctrl+n should switch to register, got %v", l.mode)
	}

	l, _ = l.update(tea.KeyMsg{Type: tea.KeyEsc})
	if l.mode != modeSignIn {
		t.Errorf("esc should return to sign in, got %v", l.mode)
	}

	l, _ = l.update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if l.mode != modeReset {
		t.Errorf("ctrl+r should switch to reset, got %v", l.mode)
	}
}

func TestLoginViewTitles(t *testing.T) {
	l := newLoginModel(newTestStore(t))
	l.setSize(80, 24)

	if !strings.Contains(l.view(), "Sign In") {
		t.Error("sign in view should show its title")
	}
	l.mode = modeRegister
	l.buildForm()
	if !strings.Contains(l.view(), "Create Account") {
		t.Error("register view should show its title")
	}
}

// ============================================================
// Leaders view
// ============================================================

func TestLeadersWeekNavigation(t *testing.T) {
	l := newLeadersModel(newTestStore(t))
	l.setUser("alice")

	l, _ = l.update(tea.KeyMsg{Type: tea.KeyLeft})
	if l.weeksAgo != 1 {
		t.Errorf("left should go back a week, got %d", l.weeksAgo)
	}
	l, _ = l.update(tea.KeyMsg{Type: tea.KeyRight})
	if l.weeksAgo != 0 {
		t.Errorf("right should come forward, got %d", l.weeksAgo)
	}
	// Cannot navigate into the future
	l, _ = l.update(tea.KeyMsg{Type: tea.KeyRight})
	if l.weeksAgo != 0 {
		t.Errorf("weeksAgo must not go negative, got %d", l.weeksAgo)
	}
}

func TestLeadersDropsStaleData(t *testing.T) {
	s := newTestStore(t)
	l := newLeadersModel(s)
	l.setUser("alice")
	l.weeksAgo = 0

	s.RecordFocusSession("alice", 1500, time.Now())

	// An answer for a different week must be ignored.
	stale := leadersDataMsg{weeksAgo: 2, ranked: []stats.Performance{{UserName: "ghost"}}}
	l, _ = l.update(stale)
	if l.ranked != nil {
		t.Error("stale data should be dropped")
	}

	fresh := l.refresh()().(leadersDataMsg)
	l, _ = l.update(fresh)
	if len(l.ranked) != 1 {
		t.Fatalf("expected 1 ranked entry, got %d", len(l.ranked))
	}
	if l.ranked[0].UserName != "alice" || l.ranked[0].TotalSeconds != 1500 {
		t.Errorf("unexpected ranking: %+v", l.ranked[0])
	}
}

// ============================================================
// Community view
// ============================================================

func TestCommunityCursorClamped(t *testing.T) {
	s := newTestStore(t)
	c := newCommunityModel(s)
	c.setUser("alice")
	s.CreatePost("alice", "one")

	c.cursor = 9
	msg := c.refresh()()
	c, _ = c.update(msg)
	if c.cursor != 0 {
		t.Errorf("cursor should clamp, got %d", c.cursor)
	}
}

func TestCommunityLike(t *testing.T) {
	s := newTestStore(t)
	c := newCommunityModel(s)
	c.setUser("alice")
	p, _ := s.CreatePost("bob", "hello")

	msg := c.refresh()()
	c, _ = c.update(msg)
	c, _ = c.update(tea.KeyMsg{Type: tea.KeyEnter})

	got, _ := s.GetPost(p.ID)
	if got.Likes != 1 {
		t.Errorf("expected 1 like, got %d", got.Likes)
	}
}

func TestCommunityDeleteOnlyOwnPosts(t *testing.T) {
	s := newTestStore(t)
	c := newCommunityModel(s)
	c.setUser("alice")
	p, _ := s.CreatePost("bob", "not yours")

	msg := c.refresh()()
	c, _ = c.update(msg)
	c, _ = c.update(keyRunes("d"))

	if _, err := s.GetPost(p.ID); err != nil {
		t.Error("another user's post must not be deletable")
	}
}

// ============================================================
// App
// ============================================================

func TestNewApp(t *testing.T) {
	a := newTestApp(t, "")
	if a.signedIn() {
		t.Error("app without a session user should be signed out")
	}
	if a.activeView != viewTasks {
		t.Errorf("default view = %v, want tasks", a.activeView)
	}
}

func TestNewAppRestoresTab(t *testing.T) {
	ctx := session.Context{UserName: "alice", ActiveTab: "stats"}
	a := NewApp(newTestStore(t), ctx, t.TempDir()+"/session.json")
	if !a.signedIn() {
		t.Error("app with a session user should be signed in")
	}
	if a.activeView != viewStats {
		t.Errorf("restored view = %v, want stats", a.activeView)
	}
}

func TestAppLoadingState(t *testing.T) {
	a := newTestApp(t, "alice")
	if a.View() != "Loading..." {
		t.Error("zero-width app should render the loading placeholder")
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	a := newTestApp(t, "alice")
	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	a = m.(App)

	view := a.View()
	for _, name := range viewNames {
		if !strings.Contains(view, name) {
			t.Errorf("header should contain tab %q", name)
		}
	}
	if !strings.Contains(view, "flowtrack") {
		t.Error("header should contain the app title")
	}
}

func TestAppTabSwitching(t *testing.T) {
	a := newTestApp(t, "alice")
	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	a = m.(App)

	m, _ = a.Update(keyRunes("2"))
	a = m.(App)
	if a.activeView != viewPomodoro {
		t.Errorf("key 2 should switch to pomodoro, got %v", a.activeView)
	}

	m, _ = a.Update(tea.KeyMsg{Type: tea.KeyTab})
	a = m.(App)
	if a.activeView != viewDiary {
		t.Errorf("tab should cycle forward, got %v", a.activeView)
	}
}

func TestAppTabCycleWraps(t *testing.T) {
	a := newTestApp(t, "alice")
	a.activeView = viewCommunity

	m, _ := a.Update(tea.KeyMsg{Type: tea.KeyTab})
	a = m.(App)
	if a.activeView != viewTasks {
		t.Errorf("tab from the last view should wrap to the first, got %v", a.activeView)
	}
}

func TestAppSignedOutGating(t *testing.T) {
	a := newTestApp(t, "")

	// Regular keys go to the login form, not the tab bar.
	m, _ := a.Update(keyRunes("2"))
	a = m.(App)
	if a.activeView != viewTasks {
		t.Error("tab keys must not work while signed out")
	}

	// ctrl+c still quits
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should produce a quit message")
	}
}

func TestAppLoginDone(t *testing.T) {
	a := newTestApp(t, "")

	m, cmd := a.Update(loginDoneMsg{userName: "alice"})
	a = m.(App)
	if !a.signedIn() || a.ctx.UserName != "alice" {
		t.Error("loginDoneMsg should sign the user in")
	}
	if cmd == nil {
		t.Error("login should trigger a refresh")
	}
}

func TestAppStatusMessage(t *testing.T) {
	a := newTestApp(t, "alice")
	m, _ := a.Update(statusMsg{text: "hello"})
	a = m.(App)
	if a.status != "hello" {
		t.Errorf("status = %q, want hello", a.status)
	}
}

func TestAppExportPicker(t *testing.T) {
	a := newTestApp(t, "alice")
	m, _ := a.Update(keyRunes("e"))
	a = m.(App)
	if !a.exportPicking {
		t.Fatal("e should open the export picker")
	}

	m, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = m.(App)
	if a.exportPicking {
		t.Error("esc should close the export picker")
	}
}

func TestAppExportFailureSurfaced(t *testing.T) {
	a := newTestApp(t, "alice")
	a.store.Close()

	msg := a.doExport(0)()
	status, ok := msg.(statusMsg)
	if !ok || !status.isError {
		t.Fatalf("export against a broken store should report an error, got %#v", msg)
	}
}

func TestAppSnapshotSaved(t *testing.T) {
	a := newTestApp(t, "alice")
	m, cmd := a.Update(snapshotSavedMsg{date: "2025-06-16"})
	a = m.(App)
	if a.snapshotDate != "2025-06-16" {
		t.Errorf("snapshot date = %q, want 2025-06-16", a.snapshotDate)
	}
	if cmd == nil {
		t.Error("snapshot save should announce")
	}
}

func TestAppIsFormActiveDefault(t *testing.T) {
	a := newTestApp(t, "alice")
	if a.isFormActive() {
		t.Error("no form should be active initially")
	}
}

func TestAppTableChangedRearmsListener(t *testing.T) {
	a := newTestApp(t, "alice")
	_, cmd := a.Update(tableChangedMsg{table: store.TableTasks})
	if cmd == nil {
		t.Fatal("table change should produce refresh commands")
	}
}

// ============================================================
// Keymap
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	short := keys.ShortHelp()
	if len(short) == 0 {
		t.Fatal("short help should not be empty")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	full := keys.FullHelp()
	if len(full) == 0 {
		t.Fatal("full help should not be empty")
	}
	for i, group := range full {
		if len(group) == 0 {
			t.Errorf("help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles
// ============================================================

func TestStylesRender(t *testing.T) {
	out := titleStyle.Render("Title")
	if !strings.Contains(out, "Title") {
		t.Error("titleStyle should preserve content")
	}
	out = panelStyle.Width(40).Render("content")
	if !strings.Contains(out, "content") {
		t.Error("panelStyle should preserve content")
	}
}
