package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/flowtrack/internal/store"
)

type loginMode int

const (
	modeSignIn loginMode = iota
	modeRegister
	modeReset
)

// loginModel gates the app until a user is signed in.
type loginModel struct {
	store  *store.Store
	width  int
	height int

	mode loginMode
	form *huh.Form

	// Form field pointers (survive value copies)
	username *string
	email    *string
	password *string
	confirm  *string

	errText string
}

func newLoginModel(s *store.Store) loginModel {
	u, e, p, c := "", "", "", ""
	m := loginModel{
		store:    s,
		username: &u,
		email:    &e,
		password: &p,
		confirm:  &c,
	}
	m.buildForm()
	return m
}

func (l *loginModel) setSize(w, h int) {
	l.width = w
	l.height = h
}

func (l *loginModel) buildForm() {
	*l.password = ""
	*l.confirm = ""

	switch l.mode {
	case modeRegister:
		l.form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Username").Value(l.username),
				huh.NewInput().Title("Email").Value(l.email),
				huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(l.password),
				huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(l.confirm),
			),
		).WithShowHelp(true).WithShowErrors(true)
	case modeReset:
		l.form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Username").Value(l.username),
				huh.NewInput().Title("Email").Value(l.email),
				huh.NewInput().Title("New password").EchoMode(huh.EchoModePassword).Value(l.password),
				huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(l.confirm),
			),
		).WithShowHelp(true).WithShowErrors(true)
	default:
		l.form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Username").Value(l.username),
				huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(l.password),
			),
		).WithShowHelp(true).WithShowErrors(true)
	}
}

func (l loginModel) Init() tea.Cmd {
	return l.form.Init()
}

func (l loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+n":
			l.mode = modeRegister
			l.errText = ""
			l.buildForm()
			return l, l.form.Init()
		case "ctrl+r":
			l.mode = modeReset
			l.errText = ""
			l.buildForm()
			return l, l.form.Init()
		case "esc":
			if l.mode != modeSignIn {
				l.mode = modeSignIn
				l.errText = ""
				l.buildForm()
				return l, l.form.Init()
			}
		}
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		return l.submit()
	}

	return l, cmd
}

func (l loginModel) submit() (loginModel, tea.Cmd) {
	username := strings.TrimSpace(*l.username)

	switch l.mode {
	case modeRegister:
		if *l.password != *l.confirm {
			return l.fail("Passwords do not match")
		}
		user, err := l.store.RegisterUser(username, strings.TrimSpace(*l.email), *l.password)
		if err != nil {
			return l.fail(fmt.Sprintf("Registration failed: %v", err))
		}
		return l, func() tea.Msg { return loginDoneMsg{userName: user.Username} }

	case modeReset:
		if *l.password != *l.confirm {
			return l.fail("Passwords do not match")
		}
		if err := l.store.ResetPassword(username, strings.TrimSpace(*l.email), *l.password); err != nil {
			return l.fail(fmt.Sprintf("Reset failed: %v", err))
		}
		l.mode = modeSignIn
		l.errText = "Password updated. Sign in with the new password."
		l.buildForm()
		return l, l.form.Init()

	default:
		user, err := l.store.AuthenticateUser(username, *l.password)
		if err != nil {
			return l.fail("Invalid username or password")
		}
		return l, func() tea.Msg { return loginDoneMsg{userName: user.Username} }
	}
}

func (l loginModel) fail(text string) (loginModel, tea.Cmd) {
	l.errText = text
	l.buildForm()
	return l, l.form.Init()
}

func (l loginModel) view() string {
	w := l.width - 4
	if w < 30 {
		w = 30
	}

	var title string
	switch l.mode {
	case modeRegister:
		title = titleStyle.Render("Create Account")
	case modeReset:
		title = titleStyle.Render("Reset Password")
	default:
		title = titleStyle.Render("Sign In")
	}

	rows := []string{title, ""}
	if l.errText != "" {
		rows = append(rows, errorStyle.Render(l.errText), "")
	}
	rows = append(rows, l.form.View(), "")
	rows = append(rows, mutedStyle.Render("ctrl+n: create account  ctrl+r: reset password  esc: back"))

	return activePanelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
