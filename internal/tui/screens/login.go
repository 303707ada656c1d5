package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jobdeck/jobdeck/internal/auth"
)

type loginMode int

const (
	loginModeSignIn loginMode = iota
	loginModeSignUp
)

type loginField int

const (
	fieldEmail loginField = iota
	fieldPassword
	fieldName
)

type Login struct {
	auth   *auth.Manager
	width  int
	height int

	mode     loginMode
	field    loginField
	email    textinput.Model
	password textinput.Model
	name     textinput.Model
	err      error
}

func NewLogin(manager *auth.Manager) *Login {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 100
	email.Width = 40

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 100
	password.Width = 40

	name := textinput.New()
	name.Placeholder = "Display name"
	name.CharLimit = 100
	name.Width = 40

	return &Login{
		auth:     manager,
		email:    email,
		password: password,
		name:     name,
	}
}

func (l *Login) SetSize(width, height int) {
	l.width = width
	l.height = height
}

type loginResultMsg struct {
	session *auth.Session
	err     error
}

func (l *Login) Init() tea.Cmd {
	l.mode = loginModeSignIn
	l.field = fieldEmail
	l.err = nil
	l.email.Focus()
	l.password.Blur()
	l.name.Blur()
	return textinput.Blink
}

func (l *Login) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loginResultMsg:
		if msg.err != nil {
			l.err = msg.err
			return nil
		}
		return func() tea.Msg { return SignedInMsg{Session: msg.session} }

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			l.nextField(1)
			return nil
		case "shift+tab", "up":
			l.nextField(-1)
			return nil
		case "ctrl+s":
			if l.mode == loginModeSignIn {
				l.mode = loginModeSignUp
			} else {
				l.mode = loginModeSignIn
			}
			l.err = nil
			return nil
		case "enter":
			return l.submit()
		}
	}

	var cmd tea.Cmd
	switch l.field {
	case fieldEmail:
		l.email, cmd = l.email.Update(msg)
	case fieldPassword:
		l.password, cmd = l.password.Update(msg)
	case fieldName:
		l.name, cmd = l.name.Update(msg)
	}
	return cmd
}

func (l *Login) nextField(dir int) {
	fields := 2
	if l.mode == loginModeSignUp {
		fields = 3
	}
	l.field = loginField((int(l.field) + dir + fields) % fields)

	l.email.Blur()
	l.password.Blur()
	l.name.Blur()
	switch l.field {
	case fieldEmail:
		l.email.Focus()
	case fieldPassword:
		l.password.Focus()
	case fieldName:
		l.name.Focus()
	}
}

func (l *Login) submit() tea.Cmd {
	email := strings.TrimSpace(l.email.Value())
	password := l.password.Value()
	name := strings.TrimSpace(l.name.Value())

	if email == "" || password == "" {
		l.err = fmt.Errorf("email and password are required")
		return nil
	}

	mode := l.mode
	return func() tea.Msg {
		var session *auth.Session
		var err error
		if mode == loginModeSignUp {
			session, err = l.auth.SignUp(email, password, name)
		} else {
			session, err = l.auth.SignIn(email, password)
		}
		return loginResultMsg{session: session, err: err}
	}
}

func (l *Login) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("JOBDECK"))
	b.WriteString("\n")
	if l.mode == loginModeSignIn {
		b.WriteString(SubtitleStyle.Render("Sign in to your tracker"))
	} else {
		b.WriteString(SubtitleStyle.Render("Create an account"))
	}
	b.WriteString("\n\n")

	if l.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", l.err)))
		b.WriteString("\n\n")
	}

	b.WriteString("Email:\n")
	b.WriteString(l.email.View())
	b.WriteString("\n\nPassword:\n")
	b.WriteString(l.password.View())

	if l.mode == loginModeSignUp {
		b.WriteString("\n\nDisplay name:\n")
		b.WriteString(l.name.View())
	}

	b.WriteString("\n\n")
	toggle := "[ctrl+s] Create account instead"
	if l.mode == loginModeSignUp {
		toggle = "[ctrl+s] Sign in instead"
	}
	b.WriteString(HelpStyle.Render("[enter] Submit  [tab] Next field  " + toggle + "  [ctrl+c] Quit"))

	return b.String()
}
