package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/studyhall/pkg/domain"
)

// Mode selects which account action the form performs.
type Mode int

const (
	ModeSignUp Mode = iota
	ModeSignIn
)

func (m Mode) title() string {
	if m == ModeSignIn {
		return "Sign In"
	}
	return "Sign Up"
}

func (m Mode) busyText() string {
	if m == ModeSignIn {
		return "signing in..."
	}
	return "creating account..."
}

// Authenticator is the part of the API client the form drives.
type Authenticator interface {
	CreateAccount(ctx context.Context, email, password string) (domain.Session, error)
	SignIn(ctx context.Context, email, password string) (domain.Session, error)
}

type formField int

const (
	fieldEmail formField = iota
	fieldPassword
	fieldSubmit
	numFields
)

type formState int

const (
	stateIdle formState = iota
	stateSubmitting
	stateDone
)

const maxInputLen = 256

// authResultMsg carries the outcome of one submission. gen identifies the
// submission so results from superseded ones can be dropped.
type authResultMsg struct {
	gen     int
	mode    Mode
	session domain.Session
	err     error
}

// sessionReadyMsg tells the App a session was stored and the form is finished.
type sessionReadyMsg struct {
	mode    Mode
	session domain.Session
}

type formModel struct {
	auth     Authenticator
	mode     Mode
	email    textinput.Model
	password textinput.Model
	spinner  spinner.Model
	focus    formField
	state    formState
	gen      int
	err      error
}

func newFormModel(auth Authenticator, mode Mode) formModel {
	email := textinput.New()
	email.Prompt = ""
	email.Placeholder = "you@example.com"
	email.CharLimit = maxInputLen
	email.PlaceholderStyle = inputPlaceholderStyle
	email.Focus()

	password := textinput.New()
	password.Prompt = ""
	password.Placeholder = "password"
	password.CharLimit = maxInputLen
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.PlaceholderStyle = inputPlaceholderStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	return formModel{
		auth:     auth,
		mode:     mode,
		email:    email,
		password: password,
		spinner:  sp,
	}
}

func (m formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m formModel) Update(msg tea.Msg) (formModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		if msg.gen != m.gen || m.state != stateSubmitting {
			return m, nil
		}
		if msg.err != nil {
			m.state = stateIdle
			m.err = msg.err
			return m, nil
		}
		m.state = stateDone
		ready := sessionReadyMsg{mode: msg.mode, session: msg.session}
		return m, func() tea.Msg { return ready }

	case spinner.TickMsg:
		if m.state != stateSubmitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.state != stateIdle {
			return m, nil
		}
		return m.updateKeys(msg)
	}

	// Cursor blink and other input internals.
	var cmds [2]tea.Cmd
	m.email, cmds[0] = m.email.Update(msg)
	m.password, cmds[1] = m.password.Update(msg)
	return m, tea.Batch(cmds[:]...)
}

func (m formModel) updateKeys(msg tea.KeyMsg) (formModel, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return m.setFocus((m.focus + 1) % numFields)
	case "shift+tab", "up":
		return m.setFocus((m.focus - 1 + numFields) % numFields)
	case "ctrl+n":
		if m.mode == ModeSignUp {
			m.mode = ModeSignIn
		} else {
			m.mode = ModeSignUp
		}
		m.err = nil
		return m, nil
	case "enter":
		if m.focus == fieldEmail {
			return m.setFocus(fieldPassword)
		}
		return m.submit()
	}

	m.err = nil
	var cmd tea.Cmd
	switch m.focus {
	case fieldEmail:
		m.email, cmd = m.email.Update(msg)
	case fieldPassword:
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m formModel) setFocus(f formField) (formModel, tea.Cmd) {
	m.focus = f
	m.email.Blur()
	m.password.Blur()
	switch f {
	case fieldEmail:
		return m, m.email.Focus()
	case fieldPassword:
		return m, m.password.Focus()
	}
	return m, nil
}

// submit starts one request. While it is in flight the form ignores keys, so
// a second submission cannot be issued.
func (m formModel) submit() (formModel, tea.Cmd) {
	if m.state != stateIdle {
		return m, nil
	}
	m.gen++
	m.state = stateSubmitting
	m.err = nil
	return m, tea.Batch(m.authCmd(), m.spinner.Tick)
}

func (m formModel) authCmd() tea.Cmd {
	auth, mode, gen := m.auth, m.mode, m.gen
	email, password := m.email.Value(), m.password.Value()
	return func() tea.Msg {
		var (
			s   domain.Session
			err error
		)
		if mode == ModeSignIn {
			s, err = auth.SignIn(context.Background(), email, password)
		} else {
			s, err = auth.CreateAccount(context.Background(), email, password)
		}
		return authResultMsg{gen: gen, mode: mode, session: s, err: err}
	}
}

func (m formModel) View() string {
	var b strings.Builder

	fmt.Fprintf(&b, "  %s\n\n", titleStyle.Render(m.mode.title()))

	rows := []struct {
		field formField
		label string
		input textinput.Model
	}{
		{fieldEmail, "Email", m.email},
		{fieldPassword, "Password", m.password},
	}
	for _, r := range rows {
		cursor := " "
		style := metaStyle
		if m.focus == r.field {
			cursor = inputPromptStyle.Render(">")
			style = selectedStyle
		}
		fmt.Fprintf(&b, "%s %s %s\n", cursor, style.Render(fmt.Sprintf("%-9s", r.label+":")), r.input.View())
	}

	b.WriteString("\n")
	button := buttonStyle
	switch {
	case m.state == stateSubmitting:
		button = buttonBusyStyle
	case m.focus == fieldSubmit:
		button = buttonFocusedStyle
	}
	b.WriteString(indent(button.Render("Submit"), "  "))
	b.WriteString("\n\n")

	switch {
	case m.state == stateSubmitting:
		b.WriteString("  " + m.spinner.View() + " " + dimStyle.Render(m.mode.busyText()))
	case m.err != nil:
		b.WriteString("  " + errorStyle.Render(errorText(m.err)))
	}
	return b.String()
}

// indent prefixes every line of s.
func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
