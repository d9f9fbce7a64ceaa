package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/studyhall/internal/browser"
	"github.com/naveenspark/studyhall/pkg/domain"
)

// Replaced in tests.
var (
	writeClipboard = clipboard.WriteAll
	openBrowser    = browser.Open
)

type copyResultMsg struct {
	err error
}

type openResultMsg struct {
	err error
}

// welcomeModel is the follow-up view shown once a session is stored.
type welcomeModel struct {
	session   domain.Session
	mode      Mode
	resumed   bool
	appURL    string
	statusMsg string
}

func newWelcomeModel(s domain.Session, mode Mode, resumed bool, appURL string) welcomeModel {
	return welcomeModel{session: s, mode: mode, resumed: resumed, appURL: appURL}
}

func (m welcomeModel) Update(msg tea.Msg) (welcomeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case copyResultMsg:
		if msg.err != nil {
			m.statusMsg = "copy failed: " + msg.err.Error()
		} else {
			m.statusMsg = "session token copied"
		}
	case openResultMsg:
		if msg.err != nil {
			m.statusMsg = "could not open browser, visit " + m.appURL
		} else {
			m.statusMsg = "opened " + m.appURL
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "c":
			token := m.session.ID
			return m, func() tea.Msg {
				return copyResultMsg{err: writeClipboard(token)}
			}
		case "o":
			if m.appURL == "" {
				m.statusMsg = "no app URL configured (STUDYHALL_APP_URL)"
				return m, nil
			}
			u := m.appURL
			return m, func() tea.Msg {
				return openResultMsg{err: openBrowser(u)}
			}
		}
	}
	return m, nil
}

func (m welcomeModel) View() string {
	var b strings.Builder

	heading := "Account created"
	switch {
	case m.resumed:
		heading = "Signed in"
	case m.mode == ModeSignIn:
		heading = "Welcome back"
	}
	fmt.Fprintf(&b, "  %s\n\n", titleStyle.Render(heading))

	token := m.session.Short()
	if token == "" {
		token = dimStyle.Render("(server returned no session id)")
	}
	fmt.Fprintf(&b, "  %s %s\n", metaStyle.Render("session"), selectedStyle.Render(token))
	if m.appURL != "" {
		fmt.Fprintf(&b, "  %s %s\n", metaStyle.Render("app    "), dimStyle.Render(m.appURL))
	}

	if m.statusMsg != "" {
		b.WriteString("\n  " + accentStyle.Render(m.statusMsg))
	}
	return b.String()
}
