package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/studyhall/pkg/domain"
)

func newTestApp(auth Authenticator) App {
	a := NewApp(auth, Options{})
	a.width = 80
	a.height = 30
	return a
}

func update(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	model, cmd := a.Update(msg)
	return model.(App), cmd
}

func TestAppStartsOnForm(t *testing.T) {
	a := newTestApp(nil)
	if a.view != viewForm {
		t.Fatalf("view = %d, want form", a.view)
	}
	if a.SessionStored() {
		t.Error("SessionStored() = true before any submission")
	}
	view := a.View()
	if !strings.Contains(view, "Sign Up") {
		t.Errorf("view missing form title:\n%s", view)
	}
	if !strings.Contains(view, "S  T  U  D  Y  H  A  L  L") {
		t.Errorf("view missing logo:\n%s", view)
	}
}

func TestAppStartsOnWelcomeWithSession(t *testing.T) {
	a := NewApp(nil, Options{Session: &domain.Session{ID: "existing"}})
	if a.view != viewWelcome || !a.SessionStored() {
		t.Fatalf("view = %d, want welcome", a.view)
	}
	if !strings.Contains(a.View(), "Signed in") {
		t.Errorf("view missing resumed heading:\n%s", a.View())
	}
}

func TestAppSignInMode(t *testing.T) {
	a := NewApp(nil, Options{Mode: ModeSignIn})
	if !strings.Contains(a.View(), "Sign In") {
		t.Errorf("view missing sign-in title:\n%s", a.View())
	}
}

func TestAppFullSignUpFlow(t *testing.T) {
	auth := &fakeAuth{session: domain.Session{ID: "abc123"}}
	a := newTestApp(auth)

	for _, r := range "ada@example.com" {
		a, _ = update(t, a, keyRunes(string(r)))
	}
	a, _ = update(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	for _, r := range "pw" {
		a, _ = update(t, a, keyRunes(string(r)))
	}
	a, cmd := update(t, a, tea.KeyMsg{Type: tea.KeyEnter})

	// Deliver every resulting message, then the follow-up ones.
	pending := runCmd(cmd)
	for len(pending) > 0 {
		msg := pending[0]
		pending = pending[1:]
		if _, isTick := msg.(shimmerTickMsg); isTick {
			continue
		}
		var next tea.Cmd
		a, next = update(t, a, msg)
		if _, isResult := msg.(authResultMsg); isResult {
			pending = append(pending, runCmd(next)...)
		}
	}

	if a.view != viewWelcome {
		t.Fatalf("view = %d, want welcome after success", a.view)
	}
	if !a.SessionStored() {
		t.Error("SessionStored() = false after success")
	}
	if !strings.Contains(a.View(), "Account created") {
		t.Errorf("view missing success heading:\n%s", a.View())
	}
	if len(auth.calls) != 1 || auth.calls[0] != "signup:ada@example.com:pw" {
		t.Errorf("calls = %q", auth.calls)
	}
}

func TestAppQuitKeys(t *testing.T) {
	tests := []struct {
		name     string
		view     view
		key      tea.KeyMsg
		wantQuit bool
	}{
		{"ctrl+c on form", viewForm, tea.KeyMsg{Type: tea.KeyCtrlC}, true},
		{"esc on form", viewForm, tea.KeyMsg{Type: tea.KeyEsc}, true},
		{"q on form is text", viewForm, keyRunes("q"), false},
		{"q on welcome", viewWelcome, keyRunes("q"), true},
		{"esc on welcome", viewWelcome, tea.KeyMsg{Type: tea.KeyEsc}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(nil)
			a.view = tt.view
			a, cmd := update(t, a, tt.key)
			gotQuit := false
			if cmd != nil {
				_, gotQuit = cmd().(tea.QuitMsg)
			}
			if gotQuit != tt.wantQuit {
				t.Errorf("quit = %v, want %v", gotQuit, tt.wantQuit)
			}
			if tt.name == "q on form is text" && a.form.email.Value() != "q" {
				t.Errorf("email = %q, want %q", a.form.email.Value(), "q")
			}
		})
	}
}

func TestAppShimmerAdvances(t *testing.T) {
	a := newTestApp(nil)
	a, cmd := update(t, a, shimmerTickMsg{})
	if a.frame != 1 {
		t.Errorf("frame = %d, want 1", a.frame)
	}
	if cmd == nil {
		t.Error("expected next tick command")
	}
}

func TestAppViewFitsHeight(t *testing.T) {
	a := newTestApp(nil)
	a, _ = update(t, a, tea.WindowSizeMsg{Width: 60, Height: 8})
	if lines := strings.Count(a.View(), "\n") + 1; lines > 8+1 {
		t.Errorf("view has %d lines for height 8", lines)
	}
}

func TestTruncateToHeight(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"a\nb\nc\n", 2, "a\nb\n"},
		{"a\nb", 5, "a\nb"},
		{"a\nb", 0, "a\nb"},
	}
	for _, tt := range tests {
		if got := truncateToHeight(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateToHeight(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
