package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/studyhall/pkg/client"
	"github.com/naveenspark/studyhall/pkg/domain"
)

// fakeAuth records calls and returns canned results.
type fakeAuth struct {
	mu      sync.Mutex
	calls   []string // "signup:email:password" / "signin:email:password"
	session domain.Session
	err     error
}

func (f *fakeAuth) CreateAccount(_ context.Context, email, password string) (domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "signup:"+email+":"+password)
	return f.session, f.err
}

func (f *fakeAuth) SignIn(_ context.Context, email, password string) (domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "signin:"+email+":"+password)
	return f.session, f.err
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m formModel, s string) formModel {
	for _, r := range s {
		m, _ = m.Update(keyRunes(string(r)))
	}
	return m
}

// runCmd executes cmd and flattens batches into the resulting messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findAuthResult(t *testing.T, msgs []tea.Msg) authResultMsg {
	t.Helper()
	for _, m := range msgs {
		if r, ok := m.(authResultMsg); ok {
			return r
		}
	}
	t.Fatalf("no authResultMsg in %v", msgs)
	return authResultMsg{}
}

func filledForm(auth Authenticator, mode Mode) formModel {
	m := newFormModel(auth, mode)
	m = typeText(m, "ada@example.com")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(m, "s3cret")
	return m
}

func TestFormTypingAndFocus(t *testing.T) {
	m := newFormModel(nil, ModeSignUp)
	if m.focus != fieldEmail {
		t.Fatalf("initial focus = %d, want email", m.focus)
	}
	m = typeText(m, "a@b")
	if got := m.email.Value(); got != "a@b" {
		t.Errorf("email = %q, want %q", got, "a@b")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.focus != fieldPassword {
		t.Errorf("enter on email: focus = %d, want password", m.focus)
	}
	m = typeText(m, "pw")
	if got := m.password.Value(); got != "pw" {
		t.Errorf("password = %q, want %q", got, "pw")
	}
	if got := m.email.Value(); got != "a@b" {
		t.Errorf("email changed to %q while password focused", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != fieldSubmit {
		t.Errorf("tab: focus = %d, want submit", m.focus)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != fieldEmail {
		t.Errorf("tab wraps: focus = %d, want email", m.focus)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != fieldSubmit {
		t.Errorf("shift+tab wraps: focus = %d, want submit", m.focus)
	}
}

func TestFormPasswordIsMasked(t *testing.T) {
	m := filledForm(nil, ModeSignUp)
	view := m.View()
	if strings.Contains(view, "s3cret") {
		t.Errorf("view shows the password in clear text:\n%s", view)
	}
	if !strings.Contains(view, "ada@example.com") {
		t.Errorf("view should show the email:\n%s", view)
	}
}

func TestFormSubmitSendsFieldsUnchanged(t *testing.T) {
	auth := &fakeAuth{session: domain.Session{ID: "abc123"}}
	m := newFormModel(auth, ModeSignUp)
	m = typeText(m, "  spaced@x ")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(m, " p w ")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateSubmitting {
		t.Fatalf("state = %d, want submitting", m.state)
	}
	res := findAuthResult(t, runCmd(cmd))

	if len(auth.calls) != 1 || auth.calls[0] != "signup:  spaced@x : p w " {
		t.Errorf("calls = %q, want one sign-up with untrimmed fields", auth.calls)
	}
	if res.session.ID != "abc123" || res.gen != m.gen {
		t.Errorf("result = %+v, want session abc123 for gen %d", res, m.gen)
	}
}

func TestFormSubmitSignInMode(t *testing.T) {
	auth := &fakeAuth{session: domain.Session{ID: "s"}}
	m := filledForm(auth, ModeSignUp)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.mode != ModeSignIn {
		t.Fatalf("mode = %d, want sign-in after ctrl+n", m.mode)
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	runCmd(cmd)
	if len(auth.calls) != 1 || !strings.HasPrefix(auth.calls[0], "signin:") {
		t.Errorf("calls = %q, want one sign-in", auth.calls)
	}
}

func TestFormIgnoresKeysWhileSubmitting(t *testing.T) {
	auth := &fakeAuth{}
	m := filledForm(auth, ModeSignUp)
	m, first := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if first == nil {
		t.Fatal("expected a command from the first submit")
	}
	gen := m.gen

	m, second := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if second != nil {
		t.Error("second submit while in flight should not start a request")
	}
	if m.gen != gen {
		t.Errorf("gen = %d, want %d (unchanged)", m.gen, gen)
	}
	m = typeText(m, "x")
	if got := m.password.Value(); got != "s3cret" {
		t.Errorf("password = %q, typing should be ignored while submitting", got)
	}
	if !strings.Contains(m.View(), "creating account...") {
		t.Errorf("view should show progress while submitting:\n%s", m.View())
	}
}

func TestFormRendersError(t *testing.T) {
	auth := &fakeAuth{err: &client.RequestError{StatusCode: 400, Detail: []byte(`"email taken"`)}}
	m := filledForm(auth, ModeSignUp)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	res := findAuthResult(t, runCmd(cmd))

	m, next := m.Update(res)
	if next != nil {
		t.Error("failed submission should not emit a follow-up command")
	}
	if m.state != stateIdle {
		t.Errorf("state = %d, want idle after failure", m.state)
	}
	view := m.View()
	if !strings.Contains(view, "email taken") || !strings.Contains(view, "400") {
		t.Errorf("view should render the error:\n%s", view)
	}
	if m.email.Value() != "ada@example.com" {
		t.Error("fields should be kept after a failure")
	}

	// Form is usable again.
	_, retry := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if retry == nil {
		t.Error("expected resubmission to be possible after failure")
	}
}

func TestFormRendersTransportError(t *testing.T) {
	m := newFormModel(nil, ModeSignUp)
	m.state = stateSubmitting
	m.gen = 1
	m, _ = m.Update(authResultMsg{gen: 1, err: errors.New("dial tcp: connection refused")})
	if !strings.Contains(m.View(), "connection refused") {
		t.Errorf("view should render the transport error:\n%s", m.View())
	}
}

func TestFormSuccessEmitsSessionReady(t *testing.T) {
	auth := &fakeAuth{session: domain.Session{ID: "abc123"}}
	m := filledForm(auth, ModeSignUp)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	res := findAuthResult(t, runCmd(cmd))

	m, next := m.Update(res)
	if m.state != stateDone {
		t.Errorf("state = %d, want done", m.state)
	}
	msgs := runCmd(next)
	if len(msgs) != 1 {
		t.Fatalf("got %d msgs, want 1", len(msgs))
	}
	ready, ok := msgs[0].(sessionReadyMsg)
	if !ok || ready.session.ID != "abc123" {
		t.Errorf("msg = %#v, want sessionReadyMsg for abc123", msgs[0])
	}
}

func TestFormDropsStaleResults(t *testing.T) {
	m := newFormModel(nil, ModeSignUp)
	m.state = stateSubmitting
	m.gen = 3

	m, cmd := m.Update(authResultMsg{gen: 2, session: domain.Session{ID: "old"}})
	if cmd != nil || m.state != stateSubmitting {
		t.Errorf("stale result changed the form: state=%d cmd=%v", m.state, cmd != nil)
	}

	m, cmd = m.Update(authResultMsg{gen: 3, session: domain.Session{ID: "new"}})
	if cmd == nil || m.state != stateDone {
		t.Errorf("current result ignored: state=%d", m.state)
	}
}

func TestFormIgnoresResultWhenIdle(t *testing.T) {
	m := newFormModel(nil, ModeSignUp)
	m, cmd := m.Update(authResultMsg{gen: 0, session: domain.Session{ID: "x"}})
	if cmd != nil || m.state != stateIdle {
		t.Error("result without a pending submission should be ignored")
	}
}

func TestFormSubmitButtonFocus(t *testing.T) {
	auth := &fakeAuth{}
	m := filledForm(auth, ModeSignUp)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab}) // to submit
	if m.focus != fieldSubmit {
		t.Fatalf("focus = %d, want submit", m.focus)
	}
	m = typeText(m, "zz")
	if m.password.Value() != "s3cret" || m.email.Value() != "ada@example.com" {
		t.Error("typing on the submit button should not edit fields")
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	runCmd(cmd)
	if len(auth.calls) != 1 {
		t.Errorf("calls = %d, want 1", len(auth.calls))
	}
}
