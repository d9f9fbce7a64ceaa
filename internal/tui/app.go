package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/studyhall/pkg/domain"
)

type view int

const (
	viewForm view = iota
	viewWelcome
)

// Options configures the App's starting point.
type Options struct {
	Mode Mode
	// Session, when set, starts the App on the welcome view.
	Session *domain.Session
	// AppURL is the web app the welcome view can open.
	AppURL string
}

// App is the root Bubbletea model.
type App struct {
	view    view
	form    formModel
	welcome welcomeModel
	appURL  string
	width   int
	height  int
	frame   int // logo shimmer animation frame
}

// NewApp creates a new TUI application.
func NewApp(auth Authenticator, opts Options) App {
	a := App{
		form:   newFormModel(auth, opts.Mode),
		appURL: opts.AppURL,
	}
	if opts.Session != nil {
		a.view = viewWelcome
		a.welcome = newWelcomeModel(*opts.Session, opts.Mode, true, opts.AppURL)
	}
	return a
}

// SessionStored reports whether the App finished with a stored session.
func (a App) SessionStored() bool {
	return a.view == viewWelcome
}

func (a App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), a.form.Init())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case sessionReadyMsg:
		a.view = viewWelcome
		a.welcome = newWelcomeModel(msg.session, msg.mode, false, a.appURL)
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "esc":
			return a, tea.Quit
		case "q":
			if a.view == viewWelcome {
				return a, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewForm:
		a.form, cmd = a.form.Update(msg)
	case viewWelcome:
		a.welcome, cmd = a.welcome.Update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	header := centerLine(renderShimmerLogo(a.frame), a.width) + "\n"

	var body, help string
	switch a.view {
	case viewForm:
		body = a.form.View()
		help = " " + helpEntry("tab", "next") + "  " + helpEntry("enter", "submit") + "  " +
			helpEntry("ctrl+n", switchLabel(a.form.mode)) + "  " + helpEntry("esc", "quit")
	case viewWelcome:
		body = a.welcome.View()
		help = " " + helpEntry("c", "copy token") + "  " + helpEntry("o", "open app") + "  " + helpEntry("q", "quit")
	}

	// Chrome: header(2) + help(1)
	body = strings.TrimRight(truncateToHeight(body, a.height-3), "\n")
	return fmt.Sprintf("%s\n%s\n\n%s", header, body, help)
}

func switchLabel(m Mode) string {
	if m == ModeSignUp {
		return "sign in instead"
	}
	return "sign up instead"
}
