package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/naveenspark/studyhall/internal/tui"
	"github.com/naveenspark/studyhall/pkg/client"
	"github.com/naveenspark/studyhall/pkg/domain"
)

// Replaced in tests.
var (
	runProgram = func(m tea.Model) (tea.Model, error) {
		return tea.NewProgram(m, tea.WithAltScreen()).Run()
	}
	writeClipboard = clipboard.WriteAll
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ade80")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0"))
	markStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#34d474"))
)

func runRoot(_ *cobra.Command, e *env) error {
	s, ok, err := e.client.Session()
	if err != nil {
		return err
	}
	opts := tui.Options{Mode: tui.ModeSignUp, AppURL: e.cfg.AppURL}
	if ok && s.ID != "" {
		opts.Session = &s
	}
	return runTUI(e, opts)
}

func runTUI(e *env, opts tui.Options) error {
	final, err := runProgram(tui.NewApp(e.client, opts))
	if err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	if app, ok := final.(tui.App); ok && app.SessionStored() && opts.Session == nil {
		e.logger.Info("session stored from tui")
	}
	return nil
}

func newAuthCmd(e *env, use, short string, mode tui.Mode) *cobra.Command {
	var (
		email         string
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long: short + `.

Without flags an interactive form is shown. With --email and --password-stdin
the request is made directly, reading the password from the first line of
standard input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" && !passwordStdin {
				return runTUI(e, tui.Options{Mode: mode, AppURL: e.cfg.AppURL})
			}
			if email == "" || !passwordStdin {
				return errors.New("--email and --password-stdin must be used together")
			}
			password, err := readPassword(cmd.InOrStdin())
			if err != nil {
				return err
			}
			return authenticate(cmd.Context(), cmd.OutOrStdout(), e.client, mode, email, password)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func authenticate(ctx context.Context, w io.Writer, c *client.Client, mode tui.Mode, email, password string) error {
	var (
		s       domain.Session
		err     error
		heading string
	)
	if mode == tui.ModeSignIn {
		s, err = c.SignIn(ctx, email, password)
		heading = "Signed in"
	} else {
		s, err = c.CreateAccount(ctx, email, password)
		heading = "Account created"
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s\n", markStyle.Render("✓"), okStyle.Render(heading))
	fmt.Fprintf(w, "  %s %s\n", dimStyle.Render("session"), s.Short())
	return nil
}

// readPassword returns the first line of r without its line ending.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		return "", errors.New("read password: stdin is empty")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLogoutCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := e.client.ExpireSession(cmd.Context())
			if errors.Is(err, client.ErrNoSession) {
				fmt.Fprintln(cmd.OutOrStdout(), "Already logged out.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newSessionCmd(e *env) *cobra.Command {
	var copyToken bool
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Print the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, ok, err := e.client.Session()
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("no stored session; run 'studyhall signup' or 'studyhall login'")
			}
			if copyToken {
				if err := writeClipboard(s.ID); err != nil {
					return fmt.Errorf("copy session: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Session token copied.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.ID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&copyToken, "copy", false, "copy the token to the clipboard instead of printing it")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "studyhall "+version)
		},
	}
}
