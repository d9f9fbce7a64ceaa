package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/naveenspark/studyhall/internal/config"
	"github.com/naveenspark/studyhall/internal/logging"
	"github.com/naveenspark/studyhall/internal/store"
	"github.com/naveenspark/studyhall/internal/tui"
	"github.com/naveenspark/studyhall/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	e := &env{}
	if err := runCommand(newRootCmd(e), e); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env is the per-invocation state shared by all commands.
type env struct {
	verbose bool

	cfg    config.Config
	logger *zap.Logger
	store  store.Store
	client *client.Client
	done   bool
}

func (e *env) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	e.cfg = cfg

	logger, err := logging.New(cfg.LogPath(), cfg.LogLevel, e.verbose)
	if err != nil {
		return err
	}
	e.logger = logger

	st, err := store.Open(cfg.Store, cfg.Home)
	if err != nil {
		return err
	}
	e.store = st

	if cfg.BackendBaseURL == "" {
		logger.Warn("STUDYHALL_BACKEND_BASE_URL is empty; requests use relative paths")
	}
	e.client = client.New(cfg.BackendBaseURL, st,
		client.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		client.WithLogger(logger),
	)
	logger.Debug("setup complete",
		zap.String("base_url", cfg.BackendBaseURL),
		zap.String("store", cfg.Store),
		zap.String("home", cfg.Home),
	)
	return nil
}

func (e *env) teardown() {
	if e.done {
		return
	}
	e.done = true
	if e.store != nil {
		if err := e.store.Close(); err != nil && e.logger != nil {
			e.logger.Warn("close store", zap.Error(err))
		}
	}
	if e.logger != nil {
		_ = e.logger.Sync()
	}
}

// runCommand executes root and releases whatever setup acquired, also
// when the command fails.
func runCommand(root *cobra.Command, e *env) error {
	defer e.teardown()
	return root.Execute()
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "studyhall",
		Short: "studyhall account client",
		Long: `studyhall creates an account or signs in against the studyhall backend
and keeps the issued session token in ~/.studyhall.

Run without arguments to open the interactive form.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return e.setup()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRoot(cmd, e)
		},
	}
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newAuthCmd(e, "signup", "Create a new account", tui.ModeSignUp),
		newAuthCmd(e, "login", "Sign in to an existing account", tui.ModeSignIn),
		newLogoutCmd(e),
		newSessionCmd(e),
		newChatCmd(e),
		newNotesCmd(e),
		newVersionCmd(),
	)
	return root
}
