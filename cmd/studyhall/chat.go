package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/naveenspark/studyhall/pkg/domain"
)

var (
	userLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0")).Bold(true)
	agentLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ade80")).Bold(true)
)

func newChatCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the study agent",
		Long: `Chats are conversations with a study agent that answers from your
uploaded notes. All chat commands need a stored session.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "new",
			Short: "Start a new chat and print its id",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				id, err := e.client.NewChat(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List your chats",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ids, err := e.client.Chats(cmd.Context())
				if err != nil {
					return err
				}
				if len(ids) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No chats yet. Start one with 'studyhall chat new'.")
					return nil
				}
				for _, id := range ids {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "ask <chat-id> <prompt>...",
			Short: "Ask the agent something in a chat",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				prompt := strings.Join(args[1:], " ")
				e.logger.Debug("ask", zap.String("chat_id", args[0]), zap.Int("prompt_len", len(prompt)))
				answer, err := e.client.Ask(cmd.Context(), args[0], prompt)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), answer)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <chat-id>",
			Short: "Print a chat's conversation",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				conv, err := e.client.Conversation(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(conv) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("(empty chat)"))
					return nil
				}
				for _, m := range conv {
					label := userLabelStyle.Render("you")
					if m.Role == domain.RoleAssistant {
						label = agentLabelStyle.Render("agent")
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", label, m.Content)
				}
				return nil
			},
		},
	)
	return cmd
}

func newNotesCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage study notes",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload text notes for the study agent to draw on",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("open note: %w", err)
				}
				note, err := e.client.UploadNote(cmd.Context(), filepath.Base(path), f)
				f.Close() //nolint:errcheck // read-only
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
					markStyle.Render("✓"), note.Name, dimStyle.Render(strings.Join(note.IDs, ",")))
			}
			return nil
		},
	})
	return cmd
}
