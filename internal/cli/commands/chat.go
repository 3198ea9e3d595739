package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finderai/hadithctl/internal/cli/tui"
	"github.com/finderai/hadithctl/internal/cli/ui"
)

// chatCmd is the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "start interactive chat with the Hadith assistant",
	Long: `Start an interactive chat session with the Hadith RAG backend.

Features:
  • Structured answers with summary, cited narrations and conclusion
  • Follow-up questions share the session context
  • Full-screen terminal UI`,
	Example: `  # Start interactive chat
  $ hadithctl chat

  # Keyboard controls:
  • Enter sends the question
  • ↑↓ / PgUp PgDn scroll
  • Esc quits the session`,
	RunE: runChat,
}

func init() {
	chatCmd.SilenceUsage = true
}

func runChat(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		ui.PrintError("unexpected argument: %s", args[0])
		fmt.Println("\nRun 'hadithctl chat' to start interactive session.")
		return fmt.Errorf("invalid arguments")
	}

	if err := loadRuntime(cmd); err != nil {
		return err
	}

	conv, _, err := newConversation(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	program := tui.NewChatProgram(cmd.Context(), conv)
	if err := program.Run(); err != nil {
		return fmt.Errorf("failed to run chat TUI: %w", err)
	}

	return nil
}
