package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finderai/hadithctl/internal/cli/loader"
	"github.com/finderai/hadithctl/internal/cli/ui"
)

var (
	askFile  string
	askWidth int
)

// askCmd is the ask command
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "ask questions without the interactive UI",
	Long: `Ask one question, or every question of a QuestionSet file, within a single
session and print the conversation.

Question files are YAML:

  kind: QuestionSet
  questions:
    - What is the importance of intentions?
    - tell me more about it`,
	Example: `  # Ask a single question
  $ hadithctl ask "What is the importance of intentions?"

  # Ask a list of follow-up questions
  $ hadithctl ask -f questions.yaml`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askFile, "file", "f", "", "QuestionSet YAML file")
	askCmd.Flags().IntVarP(&askWidth, "width", "w", 100, "Wrap output at this many columns (0 disables)")
	askCmd.SilenceUsage = true
}

func runAsk(cmd *cobra.Command, args []string) error {
	questions, err := collectQuestions(args)
	if err != nil {
		return err
	}

	if err := loadRuntime(cmd); err != nil {
		return err
	}

	conv, apiClient, err := newConversation(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	ui.PrintInfo("Asking %s (%d question(s))...", apiClient.Server(), len(questions))

	failed := 0
	for _, q := range questions {
		if out, ok := conv.Ask(cmd.Context(), q); ok && out.Err != nil {
			failed++
		}
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, ui.ChatBanner(conv.SessionID()))
	fmt.Fprintln(w, ui.RenderConversation(conv.Messages(), askWidth))

	if failed > 0 {
		fmt.Fprintln(w)
		ui.PrintWarning("%d of %d question(s) failed", failed, len(questions))
		return fmt.Errorf("backend errors")
	}
	return nil
}

// collectQuestions returns the questions from args or the question file
func collectQuestions(args []string) ([]string, error) {
	if askFile != "" && len(args) > 0 {
		ui.PrintError("pass either a question or --file, not both")
		return nil, fmt.Errorf("invalid arguments")
	}

	if askFile != "" {
		qf, err := loader.LoadFromFile(askFile)
		if err != nil {
			ui.PrintError("failed to load %s: %v", askFile, err)
			return nil, fmt.Errorf("question file load failed")
		}
		return qf.Questions, nil
	}

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		ui.PrintError("a question is required")
		fmt.Println("\nRun 'hadithctl ask --help' for usage.")
		return nil, fmt.Errorf("invalid arguments")
	}
	return []string{question}, nil
}
