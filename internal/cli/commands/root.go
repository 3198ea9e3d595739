package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/finderai/hadithctl/internal/cli/config"
	"github.com/finderai/hadithctl/internal/cli/ui"
	"github.com/finderai/hadithctl/pkg/logger"
)

const version = "0.1.0"

var (
	configPath     string
	serverOverride string

	// loaded by loadRuntime before any command that talks to the backend
	cfg       *config.Config
	logCloser io.Closer
)

// rootCmd is the root command
var rootCmd = &cobra.Command{
	Use:     "hadithctl",
	Short:   "Hadith AI chat client",
	Version: version,
	Long: `A terminal client for the Hadith RAG backend. Ask questions about Hadith and
Islamic topics and get answers grounded in cited narrations. Follow-up questions
in the same session keep their context.`,
	Example: `  # Start interactive chat
  $ hadithctl chat

  # Ask a single question
  $ hadithctl ask "What is the importance of intentions?"

  # Ask a list of questions in one session
  $ hadithctl ask -f questions.yaml

  # Point at another backend
  $ hadithctl chat --server https://finderai-backend.onrender.com`,
}

// Execute executes the root command. The log output opened by the command is
// closed on every exit path.
func Execute(ctx context.Context) error {
	rootCmd.SetVersionTemplate(formatVersion())
	defer closeLog()
	return rootCmd.ExecuteContext(ctx)
}

func closeLog() {
	if logCloser != nil {
		logCloser.Close()
		logCloser = nil
	}
}

func init() {
	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.hadithctl/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&serverOverride, "server", "s", "", "RAG backend URL (overrides config)")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(configCmd)

	// Set custom template with bold uppercase headers
	rootCmd.SetUsageTemplate(usageTemplate())
	rootCmd.SetHelpTemplate(usageTemplate())
}

// loadRuntime loads configuration and initializes logging; the logger is
// attached to the command context
func loadRuntime(cmd *cobra.Command) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}
	if serverOverride != "" {
		loaded.Server = serverOverride
	}

	l, closer, err := logger.Setup(loaded.Log)
	if err != nil {
		ui.PrintError("failed to initialize logging: %v", err)
		return fmt.Errorf("logger setup failed")
	}

	cfg = loaded
	logCloser = closer
	cmd.SetContext(logger.WithContext(cmd.Context(), l))
	return nil
}

func usageTemplate() string {
	return `{{if .Long}}{{.Long}}

{{end}}` + ui.Styles.Bold.Render("USAGE") + `
  {{.UseLine}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}

{{if .HasExample}}` + ui.Styles.Bold.Render("EXAMPLES") + `
{{.Example}}

{{end}}{{if .HasAvailableSubCommands}}` + ui.Styles.Bold.Render("COMMANDS") + `{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableLocalFlags}}` + ui.Styles.Bold.Render("OPTIONS") + `
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}` + ui.Styles.Bold.Render("GLOBAL OPTIONS") + `
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
}

// formatVersion formats the version output
func formatVersion() string {
	return fmt.Sprintf("hadithctl version %s\n", version)
}
