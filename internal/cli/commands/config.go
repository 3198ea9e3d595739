package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/finderai/hadithctl/internal/cli/client"
	"github.com/finderai/hadithctl/internal/cli/config"
	"github.com/finderai/hadithctl/internal/cli/ui"
)

// configCmd is the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "manage local configuration",
	Long: `Manage the local configuration stored in ~/.hadithctl/config.yaml.

Values can also be set with HADITH_* environment variables or a .env file,
for example HADITH_SERVER or HADITH_LOG_LEVEL.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "create the configuration file interactively",
	Example: `  # Create ~/.hadithctl/config.yaml
  $ hadithctl config init`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigView,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configViewCmd)

	configInitCmd.SilenceUsage = true
	configViewCmd.SilenceUsage = true
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if serverOverride != "" {
		cfg.Server = serverOverride
	}

	// 1. Backend URL
	serverPrompt := &survey.Input{
		Message: "Backend URL:",
		Default: cfg.Server,
	}
	if err := survey.AskOne(serverPrompt, &cfg.Server, survey.WithValidator(survey.Required), survey.WithValidator(validateServer)); err != nil {
		ui.PrintError("failed to read backend URL: %v", err)
		return fmt.Errorf("input failed")
	}

	// 2. Request timeout
	var timeout string
	timeoutPrompt := &survey.Input{
		Message: "Request timeout:",
		Default: cfg.Client.Timeout.String(),
	}
	if err := survey.AskOne(timeoutPrompt, &timeout, survey.WithValidator(validateDuration)); err != nil {
		ui.PrintError("failed to read timeout: %v", err)
		return fmt.Errorf("input failed")
	}
	cfg.Client.Timeout, _ = time.ParseDuration(timeout)

	// 3. Log level
	levelPrompt := &survey.Select{
		Message: "Log level:",
		Options: []string{"debug", "info", "warn", "error"},
		Default: cfg.Log.Level,
	}
	if err := survey.AskOne(levelPrompt, &cfg.Log.Level); err != nil {
		ui.PrintError("failed to read log level: %v", err)
		return fmt.Errorf("input failed")
	}

	if dir, err := config.GetConfigDir(); err == nil {
		cfg.Log.FilePath = filepath.Join(dir, "hadithctl.log")
	}
	if err := cfg.Validate(); err != nil {
		ui.PrintError("invalid configuration: %v", err)
		return fmt.Errorf("config validation failed")
	}

	path, err := cfg.Save(configPath)
	if err != nil {
		ui.PrintError("failed to save config: %v", err)
		return fmt.Errorf("config save failed")
	}

	ui.PrintSuccessBox("Configuration saved", fmt.Sprintf("File: %s\nBackend: %s", path, cfg.Server))
	return nil
}

func runConfigView(cmd *cobra.Command, args []string) error {
	if err := loadRuntime(cmd); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	row := func(key string, value any) {
		fmt.Fprintf(out, "%-20s %v\n", ui.Styles.Bold.Render(key), value)
	}

	row("server", cfg.Server)
	row("client.timeout", cfg.Client.Timeout)
	row("client.dial_timeout", cfg.Client.DialTimeout)
	row("log.level", cfg.Log.Level)
	row("log.format", cfg.Log.Format)
	row("log.output", cfg.Log.Output)
	row("log.file_path", cfg.Log.FilePath)
	row("log.add_source", cfg.Log.AddSource)
	welcome := cfg.Chat.Welcome
	if welcome == "" {
		welcome = "(built-in)"
	}
	row("chat.welcome", welcome)
	return nil
}

func validateServer(ans interface{}) error {
	s, _ := ans.(string)
	if _, err := client.NormalizeServerURL(s); err != nil {
		return err
	}
	return nil
}

func validateDuration(ans interface{}) error {
	s, _ := ans.(string)
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q, use values like 60s or 2m", s)
	}
	if d < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}
