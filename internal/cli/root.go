package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kwatlas/kwatlas/internal/config"
	"github.com/kwatlas/kwatlas/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the kwatlas CLI.
// It wires up logging, tracing, and the analyze, task, and config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:     "kwatlas",
		Short:   "Keyword search volume CLI",
		Long:    "Kwatlas: Fetch Google Ads search volume for keyword lists via the DataForSEO API",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			config.InitGlobalConfig()

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	cmd.AddCommand(NewAnalyzeCmd(), newTaskCmd(), newConfigCmd())

	return cmd
}

const rootCmdExample = `  # Fetch search volume for a keyword list
  kwatlas analyze --keywords keywords.csv

  # Write results to CSV
  kwatlas analyze --keywords keywords.csv --out results.csv

  # Fetch a single task's results by ID
  kwatlas task fetch 01151928-1535-0216-1000-17384017ad04

  # Initialize configuration
  kwatlas config init

  # Validate configuration
  kwatlas config validate`

// newTaskCmd creates the task command group for working with raw provider tasks.
func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "task", Short: "Provider task commands"}
	cmd.AddCommand(NewTaskFetchCmd())
	return cmd
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigValidateCmd())
	return cmd
}
