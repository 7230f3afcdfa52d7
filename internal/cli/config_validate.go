package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kwatlas/kwatlas/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the configuration file at ~/.kwatlas/config.yaml for syntax and semantic correctness.

This includes:
- Schema version compatibility
- Batch size and polling parameter ranges
- Output format
- Presence of API credentials (config file or environment)`,
		Example: `  # Validate current configuration
  kwatlas config validate

  # Validate and show detailed information
  kwatlas config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.New()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := cfg.ValidateCredentials(); err != nil {
		cmd.Printf("⚠️  Configuration is valid, but %v\n", err)
	} else {
		cmd.Printf("✅ Configuration is valid\n")
	}

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints the effective configuration values.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Printf("API base URL:    %s\n", cfg.API.BaseURL)
	cmd.Printf("Location code:   %d\n", cfg.API.LocationCode)
	cmd.Printf("Language:        %s\n", cfg.API.LanguageName)
	cmd.Printf("Batch size:      %d\n", cfg.Batch.Size)
	cmd.Printf("Max rounds:      %d\n", cfg.Poll.MaxRounds)
	cmd.Printf("Base interval:   %s\n", cfg.Poll.BaseInterval.Std())
	cmd.Printf("Max interval:    %s\n", cfg.Poll.MaxInterval.Std())
	cmd.Printf("Growth factor:   %.2f\n", cfg.Poll.GrowthFactor)
	cmd.Printf("Grace rounds:    %d\n", cfg.Poll.GraceRounds)
	cmd.Printf("Output format:   %s\n", cfg.Output.DefaultFormat)
}
