package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kwatlas/kwatlas/internal/config"
	"github.com/kwatlas/kwatlas/internal/dataforseo"
	"github.com/kwatlas/kwatlas/internal/engine"
	"github.com/kwatlas/kwatlas/internal/engine/batch"
	"github.com/kwatlas/kwatlas/internal/ingest"
	"github.com/kwatlas/kwatlas/internal/logging"
	"github.com/kwatlas/kwatlas/internal/tui"
)

// analyzeParams holds the parameters for the analyze command execution.
type analyzeParams struct {
	keywordsFile string
	outFile      string
	output       string
	batchSize    int
	locationCode int
	language     string
	maxRounds    int
	concurrency  int
	noTUI        bool
}

// NewAnalyzeCmd creates the "analyze" command for fetching keyword search volume.
//
// The command reads a keyword list from a file (CSV or plain lines), submits it
// to the provider in batches, polls until every batch resolves or the round
// budget expires, and renders one result row per input keyword.
//
// Registered flags:
//   - --keywords: path to the keyword file (required)
//   - --out: optional path for a CSV export of the results
//   - --output: output format, one of table, json, or csv (default from configuration)
//   - --batch-size: keywords per provider task
//   - --location: provider location code for volume lookups
//   - --language: provider language name for volume lookups
//   - --max-rounds: polling round budget
//   - --concurrency: parallel poll queries per round
//   - --no-tui: disable the interactive progress view
func NewAnalyzeCmd() *cobra.Command {
	var params analyzeParams

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Fetch search volume for a keyword list",
		Long: `Fetch Google Ads search volume for a keyword list via the DataForSEO API.

Keywords are read from --keywords (one per line, or the first CSV column),
submitted in batches, and polled until results arrive. Every input keyword
produces exactly one output row; keywords the provider has no data for are
reported with an explanatory note.`,
		Example: analyzeExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeAnalyze(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.keywordsFile, "keywords", "", "Path to keyword file (CSV or one keyword per line)")
	cmd.Flags().StringVar(&params.outFile, "out", "", "Write results to this CSV file")
	cmd.Flags().StringVar(
		&params.output, "output", config.GetDefaultOutputFormat(), "Output format: table, json, or csv")
	cmd.Flags().IntVar(&params.batchSize, "batch-size", 0, "Keywords per provider task (default from configuration)")
	cmd.Flags().IntVar(&params.locationCode, "location", 0, "Provider location code (default from configuration)")
	cmd.Flags().StringVar(&params.language, "language", "", "Provider language name (default from configuration)")
	cmd.Flags().IntVar(&params.maxRounds, "max-rounds", 0, "Polling round budget (default from configuration)")
	cmd.Flags().IntVar(&params.concurrency, "concurrency", 0, "Parallel poll queries per round")
	cmd.Flags().BoolVar(&params.noTUI, "no-tui", false, "Disable the interactive progress view")

	_ = cmd.MarkFlagRequired("keywords")

	return cmd
}

const analyzeExample = `  # Fetch volume for a keyword list
  kwatlas analyze --keywords keywords.csv

  # Export to CSV and print a JSON report
  kwatlas analyze --keywords keywords.txt --out results.csv --output json

  # Smaller batches, more polling headroom
  kwatlas analyze --keywords keywords.csv --batch-size 100 --max-rounds 90

  # Plain log progress (CI friendly)
  kwatlas analyze --keywords keywords.csv --no-tui`

// executeAnalyze runs the keyword analysis for the "analyze" command.
// It loads configuration, reads and normalizes the keyword file, runs the
// batching engine against the provider, and renders the chosen output format.
func executeAnalyze(cmd *cobra.Command, params analyzeParams) error {
	ctx := cmd.Context()

	cfg := config.GetGlobalConfig()
	applyAnalyzeOverrides(cfg, cmd, params)

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.ValidateCredentials(); err != nil {
		return err
	}

	if !isValidOutputFormat(params.output) {
		return fmt.Errorf("unsupported output format: %s", params.output)
	}

	log := logging.FromContext(ctx)
	log.Debug().Ctx(ctx).Str("operation", "analyze").Str("keywords_file", params.keywordsFile).
		Msg("starting keyword analysis")

	keywords, err := ingest.ReadKeywordsFile(ctx, params.keywordsFile)
	if err != nil {
		return fmt.Errorf("reading keywords: %w", err)
	}

	client := dataforseo.New(dataforseo.Config{
		BaseURL:      cfg.API.BaseURL,
		Login:        cfg.API.Login,
		Password:     cfg.API.Password,
		LocationCode: cfg.API.LocationCode,
		LanguageName: cfg.API.LanguageName,
		CallbackURL:  cfg.API.CallbackURL,
		Timeout:      cfg.API.Timeout.Std(),
	})

	runner := engine.New(client, engine.Config{
		BatchSize:         cfg.Batch.Size,
		MaxRounds:         cfg.Poll.MaxRounds,
		BaseInterval:      cfg.Poll.BaseInterval.Std(),
		MaxInterval:       cfg.Poll.MaxInterval.Std(),
		GrowthFactor:      cfg.Poll.GrowthFactor,
		GraceRounds:       cfg.Poll.GraceRounds,
		FailOnEmptyResult: cfg.Poll.FailOnEmptyResult,
		Concurrency:       cfg.Poll.Concurrency,
	})

	result, err := runAnalysis(ctx, runner, keywords, cfg.Batch.Size, params)
	if err != nil {
		return err
	}

	if err := RenderRunOutput(ctx, cmd, params.output, result); err != nil {
		return err
	}

	if params.outFile != "" {
		if err := WriteRecordsCSVFile(params.outFile, result.Records); err != nil {
			return fmt.Errorf("writing CSV export: %w", err)
		}
		cmd.PrintErrf("Results written to %s\n", params.outFile)
	}

	return nil
}

// applyAnalyzeOverrides folds explicitly set CLI flags into the config.
func applyAnalyzeOverrides(cfg *config.Config, cmd *cobra.Command, params analyzeParams) {
	if cmd.Flags().Changed("batch-size") {
		cfg.Batch.Size = params.batchSize
	}
	if cmd.Flags().Changed("location") {
		cfg.API.LocationCode = params.locationCode
	}
	if cmd.Flags().Changed("language") {
		cfg.API.LanguageName = params.language
	}
	if cmd.Flags().Changed("max-rounds") {
		cfg.Poll.MaxRounds = params.maxRounds
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Poll.Concurrency = params.concurrency
	}
}

// runAnalysis executes the runner with either an interactive progress view or
// plain log progress, depending on the terminal and flags.
func runAnalysis(
	ctx context.Context,
	runner *engine.Runner,
	keywords []string,
	batchSize int,
	params analyzeParams,
) (*engine.RunResult, error) {
	// Structured output formats bypass the TUI so stdout stays parseable.
	interactive := params.output == OutputTable && !params.noTUI &&
		tui.DetectOutputMode(false, false, params.noTUI) == tui.OutputModeInteractive

	if interactive {
		return runWithTUI(ctx, runner, keywords, batch.Count(len(keywords), batchSize))
	}
	return runWithLogs(ctx, runner, keywords)
}

// runWithTUI drives the runner behind a Bubble Tea progress program.
func runWithTUI(
	ctx context.Context,
	runner *engine.Runner,
	keywords []string,
	totalBatches int,
) (*engine.RunResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := tui.NewRunModel(ctx, len(keywords), totalBatches)
	p := tea.NewProgram(model)

	runner = runner.WithProgress(func(ev engine.ProgressEvent) {
		p.Send(tui.RunProgressMsg{Event: ev})
	})

	go func() {
		result, err := runner.Run(ctx, keywords)
		p.Send(tui.RunDoneMsg{Result: result, Err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run interactive progress view: %w", err)
	}

	m, ok := final.(tui.RunModel)
	if !ok {
		return nil, errors.New("unexpected model type from progress view")
	}
	if m.Aborted() {
		return nil, errors.New("run aborted")
	}
	return m.Result(), m.Err()
}

// runWithLogs drives the runner with progress reported through the logger.
func runWithLogs(ctx context.Context, runner *engine.Runner, keywords []string) (*engine.RunResult, error) {
	log := logging.FromContext(ctx)

	runner = runner.WithProgress(func(ev engine.ProgressEvent) {
		switch ev.Kind {
		case engine.ProgressBatchSubmitted:
			log.Info().Ctx(ctx).Int("batch", ev.Seq).Msg("batch submitted")
		case engine.ProgressBatchResolved:
			log.Info().Ctx(ctx).Int("batch", ev.Seq).
				Int("completed", ev.Snapshot.CompletedBatches).
				Int("total", ev.Snapshot.TotalBatches).
				Msg("batch resolved")
		case engine.ProgressBatchFailed:
			log.Warn().Ctx(ctx).Int("batch", ev.Seq).Str("reason", ev.Note).Msg("batch failed")
		case engine.ProgressBatchTimedOut:
			log.Warn().Ctx(ctx).Int("batch", ev.Seq).Msg("batch timed out")
		case engine.ProgressRound:
			log.Debug().Ctx(ctx).Int("round", ev.Round).Msg("polling round started")
		}
	})

	return runner.Run(ctx, keywords)
}
