package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kwatlas/kwatlas/internal/config"
	"github.com/kwatlas/kwatlas/internal/dataforseo"
	"github.com/kwatlas/kwatlas/internal/engine"
	"github.com/kwatlas/kwatlas/internal/ingest"
	"github.com/kwatlas/kwatlas/internal/logging"
)

// taskFetchParams holds the parameters for the task fetch command execution.
type taskFetchParams struct {
	output       string
	keywordsFile string
}

// NewTaskFetchCmd creates the "task fetch" command for retrieving results of a
// previously submitted provider task by its ID.
//
// This is the recovery path for interrupted runs: the provider keeps finished
// tasks available for a while, so their results can be fetched without
// resubmitting the keywords.
func NewTaskFetchCmd() *cobra.Command {
	var params taskFetchParams

	cmd := &cobra.Command{
		Use:   "fetch <task-id>",
		Short: "Fetch results for an existing provider task",
		Long: `Fetch the results of a previously submitted provider task by its ID.

With --keywords, the original keyword list is re-read and the provider's rows
are reconciled against it, so the output has one row per input keyword just
like a full run. Without it, only the rows the provider returned are shown.`,
		Example: taskFetchExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeTaskFetch(cmd, args[0], params)
		},
	}

	cmd.Flags().StringVar(
		&params.output, "output", config.GetDefaultOutputFormat(), "Output format: table, json, or csv")
	cmd.Flags().StringVar(&params.keywordsFile, "keywords", "",
		"Original keyword file to reconcile results against")

	return cmd
}

const taskFetchExample = `  # Fetch a finished task's results
  kwatlas task fetch 01151928-1535-0216-1000-17384017ad04

  # Reconcile against the original keyword list
  kwatlas task fetch 01151928-1535-0216-1000-17384017ad04 --keywords keywords.csv

  # Raw provider rows as JSON
  kwatlas task fetch 01151928-1535-0216-1000-17384017ad04 --output json`

// executeTaskFetch polls a single task once and renders whatever it returned.
func executeTaskFetch(cmd *cobra.Command, taskID string, params taskFetchParams) error {
	ctx := cmd.Context()

	cfg := config.GetGlobalConfig()
	if err := cfg.ValidateCredentials(); err != nil {
		return err
	}
	if !isValidOutputFormat(params.output) {
		return fmt.Errorf("unsupported output format: %s", params.output)
	}

	log := logging.FromContext(ctx)
	log.Debug().Ctx(ctx).Str("operation", "task_fetch").Str("task_id", taskID).Msg("fetching task")

	client := dataforseo.New(dataforseo.Config{
		BaseURL:      cfg.API.BaseURL,
		Login:        cfg.API.Login,
		Password:     cfg.API.Password,
		LocationCode: cfg.API.LocationCode,
		LanguageName: cfg.API.LanguageName,
		Timeout:      cfg.API.Timeout.Std(),
	})

	poll, err := client.PollTask(ctx, taskID)
	if err != nil {
		return fmt.Errorf("fetching task %s: %w", taskID, err)
	}

	switch poll.Status {
	case dataforseo.TaskRunning:
		return fmt.Errorf("task %s is still running, try again later", taskID)
	case dataforseo.TaskFailed:
		return fmt.Errorf("task %s failed: %s", taskID, poll.Message)
	}

	records := recordsFromPoll(poll)
	if params.keywordsFile != "" {
		keywords, err := ingest.ReadKeywordsFile(ctx, params.keywordsFile)
		if err != nil {
			return fmt.Errorf("reading keywords: %w", err)
		}
		records = engine.Reconcile(keywords, poll.Records)
	}

	result := &engine.RunResult{
		RunID:        taskID,
		Records:      records,
		Summary:      engine.Summarize(records),
		TotalBatches: 1,
	}

	return RenderRunOutput(ctx, cmd, params.output, result)
}

// recordsFromPoll converts raw provider rows into result records.
func recordsFromPoll(poll dataforseo.PollResult) []engine.ResultRecord {
	records := make([]engine.ResultRecord, 0, len(poll.Records))
	for _, r := range poll.Records {
		records = append(records, engine.ResultRecord{
			Keyword:      r.Keyword,
			SearchVolume: r.SearchVolume,
			Competition:  r.Competition,
			CPC:          r.CPC,
		})
	}
	return records
}
