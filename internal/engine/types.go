// Package engine orchestrates one keyword analysis run: it partitions the
// input into batches, submits one remote task per batch, polls outstanding
// tasks with bounded exponential backoff, reconciles provider records
// against the input, and aggregates the final report.
//
// A run never loses an item: every input keyword appears in the result
// exactly once, carrying either provider data or a placeholder with a
// human-readable note. No single batch failure aborts a run.
package engine

import (
	"context"

	"github.com/kwatlas/kwatlas/internal/dataforseo"
	"github.com/kwatlas/kwatlas/internal/engine/batch"
)

// TaskClient is the remote collaborator the engine drives. It is satisfied
// by *dataforseo.Client; tests substitute fakes.
type TaskClient interface {
	// SubmitTask submits one batch of keywords and returns the
	// provider-assigned task identifier.
	SubmitTask(ctx context.Context, keywords []string) (string, error)

	// PollTask queries one outstanding task. A returned error is a
	// transport-level problem and treated as transient; a PollResult with
	// TaskFailed is a provider verdict and terminal.
	PollTask(ctx context.Context, taskID string) (dataforseo.PollResult, error)
}

// JobState is the lifecycle state of one outstanding remote task.
type JobState int

const (
	// JobSubmitted means the task was accepted but not yet polled.
	JobSubmitted JobState = iota
	// JobPolling means the task has been polled at least once.
	JobPolling
	// JobResolved means the provider returned results.
	JobResolved
	// JobFailed means submission or the provider reported a terminal error.
	JobFailed
	// JobTimedOut means the round budget ran out while the task was pending.
	JobTimedOut
)

// String returns the state name for logs.
func (s JobState) String() string {
	switch s {
	case JobSubmitted:
		return "submitted"
	case JobPolling:
		return "polling"
	case JobResolved:
		return "resolved"
	case JobFailed:
		return "failed"
	case JobTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Job tracks one outstanding remote task and the batch it owns.
type Job struct {
	ID    string
	Batch batch.Batch
	State JobState
}

// ResultRecord is one row of the final report: one per input keyword.
// Placeholder rows carry zero metrics and a Note explaining why.
type ResultRecord struct {
	Keyword      string  `json:"keyword"`
	SearchVolume int64   `json:"search_volume"`
	Competition  float64 `json:"competition"`
	CPC          float64 `json:"cpc"`
	Note         string  `json:"note,omitempty"`
}

// HasData reports whether the record carries provider data rather than a
// placeholder.
func (r ResultRecord) HasData() bool { return r.Note == "" }

// Summary aggregates a run's records.
type Summary struct {
	TotalKeywords int     `json:"total_keywords"`
	WithVolume    int     `json:"with_volume"`
	WithoutData   int     `json:"without_data"`
	MeanVolume    float64 `json:"mean_volume"`
}

// RunResult is the final report for one run.
type RunResult struct {
	RunID        string         `json:"run_id"`
	Records      []ResultRecord `json:"records"`
	Summary      Summary        `json:"summary"`
	TotalBatches int            `json:"total_batches"`
	// RoundsUsed is the number of polling rounds executed; 0 when every
	// batch failed at submission and polling never started.
	RoundsUsed int `json:"rounds_used"`
}

// ProgressKind identifies what a progress event reports.
type ProgressKind int

const (
	// ProgressBatchSubmitted fires once per batch handed to the provider.
	ProgressBatchSubmitted ProgressKind = iota
	// ProgressBatchResolved fires when a batch's task returns results.
	ProgressBatchResolved
	// ProgressBatchFailed fires when a batch fails at submission or polling.
	ProgressBatchFailed
	// ProgressBatchTimedOut fires when the round budget expires on a batch.
	ProgressBatchTimedOut
	// ProgressRound fires at the start of each polling round.
	ProgressRound
)

// ProgressEvent is one incremental update sent to the progress sink.
type ProgressEvent struct {
	Kind ProgressKind
	// Seq is the batch sequence number; 0 for round events.
	Seq int
	// Round is the polling round, 0 during submission.
	Round int
	// Note carries the failure or timeout explanation, if any.
	Note string
	// Snapshot is the run's counters at the time of the event.
	Snapshot batch.Snapshot
}

// ProgressFunc consumes progress events. Callbacks run on the engine's
// goroutine and must not block.
type ProgressFunc func(ProgressEvent)
