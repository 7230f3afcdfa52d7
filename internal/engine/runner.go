package engine

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/kwatlas/kwatlas/internal/engine/batch"
	"github.com/kwatlas/kwatlas/internal/logging"
)

// Default run configuration. Poll intervals grow geometrically from
// BaseInterval up to MaxInterval, holding at BaseInterval for the first
// GraceRounds rounds so fast tasks are not over-throttled.
const (
	DefaultMaxRounds    = 60
	DefaultBaseInterval = 2 * time.Second
	DefaultMaxInterval  = 30 * time.Second
	DefaultGrowthFactor = 1.5
	DefaultGraceRounds  = 3
)

// Config holds the tunables for one run.
type Config struct {
	// BatchSize is the number of keywords per remote task.
	BatchSize int

	// MaxRounds bounds how many polling rounds are executed before
	// outstanding tasks are declared timed out.
	MaxRounds int

	// BaseInterval is the wait after each of the first rounds.
	BaseInterval time.Duration

	// MaxInterval is the backoff ceiling.
	MaxInterval time.Duration

	// GrowthFactor is the per-round backoff multiplier.
	GrowthFactor float64

	// GraceRounds is how many initial rounds wait BaseInterval before
	// backoff starts compounding.
	GraceRounds int

	// FailOnEmptyResult fails a task immediately when the provider reports
	// it finished but returns no result payload. When false the task is
	// kept pending and re-polled.
	FailOnEmptyResult bool

	// Concurrency bounds parallel poll queries within one round;
	// 1 polls sequentially in batch order.
	Concurrency int
}

// withDefaults fills zero-valued fields.
func (c Config) withDefaults() Config {
	if c.BatchSize == 0 {
		c.BatchSize = batch.DefaultSize
	}
	if c.MaxRounds == 0 {
		c.MaxRounds = DefaultMaxRounds
	}
	if c.BaseInterval == 0 {
		c.BaseInterval = DefaultBaseInterval
	}
	if c.MaxInterval == 0 {
		c.MaxInterval = DefaultMaxInterval
	}
	if c.GrowthFactor == 0 {
		c.GrowthFactor = DefaultGrowthFactor
	}
	if c.GraceRounds == 0 {
		c.GraceRounds = DefaultGraceRounds
	}
	if c.Concurrency == 0 {
		c.Concurrency = 1
	}
	return c
}

// RoundInterval computes the wait after the given 1-based round:
// BaseInterval for the grace rounds, then BaseInterval *
// GrowthFactor^(round-GraceRounds-1), clamped to MaxInterval. Successive
// intervals are non-decreasing and never exceed the ceiling.
func (c Config) RoundInterval(round int) time.Duration {
	exp := round - 1 - c.GraceRounds
	if exp < 0 {
		exp = 0
	}

	interval := float64(c.BaseInterval)
	for i := 0; i < exp; i++ {
		interval *= c.GrowthFactor
		if interval >= float64(c.MaxInterval) {
			return c.MaxInterval
		}
	}

	if interval > float64(c.MaxInterval) {
		return c.MaxInterval
	}
	return time.Duration(interval)
}

// sleepFunc waits for d or until the context is cancelled.
type sleepFunc func(ctx context.Context, d time.Duration) error

// Runner executes keyword analysis runs against a TaskClient. A Runner is
// stateless between runs; per-run state lives in the runState passed through
// the stages.
type Runner struct {
	client     TaskClient
	cfg        Config
	onProgress ProgressFunc
	sleep      sleepFunc
}

// New creates a Runner. Zero-valued Config fields take defaults.
func New(client TaskClient, cfg Config) *Runner {
	return &Runner{
		client: client,
		cfg:    cfg.withDefaults(),
		sleep:  sleepContext,
	}
}

// WithProgress sets a progress callback for the runner.
func (r *Runner) WithProgress(fn ProgressFunc) *Runner {
	r.onProgress = fn
	return r
}

// withSleep replaces the inter-round wait; polling tests use it to run
// without real delays.
func (r *Runner) withSleep(fn sleepFunc) *Runner {
	r.sleep = fn
	return r
}

// runState is the per-run aggregate: jobs, accumulated records, and the
// progress counters. It is owned by exactly one Run invocation and mutated
// only from the engine's goroutine.
type runState struct {
	jobs     []*Job
	records  []ResultRecord
	progress *batch.Progress
}

// Run executes one end-to-end analysis: plan, submit, poll, aggregate.
// keywords must already be normalized (trimmed, non-empty); an empty list is
// the only fatal input error. Batch-level failures are folded into
// placeholder records, so the returned result always holds exactly one
// record per input keyword.
func (r *Runner) Run(ctx context.Context, keywords []string) (*RunResult, error) {
	runID := ulid.Make().String()
	log := logging.ComponentLogger(logging.FromContext(ctx), "engine").
		With().Str("run_id", runID).Logger()
	ctx = log.WithContext(ctx)

	batches, err := batch.Plan(keywords, r.cfg.BatchSize)
	if err != nil {
		return nil, err
	}

	log.Info().
		Ctx(ctx).
		Int("keyword_count", len(keywords)).
		Int("batch_count", len(batches)).
		Int("batch_size", r.cfg.BatchSize).
		Msg("run started")

	st := &runState{progress: batch.NewProgress(len(keywords), len(batches))}

	r.submitAll(ctx, st, batches)

	rounds, err := r.pollAll(ctx, st)
	if err != nil {
		// Abandoned mid-run: in-flight state is discarded, remote tasks
		// keep running and stay recoverable via `kwatlas task fetch`.
		return nil, err
	}

	result := &RunResult{
		RunID:        runID,
		Records:      st.records,
		Summary:      Summarize(st.records),
		TotalBatches: len(batches),
		RoundsUsed:   rounds,
	}

	log.Info().
		Ctx(ctx).
		Int("record_count", len(result.Records)).
		Int("rounds_used", rounds).
		Int("without_data", result.Summary.WithoutData).
		Msg("run complete")

	return result, nil
}

// submitAll submits one remote task per batch, synchronously, in sequence
// order. A batch whose submission fails is resolved immediately as
// all-placeholder and never enters polling.
func (r *Runner) submitAll(ctx context.Context, st *runState, batches []batch.Batch) {
	log := logging.FromContext(ctx)

	for _, b := range batches {
		taskID, err := r.client.SubmitTask(ctx, b.Keywords)
		st.progress.AddSubmitted()

		if err != nil {
			note := noteSubmitFailedPrefix + err.Error()
			log.Warn().
				Ctx(ctx).
				Int("batch_seq", b.Seq).
				Err(err).
				Msg("batch submission failed")

			st.records = append(st.records, Placeholders(b.Keywords, note)...)
			st.progress.AddCompleted(len(b.Keywords))
			r.emit(ProgressEvent{
				Kind:     ProgressBatchFailed,
				Seq:      b.Seq,
				Note:     note,
				Snapshot: st.progress.Snapshot(),
			})
			continue
		}

		st.jobs = append(st.jobs, &Job{ID: taskID, Batch: b, State: JobSubmitted})
		r.emit(ProgressEvent{
			Kind:     ProgressBatchSubmitted,
			Seq:      b.Seq,
			Snapshot: st.progress.Snapshot(),
		})
	}
}

// emit sends a progress event when a sink is attached.
func (r *Runner) emit(ev ProgressEvent) {
	if r.onProgress != nil {
		r.onProgress(ev)
	}
}

// sleepContext is the production sleeper.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
