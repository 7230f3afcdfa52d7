package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/kwatlas/kwatlas/internal/dataforseo"
	"github.com/kwatlas/kwatlas/internal/logging"
)

// pollOutcome is one job's query result within a round.
type pollOutcome struct {
	result dataforseo.PollResult
	err    error
}

// pollAll runs the polling coordinator: lockstep rounds over the shared
// pending set until every job resolves or the round budget is exhausted.
// Jobs are queried in batch sequence order; resolved batches are reconciled
// and appended to the run's records immediately. Returns the number of
// rounds executed. The only error returned is context cancellation;
// everything else is folded into job state.
func (r *Runner) pollAll(ctx context.Context, st *runState) (int, error) {
	log := logging.FromContext(ctx)

	pending := st.jobs
	if len(pending) == 0 {
		return 0, nil
	}

	rounds := 0
	for round := 1; round <= r.cfg.MaxRounds; round++ {
		rounds = round
		r.emit(ProgressEvent{Kind: ProgressRound, Round: round, Snapshot: st.progress.Snapshot()})

		log.Debug().
			Ctx(ctx).
			Int("round", round).
			Int("pending", len(pending)).
			Msg("polling round")

		outcomes, err := r.queryRound(ctx, pending)
		if err != nil {
			return rounds, err
		}

		final := round == r.cfg.MaxRounds
		next := make([]*Job, 0, len(pending))
		for i, job := range pending {
			if r.applyOutcome(ctx, st, job, outcomes[i], round, final) {
				job.State = JobPolling
				next = append(next, job)
			}
		}
		pending = next

		// Stop immediately once nothing is pending: no trailing sleep.
		if len(pending) == 0 {
			return rounds, nil
		}
		if final {
			break
		}

		if err := r.sleep(ctx, r.cfg.RoundInterval(round)); err != nil {
			return rounds, err
		}
	}

	// Round budget exhausted: everything still pending timed out.
	for _, job := range pending {
		job.State = JobTimedOut
		st.records = append(st.records, Placeholders(job.Batch.Keywords, NoteTimedOut)...)
		st.progress.AddCompleted(len(job.Batch.Keywords))

		log.Warn().
			Ctx(ctx).
			Int("batch_seq", job.Batch.Seq).
			Str("task_id", job.ID).
			Msg("task timed out")

		r.emit(ProgressEvent{
			Kind:     ProgressBatchTimedOut,
			Seq:      job.Batch.Seq,
			Round:    rounds,
			Note:     NoteTimedOut,
			Snapshot: st.progress.Snapshot(),
		})
	}

	return rounds, nil
}

// queryRound queries every pending job once. With Concurrency > 1 the
// queries fan out, but all outcomes are collected before the round
// advances; outcomes are always applied in batch sequence order either way.
func (r *Runner) queryRound(ctx context.Context, pending []*Job) ([]pollOutcome, error) {
	outcomes := make([]pollOutcome, len(pending))

	if r.cfg.Concurrency <= 1 {
		for i, job := range pending {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			result, err := r.client.PollTask(ctx, job.ID)
			outcomes[i] = pollOutcome{result: result, err: err}
		}
		return outcomes, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)
	for i, job := range pending {
		i, job := i, job
		g.Go(func() error {
			result, err := r.client.PollTask(gctx, job.ID)
			outcomes[i] = pollOutcome{result: result, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// applyOutcome folds one poll outcome into a job. It returns true when the
// job stays pending for the next round.
//
// Decision table:
//   - transport error: transient, retried until the final round, where it
//     becomes a terminal failure
//   - provider "failed" verdict: terminal immediately
//   - done with records: resolved, reconciled, appended
//   - done with no records: policy-controlled. By default kept pending
//     (some provider states report done before results land), resolved as
//     all-no-data on the final round; with FailOnEmptyResult it fails now
//   - still running: stays pending; timeout handling owns the final round
func (r *Runner) applyOutcome(
	ctx context.Context,
	st *runState,
	job *Job,
	outcome pollOutcome,
	round int,
	final bool,
) bool {
	switch {
	case outcome.err != nil:
		if final {
			r.failJob(ctx, st, job, notePollFailedPrefix+outcome.err.Error(), round)
			return false
		}
		return true

	case outcome.result.Status == dataforseo.TaskFailed:
		r.failJob(ctx, st, job, notePollFailedPrefix+outcome.result.Message, round)
		return false

	case outcome.result.Status == dataforseo.TaskDone:
		if len(outcome.result.Records) == 0 {
			if r.cfg.FailOnEmptyResult {
				r.failJob(ctx, st, job, notePollFailedPrefix+"finished with no result", round)
				return false
			}
			if !final {
				return true
			}
		}
		r.resolveJob(ctx, st, job, outcome.result.Records, round)
		return false

	default: // still running
		return true
	}
}

// resolveJob reconciles a finished task's records against its batch and
// appends them to the run.
func (r *Runner) resolveJob(ctx context.Context, st *runState, job *Job, records []dataforseo.KeywordRecord, round int) {
	job.State = JobResolved
	reconciled := Reconcile(job.Batch.Keywords, records)
	st.records = append(st.records, reconciled...)
	st.progress.AddCompleted(len(job.Batch.Keywords))

	logger := logging.FromContext(ctx)
	logger.Debug().
		Ctx(ctx).
		Int("batch_seq", job.Batch.Seq).
		Str("task_id", job.ID).
		Int("round", round).
		Int("provider_records", len(records)).
		Msg("batch resolved")

	r.emit(ProgressEvent{
		Kind:     ProgressBatchResolved,
		Seq:      job.Batch.Seq,
		Round:    round,
		Snapshot: st.progress.Snapshot(),
	})
}

// failJob marks a job failed and fills its batch with placeholders.
func (r *Runner) failJob(ctx context.Context, st *runState, job *Job, note string, round int) {
	job.State = JobFailed
	st.records = append(st.records, Placeholders(job.Batch.Keywords, note)...)
	st.progress.AddCompleted(len(job.Batch.Keywords))

	logger := logging.FromContext(ctx)
	logger.Warn().
		Ctx(ctx).
		Int("batch_seq", job.Batch.Seq).
		Str("task_id", job.ID).
		Int("round", round).
		Str("note", note).
		Msg("task failed")

	r.emit(ProgressEvent{
		Kind:     ProgressBatchFailed,
		Seq:      job.Batch.Seq,
		Round:    round,
		Note:     note,
		Snapshot: st.progress.Snapshot(),
	})
}
