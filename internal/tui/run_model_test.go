package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwatlas/kwatlas/internal/engine"
	"github.com/kwatlas/kwatlas/internal/engine/batch"
)

// progressMsg builds a RunProgressMsg with a consistent snapshot.
func progressMsg(kind engine.ProgressKind, seq, round, completedBatches, completedItems int) RunProgressMsg {
	return RunProgressMsg{Event: engine.ProgressEvent{
		Kind:  kind,
		Seq:   seq,
		Round: round,
		Snapshot: batch.Snapshot{
			TotalItems:       20,
			TotalBatches:     4,
			CompletedBatches: completedBatches,
			CompletedItems:   completedItems,
			PercentComplete:  float64(completedItems) / 20 * 100,
		},
	}}
}

// TestNewRunModel verifies initial model state.
func TestNewRunModel(t *testing.T) {
	model := NewRunModel(context.Background(), 20, 4)

	assert.Equal(t, RunStateSubmitting, model.state)
	assert.Equal(t, 20, model.totalItems)
	assert.Equal(t, 4, model.totalBatches)
	assert.NotNil(t, model.Init())
}

// TestRunModel_StateTransitions verifies the submit -> poll -> done path.
func TestRunModel_StateTransitions(t *testing.T) {
	model := NewRunModel(context.Background(), 20, 4)

	// Submission events keep the model in the submitting state.
	updated, _ := model.Update(progressMsg(engine.ProgressBatchSubmitted, 1, 0, 0, 0))
	model = updated.(RunModel)
	assert.Equal(t, RunStateSubmitting, model.state)

	// A round event moves it to polling.
	updated, _ = model.Update(progressMsg(engine.ProgressRound, 0, 1, 0, 0))
	model = updated.(RunModel)
	assert.Equal(t, RunStatePolling, model.state)
	assert.Equal(t, 1, model.round)

	// The done message ends the program.
	result := &engine.RunResult{RoundsUsed: 1, TotalBatches: 4}
	updated, cmd := model.Update(RunDoneMsg{Result: result})
	model = updated.(RunModel)
	assert.Equal(t, RunStateDone, model.state)
	assert.Equal(t, result, model.Result())
	require.NotNil(t, cmd)
}

// TestRunModel_CountsOutcomes verifies per-batch outcome counters.
func TestRunModel_CountsOutcomes(t *testing.T) {
	model := NewRunModel(context.Background(), 20, 4)

	msgs := []RunProgressMsg{
		progressMsg(engine.ProgressBatchResolved, 1, 1, 1, 5),
		progressMsg(engine.ProgressBatchFailed, 2, 1, 2, 10),
		progressMsg(engine.ProgressBatchTimedOut, 3, 2, 3, 15),
		progressMsg(engine.ProgressBatchResolved, 4, 2, 4, 20),
	}
	for _, msg := range msgs {
		updated, _ := model.Update(msg)
		model = updated.(RunModel)
	}

	assert.Equal(t, 2, model.resolved)
	assert.Equal(t, 1, model.failed)
	assert.Equal(t, 1, model.timedOut)
	assert.Equal(t, 4, model.snapshot.CompletedBatches)
	assert.Equal(t, 20, model.snapshot.CompletedItems)
}

// TestRunModel_RecentLogBounded verifies the event log keeps only the tail.
func TestRunModel_RecentLogBounded(t *testing.T) {
	model := NewRunModel(context.Background(), 20, 4)

	for i := 1; i <= maxRecentEvents+3; i++ {
		updated, _ := model.Update(progressMsg(engine.ProgressBatchSubmitted, i, 0, 0, 0))
		model = updated.(RunModel)
	}

	assert.Len(t, model.recent, maxRecentEvents)
}

// TestRunModel_QuitKeys verifies the abort keys.
func TestRunModel_QuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEscape},
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
	} {
		model := NewRunModel(context.Background(), 10, 1)
		updated, cmd := model.Update(key)
		model = updated.(RunModel)

		assert.Equal(t, RunStateQuitting, model.state)
		assert.True(t, model.Aborted())
		require.NotNil(t, cmd)
		assert.Empty(t, model.View())
	}
}

// TestRunModel_ErrorView verifies error rendering.
func TestRunModel_ErrorView(t *testing.T) {
	model := NewRunModel(context.Background(), 10, 1)

	updated, _ := model.Update(RunDoneMsg{Err: errors.New("credentials rejected")})
	model = updated.(RunModel)

	assert.Equal(t, RunStateError, model.state)
	assert.Error(t, model.Err())
	assert.Contains(t, model.View(), "credentials rejected")
}

// TestRunModel_View verifies the running view contains the live counters.
func TestRunModel_View(t *testing.T) {
	model := NewRunModel(context.Background(), 20, 4)

	updated, _ := model.Update(progressMsg(engine.ProgressRound, 0, 3, 2, 10))
	model = updated.(RunModel)

	view := model.View()
	assert.Contains(t, view, "KEYWORD RUN")
	assert.Contains(t, view, "round 3")
	assert.Contains(t, view, "2/4")
	assert.Contains(t, view, "10/20")
}

// TestRunModel_WindowResize verifies the bar tracks terminal width.
func TestRunModel_WindowResize(t *testing.T) {
	model := NewRunModel(context.Background(), 10, 1)

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	model = updated.(RunModel)

	assert.Equal(t, 120, model.width)
	assert.Equal(t, 120-runBarPadding, model.bar.Width)
}

// TestRunModel_StatusLineUsesLoadingState verifies the running view shows
// the phase message carried by the loading spinner.
func TestRunModel_StatusLineUsesLoadingState(t *testing.T) {
	model := NewRunModel(context.Background(), 10, 2)

	assert.Contains(t, model.View(), "Submitting batches...")

	updated, _ := model.Update(progressMsg(engine.ProgressRound, 0, 2, 0, 0))
	model = updated.(RunModel)
	assert.Contains(t, model.View(), "Polling round 2")
}

// TestRenderLoading verifies the nil and populated loading states.
func TestRenderLoading(t *testing.T) {
	assert.Equal(t, "Loading...", RenderLoading(nil))

	loading := NewLoadingState()
	loading.SetMessage("Submitting batches")
	assert.Contains(t, RenderLoading(loading), "Submitting batches")
}
