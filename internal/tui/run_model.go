package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kwatlas/kwatlas/internal/engine"
	"github.com/kwatlas/kwatlas/internal/engine/batch"
)

// RunState represents the current state of the run TUI.
type RunState int

const (
	// RunStateSubmitting indicates batches are being handed to the provider.
	RunStateSubmitting RunState = iota
	// RunStatePolling indicates the run is waiting on provider tasks.
	RunStatePolling
	// RunStateDone indicates the run finished and results are available.
	RunStateDone
	// RunStateQuitting indicates the user aborted the run.
	RunStateQuitting
	// RunStateError indicates the run failed before producing results.
	RunStateError
)

// RunProgressMsg carries one engine progress event into the model.
type RunProgressMsg struct {
	Event engine.ProgressEvent
}

// RunDoneMsg is sent when the run goroutine finishes.
type RunDoneMsg struct {
	Result *engine.RunResult
	Err    error
}

// maxRecentEvents bounds the per-batch event log shown under the bar.
const maxRecentEvents = 6

// Default dimensions for the run model.
const (
	runDefaultWidth = 80
	runBarPadding   = 4
)

// RunModel is the Bubble Tea model for a live keyword run.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type RunModel struct {
	ctx context.Context

	// Run shape, fixed at construction.
	totalItems   int
	totalBatches int

	// Live counters from engine progress events.
	snapshot batch.Snapshot
	round    int
	resolved int
	failed   int
	timedOut int
	recent   []string

	// Interactive components.
	loading *LoadingState
	bar     progress.Model

	// State management.
	state  RunState
	result *engine.RunResult
	err    error

	width int
}

// NewRunModel creates a run model for the given run shape.
func NewRunModel(ctx context.Context, totalItems, totalBatches int) RunModel {
	loading := NewLoadingState()
	loading.SetMessage("Submitting batches...")

	return RunModel{
		ctx:          ctx,
		totalItems:   totalItems,
		totalBatches: totalBatches,
		loading:      loading,
		bar:          progress.New(progress.WithDefaultGradient()),
		state:        RunStateSubmitting,
		width:        runDefaultWidth,
	}
}

// Result returns the finished run result, or nil if the run did not complete.
func (m RunModel) Result() *engine.RunResult {
	return m.result
}

// Err returns the run error, if any.
func (m RunModel) Err() error {
	return m.err
}

// Aborted reports whether the user quit before the run finished.
func (m RunModel) Aborted() bool {
	return m.state == RunStateQuitting
}

// Init starts the spinner (Bubble Tea interface).
func (m RunModel) Init() tea.Cmd {
	return m.loading.Init()
}

// Update handles messages and updates the model state (Bubble Tea interface).
func (m RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = msg.Width - runBarPadding
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.state = RunStateQuitting
			return m, tea.Quit
		}
		return m, nil

	case RunProgressMsg:
		return m.handleProgress(msg.Event)

	case RunDoneMsg:
		m.result = msg.Result
		m.err = msg.Err
		if msg.Err != nil {
			m.state = RunStateError
		} else {
			m.state = RunStateDone
		}
		return m, tea.Quit

	case spinner.TickMsg:
		return m, m.loading.Update(msg)

	case progress.FrameMsg:
		barModel, cmd := m.bar.Update(msg)
		m.bar = barModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

// handleProgress folds one engine event into the counters and event log.
func (m RunModel) handleProgress(ev engine.ProgressEvent) (tea.Model, tea.Cmd) {
	m.snapshot = ev.Snapshot

	switch ev.Kind {
	case engine.ProgressBatchSubmitted:
		m.appendRecent(SuccessStyle.Render(fmt.Sprintf("✓ batch %d submitted", ev.Seq)))
	case engine.ProgressBatchResolved:
		m.resolved++
		m.appendRecent(SuccessStyle.Render(fmt.Sprintf("✓ batch %d resolved", ev.Seq)))
	case engine.ProgressBatchFailed:
		m.failed++
		m.appendRecent(CriticalStyle.Render(fmt.Sprintf("✗ batch %d failed: %s", ev.Seq, ev.Note)))
	case engine.ProgressBatchTimedOut:
		m.timedOut++
		m.appendRecent(WarningStyle.Render(fmt.Sprintf("⚠ batch %d timed out", ev.Seq)))
	case engine.ProgressRound:
		m.state = RunStatePolling
		m.round = ev.Round
	}

	return m, m.bar.SetPercent(m.snapshot.PercentComplete / 100)
}

// appendRecent pushes a line onto the bounded event log.
func (m *RunModel) appendRecent(line string) {
	m.recent = append(m.recent, line)
	if len(m.recent) > maxRecentEvents {
		m.recent = m.recent[len(m.recent)-maxRecentEvents:]
	}
}
