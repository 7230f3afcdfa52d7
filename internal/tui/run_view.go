package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current view (Bubble Tea interface).
func (m RunModel) View() string {
	switch m.state {
	case RunStateQuitting:
		return ""
	case RunStateError:
		return CriticalStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	case RunStateDone:
		return m.renderDoneView()
	case RunStateSubmitting, RunStatePolling:
		return m.renderRunningView()
	default:
		return ""
	}
}

// renderRunningView renders the live progress screen.
func (m RunModel) renderRunningView() string {
	var sections []string

	sections = append(sections, HeaderStyle.Render("KEYWORD RUN"))
	sections = append(sections, m.renderStatusLine())
	sections = append(sections, m.bar.View())
	sections = append(sections, m.renderCounters())

	if len(m.recent) > 0 {
		sections = append(sections, MutedStyle.Render(strings.Join(m.recent, "\n")))
	}

	sections = append(sections, MutedStyle.Render("q/esc: abort"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

// renderStatusLine shows the loading spinner with the current phase.
func (m RunModel) renderStatusLine() string {
	switch m.state {
	case RunStatePolling:
		m.loading.SetMessage(fmt.Sprintf("Polling round %d", m.round))
	default:
		m.loading.SetMessage("Submitting batches...")
	}
	return strings.TrimSpace(RenderLoading(m.loading))
}

// renderCounters shows batch and keyword totals.
func (m RunModel) renderCounters() string {
	var b strings.Builder

	b.WriteString(LabelStyle.Render("Batches: "))
	b.WriteString(ValueStyle.Render(fmt.Sprintf("%d/%d", m.snapshot.CompletedBatches, m.totalBatches)))
	b.WriteString(LabelStyle.Render("  Keywords: "))
	b.WriteString(ValueStyle.Render(fmt.Sprintf("%d/%d", m.snapshot.CompletedItems, m.totalItems)))

	if m.failed > 0 {
		b.WriteString(LabelStyle.Render("  Failed: "))
		b.WriteString(CriticalStyle.Render(fmt.Sprintf("%d", m.failed)))
	}
	if m.timedOut > 0 {
		b.WriteString(LabelStyle.Render("  Timed out: "))
		b.WriteString(WarningStyle.Render(fmt.Sprintf("%d", m.timedOut)))
	}

	return b.String()
}

// renderDoneView renders the closing banner before control returns to the CLI.
func (m RunModel) renderDoneView() string {
	line := fmt.Sprintf(
		"Run complete: %d batches, %d keywords, %d rounds",
		m.totalBatches, m.totalItems, m.roundsUsed(),
	)
	return SuccessStyle.Render(line) + "\n"
}

func (m RunModel) roundsUsed() int {
	if m.result != nil {
		return m.result.RoundsUsed
	}
	return m.round
}
