package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kwatlas/kwatlas/internal/engine"
)

func TestRenderRunSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("nil result", func(t *testing.T) {
		out := RenderRunSummary(ctx, nil, 80)
		assert.Contains(t, out, "No results to display.")
	})

	t.Run("empty records", func(t *testing.T) {
		out := RenderRunSummary(ctx, &engine.RunResult{}, 80)
		assert.Contains(t, out, "No results to display.")
	})

	t.Run("populated", func(t *testing.T) {
		result := &engine.RunResult{
			RunID:        "01JRUN",
			TotalBatches: 3,
			RoundsUsed:   5,
			Records: []engine.ResultRecord{
				{Keyword: "espresso machine", SearchVolume: 74000},
				{Keyword: "zorgle widget", Note: "no data found"},
			},
			Summary: engine.Summary{
				TotalKeywords: 2,
				WithVolume:    1,
				WithoutData:   1,
				MeanVolume:    74000,
			},
		}

		out := RenderRunSummary(ctx, result, 80)
		assert.Contains(t, out, "RUN SUMMARY")
		assert.Contains(t, out, "01JRUN")
		assert.Contains(t, out, "74,000.0")
	})
}

func TestFormatVolume(t *testing.T) {
	assert.Equal(t, "1,234,567", FormatVolume(1234567))
	assert.Equal(t, "0", FormatVolume(0))
}

func TestDetectOutputMode(t *testing.T) {
	// Explicit plain always wins, regardless of terminal state.
	assert.Equal(t, OutputModePlain, DetectOutputMode(false, true, false))
	assert.Equal(t, OutputModePlain, DetectOutputMode(true, false, false))

	// Test binaries run without a stdout TTY, so detection falls back to plain.
	assert.Equal(t, OutputModePlain, DetectOutputMode(false, false, false))
}

func TestTerminalWidth(t *testing.T) {
	assert.Positive(t, TerminalWidth())
}
