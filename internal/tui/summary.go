package tui

import (
	"context"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kwatlas/kwatlas/internal/engine"
	"github.com/kwatlas/kwatlas/internal/logging"
)

// borderPadding accounts for the box border when sizing content.
const borderPadding = 2

//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatVolume renders a search volume with thousands separators.
func FormatVolume(v int64) string {
	return printer.Sprintf("%d", v)
}

// RenderRunSummary renders a boxed, styled summary of a finished keyword run.
// The width parameter controls the total box width used for rendering.
// If the result is nil or empty, a short notice is returned instead.
func RenderRunSummary(ctx context.Context, result *engine.RunResult, width int) string {
	if result == nil || len(result.Records) == 0 {
		return InfoStyle.Render("No results to display.")
	}

	log := logging.FromContext(ctx)
	log.Debug().Ctx(ctx).Str("run_id", result.RunID).Msg("rendering run summary")

	s := result.Summary

	var content strings.Builder

	content.WriteString(HeaderStyle.Render("RUN SUMMARY"))
	content.WriteString("\n")

	content.WriteString(LabelStyle.Render("Keywords:      "))
	content.WriteString(ValueStyle.Render(strconv.Itoa(s.TotalKeywords)))
	content.WriteString(LabelStyle.Render("    Batches: "))
	content.WriteString(ValueStyle.Render(strconv.Itoa(result.TotalBatches)))
	content.WriteString(LabelStyle.Render("    Rounds: "))
	content.WriteString(ValueStyle.Render(strconv.Itoa(result.RoundsUsed)))
	content.WriteString("\n")

	content.WriteString(LabelStyle.Render("With volume:   "))
	content.WriteString(SuccessStyle.Render(strconv.Itoa(s.WithVolume)))
	content.WriteString(LabelStyle.Render("    No data: "))
	if s.WithoutData > 0 {
		content.WriteString(WarningStyle.Render(strconv.Itoa(s.WithoutData)))
	} else {
		content.WriteString(ValueStyle.Render("0"))
	}
	content.WriteString("\n")

	content.WriteString(LabelStyle.Render("Mean volume:   "))
	content.WriteString(ValueStyle.Render(printer.Sprintf("%.1f", s.MeanVolume)))
	content.WriteString("\n")

	content.WriteString(MutedStyle.Render("Run ID: " + result.RunID))
	content.WriteString("\n")

	return BoxStyle.Width(width - borderPadding).Render(content.String())
}
