package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kwatlas/kwatlas/internal/engine"
	"github.com/kwatlas/kwatlas/internal/tui"
)

// Supported output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputCSV   = "csv"
)

// isValidOutputFormat reports whether format is one of the supported formats.
func isValidOutputFormat(format string) bool {
	switch format {
	case OutputTable, OutputJSON, OutputCSV:
		return true
	default:
		return false
	}
}

// RenderRunOutput writes the run result to the command's stdout in the
// requested format. Table output is styled when stdout is a terminal.
func RenderRunOutput(ctx context.Context, cmd *cobra.Command, format string, result *engine.RunResult) error {
	w := cmd.OutOrStdout()

	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)

	case OutputCSV:
		return writeRecordsCSV(w, result.Records)

	case OutputTable:
		renderRecordsTable(w, result.Records)
		fmt.Fprintln(w)
		if tui.DetectOutputMode(false, false, true) == tui.OutputModePlain {
			renderPlainSummary(w, result)
		} else {
			fmt.Fprintln(w, tui.RenderRunSummary(ctx, result, tui.TerminalWidth()))
		}
		return nil

	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// csvHeader is the column order for CSV exports.
var csvHeader = []string{"keyword", "search_volume", "competition", "cpc", "note"}

// writeRecordsCSV writes one CSV row per result record.
func writeRecordsCSV(w io.Writer, records []engine.ResultRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Keyword,
			strconv.FormatInt(r.SearchVolume, 10),
			strconv.FormatFloat(r.Competition, 'f', -1, 64),
			strconv.FormatFloat(r.CPC, 'f', -1, 64),
			r.Note,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteRecordsCSVFile writes the records as CSV to path, creating or
// truncating the file.
func WriteRecordsCSVFile(path string, records []engine.ResultRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := writeRecordsCSV(f, records); err != nil {
		return err
	}
	return f.Sync()
}

// renderRecordsTable writes an aligned text table of the result records.
func renderRecordsTable(w io.Writer, records []engine.ResultRecord) {
	const rowFormat = "%-40s %14s %12s %10s  %s\n"

	fmt.Fprintf(w, rowFormat, "KEYWORD", "VOLUME", "COMPETITION", "CPC", "NOTE")
	for _, r := range records {
		volume := tui.FormatVolume(r.SearchVolume)
		competition := fmt.Sprintf("%.2f", r.Competition)
		cpc := fmt.Sprintf("$%.2f", r.CPC)
		if !r.HasData() {
			volume, competition, cpc = "-", "-", "-"
		}
		fmt.Fprintf(w, rowFormat, truncateKeyword(r.Keyword), volume, competition, cpc, r.Note)
	}
}

// Keyword display truncation.
const (
	maxKeywordDisplayLen = 40
	truncateSuffix       = "..."
)

// truncateKeyword shortens long keywords for table display. Truncation
// counts runes so multibyte keywords are never cut mid-character.
func truncateKeyword(kw string) string {
	runes := []rune(kw)
	if len(runes) > maxKeywordDisplayLen {
		return string(runes[:maxKeywordDisplayLen-len(truncateSuffix)]) + truncateSuffix
	}
	return kw
}

// renderPlainSummary writes the unstyled summary block.
func renderPlainSummary(w io.Writer, result *engine.RunResult) {
	s := result.Summary
	fmt.Fprintln(w, "SUMMARY")
	fmt.Fprintln(w, "=======")
	fmt.Fprintf(w, "Keywords:    %d\n", s.TotalKeywords)
	fmt.Fprintf(w, "With volume: %d\n", s.WithVolume)
	fmt.Fprintf(w, "No data:     %d\n", s.WithoutData)
	fmt.Fprintf(w, "Mean volume: %.1f\n", s.MeanVolume)
	fmt.Fprintf(w, "Batches:     %d\n", result.TotalBatches)
	fmt.Fprintf(w, "Rounds:      %d\n", result.RoundsUsed)
	fmt.Fprintf(w, "Run ID:      %s\n", result.RunID)
}
