// Package ingest reads keyword lists from operator-supplied files and
// normalizes them into the form the engine and the reconciler agree on:
// trimmed, non-empty strings with duplicates and order preserved.
package ingest

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kwatlas/kwatlas/internal/logging"
)

// ErrNoKeywords is returned when a file yields no usable keywords after
// normalization.
var ErrNoKeywords = errors.New("no keywords found in input")

// Options controls CSV keyword extraction.
type Options struct {
	// SkipHeader drops the first CSV row. Keyword exports almost always
	// carry a column header.
	SkipHeader bool

	// Column is the zero-based column to read keywords from.
	Column int
}

// ReadKeywordsFile reads keywords from path, choosing the parser by file
// extension: .csv files go through the CSV reader (first column, header
// skipped), anything else is read line by line.
func ReadKeywordsFile(ctx context.Context, path string) ([]string, error) {
	log := logging.FromContext(ctx)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening keyword file: %w", err)
	}
	defer file.Close()

	var keywords []string
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		keywords, err = ReadKeywordsCSV(file, Options{SkipHeader: true})
	} else {
		keywords, err = ReadKeywordLines(file)
	}
	if err != nil {
		return nil, err
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "ingest").
		Str("path", path).
		Int("keyword_count", len(keywords)).
		Msg("keyword file loaded")

	return keywords, nil
}

// ReadKeywordsCSV extracts keywords from one column of a CSV stream.
// Rows with fewer columns than opts.Column are skipped rather than treated
// as errors: exports from spreadsheet tools routinely contain ragged rows.
func ReadKeywordsCSV(r io.Reader, opts Options) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows allowed

	var raw []string
	row := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", row+1, err)
		}
		row++

		if opts.SkipHeader && row == 1 {
			continue
		}
		if opts.Column >= len(record) {
			continue
		}
		raw = append(raw, record[opts.Column])
	}

	return normalize(raw)
}

// ReadKeywordLines reads one keyword per line.
func ReadKeywordLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)

	var raw []string
	for scanner.Scan() {
		raw = append(raw, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading keyword lines: %w", err)
	}

	return normalize(raw)
}

// normalize trims whitespace and drops empty entries. Duplicates are kept:
// each occurrence gets its own result row downstream. The exact output of
// this step is the matching contract shared by the submission stage and the
// reconciler.
func normalize(raw []string) ([]string, error) {
	keywords := make([]string, 0, len(raw))
	for _, k := range raw {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		keywords = append(keywords, k)
	}

	if len(keywords) == 0 {
		return nil, ErrNoKeywords
	}
	return keywords, nil
}
