package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadKeywordsCSV(t *testing.T) {
	t.Run("FirstColumnWithHeader", func(t *testing.T) {
		in := "keyword,volume\nrunning shoes,100\n  trail shoes  ,200\n,300\n"
		got, err := ReadKeywordsCSV(strings.NewReader(in), Options{SkipHeader: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"running shoes", "trail shoes"}, got)
	})

	t.Run("NoHeader", func(t *testing.T) {
		in := "alpha\nbeta\n"
		got, err := ReadKeywordsCSV(strings.NewReader(in), Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "beta"}, got)
	})

	t.Run("DuplicatesPreserved", func(t *testing.T) {
		in := "kw\nsame\nsame\nsame\n"
		got, err := ReadKeywordsCSV(strings.NewReader(in), Options{SkipHeader: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"same", "same", "same"}, got)
	})

	t.Run("RaggedRowsSkipped", func(t *testing.T) {
		in := "kw,extra\nfirst\nsecond,x,y\n"
		got, err := ReadKeywordsCSV(strings.NewReader(in), Options{SkipHeader: true, Column: 1})
		require.NoError(t, err)
		// Only the row with a second column contributes.
		assert.Equal(t, []string{"x"}, got)
	})

	t.Run("EmptyAfterNormalize", func(t *testing.T) {
		in := "kw\n\n   \n"
		_, err := ReadKeywordsCSV(strings.NewReader(in), Options{SkipHeader: true})
		assert.ErrorIs(t, err, ErrNoKeywords)
	})
}

func TestReadKeywordLines(t *testing.T) {
	in := " one \ntwo\n\nthree\n"
	got, err := ReadKeywordLines(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, got)
}

func TestReadKeywordsFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("CSVExtension", func(t *testing.T) {
		path := filepath.Join(dir, "keywords.csv")
		require.NoError(t, os.WriteFile(path, []byte("keyword\nfoo\nbar\n"), 0600))

		got, err := ReadKeywordsFile(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, []string{"foo", "bar"}, got)
	})

	t.Run("PlainText", func(t *testing.T) {
		path := filepath.Join(dir, "keywords.txt")
		require.NoError(t, os.WriteFile(path, []byte("foo\nbar\n"), 0600))

		got, err := ReadKeywordsFile(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, []string{"foo", "bar"}, got)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := ReadKeywordsFile(ctx, filepath.Join(dir, "nope.csv"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "opening keyword file")
	})
}
