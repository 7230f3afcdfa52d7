package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// swapLogger redirects the package logger into a buffer for the test.
func swapLogger(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	old := Logger
	Logger = zerolog.New(&buf).Level(zerolog.InfoLevel)
	t.Cleanup(func() { Logger = old })
	return &buf
}

func TestInitLogger(t *testing.T) {
	t.Cleanup(func() {
		CloseLogFile()
		_ = InitLogger("info", false)
	})

	t.Run("ConsoleOnly", func(t *testing.T) {
		require.NoError(t, InitLogger("debug", false))
		assert.Equal(t, zerolog.DebugLevel, GetLogger().GetLevel())
	})

	t.Run("InvalidLevelDefaultsToInfo", func(t *testing.T) {
		require.NoError(t, InitLogger("shouting", false))
		assert.Equal(t, zerolog.InfoLevel, GetLogger().GetLevel())
	})

	t.Run("FileOutput", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("KWATLAS_HOME", home)
		ResetGlobalConfigForTest()
		t.Cleanup(ResetGlobalConfigForTest)

		logPath := filepath.Join(home, "kwatlas.log")
		GetGlobalConfig().Logging.File = logPath

		require.NoError(t, InitLogger("info", true))
		logger := GetLogger()
		logger.Info().Msg("file sink check")
		CloseLogFile()

		data, err := os.ReadFile(logPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), "file sink check")
	})
}

func TestSetLogLevel(t *testing.T) {
	t.Cleanup(func() { _ = InitLogger("info", false) })

	SetLogLevel("warn")
	assert.Equal(t, zerolog.WarnLevel, GetLogger().GetLevel())

	SetLogLevel("not-a-level")
	assert.Equal(t, zerolog.InfoLevel, GetLogger().GetLevel())
}

func TestCloseLogFileIdempotent(t *testing.T) {
	CloseLogFile()
	CloseLogFile()
	assert.NotNil(t, GetLogger())
}

// TestNewWarnsThroughLoggerOnMalformedFile verifies that a config file that
// fails to parse is reported through the package logger, not swallowed.
func TestNewWarnsThroughLoggerOnMalformedFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("KWATLAS_HOME", home)

	path := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batch: [not: a: mapping\n"), 0600))

	buf := swapLogger(t)

	cfg := New()
	require.NotNil(t, cfg)

	// Defaults survive the failed load.
	assert.Equal(t, DefaultBatchSize, cfg.Batch.Size)
	assert.Contains(t, buf.String(), "could not load config file")
	assert.Contains(t, buf.String(), "config.yaml")
}
