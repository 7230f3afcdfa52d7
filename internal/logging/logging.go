// Package logging provides zerolog-based structured logging for kwatlas.
// It centralizes logger construction, component tagging, and per-invocation
// trace IDs so every package logs with a consistent shape.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Config describes how a logger should be constructed.
type Config struct {
	// Level is the minimum log level ("trace", "debug", "info", ...).
	// Invalid or empty values fall back to "info".
	Level string

	// Format selects the output encoding: "console" or "json".
	Format string

	// Output selects the destination: "stderr", "stdout", or "file".
	Output string

	// File is the log file path when Output is "file".
	File string

	// Caller enables caller annotation on each event.
	Caller bool
}

// Output and format constants.
const (
	FormatConsole = "console"
	FormatJSON    = "json"

	OutputStderr = "stderr"
	OutputStdout = "stdout"
	OutputFile   = "file"
)

// logFilePerm restricts log files to the owning user.
const logFilePerm = 0600

// NewLogger builds a zerolog.Logger from cfg, writing to stderr when the
// configured output cannot be used.
func NewLogger(cfg Config) zerolog.Logger {
	return NewLoggerWithPath(cfg).Logger
}

// LogPathResult reports where a constructed logger actually writes.
// Callers use it to tell the operator the log file location, or why the
// file could not be used.
type LogPathResult struct {
	Logger         zerolog.Logger
	UsingFile      bool
	FilePath       string
	FallbackUsed   bool
	FallbackReason string

	file *os.File
}

// Close releases the log file handle, if any.
func (r *LogPathResult) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// NewLoggerWithPath builds a logger from cfg and reports the resolved output
// destination. File output failures fall back to stderr with the reason
// recorded rather than returned as an error: a broken log path should never
// stop the tool from running.
func NewLoggerWithPath(cfg Config) LogPathResult {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	result := LogPathResult{}

	var out io.Writer
	switch cfg.Output {
	case OutputFile:
		file, openErr := openLogFile(cfg.File)
		if openErr != nil {
			result.FallbackUsed = true
			result.FallbackReason = openErr.Error()
			out = os.Stderr
		} else {
			result.UsingFile = true
			result.FilePath = cfg.File
			result.file = file
			out = file
		}
	case OutputStdout:
		out = os.Stdout
	default:
		out = os.Stderr
	}

	if cfg.Format == FormatConsole || cfg.Format == "" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logCtx := zerolog.New(out).Level(lvl).With().Timestamp()
	if cfg.Caller {
		logCtx = logCtx.Caller()
	}
	result.Logger = logCtx.Logger()

	return result
}

// openLogFile ensures the parent directory exists and opens the log file in
// append mode.
func openLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("log file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFilePerm)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return file, nil
}

// ComponentLogger returns a child logger tagged with a component name.
// Every package that logs should tag itself exactly once.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// FromContext returns the logger attached to ctx, or a disabled logger when
// none was attached. Use logger.WithContext(ctx) to attach one.
func FromContext(ctx context.Context) zerolog.Logger {
	return *zerolog.Ctx(ctx)
}

// PrintLogPathMessage tells the operator where logs are being written.
func PrintLogPathMessage(w io.Writer, path string) {
	fmt.Fprintf(w, "Logging to %s\n", path)
}

// PrintFallbackWarning tells the operator why file logging was not used.
func PrintFallbackWarning(w io.Writer, reason string) {
	fmt.Fprintf(w, "Warning: falling back to stderr logging: %s\n", reason)
}
