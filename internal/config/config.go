// Package config loads and validates the kwatlas configuration file and
// provides the process-wide configuration and logger instances.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is the config schema version written by `kwatlas config init`
// and accepted by the running binary (see Validate).
const SchemaVersion = "1.0.0"

// Default configuration values.
const (
	DefaultBaseURL      = "https://api.dataforseo.com"
	DefaultLocationCode = 2840 // United States
	DefaultLanguage     = "English"

	DefaultBatchSize = 500
	MaxBatchSize     = 1000

	DefaultMaxRounds    = 60
	DefaultGraceRounds  = 3
	DefaultGrowthFactor = 1.5

	defaultBaseInterval   = 2 * time.Second
	defaultMaxInterval    = 30 * time.Second
	defaultClientTimeout  = 30 * time.Second
	defaultOutputFormat   = "table"
	defaultConfigFileName = "config.yaml"
)

// Duration wraps time.Duration so interval values can be written in YAML as
// human-readable strings ("2s", "1m30s").
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the top-level kwatlas configuration.
type Config struct {
	SchemaVersion string        `yaml:"schema_version"`
	API           APIConfig     `yaml:"api"`
	Batch         BatchConfig   `yaml:"batch"`
	Poll          PollConfig    `yaml:"poll"`
	Output        OutputConfig  `yaml:"output"`
	Logging       LoggingConfig `yaml:"logging"`
}

// APIConfig configures the DataForSEO client.
type APIConfig struct {
	BaseURL      string   `yaml:"base_url"`
	Login        string   `yaml:"login"`
	Password     string   `yaml:"password"`
	LocationCode int      `yaml:"location_code"`
	LanguageName string   `yaml:"language_name"`
	CallbackURL  string   `yaml:"callback_url,omitempty"`
	Timeout      Duration `yaml:"timeout"`
}

// BatchConfig configures input partitioning.
type BatchConfig struct {
	// Size is the number of keywords submitted per remote task. The
	// provider caps a single task at MaxBatchSize keywords.
	Size int `yaml:"size"`
}

// PollConfig configures the polling coordinator.
type PollConfig struct {
	MaxRounds    int      `yaml:"max_rounds"`
	BaseInterval Duration `yaml:"base_interval"`
	MaxInterval  Duration `yaml:"max_interval"`
	GrowthFactor float64  `yaml:"growth_factor"`
	GraceRounds  int      `yaml:"grace_rounds"`

	// FailOnEmptyResult controls the ambiguous case where the provider
	// reports a task as finished but returns no result payload. When false
	// (the default) the task is kept pending and re-polled next round;
	// when true it is failed immediately.
	FailOnEmptyResult bool `yaml:"fail_on_empty_result"`

	// Concurrency bounds how many tasks are queried in parallel within one
	// round. 1 (the default) polls sequentially in batch order.
	Concurrency int `yaml:"concurrency"`
}

// OutputConfig configures report rendering.
type OutputConfig struct {
	// DefaultFormat is one of "table", "json", or "csv".
	DefaultFormat string `yaml:"default_format"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// Default returns a Config populated with defaults only.
func Default() *Config {
	return &Config{
		SchemaVersion: SchemaVersion,
		API: APIConfig{
			BaseURL:      DefaultBaseURL,
			LocationCode: DefaultLocationCode,
			LanguageName: DefaultLanguage,
			Timeout:      Duration(defaultClientTimeout),
		},
		Batch: BatchConfig{Size: DefaultBatchSize},
		Poll: PollConfig{
			MaxRounds:    DefaultMaxRounds,
			BaseInterval: Duration(defaultBaseInterval),
			MaxInterval:  Duration(defaultMaxInterval),
			GrowthFactor: DefaultGrowthFactor,
			GraceRounds:  DefaultGraceRounds,
			Concurrency:  1,
		},
		Output:  OutputConfig{DefaultFormat: defaultOutputFormat},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// New loads the configuration file from the kwatlas config directory,
// falling back to defaults when no file exists, then applies environment
// overrides. Load errors are not fatal: a malformed file is reported on
// stderr and defaults are used, matching the tool's never-abort posture.
func New() *Config {
	cfg := Default()

	path, err := ConfigFilePath()
	if err == nil {
		if loadErr := loadInto(cfg, path); loadErr != nil && !os.IsNotExist(loadErr) {
			logger := GetLogger()
			logger.Warn().Err(loadErr).Str("path", path).
				Msg("could not load config file, using defaults")
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// loadInto reads a YAML config file over cfg. Fields absent from the file
// keep their current (default) values.
func loadInto(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies KWATLAS_* environment variables over the loaded
// config. Credentials are the common case: operators keep them out of the
// config file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("KWATLAS_LOGIN"); v != "" {
		c.API.Login = v
	}
	if v := os.Getenv("KWATLAS_PASSWORD"); v != "" {
		c.API.Password = v
	}
	if v := os.Getenv("KWATLAS_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("KWATLAS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Save writes the configuration to the kwatlas config file, creating the
// config directory if needed.
func (c *Config) Save() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigFilePath()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// GetConfigDir returns the kwatlas configuration directory, honouring the
// KWATLAS_HOME override.
func GetConfigDir() (string, error) {
	if home := os.Getenv("KWATLAS_HOME"); home != "" {
		return home, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".kwatlas"), nil
}

// ConfigFilePath returns the path of the kwatlas config file.
func ConfigFilePath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, defaultConfigFileName), nil
}

// EnsureConfigDir creates the kwatlas configuration directory if needed.
func EnsureConfigDir() error {
	dir, err := GetConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// EnsureLogDir creates the parent directory of the configured log file.
// It does nothing when no log file is configured.
func EnsureLogDir() error {
	cfg := GetGlobalConfig()
	if cfg.Logging.File == "" {
		return nil
	}
	logDir := filepath.Dir(cfg.Logging.File)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}
	return nil
}

// GlobalConfig holds the global configuration instance.
var GlobalConfig *Config        //nolint:gochecknoglobals // Singleton pattern for configuration
var globalConfigMu sync.RWMutex //nolint:gochecknoglobals // Protects globalConfigInit flag
var globalConfigInit bool       //nolint:gochecknoglobals // Tracks if global config has been initialized

// InitGlobalConfig initializes the global configuration.
func InitGlobalConfig() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	if globalConfigInit {
		return
	}

	GlobalConfig = New()
	globalConfigInit = true
}

// ResetGlobalConfigForTest resets the global config for testing purposes.
func ResetGlobalConfigForTest() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	GlobalConfig = nil
	globalConfigInit = false
}

// GetGlobalConfig returns the global configuration, initializing it if needed.
func GetGlobalConfig() *Config {
	InitGlobalConfig()
	return GlobalConfig
}

// GetDefaultOutputFormat returns the configured default output format.
func GetDefaultOutputFormat() string {
	return GetGlobalConfig().Output.DefaultFormat
}

// GetLoggingConfig returns a copy of the Logging section of the global
// configuration. Flag-level overrides (e.g. --debug) are applied by the
// caller after retrieving this value.
func GetLoggingConfig() LoggingConfig {
	return GetGlobalConfig().Logging
}
