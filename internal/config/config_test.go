package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, SchemaVersion, cfg.SchemaVersion)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, DefaultLocationCode, cfg.API.LocationCode)
	assert.Equal(t, DefaultLanguage, cfg.API.LanguageName)
	assert.Equal(t, DefaultBatchSize, cfg.Batch.Size)
	assert.Equal(t, DefaultMaxRounds, cfg.Poll.MaxRounds)
	assert.Equal(t, 2*time.Second, cfg.Poll.BaseInterval.Std())
	assert.Equal(t, 30*time.Second, cfg.Poll.MaxInterval.Std())
	assert.Equal(t, "table", cfg.Output.DefaultFormat)

	require.NoError(t, cfg.Validate())
}

func TestNewLoadsFileAndEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("KWATLAS_HOME", home)
	t.Setenv("KWATLAS_LOGIN", "env-login")
	t.Setenv("KWATLAS_PASSWORD", "env-pass")

	fileContents := `
schema_version: "1.2.0"
batch:
  size: 200
poll:
  max_rounds: 10
  base_interval: 1s
  max_interval: 8s
  growth_factor: 2.0
  grace_rounds: 1
  concurrency: 1
`
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(fileContents), 0600))

	cfg := New()

	// File values override defaults.
	assert.Equal(t, 200, cfg.Batch.Size)
	assert.Equal(t, 10, cfg.Poll.MaxRounds)
	assert.Equal(t, time.Second, cfg.Poll.BaseInterval.Std())
	// Unset sections keep defaults.
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	// Env overrides apply on top.
	assert.Equal(t, "env-login", cfg.API.Login)
	assert.Equal(t, "env-pass", cfg.API.Password)

	require.NoError(t, cfg.ValidateCredentials())
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("KWATLAS_HOME", t.TempDir())

	cfg := Default()
	cfg.Batch.Size = 123
	require.NoError(t, cfg.Save())

	path, err := ConfigFilePath()
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded Config
	require.NoError(t, yaml.Unmarshal(data, &loaded))
	assert.Equal(t, 123, loaded.Batch.Size)
	assert.Equal(t, "2s", mustMarshalString(t, loaded.Poll.BaseInterval))
}

func mustMarshalString(t *testing.T, d Duration) string {
	t.Helper()
	out, err := d.MarshalYAML()
	require.NoError(t, err)
	s, ok := out.(string)
	require.True(t, ok)
	return s
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"Valid", func(c *Config) {}, ""},
		{"BatchTooSmall", func(c *Config) { c.Batch.Size = 0 }, "batch.size"},
		{"BatchOverCap", func(c *Config) { c.Batch.Size = MaxBatchSize + 1 }, "batch.size"},
		{"ZeroRounds", func(c *Config) { c.Poll.MaxRounds = 0 }, "max_rounds"},
		{"NegativeBase", func(c *Config) { c.Poll.BaseInterval = Duration(-time.Second) }, "base_interval"},
		{"MaxBelowBase", func(c *Config) { c.Poll.MaxInterval = Duration(time.Second); c.Poll.BaseInterval = Duration(5 * time.Second) }, "max_interval"},
		{"ShrinkingGrowth", func(c *Config) { c.Poll.GrowthFactor = 0.5 }, "growth_factor"},
		{"NegativeGrace", func(c *Config) { c.Poll.GraceRounds = -1 }, "grace_rounds"},
		{"ZeroConcurrency", func(c *Config) { c.Poll.Concurrency = 0 }, "concurrency"},
		{"BadFormat", func(c *Config) { c.Output.DefaultFormat = "xml" }, "default_format"},
		{"BadSchemaVersion", func(c *Config) { c.SchemaVersion = "not-a-version" }, "schema_version"},
		{"UnsupportedMajor", func(c *Config) { c.SchemaVersion = "2.0.0" }, "not supported"},
		{"EmptySchemaVersionAccepted", func(c *Config) { c.SchemaVersion = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateCredentials(t *testing.T) {
	cfg := Default()
	assert.ErrorIs(t, cfg.ValidateCredentials(), ErrMissingCredentials)

	cfg.API.Login = "login"
	assert.ErrorIs(t, cfg.ValidateCredentials(), ErrMissingCredentials)

	cfg.API.Password = "secret"
	assert.NoError(t, cfg.ValidateCredentials())
}

func TestDurationUnmarshal(t *testing.T) {
	var d Duration
	require.NoError(t, yaml.Unmarshal([]byte(`"1m30s"`), &d))
	assert.Equal(t, 90*time.Second, d.Std())

	err := yaml.Unmarshal([]byte(`"not-a-duration"`), &d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing duration")
}
