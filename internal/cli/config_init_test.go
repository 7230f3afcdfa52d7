package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwatlas/kwatlas/internal/config"
)

func setupConfigHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("KWATLAS_HOME", home)
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

func TestConfigInitCommand(t *testing.T) {
	t.Run("CreatesConfigFile", func(t *testing.T) {
		home := setupConfigHome(t)

		out, err := runRootCmd(t, "config", "init")
		require.NoError(t, err)
		assert.Contains(t, out, "Configuration initialized successfully")

		data, err := os.ReadFile(filepath.Join(home, "config.yaml"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "schema_version")
		assert.Contains(t, string(data), "batch")
	})

	t.Run("RefusesToOverwrite", func(t *testing.T) {
		setupConfigHome(t)

		_, err := runRootCmd(t, "config", "init")
		require.NoError(t, err)

		_, err = runRootCmd(t, "config", "init")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("ForceOverwrites", func(t *testing.T) {
		home := setupConfigHome(t)
		path := filepath.Join(home, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("schema_version: \"1.0.0\"\n"), 0600))

		_, err := runRootCmd(t, "config", "init", "--force")
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "poll")
	})
}

func TestConfigValidateCommand(t *testing.T) {
	t.Run("DefaultsAreValid", func(t *testing.T) {
		setupConfigHome(t)
		t.Setenv("KWATLAS_LOGIN", "login")
		t.Setenv("KWATLAS_PASSWORD", "secret")

		out, err := runRootCmd(t, "config", "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "Configuration is valid")
	})

	t.Run("WarnsOnMissingCredentials", func(t *testing.T) {
		setupConfigHome(t)
		t.Setenv("KWATLAS_LOGIN", "")
		t.Setenv("KWATLAS_PASSWORD", "")

		out, err := runRootCmd(t, "config", "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "⚠️")
	})

	t.Run("Verbose", func(t *testing.T) {
		setupConfigHome(t)
		t.Setenv("KWATLAS_LOGIN", "login")
		t.Setenv("KWATLAS_PASSWORD", "secret")

		out, err := runRootCmd(t, "config", "validate", "--verbose")
		require.NoError(t, err)
		assert.Contains(t, out, "Batch size:")
		assert.Contains(t, out, "Max rounds:")
	})

	t.Run("RejectsInvalidFile", func(t *testing.T) {
		home := setupConfigHome(t)
		path := filepath.Join(home, "config.yaml")
		content := "schema_version: \"1.0.0\"\nbatch:\n  size: 99999\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		_, err := runRootCmd(t, "config", "validate")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
	})
}
