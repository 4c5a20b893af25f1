package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadWithTempDirs(t *testing.T) {
	t.Helper()
	t.Setenv("BITFUN_CONFIG_DIR", t.TempDir())
	t.Setenv("BITFUN_STATE_DIR", t.TempDir())
	Load()
}

func TestLoadAppliesDefaults(t *testing.T) {
	loadWithTempDirs(t)

	assert.Equal(t, "file", Get("storage_backend", ""))
	assert.Equal(t, 3, GetInt("max_active_notifications", 0))
	assert.Equal(t, 100, GetInt("max_history", 0))
	assert.Equal(t, 5000, GetInt("default_duration_ms", 0))
	assert.Equal(t, 1000, GetInt("event_history_limit", 0))
	assert.False(t, GetBool("debug", true))
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("BITFUN_MAX_HISTORY", "25")
	t.Setenv("BITFUN_STORAGE_BACKEND", "memory")
	loadWithTempDirs(t)

	assert.Equal(t, 25, GetInt("max_history", 0))
	assert.Equal(t, "memory", Get("storage_backend", ""))
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	configDir := t.TempDir()
	configPath := filepath.Join(configDir, "config.toml")
	content := "max_history = 42\nstorage_backend = \"sqlite\"\nquiet = true\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	t.Setenv("BITFUN_CONFIG_DIR", configDir)
	t.Setenv("BITFUN_STATE_DIR", t.TempDir())
	Load()

	assert.Equal(t, 42, GetInt("max_history", 0))
	assert.Equal(t, "sqlite", Get("storage_backend", ""))
	assert.True(t, GetBool("quiet", false))
}

func TestEnvWinsOverConfigFile(t *testing.T) {
	configDir := t.TempDir()
	configPath := filepath.Join(configDir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("max_history = 42\n"), 0o644))

	t.Setenv("BITFUN_CONFIG_DIR", configDir)
	t.Setenv("BITFUN_STATE_DIR", t.TempDir())
	t.Setenv("BITFUN_MAX_HISTORY", "7")
	Load()

	assert.Equal(t, 7, GetInt("max_history", 0))
}

func TestExplicitConfigPathEnv(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("max_history = 11\n"), 0o644))

	t.Setenv("BITFUN_CONFIG_PATH", configPath)
	loadWithTempDirs(t)

	assert.Equal(t, 11, GetInt("max_history", 0))
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("BITFUN_MAX_HISTORY", "-5")
	t.Setenv("BITFUN_STORAGE_BACKEND", "redis")
	t.Setenv("BITFUN_QUIET", "maybe")
	loadWithTempDirs(t)

	assert.Equal(t, 100, GetInt("max_history", 0))
	assert.Equal(t, "file", Get("storage_backend", ""))
	assert.False(t, GetBool("quiet", false))
}

func TestBoolNormalization(t *testing.T) {
	t.Setenv("BITFUN_DEBUG", "YES")
	loadWithTempDirs(t)

	assert.True(t, GetBool("debug", false))
	assert.Equal(t, "true", Get("debug", ""))
}

func TestLoadCreatesSampleConfig(t *testing.T) {
	configDir := t.TempDir()
	t.Setenv("BITFUN_CONFIG_DIR", configDir)
	t.Setenv("BITFUN_STATE_DIR", t.TempDir())
	Load()

	samplePath := filepath.Join(configDir, "config.toml")
	require.FileExists(t, samplePath)

	data, err := os.ReadFile(samplePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "max_history")
}

func TestGettersFallBackForUnknownKeys(t *testing.T) {
	loadWithTempDirs(t)

	assert.Equal(t, "fallback", Get("no_such_key", "fallback"))
	assert.Equal(t, 9, GetInt("no_such_key", 9))
	assert.True(t, GetBool("no_such_key", true))
}

func TestRegisterValidatorRejectsDuplicates(t *testing.T) {
	assert.Panics(t, func() {
		RegisterValidator("max_history", PositiveIntValidator())
	})
}
