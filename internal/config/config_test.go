package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfigFile(t *testing.T, dir string, values map[string]any) {
	t.Helper()
	data, err := yaml.Marshal(values)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), data, 0o600))
}

func TestLoadConfig_FromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	writeConfigFile(t, dir, map[string]any{
		"DATABASE_URL":             "postgres://localhost:5432/lineup_test",
		"PORT":                     "8080",
		"JWT_SECRET":               "a-test-secret-of-sufficient-length!",
		"FEATURE_FLAGS":            "new_feed:on",
		"MEDIA_MAX_UPLOAD_SIZE_MB": 25,
	})
	t.Chdir(dir)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost:5432/lineup_test", cfg.DatabaseURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "new_feed:on", cfg.FeatureFlags)
	assert.Equal(t, 25, cfg.MediaMaxUploadSizeMB)
	// Unset values fall back to defaults.
	assert.Equal(t, "localhost:6379", cfg.RedisURL)
	assert.Equal(t, "development", cfg.Env)
}

func TestLoadConfig_DatabaseURLRequired(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	writeConfigFile(t, dir, map[string]any{
		"PORT": "8080",
	})
	t.Chdir(dir)

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	base := Config{
		Port:        "3000",
		DatabaseURL: "postgres://localhost/db",
		JWTSecret:   "a-test-secret-of-sufficient-length!",
	}

	t.Run("valid development config", func(t *testing.T) {
		cfg := base
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing port", func(t *testing.T) {
		cfg := base
		cfg.Port = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("production rejects the default secret", func(t *testing.T) {
		cfg := base
		cfg.Env = "production"
		cfg.JWTSecret = "your-secret-key-change-in-production"
		assert.Error(t, cfg.Validate())
	})

	t.Run("production rejects short secrets", func(t *testing.T) {
		cfg := base
		cfg.Env = "production"
		cfg.JWTSecret = "short"
		assert.Error(t, cfg.Validate())
	})
}
