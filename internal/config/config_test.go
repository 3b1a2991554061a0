package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RESTYLER_CONFIG", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("DATA_DIR", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("TASK_MAX_RETRIES", "")

	cfg := Load()
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, ":8082", cfg.HTTPAddr)
	assert.Equal(t, "127.0.0.1:6379", cfg.RedisAddr)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, 3, cfg.TaskMaxRetries)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RESTYLER_CONFIG", "")
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("TASK_MAX_RETRIES", "7")

	cfg := Load()
	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, 7, cfg.TaskMaxRetries)
}

func TestLoadYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_addr: \":7070\"\ndata_dir: /tmp/restyler\n"), 0o644))

	t.Setenv("RESTYLER_CONFIG", path)
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("REDIS_ADDR", "")

	cfg := Load()
	// file values win over the environment, empty fields skipped
	assert.Equal(t, ":7070", cfg.HTTPAddr)
	assert.Equal(t, "/tmp/restyler", cfg.DataDir)
	assert.Equal(t, "127.0.0.1:6379", cfg.RedisAddr)
}

func TestLoadBadOverlayPanics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))

	t.Setenv("RESTYLER_CONFIG", path)
	assert.Panics(t, func() { Load() })
}
