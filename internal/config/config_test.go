package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory with no user config.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.Server.URL)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.File)
}

func TestLoad_FileInWorkingDirectory(t *testing.T) {
	dir := isolate(t)
	content := "server:\n  url: https://recipes.example.com\n  timeout: 5s\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "recipetracker.yaml"), []byte(content), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://recipes.example.com", cfg.Server.URL)
	assert.Equal(t, 5*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "unset keys keep defaults")
	assert.NotEmpty(t, cfg.File)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  url: http://file:8080\n"), 0o644))
	t.Setenv("RECIPETRACKER_SERVER_URL", "http://env:9090")
	t.Setenv("RECIPETRACKER_STATE_PATH", "/tmp/state.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env:9090", cfg.Server.URL)
	assert.Equal(t, "/tmp/state.db", cfg.State.Path)
	assert.Equal(t, path, cfg.File)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	isolate(t)

	t.Setenv("RECIPETRACKER_SERVER_URL", "ftp://nope")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "ftp://nope", cfg.Server.URL)
	assert.ErrorContains(t, cfg.Validate(), "server.url")

	cfg.Server.URL = "http://ok"
	assert.NoError(t, cfg.Validate())

	t.Setenv("RECIPETRACKER_LOG_LEVEL", "chatty")
	cfg, err = Load("")
	require.NoError(t, err)
	cfg.Server.URL = "http://ok"
	assert.ErrorContains(t, cfg.Validate(), "log.level")
}

func TestLogConfig_SlogLevel(t *testing.T) {
	level, err := LogConfig{Level: "debug"}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = LogConfig{Level: "WARN"}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}
