package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 200, cfg.HistoryLimit)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"4000\"\nenv: production\nhistory_limit: 50\nstorage_root: /tmp/designs\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("HISTORY_LIMIT", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "/tmp/designs", cfg.StorageRoot)
	assert.Equal(t, 7, cfg.HistoryLimit)
}

func TestLoadWithDefaults_ServicePort(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")
	editor := Defaults()
	editor.Port = "3001"

	cfg, err := LoadWithDefaults(editor)
	require.NoError(t, err)
	assert.Equal(t, "3001", cfg.Port)

	path := filepath.Join(t.TempDir(), "editor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"4100\"\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)

	editor = Defaults()
	editor.Port = "3001"
	cfg, err = LoadWithDefaults(editor)
	require.NoError(t, err)
	assert.Equal(t, "4100", cfg.Port, "file wins over the service default")

	t.Setenv("PORT", "4200")
	editor = Defaults()
	editor.Port = "3001"
	cfg, err = LoadWithDefaults(editor)
	require.NoError(t, err)
	assert.Equal(t, "4200", cfg.Port)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("MAX_SESSIONS", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.MaxSessions)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ENV", "staging")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
