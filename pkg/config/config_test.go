package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "runekv.yaml")

	cfg := DefaultConfig()
	cfg.DataDir = "/var/lib/runekv"
	cfg.Port = 9300
	cfg.APIKey = "secret"
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_FillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runekv.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: ./x\n"), 0o600))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	// Fields absent from the file fall back to defaults.
	assert.Equal(t, 8080, loaded.Port)
	assert.Equal(t, "./x", loaded.DataDir)
}
