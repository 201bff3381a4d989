package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 4096, cfg.Storage.BlockSize)
}

func TestLoadYamlOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lykiadb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\nstorage:\n  block_size: 8192\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 8192, cfg.Storage.BlockSize)
	assert.Equal(t, "./data", cfg.Storage.DataDir) // untouched field keeps its default
}

func TestExpandEnvVarsInDataDir(t *testing.T) {
	t.Setenv("LYKIADB_HOME", "/var/lykiadb")
	dir := t.TempDir()
	path := filepath.Join(dir, "lykiadb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  data_dir: ${LYKIADB_HOME}/data\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lykiadb/data", cfg.Storage.DataDir)
}
