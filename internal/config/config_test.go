package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, 5*time.Minute, cfg.ArchiveInterval)
	assert.Equal(t, 10*time.Second, cfg.TxTimeout)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("ARCHIVE_INTERVAL", "30s")
	t.Setenv("ARCHIVE_BATCH_SIZE", "25")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 30*time.Second, cfg.ArchiveInterval)
	assert.Equal(t, 25, cfg.ArchiveBatchSize)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env.test")
	require.NoError(t, os.WriteFile(path, []byte("DB_NAME=from_env_file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("DB_NAME") })

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from_env_file", cfg.DBName)
}

func TestLoad_UnsupportedDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load("")
	assert.Error(t, err)
}
