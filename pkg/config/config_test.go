package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiredFieldMissing(t *testing.T) {
	t.Setenv("DATABASE_FILE_PATH", "")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	cfg, err := New()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required config")
	assert.Contains(t, err.Error(), "DATABASE_FILE_PATH")
	assert.Contains(t, err.Error(), "database_file_path")
}

func TestNew_PostgresRequiresURL(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	cfg, err := New()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "database_url")
}

func TestNew_UnsupportedDriver(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "oracle")
	t.Setenv("DATABASE_FILE_PATH", "/tmp/test.db")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported database_driver "oracle"`)
}

func TestNew_WithEnvVar(t *testing.T) {
	t.Setenv("DATABASE_FILE_PATH", "/tmp/test.db")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/test.db", cfg.DatabaseFilePath)
	assert.NotEmpty(t, cfg.Hostname)
}

func TestNew_WithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
database_file_path: /data/catalog.db
server_port: 8080
database_debug: true
database_connect_retry_delay: 500ms
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("CONFIG_FILE", configPath)

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/data/catalog.db", cfg.DatabaseFilePath)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.True(t, cfg.DatabaseDebug)
	assert.Equal(t, 500*time.Millisecond, cfg.DatabaseConnectRetryDelay)
}

func TestNew_EnvVarOverridesConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
database_file_path: /data/from-file.db
server_port: 8080
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("CONFIG_FILE", configPath)
	t.Setenv("DATABASE_FILE_PATH", "/data/from-env.db")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := New()
	require.NoError(t, err)
	// Env vars should override config file
	assert.Equal(t, "/data/from-env.db", cfg.DatabaseFilePath)
	assert.Equal(t, 9090, cfg.ServerPort)
}

func TestNew_Defaults(t *testing.T) {
	t.Setenv("DATABASE_FILE_PATH", "/tmp/test.db")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, 5, cfg.DatabaseConnectRetryCount)
	assert.Equal(t, 2*time.Second, cfg.DatabaseConnectRetryDelay)
	assert.Equal(t, 5*time.Second, cfg.DatabaseBusyTimeout)
	assert.Equal(t, 5, cfg.DatabaseMaxRetries)
	assert.False(t, cfg.DatabaseDebug)
	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, 3690, cfg.ServerPort)
}

func TestNewForTest(t *testing.T) {
	cfg := NewForTest()
	assert.Equal(t, ":memory:", cfg.DatabaseFilePath)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "127.0.0.1", cfg.ServerHost)
	require.NoError(t, cfg.validate())
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "database_file_path", toSnakeCase("DatabaseFilePath"))
	assert.Equal(t, "server_port", toSnakeCase("ServerPort"))
	assert.Equal(t, "database_url", toSnakeCase("DatabaseURL"))
}

func TestKnownKeys(t *testing.T) {
	keys := knownKeys()
	assert.Contains(t, keys, "database_file_path")
	assert.Contains(t, keys, "database_url")
	assert.NotContains(t, keys, "hostname")
}
