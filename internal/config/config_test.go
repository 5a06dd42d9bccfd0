package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
env: "dev"
storage:
  dsn: ":memory:"
http_server:
  address: "localhost:8081"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ":memory:", cfg.Storage.DSN)
	assert.Equal(t, 10, cfg.Storage.MaxOpenConns)
	assert.Equal(t, 30*time.Minute, cfg.Storage.ConnMaxLifetime)
	assert.Equal(t, "localhost:8081", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadReadsExplicitValues(t *testing.T) {
	path := writeConfig(t, `
env: "prod"
storage:
  dsn: "postgres://students:secret@db:5432/students"
  max_open_conns: 25
http_server:
  address: ":9000"
  shutdown_timeout: 15s
cors:
  allowed_origins: ["https://school.example.com"]
metrics:
  enabled: true
  path: "/internal/metrics"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, 25, cfg.Storage.MaxOpenConns)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"https://school.example.com"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/internal/metrics", cfg.Metrics.Path)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
env: "dev"
storage:
  dsn: "students.db"
http_server:
  address: "localhost:8081"
`)
	t.Setenv("HTTP_SERVER_ADDR", "0.0.0.0:7000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:7000", cfg.Addr)
}

func TestLoadMissingRequired(t *testing.T) {
	path := writeConfig(t, `
env: "dev"
http_server:
  address: "localhost:8081"
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "does not exist")
}
