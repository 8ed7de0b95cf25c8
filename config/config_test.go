package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
  rate_limit_per_sec: 20
  rate_limit_burst: 10
  cache_ttl_seconds: 30
database:
  dsn: "host=localhost user=quickentry dbname=quickentry"
  max_open_conns: 10
auth:
  secret: "test-secret"
  token_ttl_minutes: 60
audit:
  enabled: true
  interval_seconds: 120
worker_pool:
  size: 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 20.0, cfg.Server.RateLimitPerSec)
	assert.Equal(t, "test-secret", cfg.Auth.Secret)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Audit.Enabled)
	assert.Equal(t, 2*time.Minute, cfg.Audit.Interval)
	assert.Equal(t, 4, cfg.WorkerPool.Size)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
auth:
  secret: "test-secret"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.Audit.Interval)
	assert.False(t, cfg.Audit.Enabled)
	assert.Equal(t, 10.0, cfg.Server.RateLimitPerSec)
	assert.Equal(t, 5, cfg.Server.RateLimitBurst)
	assert.Equal(t, 60, cfg.Server.CacheTTLSeconds)
	assert.Equal(t, 3600, cfg.Push.TTL)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
}

func TestLoad_Failures(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server: [not, a, mapping"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server:\n  port: 8080\n"))
	assert.Error(t, err, "auth secret is mandatory")
}
