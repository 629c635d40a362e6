package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJson(t *testing.T) {
	dir := t.TempDir()

	t.Run("full file overrides everything", func(t *testing.T) {
		path := filepath.Join(dir, "full.json")
		require.NoError(t, os.WriteFile(path, []byte(`{
			"endpoint_addr_http": ":8081",
			"endpoint_addr_grpc": ":50052",
			"database_driver": "sqlite",
			"database_dsn": "accounts.db",
			"secret_key": "secret",
			"issuer": "iss",
			"audience": "aud",
			"log_level": "warn",
			"health_check_interval": "30s",
			"shutdown_timeout": 2000000000
		}`), 0o600))

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-config", path}))

		assert.Equal(t, ":8081", cfg.EndpointAddrHTTP)
		assert.Equal(t, ":50052", cfg.EndpointAddrGRPC)
		assert.Equal(t, "sqlite", cfg.DatabaseDriver)
		assert.Equal(t, "accounts.db", cfg.DatabaseDSN)
		assert.Equal(t, "secret", cfg.SecretKey)
		assert.Equal(t, "iss", cfg.Issuer)
		assert.Equal(t, "aud", cfg.Audience)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, 30*time.Second, cfg.HealthCheckInterval)
		assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
	})

	t.Run("partial file keeps other fields", func(t *testing.T) {
		path := filepath.Join(dir, "partial.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"database_dsn": "only-dsn"}`), 0o600))

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-c", path}))

		assert.Equal(t, "only-dsn", cfg.DatabaseDSN)
		assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
		assert.Equal(t, "ProjectReturn", cfg.Issuer)
		assert.Equal(t, 10*time.Second, cfg.HealthCheckInterval)
	})

	t.Run("no config flag means no changes", func(t *testing.T) {
		cfg := &Config{DatabaseDSN: "keep"}
		require.NoError(t, parseJson(cfg, []string{"-a", ":1"}))
		assert.Equal(t, "keep", cfg.DatabaseDSN)
	})

	t.Run("invalid JSON is an error", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		assert.Error(t, parseJson(&Config{}, []string{"-c", bad}))
	})

	t.Run("bad duration is an error", func(t *testing.T) {
		bad := filepath.Join(dir, "dur.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{"shutdown_timeout": "later"}`), 0o600))

		assert.Error(t, parseJson(&Config{}, []string{"-c", bad}))
	})
}
