package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9000"
  mode: release
database:
  driver: mysql
  dsn: "user:pass@tcp(localhost:3306)/market"
jwt:
  secret: s3cret
  expire_hours: 48
ai:
  cache_ttl: 1h
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 48*time.Hour, cfg.JWT.TokenTTL())
	assert.Equal(t, time.Hour, cfg.AI.CacheTTL)
	// デフォルト値
	assert.Equal(t, "gemini-2.0-flash-001", cfg.AI.Model)
	assert.Equal(t, "eur", cfg.Stripe.Currency)
	assert.Equal(t, "admin@chancenmarket.com", cfg.Admin.Email)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: from-file\n")
	t.Setenv("MARKET_JWT_SECRET", "from-env")
	t.Setenv("MARKET_SERVER_PORT", "7777")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "7777", cfg.Server.Port)
}

func TestLoadRejectsMissingSecretInRelease(t *testing.T) {
	path := writeConfig(t, "server:\n  mode: release\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: oracle\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
