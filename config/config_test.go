package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.hypixel.net", cfg.HypixelBaseURL)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, time.Second, cfg.RequestInterval)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2*time.Hour, cfg.RefreshCooldown)
	assert.Equal(t, 1, cfg.RefreshWorkers)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("REFRESH_WORKERS", "4")
	t.Setenv("REFRESH_COOLDOWN", "30m")
	t.Setenv("DATABASE_URL", "postgres://db:5432")
	t.Setenv("DATABASE_NAME", "heinz")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.RefreshWorkers)
	assert.Equal(t, 30*time.Minute, cfg.RefreshCooldown)
	assert.Equal(t, "postgres://db:5432/heinz?sslmode=disable", cfg.GetDatabaseURL())
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")

	t.Setenv("CACHE_TTL", "forever")
	_, err := load()
	assert.Error(t, err)

	t.Setenv("CACHE_TTL", "")
	t.Setenv("REFRESH_WORKERS", "0")
	_, err = load()
	assert.Error(t, err)
}

func TestLoad_RequiresCredentialsOutsideTest(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://db")
	t.Setenv("HYPIXEL_API_KEY", "")

	_, err := load()
	assert.ErrorContains(t, err, "HYPIXEL_API_KEY")
}

func TestSetTestConfig(t *testing.T) {
	t.Cleanup(ResetConfig)

	cfg := NewTestConfig()
	cfg.GuildID = "123"
	SetTestConfig(cfg)

	assert.Same(t, cfg, Get())
}
