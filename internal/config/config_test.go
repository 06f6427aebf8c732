package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 1, cfg.Inventory.DefaultUserID)
	assert.Equal(t, "0 * * * *", cfg.Inventory.LowStockCron)
	assert.Equal(t, 5*time.Minute, cfg.Inventory.CacheTTL)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadOverridesFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_USER_ID", "42")
	t.Setenv("LOW_STOCK_CRON", "*/15 * * * *")
	t.Setenv("REFERENCE_CACHE_TTL", "10")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 42, cfg.Inventory.DefaultUserID)
	assert.Equal(t, "*/15 * * * *", cfg.Inventory.LowStockCron)
	assert.Equal(t, 10*time.Minute, cfg.Inventory.CacheTTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestMalformedIntFallsBackToDefault(t *testing.T) {
	t.Setenv("DEFAULT_USER_ID", "first")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Inventory.DefaultUserID)
}
