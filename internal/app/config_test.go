package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PG_DSN", "postgres://u:p@db:5432/vrinv")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "postgres://u:p@db:5432/vrinv", cfg.PGDSN)
	require.Equal(t, ":8080", cfg.AppAddr)
	require.Equal(t, 10*time.Minute, cfg.LedgerCacheTTL)
	require.Equal(t, 120, cfg.RateLimitPerMinute)
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigRejectsBadRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "0")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigRetention(t *testing.T) {
	t.Setenv("IDEMPOTENCY_RETENTION", "30m")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 30*time.Minute, cfg.IdempotencyRetention)

	t.Setenv("IDEMPOTENCY_RETENTION", "10s")
	_, err = LoadConfig()
	require.Error(t, err)
}

func TestIsProduction(t *testing.T) {
	var nilCfg *Config
	require.False(t, nilCfg.IsProduction())
	require.True(t, (&Config{AppEnv: "production"}).IsProduction())
}

func TestInTestMode(t *testing.T) {
	t.Setenv(TestModeEnv, "1")
	RefreshTestMode()
	require.True(t, InTestMode())

	t.Setenv(TestModeEnv, "")
	RefreshTestMode()
	require.False(t, InTestMode())
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, "DEBUG", parseLevel("debug").String())
	require.Equal(t, "WARN", parseLevel("warning").String())
	require.Equal(t, "INFO", parseLevel("nonsense").String())
}
