package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredKeys(t *testing.T) {
	t.Helper()
	t.Setenv("GOOGLE_API_KEY", "google-test")
	t.Setenv("MAGIC_HOUR_API_KEY", "mh-test")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredKeys(t)
	t.Setenv("PORT", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("POLL_INTERVAL_MS", "")
	t.Setenv("POLL_MAX_ATTEMPTS", "")
	t.Setenv("ORIENTATION_ENABLED", "")
	t.Setenv("MAGIC_HOUR_TIMEOUT_SECONDS", "")
	t.Setenv("STAGE_TTL_MINUTES", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.InDelta(t, 0.7, cfg.GeminiTemperature, 1e-9)
	assert.InDelta(t, 1.0, cfg.GeminiTopP, 1e-9)
	assert.Equal(t, 1, cfg.GeminiTopK)
	assert.Equal(t, 1024, cfg.GeminiMaxOutputTokens)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Zero(t, cfg.PollMaxAttempts, "polling is unbounded unless configured")
	assert.True(t, cfg.OrientationEnabled)
	assert.Equal(t, 5, cfg.SketchCostFrames)
	assert.Zero(t, cfg.HTTPWriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.MagicHourTimeout)
	assert.Equal(t, 30*time.Minute, cfg.StageTTL)
}

func TestLoadConfigMissingGoogleKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("MAGIC_HOUR_API_KEY", "mh-test")

	cfg, err := LoadConfig()
	require.Error(t, err)
	assert.Nil(t, cfg)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "GOOGLE_API_KEY", cfgErr.Key)
	assert.Equal(t, "API key not found. Please check your .env file.", err.Error())
}

func TestLoadConfigMissingMagicHourKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "google-test")
	t.Setenv("MAGIC_HOUR_API_KEY", "   ")

	_, err := LoadConfig()
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "MAGIC_HOUR_API_KEY", cfgErr.Key)
	assert.Equal(t, "Magic Hour API key not found. Please check your .env file.", cfgErr.Error())
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredKeys(t)
	t.Setenv("POLL_INTERVAL_MS", "250")
	t.Setenv("POLL_MAX_ATTEMPTS", "40")
	t.Setenv("ORIENTATION_ENABLED", "false")
	t.Setenv("GEMINI_TEMPERATURE", "0.2")
	t.Setenv("IMAGE_COUNT", "-3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 40, cfg.PollMaxAttempts)
	assert.False(t, cfg.OrientationEnabled)
	assert.InDelta(t, 0.2, cfg.GeminiTemperature, 1e-9)
	assert.Equal(t, 1, cfg.ImageCount)
}

func TestLoadConfigIgnoresMalformedNumbers(t *testing.T) {
	setRequiredKeys(t)
	t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")
	t.Setenv("GEMINI_TOP_P", "high")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.RateLimitPerMin)
	assert.InDelta(t, 1.0, cfg.GeminiTopP, 1e-9)
}

func TestLoadConfigMagicHourTimeoutAndStageTTL(t *testing.T) {
	setRequiredKeys(t)
	t.Setenv("MAGIC_HOUR_TIMEOUT_SECONDS", "0")
	t.Setenv("STAGE_TTL_MINUTES", "-5")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Zero(t, cfg.MagicHourTimeout, "zero disables the per-request timeout")
	assert.Equal(t, 30*time.Minute, cfg.StageTTL)

	t.Setenv("MAGIC_HOUR_TIMEOUT_SECONDS", "120")
	t.Setenv("STAGE_TTL_MINUTES", "5")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.MagicHourTimeout)
	assert.Equal(t, 5*time.Minute, cfg.StageTTL)
}
