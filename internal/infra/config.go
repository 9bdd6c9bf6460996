package infra

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	msgMissingGoogleKey    = "API key not found. Please check your .env file."
	msgMissingMagicHourKey = "Magic Hour API key not found. Please check your .env file."
)

// ConfigError reports a configuration problem that must stop the process
// before the form is served.
type ConfigError struct {
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv                string
	Port                  string
	GoogleAPIKey          string
	GeminiModel           string
	GeminiTemperature     float64
	GeminiTopP            float64
	GeminiTopK            int
	GeminiMaxOutputTokens int
	MagicHourAPIKey       string
	MagicHourBaseURL      string
	MagicHourTimeout      time.Duration
	PollInterval          time.Duration
	PollMaxAttempts       int
	OrientationEnabled    bool
	ImageCount            int
	SketchCostFrames      int
	StagingDir            string
	StageTTL              time.Duration
	HTTPReadTimeout       time.Duration
	HTTPWriteTimeout      time.Duration
	HTTPIdleTimeout       time.Duration
	RateLimitPerMin       int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
// Both API keys are mandatory; the first missing one is reported as a *ConfigError.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		Port:                  getEnv("PORT", "8080"),
		GoogleAPIKey:          strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiTemperature:     getEnvFloat("GEMINI_TEMPERATURE", 0.7),
		GeminiTopP:            getEnvFloat("GEMINI_TOP_P", 1),
		GeminiTopK:            getEnvInt("GEMINI_TOP_K", 1),
		GeminiMaxOutputTokens: getEnvInt("GEMINI_MAX_OUTPUT_TOKENS", 1024),
		MagicHourAPIKey:       strings.TrimSpace(os.Getenv("MAGIC_HOUR_API_KEY")),
		MagicHourBaseURL:      getEnv("MAGIC_HOUR_BASE_URL", "https://api.magichour.ai"),
		MagicHourTimeout:      time.Second * time.Duration(getEnvInt("MAGIC_HOUR_TIMEOUT_SECONDS", 60)),
		PollInterval:          time.Millisecond * time.Duration(getEnvInt("POLL_INTERVAL_MS", 1000)),
		PollMaxAttempts:       getEnvInt("POLL_MAX_ATTEMPTS", 0),
		OrientationEnabled:    getEnvBool("ORIENTATION_ENABLED", true),
		ImageCount:            getEnvInt("IMAGE_COUNT", 1),
		SketchCostFrames:      getEnvInt("SKETCH_COST_FRAMES", 5),
		StagingDir:            os.Getenv("STAGING_DIR"),
		StageTTL:              time.Minute * time.Duration(getEnvInt("STAGE_TTL_MINUTES", 30)),
		HTTPReadTimeout:       time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:      time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 0)),
		HTTPIdleTimeout:       time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:       getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.GoogleAPIKey == "" {
		return nil, &ConfigError{Key: "GOOGLE_API_KEY", Message: msgMissingGoogleKey}
	}

	if cfg.MagicHourAPIKey == "" {
		return nil, &ConfigError{Key: "MAGIC_HOUR_API_KEY", Message: msgMissingMagicHourKey}
	}

	if cfg.PollInterval < 0 {
		cfg.PollInterval = 0
	}
	if cfg.PollMaxAttempts < 0 {
		cfg.PollMaxAttempts = 0
	}
	if cfg.MagicHourTimeout < 0 {
		cfg.MagicHourTimeout = 0
	}
	if cfg.StageTTL <= 0 {
		cfg.StageTTL = 30 * time.Minute
	}
	if cfg.ImageCount <= 0 {
		cfg.ImageCount = 1
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}
