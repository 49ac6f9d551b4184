// Package config loads application configuration from environment variables.
package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	// scraping
	DefaultLimit int // messages returned when the caller omits limit
	MaxLimit     int // hard ceiling on messages per invocation
	MaxPages     int // hard ceiling on history pages per invocation

	// telegram rate limiting
	TGRateLimit float64 // requests per second against the MTProto API
	TGRateBurst int

	// error normalization
	DefaultRetryAfterSec int // substituted when a rate-limit signal has no delay

	// logging
	LogLevel string
	LogFile  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DefaultLimit:         getEnvInt("SCRAPE_DEFAULT_LIMIT", 100),
		MaxLimit:             getEnvInt("SCRAPE_MAX_LIMIT", 1000),
		MaxPages:             getEnvInt("SCRAPE_MAX_PAGES", 50),
		TGRateLimit:          getEnvFloat("TG_RATE_LIMIT", 2.0),
		TGRateBurst:          getEnvInt("TG_RATE_BURST", 1),
		DefaultRetryAfterSec: getEnvInt("DEFAULT_RETRY_AFTER_SECONDS", 60),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFile:              getEnv("LOG_FILE", ""),
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
