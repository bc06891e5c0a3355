package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the environment-driven service configuration.
type Config struct {
	DatabaseURL string
	BindAddr    string
	SecretKey   string
	// APIKey protects mutating endpoints via the X-Api-Key header.
	// Empty disables the check.
	APIKey string

	RetryMaxAttempts   int
	RetryInitialDelay  time.Duration
	RetryBackoffFactor float64
}

func Load() *Config {
	config := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		BindAddr:           getEnv("BIND_ADDR", ":8080"),
		SecretKey:          getEnv("SECRET_KEY", "s3cr3t-key-shhhh"),
		APIKey:             os.Getenv("API_KEY"),
		RetryMaxAttempts:   getEnvInt("RETRY_MAX_ATTEMPTS", 10),
		RetryInitialDelay:  time.Second,
		RetryBackoffFactor: getEnvFloat("RETRY_BACKOFF_FACTOR", 2),
	}

	// Parse retry delay from environment if provided
	if delayStr := os.Getenv("RETRY_INITIAL_DELAY"); delayStr != "" {
		if delay, err := time.ParseDuration(delayStr); err == nil {
			config.RetryInitialDelay = delay
		}
	}

	return config
}

// LoadAndValidate loads the configuration and rejects values the service
// cannot run with.
func LoadAndValidate() (*Config, error) {
	cfg := Load()
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.RetryMaxAttempts < 1 {
		return nil, fmt.Errorf("RETRY_MAX_ATTEMPTS must be at least 1, got %d", cfg.RetryMaxAttempts)
	}
	if cfg.RetryBackoffFactor < 1 {
		return nil, fmt.Errorf("RETRY_BACKOFF_FACTOR must be at least 1, got %g", cfg.RetryBackoffFactor)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return defaultValue
}
