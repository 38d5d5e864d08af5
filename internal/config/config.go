package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth. Empty disables bearer checks.
	APIKey string

	// Request limits
	MaxBodyBytes int64
	MaxDocs      int

	// Defaults applied when a request omits them
	DefaultMinLen int
	DefaultMinOcc int

	// Persistence. Empty disables the runs endpoints.
	DBPath string

	ShutdownTimeout time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("SMR_API_KEY"),

		MaxBodyBytes: envInt64("SMR_MAX_BODY_BYTES", 10485760), // 10MB
		MaxDocs:      envInt("SMR_MAX_DOCS", 1000),

		DefaultMinLen: envInt("SMR_DEFAULT_MIN_LEN", 20),
		DefaultMinOcc: envInt("SMR_DEFAULT_MIN_OCC", 2),

		DBPath: os.Getenv("SMR_DB_PATH"),

		ShutdownTimeout: envDuration("SMR_SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 10485760
	}
	if cfg.MaxDocs <= 0 {
		cfg.MaxDocs = 1000
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.DefaultMinLen < 1 {
		return fmt.Errorf("SMR_DEFAULT_MIN_LEN must be at least 1, got %d", c.DefaultMinLen)
	}
	if c.DefaultMinOcc < 2 {
		return fmt.Errorf("SMR_DEFAULT_MIN_OCC must be at least 2, got %d", c.DefaultMinOcc)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
