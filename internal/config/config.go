// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string

	// DatabaseURL is the Postgres connection string for the leads store.
	DatabaseURL string

	// RateLimitDBPath is where the fixed-window counters are persisted.
	RateLimitDBPath string

	Gemini GeminiConfig
	Limits LimitsConfig
}

// GeminiConfig configures the hosted model client.
type GeminiConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// LimitsConfig holds the per-IP fixed-window limits.
type LimitsConfig struct {
	ChatPerDay   int
	LeadsPerHour int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		FrontendURL:     getEnv("FRONTEND_URL", ""),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RateLimitDBPath: getEnv("RATELIMIT_DB_PATH", "./data/ratelimit.db"),
		Gemini: GeminiConfig{
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			Model:       getEnv("GEMINI_MODEL", "gemma-3-4b-it"),
			MaxTokens:   getEnvInt("GEMINI_MAX_TOKENS", 200),
			Temperature: 0,
			Timeout:     time.Duration(getEnvInt("GEMINI_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		Limits: LimitsConfig{
			ChatPerDay:   getEnvInt("CHAT_LIMIT_PER_DAY", 6),
			LeadsPerHour: getEnvInt("LEADS_LIMIT_PER_HOUR", 5),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL cannot be empty")
	}
	if c.RateLimitDBPath == "" {
		return fmt.Errorf("RATELIMIT_DB_PATH cannot be empty")
	}
	if c.Gemini.MaxTokens <= 0 {
		return fmt.Errorf("GEMINI_MAX_TOKENS must be > 0")
	}
	if c.Limits.ChatPerDay <= 0 {
		return fmt.Errorf("CHAT_LIMIT_PER_DAY must be > 0")
	}
	if c.Limits.LeadsPerHour <= 0 {
		return fmt.Errorf("LEADS_LIMIT_PER_HOUR must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
