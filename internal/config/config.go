package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the counter service.
// Everything is loaded from environment variables; a .env file is honored in dev.
type Config struct {
	Port           string
	BackendURL     string
	BackendTimeout time.Duration
	JWTSecret      string
	RedisAddr      string // empty disables the catalog cache
	CatalogTTL     time.Duration
	DraftTTL       time.Duration
	AllowedOrigins []string
	LogLevel       string
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	// Best effort; absence of a .env file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8082"),
		BackendURL:     getEnv("BACKEND_URL", "http://localhost:8081"),
		BackendTimeout: getEnvAsDuration("BACKEND_TIMEOUT", 15*time.Second),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		CatalogTTL:     getEnvAsDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		DraftTTL:       getEnvAsDuration("DRAFT_TTL", 2*time.Hour),
		AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.BackendURL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	// Plain integers are treated as seconds.
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func getEnvAsSlice(key string, fallback []string) []string {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
