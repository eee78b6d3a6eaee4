// Package config provides environment-driven configuration for the
// learning map service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all recognized configuration values. It is a plain
// struct passed explicitly into each component; nothing reads the
// environment after Load returns.
type Config struct {
	// Port is the HTTP listen port.
	Port int
	// DatabaseURL is the PostgreSQL connection string. Required when
	// persistence is enabled.
	DatabaseURL string
	// GeminiAPIKey is the credential for the AI completion service.
	GeminiAPIKey string
	// GeminiModel overrides the default model identifier.
	GeminiModel string
	// AllowedOrigins is the CORS allow-list. "*" allows any origin.
	AllowedOrigins []string
	// BasePath prefixes all API routes, e.g. "/api/v1".
	BasePath string
	// Env selects runtime behavior: "production" suppresses stack
	// traces in error responses.
	Env string
}

// Load reads configuration from the environment, applying defaults.
func Load() *Config {
	return &Config{
		Port:           getEnvInt("PORT", 8080),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    os.Getenv("GEMINI_MODEL"),
		AllowedOrigins: splitList(getEnvString("ALLOWED_ORIGINS", "*")),
		BasePath:       normalizeBasePath(getEnvString("BASE_PATH", "/api/v1")),
		Env:            getEnvString("APP_ENV", "development"),
	}
}

// Validate checks that values required at startup are present.
// A missing AI credential or database URL is fatal, not retried.
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// normalizeBasePath ensures a leading slash and no trailing slash.
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimSuffix(p, "/")
}

// splitList parses a comma-separated list, dropping empty entries.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getEnvString gets an environment variable with a default value.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an int with a default value.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
