package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the limit applied to requests matching a path and
// method. A trailing slash on Path enables prefix matching.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int           // requests per window; <=0 means unlimited
	Window time.Duration
	Burst  int // burst capacity, defaults to Limit
}

// Config holds limiter configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	EndpointConfigs []EndpointConfig
}

// LoadConfig reads limiter settings from the environment. Rate limiting
// is off unless RATE_LIMIT_ENABLED is set, since the service's main
// cost control is the upstream AI quota, not local throttling.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", false) {
		return &Config{}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 300),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-endpoint limits. Generation is
// the expensive operation; reads get the default limit.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/map/generate", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
	}
}

// match finds the limit for a path and method. The liveness probe is
// always unlimited; unknown endpoints fall back to the default limit.
func (c *Config) match(path, method string) EndpointConfig {
	if path == "/" && method == "GET" {
		return EndpointConfig{Path: path}
	}

	for _, ec := range c.EndpointConfigs {
		if ec.Method != method {
			continue
		}
		// Endpoint paths match as suffixes so a base path prefix like
		// /api/v1 does not defeat the rule.
		if strings.HasSuffix(path, ec.Path) {
			return ec
		}
		if strings.HasSuffix(ec.Path, "/") && strings.Contains(path, ec.Path) {
			return ec
		}
	}

	return EndpointConfig{
		Path:   path,
		Limit:  c.DefaultLimit,
		Window: c.DefaultWindow,
		Burst:  c.DefaultLimit,
	}
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
