package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("BASE_PATH", "")
	t.Setenv("APP_ENV", "")

	cfg := Load()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "/api/v1", cfg.BasePath)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/maps")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")
	t.Setenv("BASE_PATH", "api/v2/")
	t.Setenv("APP_ENV", "production")

	cfg := Load()
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost/maps", cfg.DatabaseURL)
	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "/api/v2", cfg.BasePath)
	assert.True(t, cfg.IsProduction())
}

func TestLoadInvalidPortFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	cfg := Load()
	assert.Equal(t, 8080, cfg.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing api key",
			cfg:     Config{Port: 8080, DatabaseURL: "postgres://x"},
			wantErr: "GEMINI_API_KEY",
		},
		{
			name:    "missing database url",
			cfg:     Config{Port: 8080, GeminiAPIKey: "k"},
			wantErr: "DATABASE_URL",
		},
		{
			name:    "invalid port",
			cfg:     Config{Port: -1, GeminiAPIKey: "k", DatabaseURL: "postgres://x"},
			wantErr: "invalid port",
		},
		{
			name: "valid",
			cfg:  Config{Port: 8080, GeminiAPIKey: "k", DatabaseURL: "postgres://x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNormalizeBasePath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/api/v1", "/api/v1"},
		{"api/v1", "/api/v1"},
		{"/api/v1/", "/api/v1"},
		{"/", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeBasePath(tt.input), "input %q", tt.input)
	}
}
