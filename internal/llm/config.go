// Package llm provides the client abstraction for the AI completion
// service used to synthesize learning map content.
package llm

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI provider (future)
	ProviderOpenAI Provider = "openai"
)

// DefaultModel is the model used when no override is configured.
const DefaultModel = "gemini-2.5-flash"

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Model    string
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Model:    DefaultModel,
	}
}

// WithModel returns a copy of the config with the model overridden.
// An empty model keeps the current value.
func (c *Config) WithModel(model string) *Config {
	cfg := *c
	if model != "" {
		cfg.Model = model
	}
	return &cfg
}
