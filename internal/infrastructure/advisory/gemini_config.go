package advisory

import (
	"errors"
	"time"
)

// GeminiConfig holds configuration for the Gemini generative API
type GeminiConfig struct {
	// APIKey is the API key for the generative language API
	APIKey string
	// Model is the model name, e.g. "gemini-2.5-flash"
	Model string
	// BaseURL is the API base URL; overridable for tests
	BaseURL string
	// Timeout is the HTTP request timeout
	Timeout time.Duration
}

// GeminiDefaultBaseURL is the production API endpoint
const GeminiDefaultBaseURL = "https://generativelanguage.googleapis.com"

// GeminiDefaultModel is the model used when none is configured
const GeminiDefaultModel = "gemini-2.5-flash"

// ErrGeminiConfigMissingAPIKey indicates a missing API key
var ErrGeminiConfigMissingAPIKey = errors.New("gemini: api key is required")

// NewGeminiConfig creates a Gemini configuration with defaults
func NewGeminiConfig(apiKey string) *GeminiConfig {
	return &GeminiConfig{
		APIKey:  apiKey,
		Model:   GeminiDefaultModel,
		BaseURL: GeminiDefaultBaseURL,
		Timeout: 30 * time.Second,
	}
}

// Validate validates the configuration and fills defaults
func (c *GeminiConfig) Validate() error {
	if c.APIKey == "" {
		return ErrGeminiConfigMissingAPIKey
	}
	if c.Model == "" {
		c.Model = GeminiDefaultModel
	}
	if c.BaseURL == "" {
		c.BaseURL = GeminiDefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}
