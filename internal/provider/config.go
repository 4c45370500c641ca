// Package provider validates model provider settings and builds the fantasy
// language model they describe.
package provider

import (
	"fmt"
	"strings"
)

const (
	Anthropic    = "anthropic"
	OpenAI       = "openai"
	OpenAICompat = "openaicompat"
)

// Default models used when none is configured
const (
	DefaultOpenAIModel    = "gpt-5.2"
	DefaultAnthropicModel = "claude-sonnet-4-5"
)

// Config holds the provider configuration
type Config struct {
	APIKey    string
	BaseURL   string
	ModelName string
	Provider  string
}

// ConfigurationError reports a provider setting that is missing or invalid.
// It is fatal at startup.
type ConfigurationError struct {
	Key string
	Msg string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %s", e.Key, e.Msg)
}

// NewConfig validates the provider settings. An empty provider type means
// openai; openaicompat endpoints need an explicit base URL and model.
func NewConfig(providerType, apiKey, baseURL, modelName string) (*Config, error) {
	providerType = strings.ToLower(strings.TrimSpace(providerType))
	if providerType == "" {
		providerType = OpenAI
	}

	switch providerType {
	case OpenAI:
		if modelName == "" {
			modelName = DefaultOpenAIModel
		}
	case Anthropic:
		if modelName == "" {
			modelName = DefaultAnthropicModel
		}
	case OpenAICompat:
		if baseURL == "" {
			return nil, &ConfigurationError{Key: "base_url", Msg: "required for openaicompat providers"}
		}
		if modelName == "" {
			return nil, &ConfigurationError{Key: "model", Msg: "required for openaicompat providers"}
		}
	default:
		return nil, &ConfigurationError{
			Key: "provider",
			Msg: fmt.Sprintf("unknown provider type %q (supported: anthropic, openai, openaicompat)", providerType),
		}
	}

	if apiKey == "" {
		return nil, &ConfigurationError{Key: "api_key", Msg: "no API key configured for " + providerType}
	}

	return &Config{
		APIKey:    apiKey,
		BaseURL:   baseURL,
		ModelName: modelName,
		Provider:  providerType,
	}, nil
}

// EnvKey names the environment variable holding the API key of a provider
// when none is configured explicitly.
func EnvKey(providerType string) string {
	if strings.EqualFold(strings.TrimSpace(providerType), Anthropic) {
		return "ANTHROPIC_API_KEY"
	}
	return "OPENAI_API_KEY"
}

// compatible reports whether an openai config targets a third party
// endpoint (Ollama, LM Studio, DeepSeek...) rather than api.openai.com.
func (c *Config) compatible() bool {
	return c.Provider == OpenAICompat ||
		(c.Provider == OpenAI && c.BaseURL != "" && !strings.Contains(c.BaseURL, "api.openai.com"))
}
