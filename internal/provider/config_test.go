package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name      string
		provider  string
		apiKey    string
		baseURL   string
		model     string
		expected  *Config
		errorsKey string
	}{
		{
			name:     "openai by default",
			apiKey:   "sk-test",
			expected: &Config{Provider: OpenAI, APIKey: "sk-test", ModelName: DefaultOpenAIModel},
		},
		{
			name:     "anthropic default model",
			provider: "Anthropic",
			apiKey:   "key",
			expected: &Config{Provider: Anthropic, APIKey: "key", ModelName: DefaultAnthropicModel},
		},
		{
			name:     "explicit model kept",
			provider: "openai",
			apiKey:   "key",
			model:    "gpt-4o",
			expected: &Config{Provider: OpenAI, APIKey: "key", ModelName: "gpt-4o"},
		},
		{
			name:     "openaicompat",
			provider: "openaicompat",
			apiKey:   "xxx",
			baseURL:  "http://localhost:11434/v1",
			model:    "llama3",
			expected: &Config{Provider: OpenAICompat, APIKey: "xxx", BaseURL: "http://localhost:11434/v1", ModelName: "llama3"},
		},
		{name: "missing key", provider: "openai", errorsKey: "api_key"},
		{name: "unknown provider", provider: "gemini", apiKey: "key", errorsKey: "provider"},
		{name: "compat without url", provider: "openaicompat", apiKey: "key", model: "m", errorsKey: "base_url"},
		{name: "compat without model", provider: "openaicompat", apiKey: "key", baseURL: "http://x", errorsKey: "model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfig(tt.provider, tt.apiKey, tt.baseURL, tt.model)
			if tt.errorsKey != "" {
				var cfgErr *ConfigurationError
				require.True(t, errors.As(err, &cfgErr))
				assert.Equal(t, tt.errorsKey, cfgErr.Key)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "ANTHROPIC_API_KEY", EnvKey("anthropic"))
	assert.Equal(t, "OPENAI_API_KEY", EnvKey("openai"))
	assert.Equal(t, "OPENAI_API_KEY", EnvKey(""))
	assert.Equal(t, "OPENAI_API_KEY", EnvKey("openaicompat"))
}

func TestCompatible(t *testing.T) {
	assert.False(t, (&Config{Provider: OpenAI}).compatible())
	assert.False(t, (&Config{Provider: OpenAI, BaseURL: "https://api.openai.com/v1"}).compatible())
	assert.True(t, (&Config{Provider: OpenAI, BaseURL: "https://api.deepseek.com/v1"}).compatible())
	assert.True(t, (&Config{Provider: OpenAICompat, BaseURL: "http://localhost:1234"}).compatible())
	assert.False(t, (&Config{Provider: Anthropic, BaseURL: "https://proxy"}).compatible())
}
