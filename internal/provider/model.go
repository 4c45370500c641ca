package provider

import (
	"context"
	"net/http"

	"charm.land/fantasy"
	"charm.land/fantasy/providers/anthropic"
	"charm.land/fantasy/providers/openai"
	"charm.land/fantasy/providers/openaicompat"
	"github.com/pkg/errors"
)

type languageModelProvider interface {
	LanguageModel(context.Context, string) (fantasy.LanguageModel, error)
}

// NewLanguageModel creates the provider described by cfg and resolves its
// model. A non-nil httpClient replaces the provider's transport.
func NewLanguageModel(ctx context.Context, cfg *Config, httpClient *http.Client) (fantasy.LanguageModel, error) {
	p, err := newProvider(cfg, httpClient)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s provider", cfg.Provider)
	}

	model, err := p.LanguageModel(ctx, cfg.ModelName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create language model %s", cfg.ModelName)
	}
	return model, nil
}

func newProvider(cfg *Config, httpClient *http.Client) (languageModelProvider, error) {
	switch {
	case cfg.Provider == Anthropic:
		return newAnthropic(cfg, httpClient)
	case cfg.compatible():
		return newOpenAICompat(cfg, httpClient)
	default:
		return newOpenAI(cfg, httpClient)
	}
}

func newAnthropic(cfg *Config, httpClient *http.Client) (languageModelProvider, error) {
	opts := []anthropic.Option{anthropic.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}
	if httpClient != nil {
		opts = append(opts, anthropic.WithHTTPClient(httpClient))
	}
	return anthropic.New(opts...)
}

// newOpenAICompat enables reasoning content support on third party endpoints
func newOpenAICompat(cfg *Config, httpClient *http.Client) (languageModelProvider, error) {
	opts := []openaicompat.Option{openaicompat.WithAPIKey(cfg.APIKey), openaicompat.WithBaseURL(cfg.BaseURL)}
	if httpClient != nil {
		opts = append(opts, openaicompat.WithHTTPClient(httpClient))
	}
	return openaicompat.New(opts...)
}

func newOpenAI(cfg *Config, httpClient *http.Client) (languageModelProvider, error) {
	opts := []openai.Option{openai.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if httpClient != nil {
		opts = append(opts, openai.WithHTTPClient(httpClient))
	}
	return openai.New(opts...)
}
