package ai

import (
	"context"
	"errors"
	"fmt"
)

// Provider names accepted by NewProvider.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderBedrock   = "bedrock"
)

// ErrNotConfigured is returned by providers that have no credentials.
var ErrNotConfigured = errors.New("provider not configured: add its API key to config.toml")

// Provider is the capability every LLM backend exposes: turn a prompt into
// text. Implementations are safe for concurrent use and hold no
// per-request state.
type Provider interface {
	// Name is the provider identifier, e.g. "openai".
	Name() string

	// Model is the model the provider sends requests to.
	Model() string

	// Generate returns the model's text for the prompt. Failures are
	// reported as *ProviderError.
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// ProviderError is a failed provider call. Its message is meant to be shown
// to the client as-is.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProvider creates the appropriate provider based on config.
func NewProvider(ctx context.Context, cfg ProviderConfig) (Provider, error) {
	switch cfg.Provider {
	case ProviderAnthropic:
		return NewAnthropicProvider(cfg.APIKey, cfg.Model), nil
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cfg.Model), nil
	case ProviderGemini:
		p, err := NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return p, nil
	case ProviderBedrock:
		p, err := NewBedrockProvider(ctx, cfg.Region, cfg.Model)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}

// Unconfigured stands in for a provider whose credentials are missing.
// Every call fails with ErrNotConfigured, so authoritative calls surface a
// clear error and best-effort calls degrade.
type Unconfigured struct {
	name  string
	model string
}

// NewUnconfigured returns a placeholder for the named provider.
func NewUnconfigured(name, model string) *Unconfigured {
	return &Unconfigured{name: name, model: model}
}

func (u *Unconfigured) Name() string  { return u.name }
func (u *Unconfigured) Model() string { return u.model }

func (u *Unconfigured) Generate(context.Context, Prompt) (string, error) {
	return "", &ProviderError{Provider: u.name, Err: ErrNotConfigured}
}
