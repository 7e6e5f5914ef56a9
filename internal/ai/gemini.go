package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/genai"
)

// Compile-time interface check.
var _ Provider = (*GeminiProvider)(nil)

// GeminiProvider implements Provider using the Gemini API through the
// google.golang.org/genai SDK.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a Gemini API client with a 60-second timeout.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Name() string  { return ProviderGemini }
func (p *GeminiProvider) Model() string { return p.model }

// Generate sends the user text as a single content with the system prompt
// as the system instruction.
func (p *GeminiProvider) Generate(ctx context.Context, prompt Prompt) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if prompt.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}
	if prompt.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(prompt.MaxTokens)
	}

	slog.Debug("calling Gemini API", "model", p.model, "max_tokens", prompt.MaxTokens)

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt.User), cfg)
	if err != nil {
		return "", &ProviderError{Provider: ProviderGemini, Err: fmt.Errorf("generating content: %w", err)}
	}

	text := resp.Text()
	if text == "" {
		return "", &ProviderError{Provider: ProviderGemini, Err: errors.New("empty response: no text candidates returned")}
	}
	return text, nil
}
