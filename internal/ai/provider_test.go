package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		cfg      ProviderConfig
		wantErr  bool
		wantType string
	}{
		{
			name: "anthropic provider",
			cfg: ProviderConfig{
				Provider: "anthropic",
				APIKey:   "test-key",
				Model:    "claude-haiku-4-5",
			},
			wantType: "*ai.AnthropicProvider",
		},
		{
			name: "openai provider",
			cfg: ProviderConfig{
				Provider: "openai",
				APIKey:   "test-key",
				Model:    "gpt-4o-mini",
			},
			wantType: "*ai.OpenAIProvider",
		},
		{
			name: "gemini provider",
			cfg: ProviderConfig{
				Provider: "gemini",
				APIKey:   "test-key",
				Model:    "gemini-2.0-flash",
			},
			wantType: "*ai.GeminiProvider",
		},
		{
			name: "unsupported provider",
			cfg: ProviderConfig{
				Provider: "invalid",
				APIKey:   "test-key",
				Model:    "some-model",
			},
			wantErr: true,
		},
		{
			name: "empty provider",
			cfg: ProviderConfig{
				Provider: "",
				APIKey:   "test-key",
				Model:    "some-model",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(context.Background(), tt.cfg)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if provider != nil {
					t.Fatal("expected nil provider when error occurs")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if provider == nil {
				t.Fatal("expected non-nil provider")
			}
			if provider.Name() != tt.cfg.Provider {
				t.Errorf("Name() = %q, want %q", provider.Name(), tt.cfg.Provider)
			}
			if provider.Model() != tt.cfg.Model {
				t.Errorf("Model() = %q, want %q", provider.Model(), tt.cfg.Model)
			}

			switch tt.wantType {
			case "*ai.AnthropicProvider":
				if _, ok := provider.(*AnthropicProvider); !ok {
					t.Errorf("expected *AnthropicProvider, got %T", provider)
				}
			case "*ai.OpenAIProvider":
				if _, ok := provider.(*OpenAIProvider); !ok {
					t.Errorf("expected *OpenAIProvider, got %T", provider)
				}
			case "*ai.GeminiProvider":
				if _, ok := provider.(*GeminiProvider); !ok {
					t.Errorf("expected *GeminiProvider, got %T", provider)
				}
			}
		})
	}
}

func TestUnconfigured(t *testing.T) {
	p := NewUnconfigured(ProviderGemini, "gemini-2.0-flash")

	_, err := p.Generate(context.Background(), Prompt{User: "hi"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}

	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ProviderError, got %T", err)
	}
	if perr.Provider != ProviderGemini {
		t.Errorf("Provider = %q, want %q", perr.Provider, ProviderGemini)
	}
	if !strings.HasPrefix(err.Error(), "gemini: ") {
		t.Errorf("error message %q should start with provider name", err.Error())
	}
}

func TestOpenAIProvider_Generate(t *testing.T) {
	var got openaiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"#112233"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("test-key", "gpt-4o-mini")
	p.baseURL = srv.URL

	text, err := p.Generate(context.Background(), Prompt{System: "sys", User: "ocean", MaxTokens: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "#112233" {
		t.Errorf("text = %q, want %q", text, "#112233")
	}

	if got.Model != "gpt-4o-mini" || got.MaxTokens != 100 {
		t.Errorf("unexpected request: model=%q max_tokens=%d", got.Model, got.MaxTokens)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "ocean" {
		t.Errorf("unexpected messages: %+v", got.Messages)
	}
}

func TestOpenAIProvider_NoSystemMessage(t *testing.T) {
	var got openaiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("k", "m")
	p.baseURL = srv.URL

	if _, err := p.Generate(context.Background(), Prompt{User: "hi"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Errorf("expected a single user message, got %+v", got.Messages)
	}
}

func TestOpenAIProvider_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("bad", "gpt-4o-mini")
	p.baseURL = srv.URL

	_, err := p.Generate(context.Background(), Prompt{User: "hi"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var perr *ProviderError
	if !errors.As(err, &perr) || perr.Provider != ProviderOpenAI {
		t.Fatalf("expected openai *ProviderError, got %v", err)
	}
	if !strings.Contains(err.Error(), "Incorrect API key provided") {
		t.Errorf("error %q should carry the API message", err.Error())
	}
}

func TestAnthropicProvider_Generate(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"content":[{"type":"text","text":"A short summary."}]}`))
	}))
	defer srv.Close()

	p := NewAnthropicProvider("test-key", "claude-haiku-4-5")
	p.baseURL = srv.URL

	text, err := p.Generate(context.Background(), Prompt{System: "sys", User: "post"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "A short summary." {
		t.Errorf("text = %q", text)
	}
	if got.MaxTokens != anthropicDefaultMaxTokens {
		t.Errorf("max_tokens = %d, want default %d", got.MaxTokens, anthropicDefaultMaxTokens)
	}
	if got.System != "sys" {
		t.Errorf("system = %q, want %q", got.System, "sys")
	}
}

func TestAnthropicProvider_EmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	p := NewAnthropicProvider("k", "m")
	p.baseURL = srv.URL

	if _, err := p.Generate(context.Background(), Prompt{User: "x"}); err == nil {
		t.Fatal("expected error for empty content")
	}
}

func TestAnthropicProvider_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	p := NewAnthropicProvider("k", "m")
	p.baseURL = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, Prompt{User: "x"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type fakeInvoker struct {
	input *bedrockruntime.InvokeModelInput
	body  string
	err   error
}

func (f *fakeInvoker) InvokeModel(_ context.Context, in *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.body)}, nil
}

func TestBedrockProvider_Generate(t *testing.T) {
	inv := &fakeInvoker{body: `{"content":[{"type":"text","text":"[1, "},{"type":"text","text":"3]"}]}`}
	p := &BedrockProvider{client: inv, model: "anthropic.claude-3-haiku-20240307-v1:0"}

	text, err := p.Generate(context.Background(), Prompt{System: "sys", User: "u", MaxTokens: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "[1, 3]" {
		t.Errorf("text = %q, want %q", text, "[1, 3]")
	}

	if *inv.input.ModelId != p.model {
		t.Errorf("ModelId = %q", *inv.input.ModelId)
	}
	var req bedrockRequest
	if err := json.Unmarshal(inv.input.Body, &req); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if req.AnthropicVersion != bedrockAnthropicVersion || req.MaxTokens != 50 || req.System != "sys" {
		t.Errorf("unexpected body: %+v", req)
	}
}

func TestBedrockProvider_Errors(t *testing.T) {
	t.Run("invoke failure", func(t *testing.T) {
		p := &BedrockProvider{client: &fakeInvoker{err: errors.New("throttled")}, model: "m"}
		_, err := p.Generate(context.Background(), Prompt{User: "u"})

		var perr *ProviderError
		if !errors.As(err, &perr) || perr.Provider != ProviderBedrock {
			t.Fatalf("expected bedrock *ProviderError, got %v", err)
		}
	})

	t.Run("no text blocks", func(t *testing.T) {
		p := &BedrockProvider{client: &fakeInvoker{body: `{"content":[{"type":"tool_use"}]}`}, model: "m"}
		if _, err := p.Generate(context.Background(), Prompt{User: "u"}); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}
