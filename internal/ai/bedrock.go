package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// Compile-time interface check.
var _ Provider = (*BedrockProvider)(nil)

const (
	bedrockAnthropicVersion = "bedrock-2023-05-31"
	bedrockDefaultMaxTokens = 1024
)

// bedrockInvoker is the subset of the Bedrock runtime client we use.
type bedrockInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockProvider implements Provider by invoking Anthropic models hosted on
// AWS Bedrock. Credentials come from the default AWS chain.
type BedrockProvider struct {
	client bedrockInvoker
	model  string
}

// NewBedrockProvider loads the default AWS configuration for region and
// creates a Bedrock runtime client.
func NewBedrockProvider(ctx context.Context, region, model string) (*BedrockProvider, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &BedrockProvider{
		client: bedrockruntime.NewFromConfig(awsCfg),
		model:  model,
	}, nil
}

// bedrockRequest is the Anthropic-on-Bedrock messages payload.
type bedrockRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	System           string           `json:"system,omitempty"`
	Messages         []bedrockMessage `json:"messages"`
}

type bedrockMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type bedrockResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (p *BedrockProvider) Name() string  { return ProviderBedrock }
func (p *BedrockProvider) Model() string { return p.model }

// Generate invokes the model and joins the text blocks of the reply.
func (p *BedrockProvider) Generate(ctx context.Context, prompt Prompt) (string, error) {
	text, err := p.invoke(ctx, prompt)
	if err != nil {
		return "", &ProviderError{Provider: ProviderBedrock, Err: err}
	}
	return text, nil
}

func (p *BedrockProvider) invoke(ctx context.Context, prompt Prompt) (string, error) {
	maxTokens := prompt.MaxTokens
	if maxTokens <= 0 {
		maxTokens = bedrockDefaultMaxTokens
	}

	body, err := json.Marshal(bedrockRequest{
		AnthropicVersion: bedrockAnthropicVersion,
		MaxTokens:        maxTokens,
		System:           prompt.System,
		Messages:         []bedrockMessage{{Role: "user", Content: prompt.User}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	slog.Debug("invoking Bedrock model", "model", p.model, "max_tokens", maxTokens)

	out, err := p.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(p.model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("invoking model: %w", err)
	}

	var resp bedrockResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}

	var sb strings.Builder
	for _, c := range resp.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty response: no text blocks returned")
	}
	return sb.String(), nil
}
