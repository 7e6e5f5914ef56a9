package ai

// ProviderConfig holds the configuration needed to create an AI provider.
type ProviderConfig struct {
	Provider string // "openai" | "anthropic" | "gemini" | "bedrock"
	APIKey   string
	Model    string
	Region   string // bedrock only
}

// Prompt is a single-turn generation request: an optional system
// instruction and one user message.
type Prompt struct {
	System string
	User   string

	// MaxTokens bounds the output length. Zero leaves it to the provider.
	MaxTokens int
}
