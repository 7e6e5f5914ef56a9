package generate

import (
	"context"
	"strings"

	"github.com/hoanghai1803/inkboard/internal/ai"
)

// Single turns a user text into one provider call and returns the
// provider's text verbatim.
type Single struct {
	op       string
	provider ai.Provider
	prompt   func(string) ai.Prompt
	audit    auditor
}

// NewPalette returns a generator that asks for a color palette, one hex code
// per line.
func NewPalette(p ai.Provider, rec Recorder) *Single {
	return &Single{op: OpPalette, provider: p, prompt: ai.PalettePrompt, audit: auditor{rec: rec}}
}

// NewEnhance returns a generator that rewrites text for a design.
func NewEnhance(p ai.Provider, rec Recorder) *Single {
	return &Single{op: OpEnhance, provider: p, prompt: ai.EnhancePrompt, audit: auditor{rec: rec}}
}

// Generate returns the provider's raw output. The output is not validated
// or reformatted.
func (s *Single) Generate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", invalid("Text is required")
	}

	out, elapsed, err := callProvider(ctx, s.provider, s.prompt(text))
	s.audit.record(ctx, s.op, s.provider, elapsed, "", err)
	if err != nil {
		return "", err
	}
	return out, nil
}
