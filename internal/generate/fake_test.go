package generate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/hoanghai1803/inkboard/internal/ai"
	"github.com/hoanghai1803/inkboard/internal/models"
)

// fakeProvider answers every prompt with respond, or with text and err when
// respond is nil.
type fakeProvider struct {
	name    string
	text    string
	err     error
	respond func(ai.Prompt) (string, error)

	calls   atomic.Int32
	mu      sync.Mutex
	prompts []ai.Prompt
}

func newFake(name, text string) *fakeProvider {
	return &fakeProvider{name: name, text: text}
}

func failingFake(name string, err error) *fakeProvider {
	return &fakeProvider{name: name, err: &ai.ProviderError{Provider: name, Err: err}}
}

func (f *fakeProvider) Name() string  { return f.name }
func (f *fakeProvider) Model() string { return f.name + "-model" }

func (f *fakeProvider) Generate(_ context.Context, p ai.Prompt) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.prompts = append(f.prompts, p)
	f.mu.Unlock()

	if f.respond != nil {
		return f.respond(p)
	}
	return f.text, f.err
}

func (f *fakeProvider) lastPrompt() ai.Prompt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prompts[len(f.prompts)-1]
}

type fakeRecorder struct {
	mu   sync.Mutex
	rows []models.Generation
	err  error
}

func (r *fakeRecorder) RecordGeneration(_ context.Context, g *models.Generation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, *g)
	return r.err
}

func (r *fakeRecorder) byOperation(op string) []models.Generation {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Generation
	for _, g := range r.rows {
		if g.Operation == op {
			out = append(out, g)
		}
	}
	return out
}

var errUpstream = errors.New("upstream returned 503")
