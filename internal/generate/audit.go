package generate

import (
	"context"
	"log/slog"
	"time"

	"github.com/hoanghai1803/inkboard/internal/ai"
	"github.com/hoanghai1803/inkboard/internal/metrics"
	"github.com/hoanghai1803/inkboard/internal/models"
)

// Operation names used in audit rows and metric labels.
const (
	OpPalette   = "palette"
	OpEnhance   = "enhance"
	OpChat      = "chat"
	OpChatAside = "chat_secondary"
	OpSummarize = "summarize"
	OpSearch    = "search"
	OpRelated   = "related"
)

// Recorder persists audit rows for generator operations. *storage.Store
// implements it.
type Recorder interface {
	RecordGeneration(ctx context.Context, g *models.Generation) error
}

// auditor writes audit rows. A nil rec disables auditing.
type auditor struct {
	rec Recorder
}

// record stores one row. Failures are logged and never reach the caller.
// The request context may already be canceled by the time the row is
// written, so cancellation is detached.
func (a auditor) record(ctx context.Context, op string, p ai.Provider, elapsed time.Duration, fallbackReason string, err error) {
	if a.rec == nil {
		return
	}

	g := &models.Generation{
		Operation:      op,
		Provider:       p.Name(),
		Model:          p.Model(),
		Fallback:       fallbackReason != "",
		FallbackReason: fallbackReason,
		DurationMs:     elapsed.Milliseconds(),
		CreatedAt:      time.Now().UTC(),
	}
	if err != nil {
		g.Error = err.Error()
	}

	if err := a.rec.RecordGeneration(context.WithoutCancel(ctx), g); err != nil {
		slog.Warn("failed to record generation", "operation", op, "error", err)
	}
}

// callProvider runs one provider call and records its outcome and latency.
func callProvider(ctx context.Context, p ai.Provider, prompt ai.Prompt) (string, time.Duration, error) {
	start := time.Now()
	text, err := p.Generate(ctx, prompt)
	elapsed := time.Since(start)
	metrics.RecordProviderCall(p.Name(), err, elapsed.Seconds())
	slog.Debug("provider call finished", "provider", p.Name(), "model", p.Model(), "duration", elapsed, "ok", err == nil)
	return text, elapsed, err
}
