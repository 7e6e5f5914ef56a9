package generate

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/hoanghai1803/inkboard/internal/ai"
	"github.com/hoanghai1803/inkboard/internal/metrics"
	"github.com/hoanghai1803/inkboard/internal/models"
	"golang.org/x/sync/errgroup"
)

// SecondaryPlaceholder replaces the best-effort answer when its call fails.
const SecondaryPlaceholder = "Google AI response unavailable"

// Design answers a design request with two providers: the layout provider
// is authoritative and must return a canvas document, the secondary
// provider adds free-form advice and may fail without affecting the
// response.
type Design struct {
	layout    ai.Provider
	secondary ai.Provider
	audit     auditor
}

// NewDesign creates a Design generator.
func NewDesign(layout, secondary ai.Provider, rec Recorder) *Design {
	return &Design{layout: layout, secondary: secondary, audit: auditor{rec: rec}}
}

// DesignResult is the merged answer. The JSON keys are fixed whichever
// providers serve the two roles.
type DesignResult struct {
	Primary       string `json:"openai"`
	Secondary     string `json:"google"`
	LayoutWarning string `json:"layoutWarning,omitempty"`

	// Layout is the parsed canvas, or a fallback carrying the validation
	// error when Primary does not match the layout contract.
	Layout Recovered[*models.Layout] `json:"-"`

	SecondaryFailed bool `json:"-"`
}

// Generate issues both calls concurrently. Neither call can cancel the
// other; the layout result is inspected first and its failure fails the
// whole request.
func (d *Design) Generate(ctx context.Context, text string) (*DesignResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, invalid("Text is required")
	}

	var (
		g                     errgroup.Group
		primary, secondary    string
		primaryErr, secondErr error
		primaryDur, secondDur time.Duration
	)

	g.Go(func() error {
		primary, primaryDur, primaryErr = callProvider(ctx, d.layout, ai.LayoutPrompt(text))
		return nil
	})
	g.Go(func() error {
		secondary, secondDur, secondErr = callProvider(ctx, d.secondary, ai.ChatPrompt(text))
		return nil
	})
	_ = g.Wait()

	if primaryErr != nil {
		d.audit.record(ctx, OpChat, d.layout, primaryDur, "", primaryErr)
		return nil, primaryErr
	}

	result := &DesignResult{Primary: primary, Secondary: secondary}

	var layoutReason string
	if layout, err := ai.ValidateLayout(primary); err != nil {
		slog.Warn("layout response does not match contract", "provider", d.layout.Name(), "error", err)
		layoutReason = fallbackLabel(err)
		metrics.RecordFallback(OpChat, layoutReason)
		result.Layout = Fallback[*models.Layout](nil, err.Error())
		result.LayoutWarning = err.Error()
	} else {
		result.Layout = Primary(layout)
	}
	d.audit.record(ctx, OpChat, d.layout, primaryDur, layoutReason, nil)

	if secondErr != nil {
		slog.Warn("secondary provider failed, using placeholder", "provider", d.secondary.Name(), "error", secondErr)
		metrics.RecordSecondaryFailure(d.secondary.Name())
		result.Secondary = SecondaryPlaceholder
		result.SecondaryFailed = true
		d.audit.record(ctx, OpChatAside, d.secondary, secondDur, "placeholder", secondErr)
	} else {
		d.audit.record(ctx, OpChatAside, d.secondary, secondDur, "", nil)
	}

	return result, nil
}
