package models

import "time"

// Generation is an audit record of one generator operation.
type Generation struct {
	ID             string    `json:"id"`
	Operation      string    `json:"operation"`
	Provider       string    `json:"provider"`
	Model          string    `json:"model"`
	Fallback       bool      `json:"fallback"`
	FallbackReason string    `json:"fallback_reason,omitempty"`
	Error          string    `json:"error,omitempty"`
	DurationMs     int64     `json:"duration_ms"`
	CreatedAt      time.Time `json:"created_at"`
}
