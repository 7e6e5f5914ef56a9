package generate

import (
	"errors"

	"github.com/hoanghai1803/inkboard/internal/ai"
)

// ValidationError reports missing or empty required input. No provider is
// called when one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// Labels for the fallbacks_total reason dimension.
const (
	reasonNoJSONArray    = "no_json_array"
	reasonInvalidJSON    = "invalid_json"
	reasonSchemaMismatch = "schema_mismatch"
)

// fallbackLabel maps an extraction error to a bounded metric label.
func fallbackLabel(err error) string {
	switch {
	case errors.Is(err, ai.ErrNoJSONArray):
		return reasonNoJSONArray
	case errors.Is(err, ai.ErrSchema):
		return reasonSchemaMismatch
	default:
		return reasonInvalidJSON
	}
}
