package ai

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/hoanghai1803/inkboard/internal/models"
)

var (
	// ErrInvalidJSON is returned when a response is not parseable JSON.
	ErrInvalidJSON = errors.New("response is not valid JSON")

	// ErrSchema is returned when parsed JSON does not match its schema.
	ErrSchema = errors.New("response does not match schema")
)

// Schema is a resolved JSON Schema for one provider output contract.
type Schema struct {
	name     string
	schema   *jsonschema.Schema
	resolved *jsonschema.Resolved
}

// NewSchema resolves s so it can validate responses.
func NewSchema(name string, s *jsonschema.Schema) (*Schema, error) {
	resolved, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolving %s schema: %w", name, err)
	}
	return &Schema{name: name, schema: s, resolved: resolved}, nil
}

func mustSchema(name string, s *jsonschema.Schema) *Schema {
	schema, err := NewSchema(name, s)
	if err != nil {
		panic(err)
	}
	return schema
}

// String returns the schema document as indented JSON, for embedding in
// prompts.
func (s *Schema) String() string {
	b, err := json.MarshalIndent(s.schema, "", "  ")
	if err != nil {
		return ""
	}
	return string(b)
}

// Decode parses raw, validates it against the schema and, when v is not
// nil, decodes it into v. Errors wrap ErrInvalidJSON or ErrSchema.
func (s *Schema) Decode(raw string, v any) error {
	var instance any
	if err := json.Unmarshal([]byte(raw), &instance); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidJSON, s.name, err)
	}
	if err := s.resolved.Validate(instance); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSchema, s.name, err)
	}
	if v == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSchema, s.name, err)
	}
	return nil
}

// Ranking is one entry of the relevance array a provider returns for blog
// search. Index is 1-based, matching the enumeration in the prompt.
type Ranking struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevanceScore"`
	Reason         string  `json:"reason"`
}

// RankingSchema describes the blog search contract: an array of
// {index, relevanceScore, reason}.
var RankingSchema = mustSchema("ranking", &jsonschema.Schema{
	Type: "array",
	Items: &jsonschema.Schema{
		Type:     "object",
		Required: []string{"index", "relevanceScore"},
		Properties: map[string]*jsonschema.Schema{
			"index":          {Type: "integer", Description: "1-based position of the blog in the list"},
			"relevanceScore": {Type: "number", Description: "relevance from 1 to 10"},
			"reason":         {Type: "string", Description: "one sentence on why the blog matches"},
		},
	},
})

// RelatedIndexSchema describes the related-content contract: an array of
// 1-based integer positions.
var RelatedIndexSchema = mustSchema("related", &jsonschema.Schema{
	Type:  "array",
	Items: &jsonschema.Schema{Type: "integer"},
})

var layoutElementTypes = func() []any {
	out := make([]any, len(models.ElementTypes))
	for i, t := range models.ElementTypes {
		out[i] = t
	}
	return out
}()

// LayoutSchema describes the canvas document the layout provider must
// return.
var LayoutSchema = mustSchema("layout", &jsonschema.Schema{
	Type:     "object",
	Required: []string{"canvas"},
	Properties: map[string]*jsonschema.Schema{
		"canvas": {
			Type:     "object",
			Required: []string{"width", "height", "elements"},
			Properties: map[string]*jsonschema.Schema{
				"width":  {Type: "number"},
				"height": {Type: "number"},
				"elements": {
					Type: "array",
					Items: &jsonschema.Schema{
						Type:     "object",
						Required: []string{"type", "id", "props"},
						Properties: map[string]*jsonschema.Schema{
							"type": {Type: "string", Enum: layoutElementTypes},
							"id":   {Type: "string"},
							"props": {
								Type:     "object",
								Required: []string{"zIndex"},
								Properties: map[string]*jsonschema.Schema{
									"zIndex":   {Type: "integer"},
									"rotation": {Type: "number", Description: "degrees"},
								},
							},
						},
					},
				},
			},
		},
	},
})

// ValidateLayout checks a layout provider's response against LayoutSchema
// and requires element ids to be unique. Code fences around the JSON are
// tolerated.
func ValidateLayout(text string) (*models.Layout, error) {
	var layout models.Layout
	if err := LayoutSchema.Decode(extractJSON(text), &layout); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(layout.Canvas.Elements))
	for _, el := range layout.Canvas.Elements {
		if _, dup := seen[el.ID]; dup {
			return nil, fmt.Errorf("%w: layout: duplicate element id %q", ErrSchema, el.ID)
		}
		seen[el.ID] = struct{}{}
	}
	return &layout, nil
}
