package models

// Layout is the structured document the layout provider must return. The
// canvas editor consumes it as-is.
type Layout struct {
	Canvas Canvas `json:"canvas"`
}

// Canvas holds the drawing area size and its elements in paint order.
type Canvas struct {
	Width    float64         `json:"width"`
	Height   float64         `json:"height"`
	Elements []CanvasElement `json:"elements"`
}

// CanvasElement is one typed shape. Props carries type-specific geometry
// and style plus zIndex and an optional rotation in degrees.
type CanvasElement struct {
	Type  string         `json:"type"`
	ID    string         `json:"id"`
	Props map[string]any `json:"props"`
}

// Element types understood by the canvas editor.
var ElementTypes = []string{"Rect", "Circle", "Text", "Line", "Path"}
