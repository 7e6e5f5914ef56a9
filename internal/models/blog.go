package models

import (
	"encoding/json"
	"maps"
)

// BlogRef is a blog post as supplied by a client. Only identity is implied;
// every text field is optional and reads as "" when absent. Fields the
// server does not know about are kept so the blog can be echoed back
// unchanged.
type BlogRef struct {
	ID      json.RawMessage
	Title   string
	Summary string
	Content string
	Link    string
	URL     string

	// raw holds every top-level field exactly as received.
	raw map[string]json.RawMessage
}

// NewBlogRef builds a BlogRef with a string id, as produced by feed import.
func NewBlogRef(id, title, summary, link string) BlogRef {
	rawID, _ := json.Marshal(id)
	return BlogRef{
		ID:      rawID,
		Title:   title,
		Summary: summary,
		Link:    link,
	}
}

// UnmarshalJSON decodes a blog object, tolerating missing or non-string
// text fields.
func (b *BlogRef) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*b = BlogRef{
		ID:      raw["id"],
		Title:   stringField(raw, "title"),
		Summary: stringField(raw, "summary"),
		Content: stringField(raw, "content"),
		Link:    stringField(raw, "link"),
		URL:     stringField(raw, "url"),
		raw:     raw,
	}
	return nil
}

// MarshalJSON re-encodes the blog including any fields it was decoded with.
func (b BlogRef) MarshalJSON() ([]byte, error) {
	return b.MarshalJSONWith(nil)
}

// MarshalJSONWith encodes the blog as an object with extra merged on top.
// Keys in extra win over the blog's own fields.
func (b BlogRef) MarshalJSONWith(extra map[string]any) ([]byte, error) {
	out := make(map[string]any, len(b.raw)+len(extra)+6)
	for k, v := range b.raw {
		out[k] = v
	}
	if len(b.ID) > 0 {
		out["id"] = b.ID
	}
	setString(out, "title", b.Title)
	setString(out, "summary", b.Summary)
	setString(out, "content", b.Content)
	setString(out, "link", b.Link)
	setString(out, "url", b.URL)
	maps.Copy(out, extra)
	return json.Marshal(out)
}

// Set stores an extra top-level field that is encoded alongside the known
// ones. Values that cannot be encoded are ignored.
func (b *BlogRef) Set(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if b.raw == nil {
		b.raw = make(map[string]json.RawMessage)
	}
	b.raw[key] = data
}

// Field returns a top-level field as received, or nil.
func (b BlogRef) Field(key string) json.RawMessage {
	return b.raw[key]
}

// Excerpt returns the summary when present, otherwise the first n
// characters of the content.
func (b BlogRef) Excerpt(n int) string {
	if b.Summary != "" {
		return b.Summary
	}
	return Truncate(b.Content, n)
}

// Href returns link, then url, then fallback.
func (b BlogRef) Href(fallback string) string {
	if b.Link != "" {
		return b.Link
	}
	if b.URL != "" {
		return b.URL
	}
	return fallback
}

// Truncate returns at most n characters (runes) of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func stringField(raw map[string]json.RawMessage, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}

func setString(out map[string]any, key, value string) {
	if value != "" {
		out[key] = value
	}
}
