package ai

import (
	"fmt"
	"strings"

	"github.com/hoanghai1803/inkboard/internal/models"
)

// Limits shared by prompts and the code that reads the answers.
const (
	ExcerptChars        = 200 // content prefix shown when a blog has no summary
	RelatedContextChars = 500 // content prefix sent with the related-content call
	MaxSearchResults    = 5
	MaxRelated          = 3
)

// Output budgets per operation, in tokens.
const (
	paletteMaxTokens   = 100
	enhanceMaxTokens   = 100
	layoutMaxTokens    = 4096
	chatMaxTokens      = 600
	summarizeMaxTokens = 500
	searchMaxTokens    = 1000
	relatedMaxTokens   = 50
)

const paletteSystemPrompt = `You are a color palette specialist for a graphic design tool. Given a description of a mood, brand or scene, reply with exactly 5 harmonious colors as hex codes in the form #RRGGBB, one per line. Reply with the hex codes only: no names, numbering, markdown or explanation.`

const enhanceSystemPrompt = `You are a text enhancement assistant for a graphic design tool. Rewrite the user's text so it is clearer, punchier and fits on a design. Keep the meaning and the language of the original. Reply with the improved text only, without quotes or commentary.`

const layoutSystemPromptTmpl = `You are a layout engine for a vector canvas editor. Turn the user's request into a complete design.

Your ENTIRE response MUST be a single JSON object and nothing else: no markdown, no code fences, no commentary before or after it.

The object has exactly one top-level key, "canvas", with:
- "width" and "height": canvas size in pixels (numbers).
- "elements": an array of visual elements in paint order.

Every element is an object with:
- "type": one of "Rect", "Circle", "Text", "Line", "Path".
- "id": a string unique across all elements (e.g. "rect-1", "title-text").
- "props": type-specific geometry and style, always including "zIndex" (integer, higher paints on top) and optionally "rotation" (degrees).

Props by type:
- Rect: x, y, width, height, fill, stroke, strokeWidth, cornerRadius, opacity.
- Circle: x, y (center), radius, fill, stroke, strokeWidth, opacity.
- Text: x, y, text, fontSize, fontFamily, fontStyle, fill, align, width.
- Line: points (flat array [x1, y1, x2, y2, ...]), stroke, strokeWidth, lineCap, dash.
- Path: data (SVG path string), x, y, fill, stroke, strokeWidth, scaleX, scaleY.

Colors are hex strings (#RRGGBB). Keep every element inside the canvas. Use a background Rect covering the canvas with the lowest zIndex.

The response must validate against this JSON Schema:
%s`

const chatSystemPrompt = `You are a friendly design assistant. Answer the user's design request with short, practical advice: layout ideas, color and typography suggestions. Plain text, no JSON.`

const summarizeSystemPrompt = `You are a technical writer. Summarize the following blog post in 3-4 sentences. Focus on the main idea, the key points and the takeaway for the reader. Do NOT include any prefix like "Summary:" and start directly with the first sentence.`

const searchSystemPromptTmpl = `You are a search assistant for a blog. Given a search query and a numbered list of blog posts, pick the posts most relevant to the query.

Return ONLY a JSON array of at most %d objects, most relevant first. Each object has:
- "index": the number of the post in the list (integer, starting at 1)
- "relevanceScore": relevance from 1 to 10
- "reason": one short sentence explaining the match

If nothing is relevant, return [].`

const relatedSummarySystemPrompt = `You are a technical writer. Summarize the following blog post in 2-3 sentences for a "related reading" sidebar. Start directly with the first sentence.`

const relatedIndexSystemPromptTmpl = `You recommend related reading. Given the beginning of a blog post and a numbered list of other posts, choose up to %d posts a reader of the first post would enjoy next.

Return ONLY a JSON array of the chosen numbers (integers, starting at 1), for example [2, 5]. No other text.`

// PalettePrompt builds the palette generation prompt.
func PalettePrompt(text string) Prompt {
	return Prompt{System: paletteSystemPrompt, User: text, MaxTokens: paletteMaxTokens}
}

// EnhancePrompt builds the text enhancement prompt.
func EnhancePrompt(text string) Prompt {
	return Prompt{System: enhanceSystemPrompt, User: text, MaxTokens: enhanceMaxTokens}
}

// LayoutPrompt builds the strict structured-layout prompt for the
// authoritative design call.
func LayoutPrompt(text string) Prompt {
	return Prompt{
		System:    fmt.Sprintf(layoutSystemPromptTmpl, LayoutSchema.String()),
		User:      text,
		MaxTokens: layoutMaxTokens,
	}
}

// ChatPrompt builds the free-form prompt for the best-effort design call.
func ChatPrompt(text string) Prompt {
	return Prompt{System: chatSystemPrompt, User: text, MaxTokens: chatMaxTokens}
}

// SummarizePrompt builds the blog summarization prompt. The title line is
// omitted when title is empty.
func SummarizePrompt(title, content string) Prompt {
	return Prompt{
		System:    summarizeSystemPrompt,
		User:      blogBody(title, content),
		MaxTokens: summarizeMaxTokens,
	}
}

// SearchPrompt enumerates blogs 1-based with their title and excerpt and
// asks for a ranked JSON array.
func SearchPrompt(query string, blogs []models.BlogRef) Prompt {
	var b strings.Builder
	fmt.Fprintf(&b, "Search query: %s\n\nBlog posts:\n", query)
	for i, blog := range blogs {
		fmt.Fprintf(&b, "%d. Title: %s\n   Summary: %s\n", i+1, blog.Title, blog.Excerpt(ExcerptChars))
	}

	return Prompt{
		System:    fmt.Sprintf(searchSystemPromptTmpl, MaxSearchResults),
		User:      b.String(),
		MaxTokens: searchMaxTokens,
	}
}

// RelatedSummaryPrompt builds the summary call of the related-content
// operation.
func RelatedSummaryPrompt(title, content string) Prompt {
	return Prompt{
		System:    relatedSummarySystemPrompt,
		User:      blogBody(title, content),
		MaxTokens: summarizeMaxTokens,
	}
}

// RelatedIndexPrompt sends only the first RelatedContextChars of content
// and the enumerated candidate titles.
func RelatedIndexPrompt(title, content string, candidates []models.BlogRef) Prompt {
	var b strings.Builder
	b.WriteString("Current post:\n")
	if title != "" {
		fmt.Fprintf(&b, "Title: %s\n", title)
	}
	b.WriteString(models.Truncate(content, RelatedContextChars))
	b.WriteString("\n\nOther posts:\n")
	for i, blog := range candidates {
		fmt.Fprintf(&b, "%d. %s\n", i+1, blog.Title)
	}

	return Prompt{
		System:    fmt.Sprintf(relatedIndexSystemPromptTmpl, MaxRelated),
		User:      b.String(),
		MaxTokens: relatedMaxTokens,
	}
}

func blogBody(title, content string) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "Blog Title: %s\n", title)
	}
	b.WriteString("Blog Content:\n")
	b.WriteString(content)
	return b.String()
}
