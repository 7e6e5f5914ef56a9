package feeds

import (
	"crypto/sha256"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/hoanghai1803/inkboard/internal/models"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
)

// summaryChars caps summaries taken from full item content.
const summaryChars = 300

var strictPolicy = bluemonday.StrictPolicy()

// parseFeedItems converts up to maxItems gofeed items into blogs, in feed
// order. Items without a title or link are skipped. The id is the SHA-256
// of the link so the same post keeps its id across imports.
func parseFeedItems(feed *gofeed.Feed, maxItems int) []models.BlogRef {
	blogs := make([]models.BlogRef, 0, min(len(feed.Items), maxItems))
	for _, item := range feed.Items {
		if len(blogs) >= maxItems {
			break
		}
		if item.Title == "" || item.Link == "" {
			continue
		}

		summary := stripHTML(item.Description)
		if summary == "" {
			summary = models.Truncate(stripHTML(item.Content), summaryChars)
		}

		blog := models.NewBlogRef(computeHash(item.Link), strings.TrimSpace(item.Title), summary, item.Link)
		if feed.Title != "" {
			blog.Set("source", feed.Title)
		}
		if item.PublishedParsed != nil {
			blog.Set("publishedAt", item.PublishedParsed.UTC().Format(time.RFC3339))
		}
		blogs = append(blogs, blog)
	}

	return blogs
}

// computeHash returns the SHA-256 hex digest of the given string.
func computeHash(s string) string {
	h := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", h)
}

// stripHTML removes all markup from s, unescapes entities and collapses
// whitespace.
func stripHTML(s string) string {
	clean := html.UnescapeString(strictPolicy.Sanitize(s))
	return strings.Join(strings.Fields(clean), " ")
}
