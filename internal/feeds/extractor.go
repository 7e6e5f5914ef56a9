package feeds

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	readability "github.com/go-shiori/go-readability"
)

// ErrInvalidURL is returned for URLs that are not absolute http(s) URLs.
var ErrInvalidURL = errors.New("invalid article URL")

// browserHeaders sets browser-like request headers so sites that check
// Accept or User-Agent don't reject the request with 406.
func browserHeaders(r *http.Request) {
	r.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	r.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Inkboard/1.0; +https://github.com/hoanghai1803/inkboard)")
}

// Article is the readable content of a web page.
type Article struct {
	Title              string     `json:"title"`
	SiteName           string     `json:"siteName"`
	Excerpt            string     `json:"excerpt"`
	Content            string     `json:"content"`
	ReadingTimeMinutes int        `json:"readingTimeMinutes"`
	PublishedAt        *time.Time `json:"publishedAt,omitempty"`
}

// ValidateArticleURL checks that raw is an absolute http or https URL.
func ValidateArticleURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return nil
}

// extractArticle fetches the page at articleURL and returns its main
// readable content. Content is cut to maxWords words.
func extractArticle(articleURL string, timeout time.Duration) (*Article, error) {
	page, err := readability.FromURL(articleURL, timeout, browserHeaders)
	if err != nil {
		return nil, fmt.Errorf("readability extraction: %w", err)
	}

	content := truncateWords(page.TextContent, maxWords)
	article := &Article{
		Title:              strings.TrimSpace(page.Title),
		SiteName:           page.SiteName,
		Excerpt:            strings.TrimSpace(page.Excerpt),
		Content:            content,
		ReadingTimeMinutes: CalculateReadingTime(content),
	}
	if page.PublishedTime != nil {
		t := page.PublishedTime.UTC()
		article.PublishedAt = &t
	}
	return article, nil
}

// truncateWords returns the first maxWords whitespace-delimited words from s.
// If s contains fewer than maxWords words, it is returned unchanged.
func truncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ")
}

// readingWPM is the reading speed assumed for technical prose.
const readingWPM = 238

// CalculateReadingTime estimates minutes to read text, rounding up. Empty
// text takes 0 minutes, anything else at least 1.
func CalculateReadingTime(text string) int {
	words := len(strings.FieldsFunc(text, isWordBreak))
	return (words + readingWPM - 1) / readingWPM
}

// isWordBreak treats whitespace and punctuation as separators, so
// "well-known" counts as two words.
func isWordBreak(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(".,;:!?\"'()[]{}—–-", r)
}
