package feeds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hoanghai1803/inkboard/internal/models"
	"golang.org/x/net/html"
)

// maxPageBytes bounds how much of a listing page is read.
const maxPageBytes = 4 << 20

// IsScrapeURL reports whether feedURL uses the scrape:// scheme, marking a
// blog listing page without a feed.
func IsScrapeURL(feedURL string) bool {
	return strings.HasPrefix(feedURL, "scrape://")
}

// ScrapeURLToHTTPS converts a scrape:// URL to its https:// equivalent.
func ScrapeURLToHTTPS(feedURL string) string {
	return "https://" + strings.TrimPrefix(feedURL, "scrape://")
}

// scrapeListing fetches a blog listing page and reads post entries from its
// HTML.
func (f *Fetcher) scrapeListing(ctx context.Context, feedURL string, maxItems int) ([]models.BlogRef, error) {
	pageURL := ScrapeURLToHTTPS(feedURL)
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", pageURL, err)
	}

	if err := f.waitForRateLimit(ctx, base.Hostname()); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %q: %w", pageURL, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %q: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %q: HTTP %d", pageURL, resp.StatusCode)
	}

	return parseListingHTML(base, io.LimitReader(resp.Body, maxPageBytes), maxItems)
}

// parseListingHTML extracts posts from a listing page. A post is either an
// <article> element, whose headline link (or first link) is taken, or a
// link whose class marks it as a post title, as in
//
//	li.post-list__item
//	  a.grid-post__link  -> title text + href
//	  p.grid-post__date  -> "Jan 29, 2026"
//
// Relative links are resolved against base and duplicates are dropped.
func parseListingHTML(base *url.URL, r io.Reader, maxItems int) ([]models.BlogRef, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	blogs := []models.BlogRef{}
	seen := make(map[string]bool)

	add := func(a, container *html.Node) {
		title := strings.Join(strings.Fields(textContent(a)), " ")
		rawHref := strings.TrimSpace(getAttr(a, "href"))
		if title == "" || rawHref == "" || strings.HasPrefix(rawHref, "#") {
			return
		}
		href, err := base.Parse(rawHref)
		if err != nil || (href.Scheme != "http" && href.Scheme != "https") {
			return
		}
		link := href.String()
		if seen[link] {
			return
		}
		seen[link] = true

		summary := ""
		if p := findFirst(container, isSummaryParagraph); p != nil {
			summary = strings.Join(strings.Fields(textContent(p)), " ")
		}

		blog := models.NewBlogRef(computeHash(link), title, summary, link)
		if t := findDateInSubtree(container); t != nil {
			blog.Set("publishedAt", t.Format(time.RFC3339))
		}
		blogs = append(blogs, blog)
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(blogs) >= maxItems {
			return
		}

		if n.Type == html.ElementNode {
			switch {
			case n.Data == "article":
				if a := articleLink(n); a != nil {
					add(a, n)
				}
				return
			case n.Data == "a" && isPostLinkClass(getAttr(n, "class")):
				container := n.Parent
				if container == nil {
					container = n
				}
				add(n, container)
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return blogs, nil
}

// articleLink prefers a link inside a heading and falls back to the first
// link with text.
func articleLink(article *html.Node) *html.Node {
	for _, tag := range []string{"h1", "h2", "h3"} {
		if h := findFirst(article, isElement(tag)); h != nil {
			if a := findFirst(h, isElement("a")); a != nil {
				return a
			}
		}
	}
	return findFirst(article, func(n *html.Node) bool {
		return isElement("a")(n) && getAttr(n, "href") != "" && strings.TrimSpace(textContent(n)) != ""
	})
}

func isSummaryParagraph(n *html.Node) bool {
	return isElement("p")(n) && !strings.Contains(getAttr(n, "class"), "date")
}

func isPostLinkClass(class string) bool {
	for _, marker := range []string{"post__link", "post-link", "post-title", "entry-title", "headline"} {
		if strings.Contains(class, marker) {
			return true
		}
	}
	return false
}

func isElement(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	}
}

// findFirst returns the first descendant of n (depth first) matching match.
func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if match(c) {
			return c
		}
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

// getAttr returns the value of the named attribute on an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textContent returns the concatenated text of a node and its children.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

// findDateInSubtree looks for a <time datetime="..."> element or an element
// whose class mentions "date" with a parseable text.
func findDateInSubtree(n *html.Node) *time.Time {
	if n.Type == html.ElementNode {
		if n.Data == "time" {
			if t := parseHumanDate(getAttr(n, "datetime")); t != nil {
				return t
			}
		}
		if n.Data == "time" || strings.Contains(getAttr(n, "class"), "date") {
			if t := parseHumanDate(strings.TrimSpace(textContent(n))); t != nil {
				return t
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findDateInSubtree(c); t != nil {
			return t
		}
	}
	return nil
}

// parseHumanDate parses dates like "Jan 29, 2026", "February 5, 2026",
// "2026-01-29" or an RFC 3339 timestamp.
func parseHumanDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02",
		"Jan 2, 2006",
		"January 2, 2006",
		"Jan 02, 2006",
		"January 02, 2006",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
