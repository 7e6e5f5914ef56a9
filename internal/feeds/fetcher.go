package feeds

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/hoanghai1803/inkboard/internal/models"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"
)

const (
	httpTimeout     = 30 * time.Second
	maxConcurrent   = 10
	rateLimitDelay  = 1 * time.Second
	maxWords        = 5000
	defaultMaxItems = 20
)

// ErrNoFeeds is returned when FetchAll is called without feed URLs.
var ErrNoFeeds = errors.New("no feed URLs given")

// FailedFeed records a feed that could not be fetched.
type FailedFeed struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// FetchResult contains the imported blogs and any per-feed failures, both
// in the order the feeds were requested.
type FetchResult struct {
	Blogs  []models.BlogRef `json:"blogs"`
	Failed []FailedFeed     `json:"failed"`
}

// Fetcher imports RSS/Atom feeds and blog listing pages with per-domain
// rate limiting and bounded concurrency.
type Fetcher struct {
	client   *http.Client
	maxItems int
	delay    time.Duration

	mu       sync.Mutex           // protects nextSlot
	nextSlot map[string]time.Time // per-domain earliest next request
}

// NewFetcher creates a Fetcher that takes at most maxItems entries per feed
// unless a call asks for fewer.
func NewFetcher(maxItems int) *Fetcher {
	if maxItems <= 0 {
		maxItems = defaultMaxItems
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: httpTimeout,
			Transport: &userAgentTransport{
				base: http.DefaultTransport,
			},
		},
		maxItems: maxItems,
		delay:    rateLimitDelay,
		nextSlot: make(map[string]time.Time),
	}
}

// userAgentTransport wraps an http.RoundTripper to inject browser-like
// headers on every request.
type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "application/rss+xml,application/atom+xml,text/html,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	return t.base.RoundTrip(req)
}

// FetchAll imports every feed concurrently, at most 10 at a time. A
// maxItems of zero or more than the configured cap uses the cap. A failing
// feed is reported in FetchResult.Failed and does not affect the others.
func (f *Fetcher) FetchAll(ctx context.Context, feedURLs []string, maxItems int) (*FetchResult, error) {
	if len(feedURLs) == 0 {
		return nil, ErrNoFeeds
	}
	if maxItems <= 0 || maxItems > f.maxItems {
		maxItems = f.maxItems
	}

	blogs := make([][]models.BlogRef, len(feedURLs))
	failures := make([]error, len(feedURLs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for i, feedURL := range feedURLs {
		g.Go(func() error {
			items, err := f.fetchSingleFeed(ctx, feedURL, maxItems)
			if err != nil {
				slog.Warn("failed to fetch feed", "url", feedURL, "error", err)
				failures[i] = err
				return nil // skip failures, don't fail the batch
			}

			slog.Info("fetched feed", "url", feedURL, "items", len(items))
			blogs[i] = items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetching feeds: %w", err)
	}

	result := &FetchResult{Blogs: []models.BlogRef{}, Failed: []FailedFeed{}}
	for i, feedURL := range feedURLs {
		if failures[i] != nil {
			result.Failed = append(result.Failed, FailedFeed{Source: feedURL, Error: failures[i].Error()})
			continue
		}
		result.Blogs = append(result.Blogs, blogs[i]...)
	}
	return result, nil
}

// fetchSingleFeed retrieves one source. "scrape://" URLs are blog listing
// pages read as HTML; everything else is parsed as RSS or Atom.
func (f *Fetcher) fetchSingleFeed(ctx context.Context, feedURL string, maxItems int) ([]models.BlogRef, error) {
	if IsScrapeURL(feedURL) {
		return f.scrapeListing(ctx, feedURL, maxItems)
	}

	if err := f.waitForRateLimit(ctx, extractDomain(feedURL)); err != nil {
		return nil, err
	}

	fp := gofeed.NewParser()
	fp.Client = f.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing feed %q: %w", feedURL, err)
	}

	return parseFeedItems(feed, maxItems), nil
}

// ExtractArticle fetches the readable content of the page at articleURL.
// Content is truncated to 5000 words.
func (f *Fetcher) ExtractArticle(ctx context.Context, articleURL string) (*Article, error) {
	if err := ValidateArticleURL(articleURL); err != nil {
		return nil, err
	}
	if err := f.waitForRateLimit(ctx, extractDomain(articleURL)); err != nil {
		return nil, err
	}

	article, err := extractArticle(articleURL, httpTimeout)
	if err != nil {
		return nil, fmt.Errorf("extracting article from %q: %w", articleURL, err)
	}
	return article, nil
}

// waitForRateLimit reserves the next request slot for domain, spacing
// requests to the same domain by the fetcher's delay. It returns early
// with the context's error if ctx is done first.
func (f *Fetcher) waitForRateLimit(ctx context.Context, domain string) error {
	f.mu.Lock()
	now := time.Now()
	slot := f.nextSlot[domain]
	if slot.Before(now) {
		slot = now
	}
	f.nextSlot[domain] = slot.Add(f.delay)
	f.mu.Unlock()

	wait := time.Until(slot)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// extractDomain parses a URL and returns its hostname. If parsing fails, it
// returns the raw URL as a fallback key.
func extractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Hostname()
}
