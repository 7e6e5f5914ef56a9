package feeds

import (
	"net/url"
	"strings"
	"testing"
)

func TestIsScrapeURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"scrape://www.linkedin.com/blog/engineering", true},
		{"https://example.com/feed", false},
		{"scrape://", true},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsScrapeURL(tt.url); got != tt.want {
			t.Errorf("IsScrapeURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestScrapeURLToHTTPS(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"scrape://www.linkedin.com/blog/engineering", "https://www.linkedin.com/blog/engineering"},
		{"scrape://example.com", "https://example.com"},
	}
	for _, tt := range tests {
		if got := ScrapeURLToHTTPS(tt.input); got != tt.want {
			t.Errorf("ScrapeURLToHTTPS(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parsing %q: %v", raw, err)
	}
	return u
}

func TestParseListingHTML_PostLinks(t *testing.T) {
	base := mustParseURL(t, "https://www.linkedin.com/blog/engineering")

	page := `
	<html><body>
		<section class="featured-post">
			<div class="post-container">
				<a class="featured-post__headline" href="/blog/engineering/featured-post">Featured Article Title</a>
				<p class="featured-post__date">Feb 10, 2026</p>
			</div>
		</section>
		<ul>
			<li class="post-list__item">
				<a class="grid-post__link" href="/blog/engineering/post-one">First Post Title</a>
				<p class="grid-post__date">Jan 29, 2026</p>
			</li>
			<li class="post-list__item">
				<a class="grid-post__link" href="/blog/engineering/post-two">Second Post Title</a>
				<p class="grid-post__date">Jan 15, 2026</p>
			</li>
			<li class="post-list__item">
				<a class="grid-post__link" href="">Empty URL Post</a>
				<p class="grid-post__date">Jan 10, 2026</p>
			</li>
			<li class="post-list__item">
				<a class="grid-post__link" href="/blog/engineering/post-one">First Post Title</a>
			</li>
		</ul>
	</body></html>`

	blogs, err := parseListingHTML(base, strings.NewReader(page), 10)
	if err != nil {
		t.Fatalf("parseListingHTML error: %v", err)
	}

	if len(blogs) != 3 {
		t.Fatalf("got %d blogs, want 3", len(blogs))
	}

	if blogs[0].Title != "Featured Article Title" {
		t.Errorf("blogs[0].Title = %q, want %q", blogs[0].Title, "Featured Article Title")
	}
	if blogs[0].Link != "https://www.linkedin.com/blog/engineering/featured-post" {
		t.Errorf("blogs[0].Link = %q", blogs[0].Link)
	}
	if got := string(blogs[0].Field("publishedAt")); got != `"2026-02-10T00:00:00Z"` {
		t.Errorf("blogs[0] publishedAt = %s", got)
	}
	if blogs[0].Summary != "" {
		t.Errorf("date paragraph should not become the summary, got %q", blogs[0].Summary)
	}

	if blogs[1].Title != "First Post Title" {
		t.Errorf("blogs[1].Title = %q, want %q", blogs[1].Title, "First Post Title")
	}
	if blogs[2].Title != "Second Post Title" {
		t.Errorf("blogs[2].Title = %q, want %q", blogs[2].Title, "Second Post Title")
	}

	for _, b := range blogs {
		if len(b.ID) == 0 {
			t.Error("id should be set")
		}
	}
}

func TestParseListingHTML_Articles(t *testing.T) {
	base := mustParseURL(t, "https://blog.example.com/posts/")

	page := `
	<html><body>
		<article>
			<a href="/tags/go">go</a>
			<h2><a href="intro-to-generics">Intro to   Generics</a></h2>
			<time datetime="2026-03-04T10:00:00Z">March 4</time>
			<p>A gentle tour of type parameters.</p>
		</article>
		<article>
			<a href="https://other.example.com/x">Cross-posted piece</a>
		</article>
		<article>
			<h2>No link here</h2>
		</article>
	</body></html>`

	blogs, err := parseListingHTML(base, strings.NewReader(page), 10)
	if err != nil {
		t.Fatalf("parseListingHTML error: %v", err)
	}
	if len(blogs) != 2 {
		t.Fatalf("got %d blogs, want 2", len(blogs))
	}

	first := blogs[0]
	if first.Title != "Intro to Generics" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.Link != "https://blog.example.com/posts/intro-to-generics" {
		t.Errorf("Link = %q", first.Link)
	}
	if first.Summary != "A gentle tour of type parameters." {
		t.Errorf("Summary = %q", first.Summary)
	}
	if got := string(first.Field("publishedAt")); got != `"2026-03-04T10:00:00Z"` {
		t.Errorf("publishedAt = %s", got)
	}

	if blogs[1].Link != "https://other.example.com/x" {
		t.Errorf("blogs[1].Link = %q", blogs[1].Link)
	}
}

func TestParseListingHTML_MaxItems(t *testing.T) {
	base := mustParseURL(t, "https://example.com")

	page := `
	<html><body>
		<ul>
			<li><a class="grid-post__link" href="/post/1">Post 1</a></li>
			<li><a class="grid-post__link" href="/post/2">Post 2</a></li>
			<li><a class="grid-post__link" href="/post/3">Post 3</a></li>
		</ul>
	</body></html>`

	blogs, err := parseListingHTML(base, strings.NewReader(page), 2)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if len(blogs) != 2 {
		t.Errorf("got %d blogs, want 2 (limited by maxItems)", len(blogs))
	}
}

func TestParseHumanDate(t *testing.T) {
	tests := []struct {
		input   string
		wantNil bool
		wantDay int
	}{
		{"Jan 29, 2026", false, 29},
		{"February 5, 2026", false, 5},
		{"2026-01-15", false, 15},
		{"2026-01-17T08:00:00Z", false, 17},
		{"not a date", true, 0},
		{"", true, 0},
	}
	for _, tt := range tests {
		got := parseHumanDate(tt.input)
		if tt.wantNil && got != nil {
			t.Errorf("parseHumanDate(%q) = %v, want nil", tt.input, got)
		}
		if !tt.wantNil && got == nil {
			t.Errorf("parseHumanDate(%q) = nil, want day %d", tt.input, tt.wantDay)
		}
		if !tt.wantNil && got != nil && got.Day() != tt.wantDay {
			t.Errorf("parseHumanDate(%q).Day() = %d, want %d", tt.input, got.Day(), tt.wantDay)
		}
	}
}
