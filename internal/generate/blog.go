package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hoanghai1803/inkboard/internal/ai"
	"github.com/hoanghai1803/inkboard/internal/metrics"
	"github.com/hoanghai1803/inkboard/internal/models"
	"github.com/hoanghai1803/inkboard/internal/relevance"
)

const (
	// DefaultTitle is used when a request carries no title.
	DefaultTitle = "Untitled Blog"

	// DefaultLink is used for related blogs with neither link nor url.
	DefaultLink = "#"
)

// Blog runs the blog operations whose answers may embed JSON: summarize,
// search and related content.
type Blog struct {
	provider ai.Provider
	audit    auditor
}

// NewBlog creates a Blog generator backed by p.
func NewBlog(p ai.Provider, rec Recorder) *Blog {
	return &Blog{provider: p, audit: auditor{rec: rec}}
}

type SummarizeRequest struct {
	BlogContent string `json:"blogContent"`
	Title       string `json:"title"`
}

type SummarizeResult struct {
	Summary string `json:"summary"`
	Title   string `json:"title"`
}

// Summarize returns the provider's summary verbatim.
func (b *Blog) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResult, error) {
	if strings.TrimSpace(req.BlogContent) == "" {
		return nil, invalid("Blog content is required")
	}

	summary, elapsed, err := callProvider(ctx, b.provider, ai.SummarizePrompt(req.Title, req.BlogContent))
	b.audit.record(ctx, OpSummarize, b.provider, elapsed, "", err)
	if err != nil {
		return nil, err
	}

	return &SummarizeResult{Summary: summary, Title: titleOrDefault(req.Title)}, nil
}

type SearchRequest struct {
	Query string           `json:"query"`
	Blogs []models.BlogRef `json:"blogs"`
}

// RankedBlog is a search hit. SourceIndex is the 0-based position in the
// request's blogs on both the provider and the keyword path.
type RankedBlog struct {
	SourceIndex    int
	RelevanceScore float64
	Reason         string
	Blog           models.BlogRef
}

// MarshalJSON encodes the original blog with relevanceScore and reason
// merged in.
func (r RankedBlog) MarshalJSON() ([]byte, error) {
	return r.Blog.MarshalJSONWith(map[string]any{
		"relevanceScore": r.RelevanceScore,
		"reason":         r.Reason,
	})
}

type SearchResult struct {
	Query      string       `json:"query"`
	Results    []RankedBlog `json:"results"`
	TotalFound int          `json:"totalFound"`

	// Ranking tells whether Results came from the provider or from the
	// keyword scorer.
	Ranking Recovered[[]RankedBlog] `json:"-"`
}

// Search asks the provider to rank blogs against the query. When the answer
// holds no usable ranking the keyword scorer ranks them instead; the
// request still succeeds.
func (b *Blog) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	if strings.TrimSpace(req.Query) == "" || req.Blogs == nil {
		return nil, invalid("Query and blogs are required")
	}

	text, elapsed, err := callProvider(ctx, b.provider, ai.SearchPrompt(req.Query, req.Blogs))
	if err != nil {
		b.audit.record(ctx, OpSearch, b.provider, elapsed, "", err)
		return nil, err
	}

	ranking := rankBlogs(text, req.Query, req.Blogs)
	var reason string
	if ranking.IsFallback() {
		reason = ranking.Reason()
	}
	b.audit.record(ctx, OpSearch, b.provider, elapsed, reason, nil)

	return &SearchResult{
		Query:      req.Query,
		Results:    ranking.Value,
		TotalFound: len(ranking.Value),
		Ranking:    ranking,
	}, nil
}

// rankBlogs reads the provider's ranking out of text. Provider indices are
// 1-based and become 0-based here; entries outside blogs are dropped.
func rankBlogs(text, query string, blogs []models.BlogRef) Recovered[[]RankedBlog] {
	rankings, err := parseRankings(text)
	if err != nil {
		reason := fallbackLabel(err)
		slog.Warn("search ranking unusable, using keyword fallback", "reason", reason, "error", err)
		metrics.RecordFallback(OpSearch, reason)
		return Fallback(keywordRank(query, blogs), reason)
	}

	results := make([]RankedBlog, 0, len(rankings))
	for _, r := range rankings {
		i := r.Index - 1
		if i < 0 || i >= len(blogs) {
			slog.Debug("dropping out-of-range search index", "index", r.Index, "blogs", len(blogs))
			continue
		}
		results = append(results, RankedBlog{
			SourceIndex:    i,
			RelevanceScore: r.RelevanceScore,
			Reason:         r.Reason,
			Blog:           blogs[i],
		})
	}
	return Primary(results)
}

// parseRankings takes the widest bracketed span of text and validates it.
// Anything short of a fully valid array is an error; there is no partial
// recovery.
func parseRankings(text string) ([]ai.Ranking, error) {
	raw, err := ai.ExtractArray(text)
	if err != nil {
		return nil, err
	}

	var rankings []ai.Ranking
	if err := ai.RankingSchema.Decode(raw, &rankings); err != nil {
		return nil, err
	}
	return rankings, nil
}

func keywordRank(query string, blogs []models.BlogRef) []RankedBlog {
	docs := make([]relevance.Document, len(blogs))
	for i, blog := range blogs {
		docs[i] = relevance.Document{Title: blog.Title, Summary: blog.Summary, Content: blog.Content}
	}

	terms := len(relevance.Tokens(query))
	matches := relevance.Rank(query, docs)
	results := make([]RankedBlog, 0, len(matches))
	for _, m := range matches {
		results = append(results, RankedBlog{
			SourceIndex:    m.Index,
			RelevanceScore: float64(m.Score),
			Reason:         fmt.Sprintf("Keyword match: %d of %d search terms", m.Score, terms),
			Blog:           blogs[m.Index],
		})
	}
	return results
}

type RelatedRequest struct {
	BlogContent string           `json:"blogContent"`
	Title       string           `json:"title"`
	AllBlogs    []models.BlogRef `json:"allBlogs"`
}

// RelatedBlog is the public shape of a related post.
type RelatedBlog struct {
	Title   string          `json:"title"`
	Summary string          `json:"summary"`
	Link    string          `json:"link"`
	ID      json.RawMessage `json:"id,omitempty"`
}

type RelatedResult struct {
	Title        string        `json:"title"`
	Summary      string        `json:"summary"`
	RelatedBlogs []RelatedBlog `json:"relatedBlogs"`

	// Related tells whether the picks came from the provider or are the
	// first candidates in order.
	Related Recovered[[]RelatedBlog] `json:"-"`
}

// Related summarizes the blog, then asks the provider to pick related posts
// from AllBlogs. The second call is skipped when there are no candidates.
// An unparsable pick list falls back to the first candidates in order.
func (b *Blog) Related(ctx context.Context, req RelatedRequest) (*RelatedResult, error) {
	if strings.TrimSpace(req.BlogContent) == "" {
		return nil, invalid("Blog content is required")
	}

	start := time.Now()
	summary, _, err := callProvider(ctx, b.provider, ai.RelatedSummaryPrompt(req.Title, req.BlogContent))
	if err != nil {
		b.audit.record(ctx, OpRelated, b.provider, time.Since(start), "", err)
		return nil, err
	}

	related := Primary([]RelatedBlog{})
	if len(req.AllBlogs) > 0 {
		text, _, err := callProvider(ctx, b.provider, ai.RelatedIndexPrompt(req.Title, req.BlogContent, req.AllBlogs))
		if err != nil {
			b.audit.record(ctx, OpRelated, b.provider, time.Since(start), "", err)
			return nil, err
		}
		related = pickRelated(text, req.AllBlogs)
	}

	var reason string
	if related.IsFallback() {
		reason = related.Reason()
	}
	b.audit.record(ctx, OpRelated, b.provider, time.Since(start), reason, nil)

	return &RelatedResult{
		Title:        titleOrDefault(req.Title),
		Summary:      summary,
		RelatedBlogs: related.Value,
		Related:      related,
	}, nil
}

// pickRelated parses the whole of text as a list of 1-based positions into
// candidates. Unresolvable positions are dropped and at most
// ai.MaxRelated picks are kept.
func pickRelated(text string, candidates []models.BlogRef) Recovered[[]RelatedBlog] {
	var indices []int
	if err := ai.RelatedIndexSchema.Decode(text, &indices); err != nil {
		reason := fallbackLabel(err)
		slog.Warn("related picks unusable, using first candidates", "reason", reason, "error", err)
		metrics.RecordFallback(OpRelated, reason)

		picked := make([]RelatedBlog, 0, ai.MaxRelated)
		for _, blog := range candidates[:min(len(candidates), ai.MaxRelated)] {
			picked = append(picked, toRelated(blog))
		}
		return Fallback(picked, reason)
	}

	picked := make([]RelatedBlog, 0, ai.MaxRelated)
	for _, idx := range indices {
		if len(picked) == ai.MaxRelated {
			break
		}
		i := idx - 1
		if i < 0 || i >= len(candidates) {
			slog.Debug("dropping unresolvable related index", "index", idx, "candidates", len(candidates))
			continue
		}
		picked = append(picked, toRelated(candidates[i]))
	}
	return Primary(picked)
}

func toRelated(blog models.BlogRef) RelatedBlog {
	return RelatedBlog{
		Title:   blog.Title,
		Summary: blog.Excerpt(ai.ExcerptChars),
		Link:    blog.Href(DefaultLink),
		ID:      blog.ID,
	}
}

func titleOrDefault(title string) string {
	if title == "" {
		return DefaultTitle
	}
	return title
}
