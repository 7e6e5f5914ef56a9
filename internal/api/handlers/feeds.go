package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hoanghai1803/inkboard/internal/feeds"
)

// FeedImporter imports blog lists and readable articles.
type FeedImporter interface {
	FetchAll(ctx context.Context, feedURLs []string, maxItems int) (*feeds.FetchResult, error)
	ExtractArticle(ctx context.Context, articleURL string) (*feeds.Article, error)
}

type importRequest struct {
	FeedURLs []string `json:"feedUrls"`
	MaxItems int      `json:"maxItems"`
}

type extractRequest struct {
	URL string `json:"url"`
}

// ImportFeeds handles POST /api/blogs/feed. Feeds that fail are listed in
// the response; they do not fail the request.
func ImportFeeds(f FeedImporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req importRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if len(req.FeedURLs) == 0 {
			writeError(w, http.StatusBadRequest, "feedUrls is required")
			return
		}

		res, err := f.FetchAll(r.Context(), req.FeedURLs, req.MaxItems)
		if err != nil {
			slog.Error("failed to import feeds", "feeds", len(req.FeedURLs), "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to import feeds")
			return
		}

		slog.Info("imported feeds", "blogs", len(res.Blogs), "failed", len(res.Failed))
		writeData(w, http.StatusOK, res)
	}
}

// ExtractArticle handles POST /api/blogs/extract.
func ExtractArticle(f FeedImporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req extractRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.URL == "" {
			writeError(w, http.StatusBadRequest, "url is required")
			return
		}

		article, err := f.ExtractArticle(r.Context(), req.URL)
		if err != nil {
			if errors.Is(err, feeds.ErrInvalidURL) {
				writeError(w, http.StatusBadRequest, "url must be a valid HTTP or HTTPS URL")
				return
			}
			slog.Warn("article extraction failed", "url", req.URL, "error", err)
			writeError(w, http.StatusUnprocessableEntity, "Could not extract article content")
			return
		}
		writeData(w, http.StatusOK, article)
	}
}
