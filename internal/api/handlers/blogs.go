package handlers

import (
	"context"
	"net/http"

	"github.com/hoanghai1803/inkboard/internal/generate"
)

// BlogGenerator is the set of blog operations exposed under /api/blogs.
type BlogGenerator interface {
	Summarize(ctx context.Context, req generate.SummarizeRequest) (*generate.SummarizeResult, error)
	Search(ctx context.Context, req generate.SearchRequest) (*generate.SearchResult, error)
	Related(ctx context.Context, req generate.RelatedRequest) (*generate.RelatedResult, error)
}

// SummarizeBlog handles POST /api/blogs/summarize.
func SummarizeBlog(gen BlogGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generate.SummarizeRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		res, err := gen.Summarize(r.Context(), req)
		if err != nil {
			writeGenerateError(w, generate.OpSummarize, err)
			return
		}
		writeData(w, http.StatusOK, res)
	}
}

// SearchBlogs handles POST /api/blogs/search. An unreadable ranking from
// the provider is replaced by keyword scoring and still returns 200.
func SearchBlogs(gen BlogGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generate.SearchRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		res, err := gen.Search(r.Context(), req)
		if err != nil {
			writeGenerateError(w, generate.OpSearch, err)
			return
		}
		writeData(w, http.StatusOK, res)
	}
}

// RelatedBlogs handles POST /api/blogs/related.
func RelatedBlogs(gen BlogGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generate.RelatedRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		res, err := gen.Related(r.Context(), req)
		if err != nil {
			writeGenerateError(w, generate.OpRelated, err)
			return
		}
		writeData(w, http.StatusOK, res)
	}
}
