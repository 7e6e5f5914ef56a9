package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hoanghai1803/inkboard/internal/api/handlers"
	"github.com/hoanghai1803/inkboard/internal/generate"
	"github.com/hoanghai1803/inkboard/internal/metrics"
)

// Deps are the services behind the API routes. Generations must be a nil
// interface when storage is disabled.
type Deps struct {
	Palette     handlers.TextGenerator
	Enhance     handlers.TextGenerator
	Design      handlers.DesignGenerator
	Blog        handlers.BlogGenerator
	Feeds       handlers.FeedImporter
	Generations handlers.GenerationLog
	Roles       map[string]string
}

// NewRouter creates and configures the HTTP router with all API routes,
// the health check and the Prometheus endpoint.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(RequestLogger)
	r.Use(Metrics)
	r.Use(Recovery)
	r.Use(CORS)

	r.Route("/api", func(api chi.Router) {
		api.Post("/palette", handlers.GenerateText(generate.OpPalette, deps.Palette))
		api.Post("/enhance", handlers.GenerateText(generate.OpEnhance, deps.Enhance))
		api.Post("/chat", handlers.Chat(deps.Design))

		api.Route("/blogs", func(blogs chi.Router) {
			blogs.Post("/summarize", handlers.SummarizeBlog(deps.Blog))
			blogs.Post("/search", handlers.SearchBlogs(deps.Blog))
			blogs.Post("/related", handlers.RelatedBlogs(deps.Blog))
			blogs.Post("/feed", handlers.ImportFeeds(deps.Feeds))
			blogs.Post("/extract", handlers.ExtractArticle(deps.Feeds))
		})

		api.Get("/generations", handlers.ListGenerations(deps.Generations))
		api.Get("/generations/{id}", handlers.GetGeneration(deps.Generations))
	})

	r.Get("/healthz", handlers.Health(deps.Roles, deps.Generations != nil))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}
