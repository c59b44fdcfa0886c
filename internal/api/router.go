package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// RouterConfig holds optional router behaviour.
type RouterConfig struct {
	// RateLimitPerMinute caps requests per client IP. Zero disables limiting.
	RateLimitPerMinute int
}

// NewRouter builds and returns the Chi router with all routes configured.
// Paths match with or without a trailing slash.
func NewRouter(handlers *Handlers, cache Pinger, cfg RouterConfig, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	if cfg.RateLimitPerMinute > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
	}

	r.Get("/", handlers.Root)

	r.Route("/api", func(r chi.Router) {
		r.Get("/v1/health", HealthHandlerFunc(cache, log))
		r.Post("/location-greeting", handlers.LocationGreeting)
		r.Post("/chat", handlers.Chat)
		r.Post("/place-details", handlers.PlaceDetails)
		r.Post("/enhanced-search", handlers.EnhancedSearch)
		r.Get("/test", handlers.APIStatus)
		r.Post("/test", handlers.APIStatus)
		r.Get("/test-llm", handlers.TestLLM)
		r.Post("/clear-chat", handlers.ClearChat)
	})

	return r
}

// Ensure chi.Mux implements http.Handler.
var _ http.Handler = (*chi.Mux)(nil)
