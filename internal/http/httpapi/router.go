package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"sketchgen/internal/http/handlers"
	"sketchgen/internal/middleware"
)

// Options tunes the router middleware.
type Options struct {
	RateLimitPerMin int
}

// NewRouter builds the page, action and asset routes.
func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(app.Logger),
		chimw.Recoverer,
	)

	r.Get("/v1/healthz", app.Health)

	r.Get("/", app.Index)
	r.With(middleware.RateLimit(opts.RateLimitPerMin, time.Minute)).Post("/generate", app.Generate)

	r.Get("/sketches/{token}", app.ViewSketch)
	r.Get("/sketches/{token}/download", app.DownloadSketch)

	return r
}
