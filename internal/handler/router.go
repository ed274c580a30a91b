// Package handler assembles the top-level HTTP router: process endpoints,
// API documentation, metrics and the JSON API.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/mlluizdevtech/linkhub/docs/swagger"
	"github.com/mlluizdevtech/linkhub/internal/api"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	API        api.Deps
	DB         *sqlx.DB
	Logger     *slog.Logger
	TrustProxy bool
}

// NewRouter assembles the full chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	// RealIP rewrites RemoteAddr from X-Forwarded-For, which any client can
	// set; only honour it behind a proxy that overwrites the header.
	if deps.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/", Banner)
	r.Get("/healthz", Health(deps.DB))
	r.Handle("/metrics", promhttp.Handler())

	// Swagger UI
	r.Get("/api-docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api-docs/index.html", http.StatusMovedPermanently)
	})
	r.Get("/api-docs/*", httpSwagger.Handler(httpSwagger.URL("/api-docs/doc.json")))

	apiDeps := deps.API
	if apiDeps.Logger == nil {
		apiDeps.Logger = logger
	}
	// Mounted last: the API owns /auth and /links, and its 404 handler
	// answers every other path.
	r.Mount("/", api.NewAPIRouter(apiDeps))

	return r
}
