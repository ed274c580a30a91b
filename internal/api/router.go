package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mlluizdevtech/linkhub/internal/auth"
	"github.com/mlluizdevtech/linkhub/internal/links"
	"github.com/mlluizdevtech/linkhub/internal/ratelimit"
)

// Deps holds all dependencies required to build the API router.
type Deps struct {
	Auth    *auth.Service
	Tokens  auth.TokenVerifier
	Links   *links.Service
	Limiter *ratelimit.Limiter
	Logger  *slog.Logger

	// FederatedLogin mounts POST /auth/google.
	FederatedLogin bool
}

// NewAPIRouter creates the JSON API: /auth/* and the bearer-protected
// /links/* routes.
func NewAPIRouter(deps Deps) chi.Router {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	errs := errorWriter{logger: logger}
	bearer := auth.NewMiddleware(deps.Tokens, errs.write)
	// register and login draw from one budget per client.
	attempts := deps.Limiter.Middleware(errs.rateLimited, errs.write)

	r := chi.NewRouter()
	r.Use(jsonContentType)

	a := &authAPIHandler{svc: deps.Auth, errs: errs}
	r.Route("/auth", func(r chi.Router) {
		r.With(attempts).Post("/register", a.Register)
		r.With(attempts).Post("/login", a.Login)
		if deps.FederatedLogin {
			r.Post("/google", a.Google)
		}
		r.With(bearer.RequireAuth).Get("/me", a.Me)
	})

	l := &linksAPIHandler{svc: deps.Links, errs: errs}
	r.Route("/links", func(r chi.Router) {
		r.Use(bearer.RequireAuth)
		r.Get("/", l.List)
		r.Post("/", l.Create)
		r.Get("/backup", l.Backup)
		r.Post("/restore", l.Restore)
		r.Get("/{id}", l.Get)
		r.Put("/{id}", l.Update)
		r.Delete("/{id}", l.Delete)
	})

	return r
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
