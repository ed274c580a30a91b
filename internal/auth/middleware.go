package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/mlluizdevtech/linkhub/internal/metrics"
)

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by the bearer
// middleware, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// TokenVerifier is the part of TokenIssuer the middleware needs.
type TokenVerifier interface {
	Verify(token string) (Principal, error)
}

// ErrorWriter renders an authentication failure. The HTTP layer supplies
// one so error bodies stay consistent across the API.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Middleware authenticates requests carrying "Authorization: Bearer <token>".
// It never touches the store: the token alone establishes the principal.
type Middleware struct {
	tokens  TokenVerifier
	onError ErrorWriter
}

// NewMiddleware returns bearer-token middleware backed by tokens.
func NewMiddleware(tokens TokenVerifier, onError ErrorWriter) *Middleware {
	return &Middleware{tokens: tokens, onError: onError}
}

// RequireAuth rejects the request with ErrMissingToken or an
// ErrInvalidToken variant, or stores the principal in the context and calls
// next.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := BearerToken(r)
		if err != nil {
			m.reject(w, r, err)
			return
		}
		p, err := m.tokens.Verify(raw)
		if err != nil {
			m.reject(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

func (m *Middleware) reject(w http.ResponseWriter, r *http.Request, err error) {
	metrics.AuthAttemptsTotal.WithLabelValues(metrics.FlowBearer, metrics.OutcomeRejected).Inc()
	m.onError(w, r, err)
}

// BearerToken extracts the token from the Authorization header. The scheme
// is matched case-insensitively.
func BearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
