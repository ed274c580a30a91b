// Package ratelimit bounds attempts per client address. Counting is done by
// go-chi/httprate in process memory; each replica limits independently.
package ratelimit

import (
	"net/http"
	"path"
	"time"

	"github.com/go-chi/httprate"

	"github.com/mlluizdevtech/linkhub/internal/metrics"
)

// Headers names the response headers after the IETF RateLimit fields.
// RateLimit-Reset carries the Unix time at which the current window ends.
var Headers = httprate.ResponseHeaders{
	Limit:      "RateLimit-Limit",
	Remaining:  "RateLimit-Remaining",
	Reset:      "RateLimit-Reset",
	RetryAfter: "Retry-After",
}

// Limiter describes an attempt budget: at most limit requests per client IP
// in each window.
type Limiter struct {
	limit  int
	window time.Duration
}

// New returns a Limiter allowing limit attempts per window.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{limit: limit, window: window}
}

// Limit returns the number of attempts allowed per window.
func (l *Limiter) Limit() int { return l.limit }

// Window returns the window length.
func (l *Limiter) Window() time.Duration { return l.window }

// Middleware returns a handler decorator with its own counters. Routes that
// should draw from one budget must share the returned function.
//
// Clients are keyed by the host part of RemoteAddr; put chi's RealIP in
// front when running behind a trusted proxy. onLimited renders the 429 and
// onError renders counter failures.
func (l *Limiter) Middleware(onLimited http.HandlerFunc, onError func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	opts := []httprate.Option{
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithResponseHeaders(Headers),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RateLimitedTotal.WithLabelValues(path.Base(r.URL.Path)).Inc()
			onLimited(w, r)
		}),
	}
	if onError != nil {
		opts = append(opts, httprate.WithErrorHandler(onError))
	}
	return httprate.NewRateLimiter(l.limit, l.window, opts...).Handler
}
