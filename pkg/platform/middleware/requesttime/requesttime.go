// Package requesttime pins one "now" per HTTP request so every record a
// contract writes during the call carries the same timestamp.
package requesttime

import (
	"net/http"
	"time"

	"regnet/pkg/requestcontext"
)

// Clock returns the current time.
type Clock func() time.Time

// Middleware stamps the request context with time.Now at entry.
func Middleware(next http.Handler) http.Handler {
	return WithClock(time.Now)(next)
}

// WithClock is Middleware with an injectable clock.
func WithClock(clock Clock) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithTime(r.Context(), clock().UTC())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
