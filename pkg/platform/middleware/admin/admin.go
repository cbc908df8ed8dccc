// Package admin guards operator routes with a shared secret header.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"regnet/pkg/platform/middleware/metadata"
	request "regnet/pkg/platform/middleware/request"
)

// HeaderAdminToken carries the operator secret.
const HeaderAdminToken = "X-Admin-Token"

// RequireAdminToken rejects requests whose X-Admin-Token does not match
// expected. An empty expected token rejects everything.
func RequireAdminToken(expected string, logger *slog.Logger) func(http.Handler) http.Handler {
	want := []byte(expected)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get(HeaderAdminToken))
			if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
				ctx := r.Context()
				logger.WarnContext(ctx, "admin access denied",
					"path", r.URL.Path,
					"client_ip", metadata.GetClientIP(ctx),
					"request_id", request.GetRequestID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"admin token required"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
