package testutil

import (
	"context"
	"net/http"
	"time"

	"regnet/pkg/requestcontext"
)

// WithCaller adds a caller identity and role to the request context.
// This simulates what the auth middleware would do for authenticated requests.
func WithCaller(req *http.Request, callerID, role string) *http.Request {
	ctx := requestcontext.WithCallerID(req.Context(), callerID)
	ctx = requestcontext.WithCallerRole(ctx, role)
	return req.WithContext(ctx)
}

// WithTime pins the invocation time on the request context.
func WithTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}

// CallerContext builds the context a ledger host would pass to a contract.
func CallerContext(callerID string, now time.Time) context.Context {
	ctx := requestcontext.WithCallerID(context.Background(), callerID)
	return requestcontext.WithTime(ctx, now)
}
