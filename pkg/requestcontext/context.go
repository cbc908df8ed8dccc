// Package requestcontext provides transport-independent context accessors for
// invocation-scoped values.
//
// The ledger host (HTTP adapter, tests, workers) sets these values; registry
// services only read them. Keeping this package free of net/http means the
// contracts never depend on a transport.
//
// Usage in services (read values):
//
//	caller := requestcontext.CallerID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in middleware and tests (set values):
//
//	ctx = requestcontext.WithCallerID(ctx, "x509::CN=registrar1")
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"
)

type (
	callerIDKey    struct{}
	callerRoleKey  struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// -----------------------------------------------------------------------------
// Caller identity
// -----------------------------------------------------------------------------

// CallerID returns the opaque identity of the invoking caller, or "" if unset.
// The value is only ever compared for equality or recorded for audit; it is
// never parsed.
func CallerID(ctx context.Context) string {
	if caller, ok := ctx.Value(callerIDKey{}).(string); ok {
		return caller
	}
	return ""
}

// WithCallerID injects the caller identity asserted by the ledger host.
func WithCallerID(ctx context.Context, callerID string) context.Context {
	return context.WithValue(ctx, callerIDKey{}, callerID)
}

// CallerRole returns the role asserted for the caller, or "" if unset.
func CallerRole(ctx context.Context) string {
	if role, ok := ctx.Value(callerRoleKey{}).(string); ok {
		return role
	}
	return ""
}

// WithCallerRole injects the caller role asserted by the ledger host.
func WithCallerRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, callerRoleKey{}, role)
}

// -----------------------------------------------------------------------------
// Request metadata
// -----------------------------------------------------------------------------

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// -----------------------------------------------------------------------------
// Request time
// -----------------------------------------------------------------------------

// Now retrieves the invocation-scoped time from context. Without one it
// falls back to the wall clock in UTC, stripped of its monotonic reading so
// timestamps compare equal after a JSON round trip.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now().UTC()
}

// WithTime injects a specific time into a context so every record touched by
// one invocation carries the same timestamp.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
