// Package ledger defines the Ledger Access Port the registry contracts execute
// against, plus the pieces shared by every backend: compound keys, the
// per-transaction write set, conflict retry, commit events and metrics.
//
// A transaction function reads through State, validates, and writes back. The
// backend guarantees that either every PutState and SetEvent of one Submit
// becomes visible or none does. Conflicting concurrent transactions are
// detected at commit time and the whole function is re-run.
package ledger

import (
	"context"
	"log/slog"
	"time"
)

// State is the key-value view of the ledger inside one transaction.
type State interface {
	// TxID identifies the running transaction.
	TxID() string
	// GetState returns the value stored under key, or nil when absent.
	// Writes made earlier in the same transaction are visible.
	GetState(ctx context.Context, key string) ([]byte, error)
	// PutState stages value under key. It becomes durable on commit.
	PutState(ctx context.Context, key string, value []byte) error
	// SetEvent stages an event that is published only if the transaction commits.
	SetEvent(name string, payload []byte) error
}

// TxFunc is the body of one ledger transaction.
type TxFunc func(ctx context.Context, st State) error

// Ledger runs transaction functions against a backend.
type Ledger interface {
	// Submit runs fn and commits its writes atomically.
	Submit(ctx context.Context, fn TxFunc) error
	// Evaluate runs fn against a read-only view; writes fail with sentinel.ErrReadOnly.
	Evaluate(ctx context.Context, fn TxFunc) error
}

// DefaultMaxAttempts bounds how often a conflicting transaction is re-run.
const DefaultMaxAttempts = 5

// DefaultTxTimeout is applied when the caller's context has no deadline.
const DefaultTxTimeout = 5 * time.Second

// Config carries the options shared by all backends.
type Config struct {
	MaxAttempts int
	Timeout     time.Duration
	Sink        EventSink
	Metrics     *Metrics
	Logger      *slog.Logger
}

// Option configures a backend.
type Option func(*Config)

// WithMaxAttempts sets the conflict retry bound.
func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxAttempts = n
		}
	}
}

// WithTimeout sets the default transaction timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.Timeout = d
		}
	}
}

// WithEventSink sets where committed events are delivered.
func WithEventSink(sink EventSink) Option {
	return func(c *Config) {
		c.Sink = sink
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(c *Config) {
		c.Metrics = m
	}
}

// WithLogger sets a logger for commit-path warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// NewConfig applies opts over the defaults.
func NewConfig(opts ...Option) Config {
	cfg := Config{
		MaxAttempts: DefaultMaxAttempts,
		Timeout:     DefaultTxTimeout,
		Logger:      slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithDeadline applies the configured timeout when ctx has no deadline.
func (c Config) WithDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.Timeout)
}
