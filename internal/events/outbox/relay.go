// Package outbox relays events that a ledger backend wrote to its outbox
// table. Delivery is at least once: a batch stays pending until the sink
// accepts it, so consumers deduplicate on the event ID.
package outbox

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"regnet/internal/ledger"
	"regnet/internal/platform/metrics"
)

const (
	DefaultInterval  = time.Second
	DefaultBatchSize = 100
)

// Source hands out pending events and marks them published when publish
// returns nil.
type Source interface {
	ClaimPending(ctx context.Context, limit int, publish func(context.Context, []ledger.Event) error) (int, error)
}

// Relay moves events from a Source to an EventSink.
type Relay struct {
	source   Source
	sink     ledger.EventSink
	interval time.Duration
	batch    int
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Relay)

func WithInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batch = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Relay) {
		r.metrics = m
	}
}

func New(source Source, sink ledger.EventSink, opts ...Option) *Relay {
	r := &Relay{
		source:   source,
		sink:     sink,
		interval: DefaultInterval,
		batch:    DefaultBatchSize,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run relays until ctx is cancelled. Publish failures are logged and retried
// on the next tick.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		r.drain(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (r *Relay) drain(ctx context.Context) {
	for ctx.Err() == nil {
		n, err := r.RelayOnce(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				r.logger.WarnContext(ctx, "outbox relay failed", "error", err)
			}
			return
		}
		if n < r.batch {
			return
		}
	}
}

// RelayOnce publishes at most one batch and returns how many events it moved.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	var attempted int
	n, err := r.source.ClaimPending(ctx, r.batch, func(ctx context.Context, events []ledger.Event) error {
		attempted = len(events)
		return r.sink.Deliver(ctx, events)
	})
	if err != nil {
		r.metrics.AddEventsRelayed("failed", attempted)
		return 0, err
	}
	r.metrics.AddEventsRelayed("published", n)
	return n, nil
}
