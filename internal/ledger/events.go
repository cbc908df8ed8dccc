package ledger

import (
	"context"
	"time"
)

// Event is a commit notification staged with State.SetEvent.
type Event struct {
	ID          string
	TxID        string
	Name        string
	Payload     []byte
	CommittedAt time.Time
}

// EventSink receives events of committed transactions.
type EventSink interface {
	Deliver(ctx context.Context, events []Event) error
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(ctx context.Context, events []Event) error

func (f EventSinkFunc) Deliver(ctx context.Context, events []Event) error {
	return f(ctx, events)
}

// DeliverCommitted hands events of an already committed transaction to the
// sink. The transaction outcome is final at this point, so failures are only
// logged; backends that need guaranteed delivery use an outbox instead.
func DeliverCommitted(ctx context.Context, cfg Config, events []Event) {
	if cfg.Sink == nil || len(events) == 0 {
		return
	}
	if err := cfg.Sink.Deliver(context.WithoutCancel(ctx), events); err != nil && cfg.Logger != nil {
		cfg.Logger.WarnContext(ctx, "failed to deliver ledger events",
			"tx_id", events[0].TxID,
			"count", len(events),
			"error", err,
		)
	}
}
