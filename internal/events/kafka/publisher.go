// Package kafka publishes committed ledger events to a Kafka topic. Each
// event becomes one record keyed by transaction ID, so the events of one
// transaction land on one partition in commit order.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"regnet/internal/ledger"
)

const headerEventName = "event-name"

// Envelope is the record value written for each event.
type Envelope struct {
	ID          string          `json:"id"`
	TxID        string          `json:"txId"`
	Name        string          `json:"name"`
	Payload     json.RawMessage `json:"payload"`
	CommittedAt time.Time       `json:"committedAt"`
}

// Producer is the subset of the platform Kafka producer the publisher needs.
type Producer interface {
	ProduceSync(ctx context.Context, records ...*kgo.Record) error
}

// Publisher implements ledger.EventSink.
type Publisher struct {
	producer Producer
	logger   *slog.Logger
}

func New(producer Producer, logger *slog.Logger) *Publisher {
	return &Publisher{producer: producer, logger: logger}
}

// Deliver produces events and waits for acknowledgement.
func (p *Publisher) Deliver(ctx context.Context, events []ledger.Event) error {
	if len(events) == 0 {
		return nil
	}
	records := make([]*kgo.Record, 0, len(events))
	for _, e := range events {
		rec, err := Record(e)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}
	if err := p.producer.ProduceSync(ctx, records...); err != nil {
		return fmt.Errorf("produce %d ledger events: %w", len(records), err)
	}
	if p.logger != nil {
		p.logger.DebugContext(ctx, "published ledger events", "count", len(records), "tx_id", events[0].TxID)
	}
	return nil
}

// Record encodes one event. Payloads that are not valid JSON are embedded
// as a JSON string.
func Record(e ledger.Event) (*kgo.Record, error) {
	payload := json.RawMessage(e.Payload)
	if !json.Valid(e.Payload) {
		quoted, err := json.Marshal(string(e.Payload))
		if err != nil {
			return nil, fmt.Errorf("encode payload of %s: %w", e.Name, err)
		}
		payload = quoted
	}
	value, err := json.Marshal(Envelope{
		ID:          e.ID,
		TxID:        e.TxID,
		Name:        e.Name,
		Payload:     payload,
		CommittedAt: e.CommittedAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", e.Name, err)
	}
	return &kgo.Record{
		Key:     []byte(e.TxID),
		Value:   value,
		Headers: []kgo.RecordHeader{{Key: headerEventName, Value: []byte(e.Name)}},
	}, nil
}
