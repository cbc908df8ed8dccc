package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"regnet/internal/ledger"
)

type recordingProducer struct {
	records []*kgo.Record
	err     error
}

func (p *recordingProducer) ProduceSync(_ context.Context, records ...*kgo.Record) error {
	p.records = append(p.records, records...)
	return p.err
}

func TestPublisherDeliver(t *testing.T) {
	committed := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	evs := []ledger.Event{
		{ID: "e1", TxID: "tx-1", Name: "AssetPurchased", Payload: []byte(`{"assetId":"P1"}`), CommittedAt: committed},
		{ID: "e2", TxID: "tx-1", Name: "Raw", Payload: []byte("not json"), CommittedAt: committed},
	}

	t.Run("one record per event keyed by transaction", func(t *testing.T) {
		producer := &recordingProducer{}
		require.NoError(t, New(producer, nil).Deliver(context.Background(), evs))
		require.Len(t, producer.records, 2)

		rec := producer.records[0]
		assert.Equal(t, []byte("tx-1"), rec.Key)
		require.Len(t, rec.Headers, 1)
		assert.Equal(t, "AssetPurchased", string(rec.Headers[0].Value))

		var env Envelope
		require.NoError(t, json.Unmarshal(rec.Value, &env))
		assert.Equal(t, "e1", env.ID)
		assert.JSONEq(t, `{"assetId":"P1"}`, string(env.Payload))
		assert.True(t, committed.Equal(env.CommittedAt))
	})

	t.Run("non-JSON payload is embedded as a string", func(t *testing.T) {
		rec, err := Record(evs[1])
		require.NoError(t, err)
		var env Envelope
		require.NoError(t, json.Unmarshal(rec.Value, &env))
		assert.Equal(t, `"not json"`, string(env.Payload))
	})

	t.Run("produce errors are returned", func(t *testing.T) {
		producer := &recordingProducer{err: errors.New("not leader for partition")}
		err := New(producer, nil).Deliver(context.Background(), evs)
		assert.Error(t, err)
	})

	t.Run("empty batch produces nothing", func(t *testing.T) {
		producer := &recordingProducer{}
		require.NoError(t, New(producer, nil).Deliver(context.Background(), nil))
		assert.Empty(t, producer.records)
	})
}
