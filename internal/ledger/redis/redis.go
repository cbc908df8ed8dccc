// Package redis stores world state in Redis using optimistic transactions:
// every key a transaction reads is WATCHed and the write set is applied in a
// MULTI/EXEC pipeline, which Redis aborts if any watched key changed.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"regnet/internal/ledger"
	"regnet/pkg/platform/sentinel"
)

const backendName = "redis"

// Ledger is the Redis-backed ledger.
type Ledger struct {
	client redis.UniversalClient
	prefix string
	cfg    ledger.Config
}

// New constructs a Redis ledger. prefix is prepended to every ledger key so
// several networks can share one Redis database.
func New(client redis.UniversalClient, prefix string, opts ...ledger.Option) *Ledger {
	return &Ledger{client: client, prefix: prefix, cfg: ledger.NewConfig(opts...)}
}

func (l *Ledger) Submit(ctx context.Context, fn ledger.TxFunc) error {
	ctx, cancel := l.cfg.WithDeadline(ctx)
	defer cancel()
	return ledger.Retry(ctx, l.cfg, backendName, func(ctx context.Context) error {
		return l.runOnce(ctx, fn)
	})
}

func (l *Ledger) Evaluate(ctx context.Context, fn ledger.TxFunc) error {
	ctx, cancel := l.cfg.WithDeadline(ctx)
	defer cancel()
	return fn(ctx, &snapshot{ledger: l, ws: ledger.NewWriteSet(uuid.NewString(), true)})
}

func (l *Ledger) runOnce(ctx context.Context, fn ledger.TxFunc) error {
	ws := ledger.NewWriteSet(uuid.NewString(), false)

	err := l.client.Watch(ctx, func(rtx *redis.Tx) error {
		tx := &transaction{ledger: l, rtx: rtx, ws: ws}
		if err := fn(ctx, tx); err != nil {
			return err
		}
		if ws.Empty() {
			return nil
		}
		_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, w := range ws.Writes() {
				pipe.Set(ctx, l.prefix+w.Key, w.Value, 0)
			}
			return nil
		})
		return err
	})
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("redis exec: %w", errors.Join(sentinel.ErrConflict, err))
	}
	if err != nil {
		return err
	}

	ledger.DeliverCommitted(ctx, l.cfg, ws.Events(time.Now()))
	return nil
}

func (l *Ledger) get(ctx context.Context, cmd redis.Cmdable, key string) ([]byte, error) {
	v, err := cmd.Get(ctx, l.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return v, nil
}

type transaction struct {
	ledger *Ledger
	rtx    *redis.Tx
	ws     *ledger.WriteSet
}

func (t *transaction) TxID() string {
	return t.ws.TxID()
}

func (t *transaction) GetState(ctx context.Context, key string) ([]byte, error) {
	if v, ok := t.ws.Lookup(key); ok {
		return v, nil
	}
	if err := t.rtx.Watch(ctx, t.ledger.prefix+key).Err(); err != nil {
		return nil, fmt.Errorf("redis watch: %w", err)
	}
	return t.ledger.get(ctx, t.rtx, key)
}

func (t *transaction) PutState(_ context.Context, key string, value []byte) error {
	return t.ws.Put(key, value)
}

func (t *transaction) SetEvent(name string, payload []byte) error {
	return t.ws.AddEvent(name, payload)
}

// snapshot serves Evaluate. Reads go straight to Redis; writes fail.
type snapshot struct {
	ledger *Ledger
	ws     *ledger.WriteSet
}

func (s *snapshot) TxID() string {
	return s.ws.TxID()
}

func (s *snapshot) GetState(ctx context.Context, key string) ([]byte, error) {
	return s.ledger.get(ctx, s.ledger.client, key)
}

func (s *snapshot) PutState(_ context.Context, key string, value []byte) error {
	return s.ws.Put(key, value)
}

func (s *snapshot) SetEvent(name string, payload []byte) error {
	return s.ws.AddEvent(name, payload)
}
