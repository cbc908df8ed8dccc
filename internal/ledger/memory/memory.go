// Package memory is an in-process ledger backend with multi-version
// concurrency control: each transaction records the version of every key it
// reads and commit fails with sentinel.ErrConflict if any of them moved.
package memory

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"regnet/internal/ledger"
	"regnet/pkg/platform/sentinel"
)

const backendName = "memory"

type versioned struct {
	value   []byte
	version uint64
}

// Ledger keeps world state in a map guarded by a RWMutex. Transaction bodies
// run without holding the lock; only reads and the validate-and-apply commit
// step take it.
type Ledger struct {
	mu    sync.RWMutex
	state map[string]versioned
	cfg   ledger.Config
}

// New constructs an empty in-memory ledger.
func New(opts ...ledger.Option) *Ledger {
	return &Ledger{
		state: make(map[string]versioned),
		cfg:   ledger.NewConfig(opts...),
	}
}

func (l *Ledger) Submit(ctx context.Context, fn ledger.TxFunc) error {
	ctx, cancel := l.cfg.WithDeadline(ctx)
	defer cancel()
	return ledger.Retry(ctx, l.cfg, backendName, func(ctx context.Context) error {
		return l.runOnce(ctx, fn, false)
	})
}

func (l *Ledger) Evaluate(ctx context.Context, fn ledger.TxFunc) error {
	ctx, cancel := l.cfg.WithDeadline(ctx)
	defer cancel()
	return l.runOnce(ctx, fn, true)
}

// Len reports how many keys hold a value.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.state)
}

func (l *Ledger) runOnce(ctx context.Context, fn ledger.TxFunc, readOnly bool) error {
	tx := &transaction{
		ledger: l,
		ws:     ledger.NewWriteSet(uuid.NewString(), readOnly),
		reads:  make(map[string]uint64),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if readOnly || tx.ws.Empty() {
		return nil
	}

	if err := l.commit(tx); err != nil {
		return err
	}
	ledger.DeliverCommitted(ctx, l.cfg, tx.ws.Events(time.Now()))
	return nil
}

func (l *Ledger) commit(tx *transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, readVersion := range tx.reads {
		if l.state[key].version != readVersion {
			return sentinel.ErrConflict
		}
	}
	for _, w := range tx.ws.Writes() {
		current := l.state[w.Key]
		l.state[w.Key] = versioned{value: w.Value, version: current.version + 1}
	}
	return nil
}

type transaction struct {
	ledger *Ledger
	ws     *ledger.WriteSet
	reads  map[string]uint64
}

func (t *transaction) TxID() string {
	return t.ws.TxID()
}

func (t *transaction) GetState(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if v, ok := t.ws.Lookup(key); ok {
		return v, nil
	}

	t.ledger.mu.RLock()
	entry, ok := t.ledger.state[key]
	t.ledger.mu.RUnlock()

	if _, seen := t.reads[key]; !seen {
		t.reads[key] = entry.version
	}
	if !ok {
		return nil, nil
	}
	return bytes.Clone(entry.value), nil
}

func (t *transaction) PutState(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.ws.Put(key, value)
}

func (t *transaction) SetEvent(name string, payload []byte) error {
	return t.ws.AddEvent(name, payload)
}
