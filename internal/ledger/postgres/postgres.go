// Package postgres stores world state in PostgreSQL. Every transaction runs at
// SERIALIZABLE isolation; serialization failures surface as
// sentinel.ErrConflict and the whole transaction function is re-run.
// Commit events are written to an outbox table in the same SQL transaction.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"regnet/internal/ledger"
	"regnet/pkg/platform/sentinel"
)

const backendName = "postgres"

// Schema creates the world state and outbox tables. Keys are BYTEA because
// composite keys contain NUL separators, which TEXT cannot hold.
const Schema = `
CREATE TABLE IF NOT EXISTS world_state (
	key        BYTEA PRIMARY KEY,
	value      BYTEA NOT NULL,
	version    BIGINT NOT NULL DEFAULT 1,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS ledger_events (
	id           UUID PRIMARY KEY,
	tx_id        TEXT NOT NULL,
	name         TEXT NOT NULL,
	payload      BYTEA NOT NULL,
	committed_at TIMESTAMPTZ NOT NULL,
	published_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS ledger_events_pending_idx
	ON ledger_events (committed_at) WHERE published_at IS NULL;
`

// Ledger is the PostgreSQL-backed ledger.
type Ledger struct {
	db  *sql.DB
	cfg ledger.Config
}

// New constructs a PostgreSQL ledger. The event sink option is ignored; events
// go to the outbox and are relayed by an outbox worker.
func New(db *sql.DB, opts ...ledger.Option) *Ledger {
	return &Ledger{db: db, cfg: ledger.NewConfig(opts...)}
}

// EnsureSchema applies Schema.
func (l *Ledger) EnsureSchema(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply ledger schema: %w", err)
	}
	return nil
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

func (l *Ledger) runOnce(ctx context.Context, fn ledger.TxFunc, readOnly bool) error {
	sqlTx, err := l.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable, ReadOnly: readOnly})
	if err != nil {
		return mapErr(err, "begin transaction")
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	tx := &transaction{sqlTx: sqlTx, ws: ledger.NewWriteSet(uuid.NewString(), readOnly)}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if readOnly || tx.ws.Empty() {
		return nil
	}

	for _, w := range tx.ws.Writes() {
		_, err := sqlTx.ExecContext(ctx, `
			INSERT INTO world_state (key, value)
			VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET
				value = EXCLUDED.value,
				version = world_state.version + 1,
				updated_at = now()
		`, []byte(w.Key), w.Value)
		if err != nil {
			return mapErr(err, "write state")
		}
	}

	for _, e := range tx.ws.Events(time.Now()) {
		_, err := sqlTx.ExecContext(ctx, `
			INSERT INTO ledger_events (id, tx_id, name, payload, committed_at)
			VALUES ($1, $2, $3, $4, $5)
		`, e.ID, e.TxID, e.Name, e.Payload, e.CommittedAt)
		if err != nil {
			return mapErr(err, "write outbox event")
		}
	}

	if err := sqlTx.Commit(); err != nil {
		return mapErr(err, "commit")
	}
	return nil
}

type transaction struct {
	sqlTx *sql.Tx
	ws    *ledger.WriteSet
}

func (t *transaction) TxID() string {
	return t.ws.TxID()
}

func (t *transaction) GetState(ctx context.Context, key string) ([]byte, error) {
	if v, ok := t.ws.Lookup(key); ok {
		return v, nil
	}
	var value []byte
	err := t.sqlTx.QueryRowContext(ctx, `SELECT value FROM world_state WHERE key = $1`, []byte(key)).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, mapErr(err, "read state")
	}
	return value, nil
}

func (t *transaction) PutState(_ context.Context, key string, value []byte) error {
	return t.ws.Put(key, value)
}

func (t *transaction) SetEvent(name string, payload []byte) error {
	return t.ws.AddEvent(name, payload)
}

// SQLSTATE classes that mean "another transaction won; re-run".
const (
	pqSerializationFailure pq.ErrorCode = "40001"
	pqDeadlockDetected     pq.ErrorCode = "40P01"
)

func mapErr(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == pqSerializationFailure || pqErr.Code == pqDeadlockDetected {
			return fmt.Errorf("%s: %w", op, errors.Join(sentinel.ErrConflict, err))
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
