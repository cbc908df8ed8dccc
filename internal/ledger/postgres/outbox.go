package postgres

import (
	"context"
	"fmt"

	"regnet/internal/ledger"
)

// ClaimPending locks up to limit unpublished events, hands them to publish,
// and marks them published if publish succeeds. Rows stay pending on error so
// the next claim retries them. SKIP LOCKED lets several relays run side by side.
func (l *Ledger) ClaimPending(ctx context.Context, limit int, publish func(context.Context, []ledger.Event) error) (int, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin outbox claim: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, tx_id, name, payload, committed_at
		FROM ledger_events
		WHERE published_at IS NULL
		ORDER BY committed_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, limit)
	if err != nil {
		return 0, fmt.Errorf("query pending events: %w", err)
	}

	var events []ledger.Event
	for rows.Next() {
		var e ledger.Event
		if err := rows.Scan(&e.ID, &e.TxID, &e.Name, &e.Payload, &e.CommittedAt); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan pending event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("iterate pending events: %w", err)
	}
	rows.Close()

	if len(events) == 0 {
		return 0, nil
	}
	if err := publish(ctx, events); err != nil {
		return 0, err
	}

	for _, e := range events {
		if _, err := tx.ExecContext(ctx, `UPDATE ledger_events SET published_at = now() WHERE id = $1`, e.ID); err != nil {
			return 0, fmt.Errorf("mark event published: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit outbox claim: %w", err)
	}
	return len(events), nil
}
