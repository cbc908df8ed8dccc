package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq" // Postgres driver

	"regnet/internal/platform/config"
)

const (
	pingAttempts = 5
	pingBackoff  = 2 * time.Second
)

// Connect opens a pool and waits for the database to accept connections.
func Connect(ctx context.Context, cfg config.PostgresConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	for attempt := 1; ; attempt++ {
		err = db.PingContext(ctx)
		if err == nil {
			return db, nil
		}
		if attempt == pingAttempts {
			break
		}
		logger.WarnContext(ctx, "waiting for postgres", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, ctx.Err()
		case <-time.After(pingBackoff):
		}
	}
	_ = db.Close()
	return nil, fmt.Errorf("ping postgres: %w", err)
}
