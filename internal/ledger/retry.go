package ledger

import (
	"context"
	"errors"
	"time"

	dErrors "regnet/pkg/domain-errors"
	"regnet/pkg/platform/sentinel"
)

const conflictBackoff = 5 * time.Millisecond

// Retry runs once until it returns something other than sentinel.ErrConflict
// or the attempt bound is reached. Each attempt must be a complete transaction
// so a re-run never observes the writes of an aborted one.
func Retry(ctx context.Context, cfg Config, backend string, once func(context.Context) error) error {
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if cerr := ctx.Err(); cerr != nil {
			return dErrors.Wrap(cerr, dErrors.CodeTimeout, "transaction aborted: context cancelled")
		}

		start := time.Now()
		err = once(ctx)
		cfg.Metrics.observeTx(backend, start, err)
		if !errors.Is(err, sentinel.ErrConflict) {
			return err
		}

		cfg.Metrics.incConflict(backend)
		if cfg.Logger != nil {
			cfg.Logger.DebugContext(ctx, "ledger transaction conflict, retrying",
				"backend", backend,
				"attempt", attempt,
			)
		}

		select {
		case <-ctx.Done():
			return dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "transaction aborted: context cancelled")
		case <-time.After(time.Duration(attempt) * conflictBackoff):
		}
	}
	return dErrors.Wrap(err, dErrors.CodeConflict, "transaction aborted after repeated conflicts")
}
