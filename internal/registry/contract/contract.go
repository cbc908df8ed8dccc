// Package contract runs registry operations as ledger transactions. It owns
// the concerns every operation shares: tracing, metrics, audit logging and
// translating infrastructure failures into domain errors.
//
// Role checks are not performed here. Which identities may call registrar
// operations is decided by the ledger host; contracts only record the caller.
package contract

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"regnet/internal/ledger"
	"regnet/internal/platform/metrics"
	"regnet/internal/registry/store"
	dErrors "regnet/pkg/domain-errors"
	"regnet/pkg/requestcontext"
)

// Func is the body of one operation, bound to a store over its transaction.
type Func func(ctx context.Context, st *store.Store) error

// Runner executes operations of one component.
type Runner struct {
	component string
	ledger    ledger.Ledger
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

func NewRunner(component string, l ledger.Ledger, logger *slog.Logger, m *metrics.Metrics) *Runner {
	return &Runner{
		component: component,
		ledger:    l,
		logger:    logger,
		metrics:   m,
		tracer:    otel.Tracer("regnet/internal/registry/" + component),
	}
}

// Submit runs fn as a read-write transaction. fn may run more than once when
// the ledger retries a conflict, so it must only touch the store.
func (r *Runner) Submit(ctx context.Context, operation string, fn Func) error {
	return r.run(ctx, operation, r.ledger.Submit, fn)
}

// Evaluate runs fn as a read-only query.
func (r *Runner) Evaluate(ctx context.Context, operation string, fn Func) error {
	return r.run(ctx, operation, r.ledger.Evaluate, fn)
}

func (r *Runner) run(ctx context.Context, operation string, exec func(context.Context, ledger.TxFunc) error, fn Func) error {
	ctx, span := r.tracer.Start(ctx, r.component+"."+operation,
		trace.WithAttributes(attribute.String("regnet.caller_id", requestcontext.CallerID(ctx))))
	defer span.End()

	start := time.Now()
	err := exec(ctx, func(ctx context.Context, st ledger.State) error {
		span.AddEvent("attempt", trace.WithAttributes(attribute.String("regnet.tx_id", st.TxID())))
		return fn(ctx, store.New(st))
	})
	err = translate(err)
	r.metrics.ObserveOperation(r.component, operation, start, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	}
	return err
}

// translate keeps domain errors as they are and classifies the rest.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "ledger transaction timed out")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "ledger transaction failed")
}

// Caller returns the invoking identity or Unauthorized.
func Caller(ctx context.Context) (string, error) {
	caller := requestcontext.CallerID(ctx)
	if caller == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "caller identity is required")
	}
	return caller, nil
}

// Audit writes an audit log line for a committed operation.
func (r *Runner) Audit(ctx context.Context, event string, attributes ...any) {
	if r.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit", "component", r.component)
	r.logger.InfoContext(ctx, event, args...)
}
