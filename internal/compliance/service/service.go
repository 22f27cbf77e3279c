// Package service orchestrates late-submission statistics and grants over the
// compliance ports.
package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"reviewcycle/internal/compliance/metrics"
	dErrors "reviewcycle/pkg/domain-errors"
	"reviewcycle/pkg/platform/audit"
	"reviewcycle/pkg/platform/tx"
	"reviewcycle/pkg/requestcontext"
)

var tracer = otel.Tracer("reviewcycle/compliance/service")

type options struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	tx      tx.Runner
	auditor audit.Store
}

// Option configures either service.
type Option func(*options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTxRunner serializes grant and revoke per (cycle, employee). Use the
// Postgres runner with Postgres stores.
func WithTxRunner(r tx.Runner) Option {
	return func(o *options) { o.tx = r }
}

func WithAuditStore(a audit.Store) Option {
	return func(o *options) { o.auditor = a }
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tx == nil {
		o.tx = tx.NewShardedRunner()
	}
	return o
}

// endSpan records err on span, if any, and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	}
	span.End()
}

// emitAudit logs the event and appends it to the audit store when one is set.
func emitAudit(ctx context.Context, o options, event audit.Event) error {
	event.RequestID = requestcontext.RequestID(ctx)
	event.ActorID = requestcontext.Actor(ctx)
	event = event.Normalize(requestcontext.Now(ctx))

	o.logger.InfoContext(ctx, event.Action,
		"event", event.Action,
		"log_type", "audit",
		"cycle_id", event.CycleID,
		"employee_id", event.EmployeeID,
		"subject", event.Subject,
		"decision", event.Decision,
		"reason", event.Reason,
		"request_id", event.RequestID,
	)
	if o.auditor == nil {
		return nil
	}
	if err := o.auditor.Append(ctx, event); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
	}
	return nil
}
