package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/typedflow/errors"
)

// Operation kinds.
const (
	KindStage   = "stage"
	KindRun     = "run"
	KindRequest = "request"
)

// Operation status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Operation tracks one traced and measured unit of work.
type Operation struct {
	Kind      string
	Name      string
	StartTime time.Time

	span    trace.Span
	metrics *Metrics
}

// StartOperation starts a span named spanName and marks the operation in
// flight. metrics may be nil.
func StartOperation(ctx context.Context, metrics *Metrics, spanName, kind, name string, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, spanName, trace.WithAttributes(
		append([]attribute.KeyValue{
			attribute.String(AttrKind, kind),
			attribute.String(AttrName, name),
		}, attrs...)...,
	))
	metrics.RecordStart(ctx, kind)
	return ctx, &Operation{
		Kind:      kind,
		Name:      name,
		StartTime: time.Now(),
		span:      span,
		metrics:   metrics,
	}
}

// Span returns the operation's span.
func (o *Operation) Span() trace.Span { return o.span }

// End closes the span and records the outcome. A non-nil err marks the
// operation failed and is counted under its AppError code.
func (o *Operation) End(ctx context.Context, err error) {
	duration := time.Since(o.StartTime)
	status := StatusOK

	if err != nil {
		status = StatusError
		code := string(errors.ErrCodeInternal)
		if appErr, ok := errors.AsAppError(err); ok {
			code = string(appErr.Code)
		}
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
		o.span.SetAttributes(attribute.String(AttrErrorCode, code))
		o.metrics.RecordError(ctx, code, o.Kind)
	}

	o.span.SetAttributes(attribute.String(AttrStatus, status))
	o.span.End()
	o.metrics.RecordEnd(ctx, o.Kind, o.Name, status, duration)
}

// Duration returns the elapsed time since the operation started.
func (o *Operation) Duration() time.Duration {
	return time.Since(o.StartTime)
}
