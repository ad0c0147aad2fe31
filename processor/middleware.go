package processor

import (
	"context"
	"time"

	"github.com/kbukum/typedflow/errors"
	"github.com/kbukum/typedflow/logger"
	"github.com/kbukum/typedflow/observability"
	"github.com/kbukum/typedflow/resilience"
)

// Middleware wraps a processor with extra behaviour.
type Middleware[T any] func(Processor[T]) Processor[T]

// Compose applies middleware in order; the first one is the outermost.
func Compose[T any](p Processor[T], mws ...Middleware[T]) Processor[T] {
	for i := len(mws) - 1; i >= 0; i-- {
		p = mws[i](p)
	}
	return p
}

// wrapped delegates Name to the inner processor.
type wrapped[T any] struct {
	inner   Processor[T]
	process func(ctx context.Context, in Data[T]) Result[T]
}

func (w *wrapped[T]) Name() string { return w.inner.Name() }

func (w *wrapped[T]) Process(ctx context.Context, in Data[T]) Result[T] {
	return w.process(ctx, in)
}

// WithTimeout bounds each call to d. The inner processor runs in its own
// goroutine; when d expires the call fails with TIMEOUT even if the inner
// processor ignores its context. A non-positive d returns p unchanged.
func WithTimeout[T any](p Processor[T], d time.Duration) Processor[T] {
	if d <= 0 {
		return p
	}
	return &wrapped[T]{inner: p, process: func(ctx context.Context, in Data[T]) Result[T] {
		started := time.Now()
		tctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		done := make(chan Result[T], 1)
		go func() { done <- Run(tctx, p, in) }()

		select {
		case r := <-done:
			return r
		case <-tctx.Done():
			return Fail(p.Name(), in.Value, StageError(p.Name(), tctx.Err()), started)
		}
	}}
}

// WithRetry re-runs failed calls whose error is retryable according to
// cfg.RetryIf (by default: AppErrors marked retryable, such as TIMEOUT).
// The last attempt's Result is returned.
func WithRetry[T any](p Processor[T], cfg resilience.RetryConfig) Processor[T] {
	if cfg.MaxAttempts <= 1 {
		return p
	}
	return &wrapped[T]{inner: p, process: func(ctx context.Context, in Data[T]) Result[T] {
		started := time.Now()
		var (
			last      Result[T]
			attempted bool
		)
		_, err := resilience.Retry(ctx, cfg, func() (struct{}, error) {
			attempted = true
			last = Run(ctx, p, in)
			if !last.Success {
				return struct{}{}, last.Err
			}
			return struct{}{}, nil
		})
		if err != nil && (!attempted || err != last.Err) {
			// ctx ended before an attempt or during backoff.
			return Fail(p.Name(), in.Value, StageError(p.Name(), err), started)
		}
		return last
	}}
}

// WithCircuitBreaker fails calls fast with SERVICE_UNAVAILABLE while cb is
// open. Only failures cb counts (retryable ones by default) open it.
func WithCircuitBreaker[T any](p Processor[T], cb *resilience.CircuitBreaker) Processor[T] {
	return &wrapped[T]{inner: p, process: func(ctx context.Context, in Data[T]) Result[T] {
		started := time.Now()
		var r Result[T]
		err := cb.Execute(func() error {
			r = Run(ctx, p, in)
			if !r.Success {
				return r.Err
			}
			return nil
		})
		if err != nil && r.Err == nil {
			return Fail(p.Name(), in.Value, StageError(p.Name(), err), started)
		}
		return r
	}}
}

// WithLogging logs every call at debug level and failures at warn level.
func WithLogging[T any](p Processor[T], log *logger.Logger) Processor[T] {
	if log == nil {
		return p
	}
	return &wrapped[T]{inner: p, process: func(ctx context.Context, in Data[T]) Result[T] {
		r := Run(ctx, p, in)
		fields := map[string]interface{}{
			logger.FieldStage:    p.Name(),
			logger.FieldDuration: r.Duration.Milliseconds(),
		}
		l := log.WithContext(ctx)
		if r.Success {
			l.Debug("Stage completed", fields)
			return r
		}
		if appErr, ok := errors.AsAppError(r.Err); ok {
			fields["code"] = string(appErr.Code)
		}
		fields[logger.FieldError] = r.ErrorMessage()
		l.Warn("Stage failed", fields)
		return r
	}}
}

// Instrument traces each call as a pipeline.stage span and records stage
// metrics. metrics may be nil to trace only.
func Instrument[T any](p Processor[T], metrics *observability.Metrics) Processor[T] {
	return &wrapped[T]{inner: p, process: func(ctx context.Context, in Data[T]) Result[T] {
		sctx, op := observability.StartOperation(ctx, metrics,
			observability.SpanStage, observability.KindStage, p.Name())
		r := Run(sctx, p, in)
		var err error
		if !r.Success {
			err = r.Err
		}
		op.End(sctx, err)
		return r
	}}
}

// Delay waits d before each call, simulating a slow external dependency.
// The wait ends early, as a failure, when ctx is done.
func Delay[T any](p Processor[T], d time.Duration) Processor[T] {
	return &wrapped[T]{inner: p, process: func(ctx context.Context, in Data[T]) Result[T] {
		started := time.Now()
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Fail(p.Name(), in.Value, StageError(p.Name(), ctx.Err()), started)
		case <-timer.C:
		}
		return Run(ctx, p, in)
	}}
}
