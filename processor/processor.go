package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/typedflow/errors"
)

// Processor transforms one timestamped value into a Result.
//
// Implementations must honour ctx and report failures as Result data; they
// should not panic, though every helper in this package and the pipeline
// package recovers panics and reports them as failures.
type Processor[T any] interface {
	Name() string
	Process(ctx context.Context, in Data[T]) Result[T]
}

// TransformFunc is the transformation wrapped by Func.
type TransformFunc[T any] func(ctx context.Context, v T) (T, error)

type funcProcessor[T any] struct {
	name string
	fn   TransformFunc[T]
}

// Func adapts fn into a Processor named name. Calls go through Apply.
func Func[T any](name string, fn TransformFunc[T]) Processor[T] {
	return &funcProcessor[T]{name: name, fn: fn}
}

func (p *funcProcessor[T]) Name() string { return p.name }

func (p *funcProcessor[T]) Process(ctx context.Context, in Data[T]) Result[T] {
	return Apply(ctx, p.name, in, p.fn)
}

// Apply runs fn on in.Value and stamps the outcome. A done ctx fails before
// fn runs; an error or panic from fn becomes a failed Result carrying a
// stage error (see StageError).
func Apply[T any](ctx context.Context, stage string, in Data[T], fn TransformFunc[T]) (res Result[T]) {
	started := time.Now()
	if err := ctx.Err(); err != nil {
		return Fail(stage, in.Value, StageError(stage, err), started)
	}

	defer func() {
		if rec := recover(); rec != nil {
			res = Fail(stage, in.Value, panicError(stage, rec), started)
		}
	}()

	out, err := fn(ctx, in.Value)
	if err != nil {
		return Fail(stage, in.Value, StageError(stage, err), started)
	}
	// A transformation that ignores ctx may finish after the deadline.
	if err := ctx.Err(); err != nil {
		return Fail(stage, in.Value, StageError(stage, err), started)
	}
	return Succeed(stage, in.Value, out, started)
}

// Run calls p.Process, converting a panic into a failed Result.
func Run[T any](ctx context.Context, p Processor[T], in Data[T]) (res Result[T]) {
	started := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			res = Fail(p.Name(), in.Value, panicError(p.Name(), rec), started)
		}
	}()
	return p.Process(ctx, in)
}

// StageError classifies err for stage: context deadline and cancellation
// become TIMEOUT and CANCELED, AppErrors keep their code, anything else is
// PROCESSING_FAILED.
func StageError(stage string, err error) *errors.AppError {
	if appErr, ok := errors.AsAppError(err); ok {
		if d, _ := appErr.Details["stage"].(string); d == stage {
			return appErr
		}
		return errors.Processing(stage, err)
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return errors.Timeout("stage "+stage).WithDetail("stage", stage).WithCause(err)
	case errors.Is(err, context.Canceled):
		return errors.Canceled("stage "+stage).WithDetail("stage", stage).WithCause(err)
	}
	return errors.Processing(stage, err)
}

func panicError(stage string, rec any) *errors.AppError {
	return errors.Processing(stage, fmt.Errorf("panic: %v", rec))
}
