package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/kbukum/typedflow/logger"
	"github.com/kbukum/typedflow/observability"
	"github.com/kbukum/typedflow/processor"
	"github.com/kbukum/typedflow/resilience"
)

// Option configures a Chain.
type Option func(*options)

type options struct {
	name         string
	concurrency  int
	stageTimeout time.Duration
	retry        *resilience.RetryConfig
	log          *logger.Logger
	metrics      *observability.Metrics
	instrument   bool
}

// WithName sets the chain name used in results, logs and telemetry.
// Defaults to the stage names joined by "|".
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithConcurrency lets Run and Stream process up to n inputs at once.
// Results keep input order. n <= 1 means sequential.
func WithConcurrency(n int) Option {
	return func(o *options) { o.concurrency = n }
}

// WithStageTimeout bounds every stage call to d.
func WithStageTimeout(d time.Duration) Option {
	return func(o *options) { o.stageTimeout = d }
}

// WithRetry retries retryable stage failures. Each attempt gets its own
// stage timeout.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(o *options) { o.retry = &cfg }
}

// WithLogger logs stage outcomes at debug level and a summary per Run.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithMetrics traces and measures every stage and run. A nil m traces
// without recording metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) {
		o.metrics = m
		o.instrument = true
	}
}

// Chain applies processors in order to each input. It is itself a
// processor, so chains nest.
type Chain[T any] struct {
	opts   options
	stages []processor.Processor[T]
	log    *logger.Logger
}

// NewChain builds a chain over stages, wrapping each one with the
// configured timeout, retry, logging and instrumentation.
func NewChain[T any](stages []processor.Processor[T], opts ...Option) *Chain[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.name == "" {
		names := make([]string, len(stages))
		for i, s := range stages {
			names[i] = s.Name()
		}
		o.name = strings.Join(names, "|")
		if o.name == "" {
			o.name = "empty"
		}
	}

	log := o.log
	if log == nil {
		log = logger.NewNop()
	}
	log = log.WithComponent("pipeline").WithFields(map[string]interface{}{"pipeline": o.name})

	wrapped := make([]processor.Processor[T], len(stages))
	for i, s := range stages {
		s = processor.WithTimeout(s, o.stageTimeout)
		if o.retry != nil {
			s = processor.WithRetry(s, *o.retry)
		}
		if o.log != nil {
			s = processor.WithLogging(s, log)
		}
		if o.instrument {
			s = processor.Instrument(s, o.metrics)
		}
		wrapped[i] = s
	}
	return &Chain[T]{opts: o, stages: wrapped, log: log}
}

// Name returns the chain name.
func (c *Chain[T]) Name() string { return c.opts.name }

// Len returns the number of stages.
func (c *Chain[T]) Len() int { return len(c.stages) }

// Process runs in through every stage, feeding each output to the next
// stage with a fresh timestamp. The first failure stops the input and that
// stage's Result is returned. When every stage succeeds the Result carries
// the last output with Original set to in.Value. An empty chain succeeds
// with the input unchanged.
func (c *Chain[T]) Process(ctx context.Context, in processor.Data[T]) processor.Result[T] {
	started := time.Now()
	cur := in
	for _, stage := range c.stages {
		r := processor.Run(ctx, stage, cur)
		if !r.Success {
			return r
		}
		cur = r.Data()
	}
	return processor.Succeed(c.opts.name, in.Value, cur.Value, started)
}

// Run processes every input and returns exactly one Result per input, in
// input order. Failures are reported in the Results, never as an error.
func (c *Chain[T]) Run(ctx context.Context, inputs []processor.Data[T]) []processor.Result[T] {
	runID := uuid.NewString()
	ctx = logger.ContextWithRunID(ctx, runID)

	var op *observability.Operation
	if c.opts.instrument {
		ctx, op = observability.StartOperation(ctx, c.opts.metrics,
			observability.SpanRun, observability.KindRun, c.opts.name,
			attribute.String(observability.AttrRunID, runID),
			attribute.Int(observability.AttrInputs, len(inputs)),
		)
	}

	started := time.Now()
	results := make([]processor.Result[T], len(inputs))
	if c.opts.concurrency <= 1 || len(inputs) < 2 {
		for i, in := range inputs {
			results[i] = c.Process(ctx, in)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(c.opts.concurrency)
		for i, in := range inputs {
			g.Go(func() error {
				results[i] = c.Process(ctx, in)
				return nil
			})
		}
		_ = g.Wait()
	}

	sum := SummaryOf(results)
	if op != nil {
		c.opts.metrics.RecordInputs(ctx, c.opts.name, sum.Succeeded, sum.Failed)
		var err error
		if ctx.Err() != nil {
			err = processor.StageError(c.opts.name, ctx.Err())
		}
		op.End(ctx, err)
	}
	c.log.WithContext(ctx).Info("Pipeline run completed", map[string]interface{}{
		logger.FieldDuration: time.Since(started).Milliseconds(),
		"inputs":             sum.Total,
		"succeeded":          sum.Succeeded,
		"failed":             sum.Failed,
	})
	return results
}

// Stream applies the chain lazily to src. With concurrency configured the
// inputs are processed by an ordered worker pool.
func (c *Chain[T]) Stream(src *Pipeline[processor.Data[T]]) *Pipeline[processor.Result[T]] {
	fn := func(ctx context.Context, in processor.Data[T]) (processor.Result[T], error) {
		return c.Process(ctx, in), nil
	}
	if c.opts.concurrency > 1 {
		return ParallelOrdered(src, c.opts.concurrency, fn)
	}
	return Map(src, fn)
}
