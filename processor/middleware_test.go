package processor

import (
	"bytes"
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/typedflow/errors"
	"github.com/kbukum/typedflow/logger"
	"github.com/kbukum/typedflow/observability"
	"github.com/kbukum/typedflow/resilience"
)

// scripted fails with the queued errors in order, then succeeds by
// returning its input unchanged.
type scripted struct {
	name  string
	errs  []error
	calls atomic.Int32
}

func (s *scripted) Name() string { return s.name }

func (s *scripted) Process(ctx context.Context, in Data[int]) Result[int] {
	n := int(s.calls.Add(1))
	return Apply(ctx, s.name, in, func(_ context.Context, v int) (int, error) {
		if n <= len(s.errs) {
			return 0, s.errs[n-1]
		}
		return v, nil
	})
}

func fastRetry(attempts int) resilience.RetryConfig {
	cfg := resilience.Attempts(attempts)
	cfg.InitialBackoff = time.Millisecond
	cfg.MaxBackoff = 2 * time.Millisecond
	return cfg
}

func TestWithTimeoutExpires(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	slow := Func("slow", func(_ context.Context, v int) (int, error) {
		<-release // ignores ctx on purpose
		return v, nil
	})

	p := WithTimeout(slow, 20*time.Millisecond)
	if p.Name() != "slow" {
		t.Errorf("Name = %q", p.Name())
	}
	start := time.Now()
	r := p.Process(context.Background(), NewData(1))
	if r.Success || !errors.IsCode(r.Err, errors.ErrCodeTimeout) {
		t.Fatalf("result = %+v, want TIMEOUT", r)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout took %v", elapsed)
	}
	if r.Value != 1 {
		t.Errorf("Value = %d, want original", r.Value)
	}
}

func TestWithTimeoutFastStage(t *testing.T) {
	p := WithTimeout(NewNumeric[int](), time.Second)
	if r := p.Process(context.Background(), NewData(4)); !r.Success || r.Value != 8 {
		t.Fatalf("result = %+v", r)
	}
}

func TestWithTimeoutDisabled(t *testing.T) {
	inner := NewNumeric[int]()
	if WithTimeout(inner, 0) != inner {
		t.Error("non-positive timeout should return the processor unchanged")
	}
}

func TestWithRetry(t *testing.T) {
	tests := []struct {
		name      string
		errs      []error
		attempts  int
		wantOK    bool
		wantCalls int32
	}{
		{"succeeds after retryable failures", []error{errors.Timeout("x"), errors.ServiceUnavailable("y")}, 3, true, 3},
		{"gives up after max attempts", []error{errors.Timeout("x"), errors.Timeout("x"), errors.Timeout("x")}, 2, false, 2},
		{"does not retry bad input", []error{errors.InvalidInput("value", "bad")}, 3, false, 1},
		{"does not retry overflow", []error{errors.Overflow("multiplication")}, 3, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &scripted{name: "flaky", errs: tt.errs}
			r := WithRetry[int](inner, fastRetry(tt.attempts)).Process(context.Background(), NewData(7))
			if r.Success != tt.wantOK {
				t.Fatalf("Success = %v, want %v (%v)", r.Success, tt.wantOK, r.Err)
			}
			if got := inner.calls.Load(); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
			if tt.wantOK && r.Value != 7 {
				t.Errorf("Value = %d", r.Value)
			}
		})
	}
}

func TestWithRetryCanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	inner := &scripted{name: "flaky"}
	r := WithRetry[int](inner, fastRetry(3)).Process(ctx, NewData(1))
	if r.Success || !errors.IsCode(r.Err, errors.ErrCodeCanceled) {
		t.Fatalf("result = %+v, want CANCELED", r)
	}
	if inner.calls.Load() != 0 {
		t.Errorf("calls = %d, want 0", inner.calls.Load())
	}
}

func TestWithCircuitBreaker(t *testing.T) {
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name: "flaky", MaxFailures: 2, Timeout: time.Minute,
	})
	inner := &scripted{name: "flaky", errs: []error{
		errors.ServiceUnavailable("backend"), errors.ServiceUnavailable("backend"),
	}}
	p := WithCircuitBreaker[int](inner, cb)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if r := p.Process(ctx, NewData(1)); r.Success {
			t.Fatalf("call %d succeeded", i)
		}
	}
	if cb.State() != resilience.StateOpen {
		t.Fatalf("state = %v, want open", cb.State())
	}
	r := p.Process(ctx, NewData(1))
	if r.Success || !errors.Is(r.Err, resilience.ErrCircuitOpen) {
		t.Fatalf("result = %+v, want circuit open", r)
	}
	if inner.calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", inner.calls.Load())
	}
}

func TestWithCircuitBreakerIgnoresBadInput(t *testing.T) {
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{Name: "n", MaxFailures: 1})
	p := WithCircuitBreaker(NewNumeric[int8](), cb)
	for i := 0; i < 3; i++ {
		p.Process(context.Background(), NewData(int8(100)))
	}
	if cb.State() != resilience.StateClosed {
		t.Errorf("state = %v, want closed", cb.State())
	}
}

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)

	p := WithLogging(NewNumeric[int8](), log)
	if r := p.Process(context.Background(), NewData(int8(3))); !r.Success {
		t.Fatalf("result = %+v", r)
	}
	if r := p.Process(context.Background(), NewData(int8(100))); r.Success {
		t.Fatal("expected overflow")
	}

	out := buf.String()
	for _, want := range []string{"Stage completed", "Stage failed", `"stage":"double"`, `"code":"OVERFLOW"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}

func TestWithLoggingNil(t *testing.T) {
	inner := NewNumeric[int]()
	if WithLogging(inner, nil) != inner {
		t.Error("nil logger should return the processor unchanged")
	}
}

func TestInstrument(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		tp.Shutdown(context.Background())
	})

	p := Instrument(NewNumeric[int8](), nil)
	p.Process(context.Background(), NewData(int8(2)))
	p.Process(context.Background(), NewData(int8(100)))

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(spans))
	}
	for _, s := range spans {
		if s.Name != observability.SpanStage {
			t.Errorf("span name = %q", s.Name)
		}
	}
	if spans[0].Status.Code == codes.Error {
		t.Error("successful stage marked as error")
	}
	if spans[1].Status.Code != codes.Error {
		t.Errorf("failed stage status = %v", spans[1].Status.Code)
	}
}

func TestDelay(t *testing.T) {
	p := Delay(NewNumeric[int](), time.Millisecond)
	if r := p.Process(context.Background(), NewData(5)); !r.Success || r.Value != 10 {
		t.Fatalf("result = %+v", r)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	r := Delay(NewNumeric[int](), time.Minute).Process(ctx, NewData(5))
	if r.Success || !errors.IsCode(r.Err, errors.ErrCodeTimeout) {
		t.Fatalf("result = %+v, want TIMEOUT", r)
	}
}

func TestCompose(t *testing.T) {
	var order []string
	tag := func(name string) Middleware[int] {
		return func(p Processor[int]) Processor[int] {
			return &wrapped[int]{inner: p, process: func(ctx context.Context, in Data[int]) Result[int] {
				order = append(order, name)
				return p.Process(ctx, in)
			}}
		}
	}
	p := Compose(NewNumeric[int](), tag("outer"), tag("inner"))
	if r := p.Process(context.Background(), NewData(1)); r.Value != 2 {
		t.Fatalf("result = %+v", r)
	}
	if strings.Join(order, ",") != "outer,inner" {
		t.Errorf("order = %v", order)
	}
	if p.Name() != "double" {
		t.Errorf("Name = %q", p.Name())
	}
}
