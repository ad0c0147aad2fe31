package processor

import (
	"context"
	stderrors "errors"
	"math"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/kbukum/typedflow/errors"
)

func TestNumericDoubles(t *testing.T) {
	r := NewNumeric[int]().Process(context.Background(), NewData(10))
	if !r.Success || r.Value != 20 {
		t.Fatalf("result = %+v, want success with 20", r)
	}
	if r.Original != 10 || r.Stage != "double" || r.Err != nil {
		t.Errorf("result = %+v", r)
	}
}

func TestNumericTypes(t *testing.T) {
	ctx := context.Background()

	if r := NewNumeric[float64]().Process(ctx, NewData(1.25)); !r.Success || r.Value != 2.5 {
		t.Errorf("float64: %+v", r)
	}
	if r := NewNumeric[uint16]().Process(ctx, NewData(uint16(300))); !r.Success || r.Value != 600 {
		t.Errorf("uint16: %+v", r)
	}
	if r := NewNumeric[int32]().Process(ctx, NewData(int32(-7))); !r.Success || r.Value != -14 {
		t.Errorf("int32: %+v", r)
	}
}

func TestNumericOverflow(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		run  func() (bool, error)
	}{
		{"int8", func() (bool, error) {
			r := NewNumeric[int8]().Process(ctx, NewData(int8(64)))
			return r.Success, r.Err
		}},
		{"uint8", func() (bool, error) {
			r := NewNumeric[uint8]().Process(ctx, NewData(uint8(200)))
			return r.Success, r.Err
		}},
		{"int64", func() (bool, error) {
			r := NewNumeric[int64]().Process(ctx, NewData(int64(math.MaxInt64)))
			return r.Success, r.Err
		}},
		{"float64", func() (bool, error) {
			r := NewNumeric[float64]().Process(ctx, NewData(math.MaxFloat64))
			return r.Success, r.Err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := tt.run()
			if ok {
				t.Fatal("expected failure")
			}
			if !errors.IsCode(err, errors.ErrCodeOverflow) {
				t.Errorf("err = %v, want OVERFLOW", err)
			}
		})
	}
}

func TestNumericFailureKeepsOriginal(t *testing.T) {
	r := NewNumeric[int8]().Process(context.Background(), NewData(int8(100)))
	if r.Success || r.Value != 100 || r.Original != 100 {
		t.Fatalf("result = %+v", r)
	}
	if r.ErrorMessage() == "" {
		t.Error("expected an error description")
	}
}

func TestNumericNaN(t *testing.T) {
	r := NewNumeric[float64]().Process(context.Background(), NewData(math.NaN()))
	if r.Success || !errors.IsCode(r.Err, errors.ErrCodeInvalidInput) {
		t.Fatalf("result = %+v, want INVALID_INPUT", r)
	}
}

func TestOffsetAndBounded(t *testing.T) {
	ctx := context.Background()
	if r := Offset("inc", 5).Process(ctx, NewData(10)); !r.Success || r.Value != 15 {
		t.Errorf("offset: %+v", r)
	}
	b := Bounded("range", 0, 100)
	if r := b.Process(ctx, NewData(50)); !r.Success || r.Value != 50 {
		t.Errorf("bounded inside: %+v", r)
	}
	if r := b.Process(ctx, NewData(101)); r.Success || !errors.IsCode(r.Err, errors.ErrCodeInvalidInput) {
		t.Errorf("bounded outside: %+v", r)
	}
}

func TestTextUpper(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		in   string
		want string
	}{
		{"improving", "IMPROVING"},
		{"", ""},
		{"héllo wörld", "HÉLLO WÖRLD"},
		{"straße", "STRASSE"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r := NewText().Process(ctx, NewData(tt.in))
			if !r.Success || r.Value != tt.want {
				t.Errorf("upper(%q) = %+v, want %q", tt.in, r, tt.want)
			}
		})
	}
}

func TestTextLanguage(t *testing.T) {
	r := NewText(WithLanguage(language.Turkish)).Process(context.Background(), NewData("i"))
	if !r.Success || r.Value != "İ" {
		t.Errorf("turkish upper = %+v", r)
	}
}

func TestTextInvalidUTF8(t *testing.T) {
	for _, p := range []Processor[string]{NewText(), NewLower(), NewFold(), NewTrim()} {
		r := p.Process(context.Background(), NewData("ok\xff"))
		if r.Success || !errors.IsCode(r.Err, errors.ErrCodeInvalidInput) {
			t.Errorf("%s: %+v, want INVALID_INPUT", p.Name(), r)
		}
	}
}

func TestLowerAndTrim(t *testing.T) {
	ctx := context.Background()
	if r := NewLower().Process(ctx, NewData("MiXeD")); r.Value != "mixed" {
		t.Errorf("lower = %q", r.Value)
	}
	if r := NewTrim().Process(ctx, NewData("  padded \n")); r.Value != "padded" {
		t.Errorf("trim = %q", r.Value)
	}
}

func TestApplyRecoversPanic(t *testing.T) {
	p := Func("boom", func(context.Context, int) (int, error) { panic("bad state") })
	r := p.Process(context.Background(), NewData(3))
	if r.Success || r.Value != 3 {
		t.Fatalf("result = %+v", r)
	}
	if !errors.IsCode(r.Err, errors.ErrCodeProcessingFailed) {
		t.Errorf("err = %v, want PROCESSING_FAILED", r.Err)
	}
}

type panicky struct{}

func (panicky) Name() string { return "panicky" }
func (panicky) Process(context.Context, Data[int]) Result[int] { panic("direct") }

func TestRunRecoversPanic(t *testing.T) {
	r := Run[int](context.Background(), panicky{}, NewData(1))
	if r.Success || r.Stage != "panicky" || !errors.IsCode(r.Err, errors.ErrCodeProcessingFailed) {
		t.Fatalf("result = %+v", r)
	}
}

func TestApplyPlainError(t *testing.T) {
	cause := stderrors.New("disk on fire")
	p := Func("sink", func(context.Context, int) (int, error) { return 0, cause })
	r := p.Process(context.Background(), NewData(1))
	if !errors.IsCode(r.Err, errors.ErrCodeProcessingFailed) {
		t.Fatalf("err = %v", r.Err)
	}
	if !stderrors.Is(r.Err, cause) {
		t.Error("cause not preserved")
	}
	appErr, _ := errors.AsAppError(r.Err)
	if appErr.Details["stage"] != "sink" {
		t.Errorf("details = %v", appErr.Details)
	}
}

func TestApplyCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	p := Func("noop", func(_ context.Context, v int) (int, error) {
		called = true
		return v, nil
	})
	r := p.Process(ctx, NewData(1))
	if called {
		t.Error("transformation ran on a canceled context")
	}
	if r.Success || !errors.IsCode(r.Err, errors.ErrCodeCanceled) {
		t.Fatalf("result = %+v, want CANCELED", r)
	}
}

func TestStageError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      errors.ErrorCode
		retryable bool
	}{
		{"deadline", context.DeadlineExceeded, errors.ErrCodeTimeout, true},
		{"canceled", context.Canceled, errors.ErrCodeCanceled, false},
		{"plain", stderrors.New("x"), errors.ErrCodeProcessingFailed, false},
		{"overflow", errors.Overflow("multiplication"), errors.ErrCodeOverflow, false},
		{"unavailable", errors.ServiceUnavailable("redis"), errors.ErrCodeServiceUnavailable, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StageError("s", tt.err)
			if got.Code != tt.code || got.Retryable != tt.retryable {
				t.Errorf("StageError = %s retryable=%v, want %s retryable=%v", got.Code, got.Retryable, tt.code, tt.retryable)
			}
			if got.Details["stage"] != "s" {
				t.Errorf("stage detail = %v", got.Details["stage"])
			}
		})
	}
}

func TestStageErrorIdempotent(t *testing.T) {
	first := StageError("s", stderrors.New("x"))
	if StageError("s", first) != first {
		t.Error("re-classifying for the same stage should return the error unchanged")
	}
}

func TestWrapValues(t *testing.T) {
	in := Wrap(1, 2, 3)
	if len(in) != 3 || in[2].Value != 3 || in[0].Timestamp.IsZero() {
		t.Fatalf("Wrap = %+v", in)
	}
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if d := DataAt("x", ts); !d.Timestamp.Equal(ts) {
		t.Errorf("DataAt timestamp = %v", d.Timestamp)
	}
}

func TestResultData(t *testing.T) {
	r := Succeed("s", 1, 2, time.Now())
	d := r.Data()
	if d.Value != 2 || d.Timestamp.IsZero() {
		t.Errorf("Data() = %+v", d)
	}
	if r.ErrorMessage() != "" {
		t.Errorf("ErrorMessage on success = %q", r.ErrorMessage())
	}
}
