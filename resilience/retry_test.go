package resilience

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/kbukum/typedflow/errors"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		BackoffFactor:  2.0,
	}
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	calls := 0
	result, err := Retry(context.Background(), DefaultRetryConfig(), func() (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil || result != "ok" {
		t.Fatalf("got %q, %v", result, err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetry_SucceedsAfterRetry(t *testing.T) {
	calls := 0
	result, err := Retry(context.Background(), fastRetry(3), func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.Timeout("lookup")
		}
		return 42, nil
	})
	if err != nil || result != 42 {
		t.Fatalf("got %d, %v", result, err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetry_ExceedsMaxAttempts(t *testing.T) {
	calls := 0
	testErr := stderrors.New("persistent error")
	_, err := Retry(context.Background(), fastRetry(3), func() (string, error) {
		calls++
		return "", testErr
	})
	if !stderrors.Is(err, testErr) {
		t.Errorf("expected testErr, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetry_ZeroAttemptsMeansOnce(t *testing.T) {
	calls := 0
	RetryFunc(context.Background(), RetryConfig{}, func() error {
		calls++
		return errors.Timeout("x")
	})
	if calls != 1 {
		t.Errorf("expected a single attempt, got %d", calls)
	}
}

func TestRetry_RespectsContext(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 10, InitialBackoff: 100 * time.Millisecond}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	calls := 0
	_, err := Retry(ctx, cfg, func() (string, error) {
		calls++
		return "", stderrors.New("error")
	})
	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
	if calls >= 10 {
		t.Errorf("expected fewer than 10 calls, got %d", calls)
	}
}

func TestDefaultRetryIf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"timeout is retryable", errors.Timeout("stage"), true},
		{"storage is retryable", errors.StorageError("redis", stderrors.New("eof")), true},
		{"invalid input is not", errors.InvalidInput("value", "NaN"), false},
		{"overflow is not", errors.Overflow("multiplication"), false},
		{"canceled context is not", context.Canceled, false},
		{"plain error is", stderrors.New("flaky"), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DefaultRetryIf(tc.err); got != tc.want {
				t.Errorf("DefaultRetryIf(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestRetry_StopsOnNonRetryableAppError(t *testing.T) {
	calls := 0
	err := RetryFunc(context.Background(), fastRetry(5), func() error {
		calls++
		return errors.Overflow("multiplication")
	})
	if !errors.Is(err, errors.ErrOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected no retries, got %d calls", calls)
	}
}

func TestRetry_OnRetryCallback(t *testing.T) {
	var attempts []int
	cfg := fastRetry(3)
	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		attempts = append(attempts, attempt)
	}
	RetryFunc(context.Background(), cfg, func() error { return errors.Timeout("x") })
	if len(attempts) != 2 || attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("expected callbacks for attempts [1 2], got %v", attempts)
	}
}

func TestAttempts(t *testing.T) {
	cfg := Attempts(4)
	if cfg.MaxAttempts != 4 || cfg.RetryIf == nil {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestCalculateBackoff(t *testing.T) {
	cfg := RetryConfig{InitialBackoff: 100 * time.Millisecond, MaxBackoff: time.Second, BackoffFactor: 2.0}
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{5, time.Second},
	}
	for _, tc := range tests {
		if got := calculateBackoff(tc.attempt, cfg); got != tc.want {
			t.Errorf("attempt %d: got %v, want %v", tc.attempt, got, tc.want)
		}
	}

	cfg.Jitter = 0.5
	for i := 0; i < 20; i++ {
		got := calculateBackoff(2, cfg)
		if got < 100*time.Millisecond || got > 300*time.Millisecond {
			t.Fatalf("jittered backoff out of range: %v", got)
		}
	}
}
