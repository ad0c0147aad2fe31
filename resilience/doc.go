// Package resilience provides retry with exponential backoff and a circuit
// breaker. Both understand AppError: only errors marked retryable are
// retried or counted against the circuit by default.
//
//	cfg := resilience.Attempts(3)
//	v, err := resilience.Retry(ctx, cfg, func() (int, error) {
//	    return numbers.Get(ctx, "a")
//	})
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("redis"))
//	err := cb.Execute(func() error { return texts.Set(ctx, k, v) })
package resilience
