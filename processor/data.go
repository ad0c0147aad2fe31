package processor

import (
	"time"
)

// Data is a processor input: a value and the instant it was produced.
type Data[T any] struct {
	Value     T         `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// NewData wraps v stamped with the current time.
func NewData[T any](v T) Data[T] {
	return Data[T]{Value: v, Timestamp: time.Now()}
}

// DataAt wraps v with an explicit timestamp.
func DataAt[T any](v T, ts time.Time) Data[T] {
	return Data[T]{Value: v, Timestamp: ts}
}

// Wrap stamps every value in values with the current time.
func Wrap[T any](values ...T) []Data[T] {
	now := time.Now()
	out := make([]Data[T], len(values))
	for i, v := range values {
		out[i] = Data[T]{Value: v, Timestamp: now}
	}
	return out
}

// Result is the outcome of applying one processor (or a whole chain) to one
// input. On failure Value equals Original and Err describes the failure.
// Results are returned by value and never modified after creation.
type Result[T any] struct {
	Original  T             `json:"original"`
	Value     T             `json:"value"`
	Success   bool          `json:"success"`
	Err       error         `json:"-"`
	Stage     string        `json:"stage,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
}

// ErrorMessage returns the failure description, or "" on success.
func (r Result[T]) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Data returns the result value as the input for a following stage,
// stamped with the current time.
func (r Result[T]) Data() Data[T] {
	return NewData(r.Value)
}

// Succeed builds a successful result for stage.
func Succeed[T any](stage string, original, value T, started time.Time) Result[T] {
	now := time.Now()
	return Result[T]{
		Original:  original,
		Value:     value,
		Success:   true,
		Stage:     stage,
		Timestamp: now,
		Duration:  now.Sub(started),
	}
}

// Fail builds a failed result for stage. Value is set to original.
func Fail[T any](stage string, original T, err error, started time.Time) Result[T] {
	now := time.Now()
	return Result[T]{
		Original:  original,
		Value:     original,
		Success:   false,
		Err:       err,
		Stage:     stage,
		Timestamp: now,
		Duration:  now.Sub(started),
	}
}
