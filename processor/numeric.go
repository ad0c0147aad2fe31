package processor

import (
	"context"
	"fmt"

	"github.com/kbukum/typedflow/errors"
	"github.com/kbukum/typedflow/numeric"
)

// NewNumeric returns the "double" processor: it multiplies the value by two.
// Results that do not fit T fail with OVERFLOW and NaN input fails with
// INVALID_INPUT; nothing wraps or saturates.
func NewNumeric[T numeric.Number]() Processor[T] {
	return Scale[T]("double", 2)
}

// Scale returns a processor multiplying the value by factor.
func Scale[T numeric.Number](name string, factor T) Processor[T] {
	return Func(name, func(_ context.Context, v T) (T, error) {
		if numeric.IsNaN(v) {
			return v, errors.InvalidInput("value", "NaN is not a number")
		}
		return numeric.Mul(v, factor)
	})
}

// Offset returns a processor adding delta to the value.
func Offset[T numeric.Number](name string, delta T) Processor[T] {
	return Func(name, func(_ context.Context, v T) (T, error) {
		if numeric.IsNaN(v) {
			return v, errors.InvalidInput("value", "NaN is not a number")
		}
		return numeric.Add(v, delta)
	})
}

// Bounded returns a processor that fails values outside [lo, hi] with
// INVALID_INPUT and passes the rest through.
func Bounded[T numeric.Number](name string, lo, hi T) Processor[T] {
	return Func(name, func(_ context.Context, v T) (T, error) {
		if numeric.IsNaN(v) || v < lo || v > hi {
			return v, errors.InvalidInput("value", fmt.Sprintf("%v is outside [%v, %v]", v, lo, hi))
		}
		return v, nil
	})
}
