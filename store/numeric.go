package store

import (
	"context"

	"github.com/kbukum/typedflow/numeric"
)

// Counter is a Store whose values can be incremented atomically. It is
// implemented by the memory, bolt and redis numeric stores.
type Counter[T numeric.Number] interface {
	Store[T]
	Add(ctx context.Context, key string, delta T) (T, error)
}

// NumericStore is a TypedStore restricted to numeric values. Instantiating
// it with a non-numeric type does not compile.
type NumericStore[T numeric.Number] struct {
	*TypedStore[T]
}

// NewNumeric creates an empty NumericStore.
func NewNumeric[T numeric.Number](opts ...Option) *NumericStore[T] {
	return &NumericStore[T]{TypedStore: New[T](opts...)}
}

// Add adds delta to the value under key, treating a missing key as zero,
// and returns the new value. On overflow the stored value is unchanged.
func (s *NumericStore[T]) Add(_ context.Context, key string, delta T) (T, error) {
	return s.Update(key, func(old T, _ bool) (T, error) {
		return numeric.Add(old, delta)
	})
}

// Sum returns the overflow-checked sum of all stored values. Only the
// total must fit T.
func (s *NumericStore[T]) Sum(_ context.Context) (T, error) {
	s.mu.RLock()
	values := make([]T, 0, len(s.entries))
	for _, e := range s.entries {
		values = append(values, e.Value)
	}
	s.mu.RUnlock()
	return numeric.Sum(values...)
}

var _ Counter[int] = (*NumericStore[int])(nil)
