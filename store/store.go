package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kbukum/typedflow/errors"
)

// Entry is a stored value with the instant it was written.
type Entry[T any] struct {
	Key       string    `json:"key"`
	Value     T         `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// Store is the key/value contract shared by the memory, bolt and redis
// backends. A missing key is always reported as a NOT_FOUND AppError.
type Store[T any] interface {
	Set(ctx context.Context, key string, value T) error
	Get(ctx context.Context, key string) (T, error)
	Entry(ctx context.Context, key string) (Entry[T], error)
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// Option configures a TypedStore.
type Option func(*options)

type options struct {
	clock func() time.Time
}

// WithClock sets the function used to stamp entries.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// TypedStore is an in-memory Store holding values of a single type T.
// It is safe for concurrent use: writers are exclusive, readers share.
type TypedStore[T any] struct {
	mu      sync.RWMutex
	entries map[string]Entry[T]
	clock   func() time.Time
}

// New creates an empty TypedStore.
func New[T any](opts ...Option) *TypedStore[T] {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &TypedStore[T]{
		entries: make(map[string]Entry[T]),
		clock:   o.clock,
	}
}

// Set inserts or replaces the entry for key. The previous entry, if any,
// is discarded whole.
func (s *TypedStore[T]) Set(_ context.Context, key string, value T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = Entry[T]{Key: key, Value: value, Timestamp: s.clock()}
	return nil
}

// Get returns the value stored under key, or a NOT_FOUND error.
func (s *TypedStore[T]) Get(ctx context.Context, key string) (T, error) {
	e, err := s.Entry(ctx, key)
	return e.Value, err
}

// Entry returns the full entry stored under key, or a NOT_FOUND error.
func (s *TypedStore[T]) Entry(_ context.Context, key string) (Entry[T], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return Entry[T]{}, errors.NotFound("key", key)
	}
	return e, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *TypedStore[T]) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Has reports whether key is present.
func (s *TypedStore[T]) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[key]
	return ok
}

// Len returns the number of entries.
func (s *TypedStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Keys returns all keys in ascending order.
func (s *TypedStore[T]) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys, nil
}

// Update atomically replaces the value under key with fn's result. fn sees
// the current value and whether it was present; an error from fn leaves the
// store unchanged and is returned as-is.
func (s *TypedStore[T]) Update(key string, fn func(old T, found bool) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, found := s.entries[key]
	next, err := fn(old.Value, found)
	if err != nil {
		var zero T
		return zero, err
	}
	s.entries[key] = Entry[T]{Key: key, Value: next, Timestamp: s.clock()}
	return next, nil
}

// Snapshot returns a copy of all entries.
func (s *TypedStore[T]) Snapshot() []Entry[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry[T], 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// IsNotFound reports whether err signals a missing key.
func IsNotFound(err error) bool {
	return errors.Is(err, errors.ErrNotFound)
}

var _ Store[int] = (*TypedStore[int])(nil)
