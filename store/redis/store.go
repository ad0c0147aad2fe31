package redis

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/typedflow/errors"
	"github.com/kbukum/typedflow/numeric"
	"github.com/kbukum/typedflow/store"
)

const backendName = "redis"

// scanCount is the COUNT hint passed to SCAN.
const scanCount = 100

// maxTxAttempts bounds optimistic transaction retries in NumericStore.Add.
const maxTxAttempts = 16

// Store is a store.Store kept in Redis. Each entry is one JSON string under
// "<client prefix>:<namespace>:<key>".
type Store[T any] struct {
	client *Client
	prefix string
	clock  func() time.Time
}

// NewStore creates a typed store under namespace, e.g. "texts".
func NewStore[T any](client *Client, namespace string) *Store[T] {
	parts := make([]string, 0, 2)
	for _, p := range []string{client.cfg.KeyPrefix, namespace} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	prefix := strings.Join(parts, ":")
	if prefix != "" {
		prefix += ":"
	}
	return &Store[T]{client: client, prefix: prefix, clock: time.Now}
}

// WithClock replaces the function used to stamp entries.
func (s *Store[T]) WithClock(clock func() time.Time) *Store[T] {
	s.clock = clock
	return s
}

func (s *Store[T]) fullKey(key string) string {
	return s.prefix + key
}

// Set writes value under key, replacing any previous entry.
func (s *Store[T]) Set(ctx context.Context, key string, value T) error {
	data, err := store.EncodeEntry(store.Entry[T]{Key: key, Value: value, Timestamp: s.clock()})
	if err != nil {
		return err
	}
	if err := s.client.rdb.Set(ctx, s.fullKey(key), data, 0).Err(); err != nil {
		return wrapErr(err)
	}
	return nil
}

// Get returns the value under key, or a NOT_FOUND error.
func (s *Store[T]) Get(ctx context.Context, key string) (T, error) {
	e, err := s.Entry(ctx, key)
	return e.Value, err
}

// Entry returns the entry under key, or a NOT_FOUND error.
func (s *Store[T]) Entry(ctx context.Context, key string) (store.Entry[T], error) {
	e, found, err := s.read(ctx, s.client.rdb, key)
	if err != nil {
		return store.Entry[T]{}, wrapErr(err)
	}
	if !found {
		return store.Entry[T]{}, errors.NotFound("key", key)
	}
	return e, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store[T]) Delete(ctx context.Context, key string) error {
	if err := s.client.rdb.Del(ctx, s.fullKey(key)).Err(); err != nil {
		return wrapErr(err)
	}
	return nil
}

// Keys returns every key in the namespace, sorted. It walks the keyspace
// with SCAN, so keys written concurrently may or may not appear.
func (s *Store[T]) Keys(ctx context.Context) ([]string, error) {
	keys := []string{}
	iter := s.client.rdb.Scan(ctx, 0, s.prefix+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, wrapErr(err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store[T]) read(ctx context.Context, c goredis.Cmdable, key string) (store.Entry[T], bool, error) {
	raw, err := c.Get(ctx, s.fullKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return store.Entry[T]{}, false, nil
	}
	if err != nil {
		return store.Entry[T]{}, false, err
	}
	e, err := store.DecodeEntry[T](raw)
	if err != nil {
		return store.Entry[T]{}, false, fmt.Errorf("key %q: %w", key, err)
	}
	return e, true, nil
}

// NumericStore is a Redis Store over numeric values with atomic Add.
type NumericStore[T numeric.Number] struct {
	*Store[T]
}

// NewNumericStore creates a numeric store under namespace.
func NewNumericStore[T numeric.Number](client *Client, namespace string) *NumericStore[T] {
	return &NumericStore[T]{Store: NewStore[T](client, namespace)}
}

// Add adds delta to the value under key. The read-modify-write runs as a
// WATCH/MULTI transaction and is retried when another writer touches the
// key first. A missing key counts as zero; on overflow nothing is written.
func (s *NumericStore[T]) Add(ctx context.Context, key string, delta T) (T, error) {
	var zero, result T
	full := s.fullKey(key)

	txf := func(tx *goredis.Tx) error {
		old, _, err := s.read(ctx, tx, key)
		if err != nil {
			return err
		}
		next, err := numeric.Add(old.Value, delta)
		if err != nil {
			return err
		}
		data, err := store.EncodeEntry(store.Entry[T]{Key: key, Value: next, Timestamp: s.clock()})
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, full, data, 0)
			return nil
		})
		if err != nil {
			return err
		}
		result = next
		return nil
	}

	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err := s.client.rdb.Watch(ctx, txf, full)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		return zero, wrapErr(err)
	}
	return zero, errors.ServiceUnavailable("redis store").
		WithDetail("key", key).
		WithCause(goredis.TxFailedErr)
}

// wrapErr passes AppErrors through, maps context errors to TIMEOUT and
// CANCELED, and reports anything else as a retryable STORAGE_ERROR.
func wrapErr(err error) error {
	if _, ok := errors.AsAppError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return errors.Timeout("redis command").WithCause(err)
	case errors.Is(err, context.Canceled):
		return errors.Canceled("redis command").WithCause(err)
	}
	return errors.StorageError(backendName, err)
}

var (
	_ store.Store[string] = (*Store[string])(nil)
	_ store.Counter[int]  = (*NumericStore[int])(nil)
)
