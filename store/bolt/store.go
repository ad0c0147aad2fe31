package bolt

import (
	"context"
	"fmt"

	bbolt "go.etcd.io/bbolt"
	berrors "go.etcd.io/bbolt/errors"

	"github.com/kbukum/typedflow/errors"
	"github.com/kbukum/typedflow/numeric"
	"github.com/kbukum/typedflow/store"
)

// Store is a store.Store persisted in one bbolt bucket. Entries are JSON
// encoded with store.EncodeEntry.
type Store[T any] struct {
	db     *DB
	bucket []byte
	owned  bool
}

// NewStore binds a typed store to bucket, creating the bucket if needed.
func NewStore[T any](db *DB, bucket string) (*Store[T], error) {
	name, err := db.ensureBucket(bucket)
	if err != nil {
		return nil, err
	}
	return &Store[T]{db: db, bucket: name}, nil
}

// Open opens the file at path and returns a store on opts.Bucket. Closing
// the store closes the file.
func Open[T any](path string, opts Options) (*Store[T], error) {
	db, err := OpenDB(path, opts)
	if err != nil {
		return nil, err
	}
	s, err := NewStore[T](db, opts.Bucket)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// Close closes the database if the store opened it.
func (s *Store[T]) Close() error {
	if s == nil || !s.owned {
		return nil
	}
	return s.db.Close()
}

// Set writes value under key, replacing any previous entry.
func (s *Store[T]) Set(ctx context.Context, key string, value T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.update(func(b *bbolt.Bucket) error {
		return s.put(b, key, value)
	})
}

// Get returns the value under key, or a NOT_FOUND error.
func (s *Store[T]) Get(ctx context.Context, key string) (T, error) {
	e, err := s.Entry(ctx, key)
	return e.Value, err
}

// Entry returns the entry under key, or a NOT_FOUND error.
func (s *Store[T]) Entry(ctx context.Context, key string) (store.Entry[T], error) {
	if err := ctx.Err(); err != nil {
		return store.Entry[T]{}, err
	}
	var (
		e     store.Entry[T]
		found bool
	)
	err := s.db.db.View(func(tx *bbolt.Tx) error {
		var err error
		e, found, err = s.read(tx.Bucket(s.bucket), key)
		return err
	})
	if err != nil {
		return store.Entry[T]{}, errors.StorageError(backendName, err)
	}
	if !found {
		return store.Entry[T]{}, errors.NotFound("key", key)
	}
	return e, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store[T]) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return nil
	}
	return s.update(func(b *bbolt.Bucket) error {
		return b.Delete([]byte(key))
	})
}

// Keys returns all keys in ascending byte order.
func (s *Store[T]) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var keys []string
	err := s.db.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(s.bucket).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, errors.StorageError(backendName, err)
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}

func (s *Store[T]) update(fn func(b *bbolt.Bucket) error) error {
	err := s.db.db.Update(func(tx *bbolt.Tx) error {
		return fn(tx.Bucket(s.bucket))
	})
	if err == nil {
		return nil
	}
	if _, ok := errors.AsAppError(err); ok {
		return err
	}
	return errors.StorageError(backendName, err)
}

func (s *Store[T]) put(b *bbolt.Bucket, key string, value T) error {
	data, err := store.EncodeEntry(store.Entry[T]{Key: key, Value: value, Timestamp: s.db.clock()})
	if err != nil {
		return err
	}
	if err := b.Put([]byte(key), data); err != nil {
		return putError(key, err)
	}
	return nil
}

// putError maps the keys and values bbolt cannot hold to INVALID_INPUT so
// they are not retried as storage failures.
func putError(key string, err error) error {
	switch {
	case errors.Is(err, berrors.ErrKeyRequired):
		return errors.InvalidInput("key", "must not be empty")
	case errors.Is(err, berrors.ErrKeyTooLarge):
		return errors.InvalidInput("key", fmt.Sprintf("exceeds %d bytes", bbolt.MaxKeySize))
	case errors.Is(err, berrors.ErrValueTooLarge):
		return errors.InvalidInput("value", fmt.Sprintf("entry for key %q is too large", key))
	}
	return err
}

func (s *Store[T]) read(b *bbolt.Bucket, key string) (store.Entry[T], bool, error) {
	raw := b.Get([]byte(key))
	if raw == nil {
		return store.Entry[T]{}, false, nil
	}
	// raw is only valid inside the transaction; DecodeEntry copies.
	e, err := store.DecodeEntry[T](raw)
	if err != nil {
		return store.Entry[T]{}, false, fmt.Errorf("key %q: %w", key, err)
	}
	return e, true, nil
}

// NumericStore is a bolt Store over numeric values with atomic Add.
type NumericStore[T numeric.Number] struct {
	*Store[T]
}

// NewNumericStore binds a numeric store to bucket.
func NewNumericStore[T numeric.Number](db *DB, bucket string) (*NumericStore[T], error) {
	s, err := NewStore[T](db, bucket)
	if err != nil {
		return nil, err
	}
	return &NumericStore[T]{Store: s}, nil
}

// Add adds delta to the value under key inside one read-write transaction.
// A missing key counts as zero; on overflow nothing is written.
func (s *NumericStore[T]) Add(ctx context.Context, key string, delta T) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	var result T
	err := s.update(func(b *bbolt.Bucket) error {
		old, _, err := s.read(b, key)
		if err != nil {
			return err
		}
		next, err := numeric.Add(old.Value, delta)
		if err != nil {
			return err
		}
		result = next
		return s.put(b, key, next)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

var (
	_ store.Store[string] = (*Store[string])(nil)
	_ store.Counter[int]  = (*NumericStore[int])(nil)
)
