// Package bolt provides bbolt-backed implementations of store.Store.
//
// One DB file holds any number of typed stores, each in its own bucket:
//
//	db, err := bolt.OpenDB("typedflow.db", bolt.Options{})
//	texts, err := bolt.NewStore[string](db, "texts")
//	numbers, err := bolt.NewNumericStore[float64](db, "numbers")
package bolt

import (
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/kbukum/typedflow/errors"
)

const backendName = "bolt"

// DefaultBucket is used when Options.Bucket is empty.
const DefaultBucket = "entries"

// Options configures a bbolt database.
type Options struct {
	// Bucket is the bucket used by Open. OpenDB ignores it.
	Bucket string `mapstructure:"bucket"`
	// Timeout bounds how long Open waits for the file lock.
	Timeout time.Duration `mapstructure:"timeout"`
	// Clock stamps new entries. Defaults to time.Now.
	Clock func() time.Time `mapstructure:"-"`
}

// DB is an open bbolt file shared by typed stores.
type DB struct {
	db    *bbolt.DB
	path  string
	clock func() time.Time
}

// OpenDB opens or creates the database file at path.
func OpenDB(path string, opts Options) (*DB, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = time.Second
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: timeout})
	if err != nil {
		return nil, errors.StorageError(backendName, fmt.Errorf("open %s: %w", path, err))
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &DB{db: db, path: path, clock: clock}, nil
}

// Path returns the database file path.
func (d *DB) Path() string { return d.path }

// Close closes the underlying database. Safe to call on a nil DB.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Ping reports whether the database can serve a read transaction.
func (d *DB) Ping() error {
	if err := d.db.View(func(*bbolt.Tx) error { return nil }); err != nil {
		return errors.StorageError(backendName, err)
	}
	return nil
}

func (d *DB) ensureBucket(bucket string) ([]byte, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}
	name := []byte(bucket)
	err := d.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(name)
		return err
	})
	if err != nil {
		return nil, errors.StorageError(backendName, fmt.Errorf("create bucket %s: %w", bucket, err))
	}
	return name, nil
}
