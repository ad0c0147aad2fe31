// Package store holds values of one declared type under text keys.
//
// TypedStore is the in-memory implementation; store/bolt and store/redis
// provide persistent backends behind the same Store interface. Every backend
// reports a missing key as a NOT_FOUND AppError and never falls back to a
// zero value:
//
//	s := store.New[int]()
//	_ = s.Set(ctx, "a", 1)
//	_, err := s.Get(ctx, "c")
//	store.IsNotFound(err) // true
//
// NumericStore restricts T to numeric.Number and adds overflow-checked Add
// and Sum.
package store
