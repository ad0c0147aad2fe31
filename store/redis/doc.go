// Package redis provides Redis-backed implementations of store.Store built
// on go-redis, with connection pooling and component lifecycle support.
//
//	client, err := redis.New(redis.Config{Addr: "localhost:6379"}, log)
//	texts := redis.NewStore[string](client, "texts")
//	numbers := redis.NewNumericStore[float64](client, "numbers")
//
// Entries are stored as JSON strings; a missing key (redis.Nil) is reported
// as a NOT_FOUND AppError and transport failures as STORAGE_ERROR.
package redis
