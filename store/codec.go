package store

import (
	"fmt"

	"github.com/goccy/go-json"
)

// EncodeEntry serializes an entry for the persistent backends.
func EncodeEntry[T any](e Entry[T]) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode entry %q: %w", e.Key, err)
	}
	return data, nil
}

// DecodeEntry parses an entry written by EncodeEntry.
func DecodeEntry[T any](data []byte) (Entry[T], error) {
	var e Entry[T]
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry[T]{}, fmt.Errorf("decode entry: %w", err)
	}
	return e, nil
}
