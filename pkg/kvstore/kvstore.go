// Package kvstore is the durable storage boundary for the report collection:
// one serialized record held under a single key. Absence of the key means an
// empty collection.
package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no record exists under the key.
var ErrNotFound = errors.New("kvstore: key not found")

// Store holds one opaque record per key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
