package store

import (
	"context"
	"errors"
)

// Store is a small durable key-value store the state containers persist
// through. Consumers define this interface, not the implementations.
//
// SetMany and multi-key Delete apply all their keys together: related keys
// (a session token and its profile) are never observable half-written after
// a reload.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
}

// ErrKeyNotFound is returned by Get for a key that was never set or has
// been deleted.
var ErrKeyNotFound = errors.New("key not found")
