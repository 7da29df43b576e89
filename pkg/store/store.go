// Package store provides the namespaced key-value persistence
// provider backing the engine's caches: an interface, an in-memory
// implementation, and a PostgreSQL implementation.
package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("key not found")
)

// Store defines scoped get/set/clear over opaque values. Expiry is
// time-based and enforced by callers; a Store never needs to delete
// on its own.
type Store interface {
	// Get returns the value stored under (namespace, key), or
	// ErrNotFound.
	Get(ctx context.Context, namespace, key string) ([]byte, error)

	// Set stores value under (namespace, key), fully replacing any
	// prior entry.
	Set(ctx context.Context, namespace, key string, value []byte) error

	// Clear removes every entry in a namespace.
	Clear(ctx context.Context, namespace string) error
}
