// Package store implements the persistence layer for encoded objects.
//
// A Store is a key-value abstraction keyed by the hex identifier of an
// object's canonical encoding. Values are the encodings themselves;
// compression is applied by the store and is invisible to callers.
// Two backends are provided:
//   - LocalStore: one loose file per object, sharded like git (objects/ab/cd123...)
//   - BadgerStore: a single embedded badger database
//
// Both front reads with an LRU Cache and are safe for concurrent use.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get for a key that was never stored.
var ErrNotFound = errors.New("object not found")

// Store handles object persistence.
type Store interface {
	// Get retrieves the encoding stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores data under key. Storing an existing key is a no-op.
	Put(ctx context.Context, key string, data []byte) error

	// Has checks if an object exists.
	Has(ctx context.Context, key string) (bool, error)

	// Evict removes an object from cache (not from disk).
	Evict(key string)

	// Close releases the backend.
	Close() error
}
