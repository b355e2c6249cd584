// Package kvstore persists named JSON collections to a pluggable key-value backend.
package kvstore

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by a Backend when the key was never written
var ErrKeyNotFound = errors.New("key not found")

// Backend is a durable byte store addressed by string keys
type Backend interface {
	// Get returns ErrKeyNotFound for absent keys
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete of an absent key is not an error
	Delete(ctx context.Context, key string) error
	Close() error
	// Name identifies the backend in logs and metrics
	Name() string
}
