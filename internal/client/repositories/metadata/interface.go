// Package metadata stores small key/value settings of the client cache,
// such as the per-install salt used to seal cached tokens.
package metadata

import (
	"context"
)

// Repository is a key/value store for cache settings.
type Repository interface {
	// Get returns the value stored under key, or common.ErrorNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// SetIfAbsent stores value only when key is unset and returns the value
	// that is stored afterwards.
	SetIfAbsent(ctx context.Context, key string, value []byte) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
