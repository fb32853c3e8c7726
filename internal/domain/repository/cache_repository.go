package repository

import (
	"context"
	"time"
)

// CacheRepository is a key/value cache with expiry.
type CacheRepository interface {
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	// Get returns ErrCacheMiss when the key does not exist.
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}
