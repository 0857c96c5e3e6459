// Package cache holds short-lived retrieval results keyed by request
// parameters. Writers overwrite each other; the last one wins.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque values for a fixed time-to-live.
type Cache interface {
	// Get decodes the value stored under key into dst and reports whether
	// a live entry was found.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Close() error
}
