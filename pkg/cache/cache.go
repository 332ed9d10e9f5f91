// Package cache stores loaded datasets and rendered dashboard artifacts.
//
// Three backends share the [Cache] interface: [NullCache] for --no-cache,
// [FileCache] for the CLI (one JSON file per entry under the XDG cache
// directory) and [RedisCache] for the HTTP server when several instances
// share a cache.
//
// Keys are produced by a [Keyer], so a server can scope entries with
// [NewScopedKeyer] without touching the callers.
package cache

import (
	"context"
	"time"
)

// TTLs per entry kind.
const (
	TTLDataset  = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
