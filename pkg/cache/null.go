package cache

import (
	"context"
	"time"
)

var _ Cache = (*NullCache)(nil)

// NullCache backs --no-cache and the "none" backend: every lookup misses,
// so the runner reloads datasets and re-renders each view.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set drops data.
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*NullCache) Delete(context.Context, string) error { return nil }

func (*NullCache) Close() error { return nil }
