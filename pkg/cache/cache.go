// Package cache stores raw API responses and downloads between glow runs.
//
// Tableau metadata changes rarely compared to how often docs are rebuilt,
// so owner lookups and data source downloads are cached. Three backends
// implement [Cache]:
//
//   - [FileCache]: entries under ~/.cache/glow, the default for the CLI
//   - [RedisCache]: a shared cache for scheduled rebuilds on several hosts
//   - [NullCache]: caching disabled (--no-cache, tests)
//
// Keys are built with a [Keyer] so that every caller agrees on the layout.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss with ok=false and a nil error. A ttl of 0 means the
// entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
