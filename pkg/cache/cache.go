// Package cache provides byte-level caching for platform API responses.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON envelopes on disk, used by the CLI by default
//   - [RedisCache]: a shared Redis instance, for teams pointing several
//     operators at the same platform
//   - [NullCache]: stores nothing, selected with --no-cache
//
// Keys are built by a [Keyer] so that every backend agrees on naming, and a
// [ScopedKeyer] isolates entries per API endpoint so that switching
// between a local development server and production never mixes data.
//
// Only listings that tolerate staleness are cached (the space list used by
// selectors and the hierarchy view). Anchor lists are never cached: the
// editor always works on a fresh snapshot of the selected space.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads with an optional time-to-live.
type Cache interface {
	// Get returns the cached data and true on a hit. Expired entries are
	// reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)
