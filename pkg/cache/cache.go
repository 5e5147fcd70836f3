// Package cache stores raw HTTP response bodies between runs.
//
// The fetcher treats the cache as an external collaborator: a hit skips the
// network entirely, a miss falls through to a single GET whose body is then
// stored. Three backends are provided:
//
//   - [FileCache]: one JSON file per entry under ~/.cache/pydocscraper/ (default)
//   - [RedisCache]: a shared Redis instance, useful when several machines scrape
//   - [NullCache]: caching disabled
//
// Keys are built with [HTTPKey] so that the backends never see raw URLs.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored data and true on a hit. Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a single entry. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry and reports how many were removed.
	Clear(ctx context.Context) (int, error)

	// Close releases backend resources.
	Close() error
}
