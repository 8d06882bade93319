// Package cache stores encoded label artifacts between runs.
//
// PDF and PNG exports go through an external converter, which dominates
// render time. The exporter keys each artifact by a fingerprint of the
// render pass plus the export options, so re-printing an unchanged sheet is
// served from the cache.
//
// Backends:
//   - [FileCache]: hashed JSON entries under a local directory (CLI default)
//   - [RedisCache]: shared cache for preview servers behind a load balancer
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional per-entry expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DefaultTTL is the lifetime of cached artifacts.
const DefaultTTL = 7 * 24 * time.Hour
