// Package cache stores rendered artifacts so repeated renders of an unchanged
// layout are served without drawing again.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for preview servers
//   - [NullCache]: never stores anything (the CLI default, serve --no-cache)
//
// Keys come from a [Keyer], which hashes the layout content together with the
// render options that affect output bytes.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional per-entry expiration.
type Cache interface {
	// Get returns the stored data and true on a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// TTLArtifact is how long rendered artifacts stay cached. Keys already
// change with the layout content, so the TTL only bounds disk and memory use.
const TTLArtifact = 7 * 24 * time.Hour
