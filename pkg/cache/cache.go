// Package cache stores rendered handwriting keyed by request.
//
// Sampling the model is the slow step of every request, so the pipeline
// keeps its output in a [Cache]. Three backends are provided:
//
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// Keys are built by a [Keyer] from a hash of every input that affects the
// output, so two requests share an entry only if they would draw the same
// document.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values by key.
type Cache interface {
	// Get returns the value for key. hit is false on a miss or an expired
	// entry; a miss is not an error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A zero ttl keeps the entry until it is
	// deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Cache TTLs.
const (
	// TTLSynthesis is how long sampled and laid-out results are kept.
	TTLSynthesis = 7 * 24 * time.Hour

	// TTLArtifact is how long rendered documents are kept.
	TTLArtifact = 7 * 24 * time.Hour
)

// Clearer is implemented by caches that can drop all their entries.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
