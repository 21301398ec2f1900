// Package cache stores the fingerprints that make generation incremental.
//
// Each run records, per output directory, a [Manifest] of the artifacts it
// wrote: their relative path, a content fingerprint and the source files
// they were generated from. The next run compares against it to skip
// rewriting unchanged artifacts and to delete artifacts whose screens no
// longer exist.
//
// Two backends are provided: [FileCache] keeps entries under a directory
// (the CLI uses the XDG cache home) and [MemoryCache] lives only as long
// as the process, so every new process starts with a full write.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store.
type Cache interface {
	// Get returns the value stored under key. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// TTLManifest is how long a run manifest is kept. Output directories that
// have not been generated into for this long start over with a full write.
const TTLManifest = 30 * 24 * time.Hour
