// Package cache stores serialized parse results.
//
// Parsing a name is cheap, but batches repeat names heavily and the HTTP API
// serves the same names to many clients. Results are cached as the exact
// output strings, keyed by the verbatim name, the options that affect the
// output and the parser version.
//
// # Backends
//
//   - [NullCache]: never stores anything (--no-cache)
//   - [FileCache]: one file per entry under the user cache directory (CLI)
//   - [MemoryCache]: in-process TTL cache (server default)
//   - [RedisCache]: shared cache for several server replicas
//   - [MongoCache]: durable shared cache with a TTL index
//
// Use [Open] to build a backend from configuration.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
// A ttl of zero stores the entry without expiration.
type Cache interface {
	// Get returns the value for key and whether it was found. A miss is not
	// an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry.
type Clearer interface {
	Clear(ctx context.Context) error
}

// ResultKeyOpts are the inputs besides the name that determine a serialized
// result.
type ResultKeyOpts struct {
	Format    string `json:"format"`
	Code      string `json:"code"`
	Details   bool   `json:"details"`
	Diaereses bool   `json:"diaereses"`
	Version   string `json:"version"`
}

// Keyer derives cache keys.
type Keyer interface {
	ResultKey(name string, opts ResultKeyOpts) string
}

// DefaultKeyer hashes the name together with all options.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey returns "result:<sha256>" over the name and options.
func (DefaultKeyer) ResultKey(name string, opts ResultKeyOpts) string {
	return hashKey("result", name, opts)
}
