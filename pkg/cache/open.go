package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Backend names accepted by [Open].
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Options select and configure a cache backend.
type Options struct {
	Backend string `toml:"backend"`

	// Dir is the FileCache directory. Empty means [DefaultDir].
	Dir string `toml:"dir"`

	// URL is the Redis or MongoDB connection string.
	URL string `toml:"url"`

	// Database and Collection locate MongoCache entries.
	Database   string `toml:"database"`
	Collection string `toml:"collection"`

	// Cleanup is the MemoryCache janitor interval.
	Cleanup time.Duration `toml:"cleanup"`

	// Prefix scopes keys when several deployments share a backend.
	Prefix string `toml:"prefix"`
}

// Keyer returns the keyer for opts: the default keyer, scoped by Prefix when
// one is set.
func (o Options) Keyer() Keyer {
	if o.Prefix == "" {
		return NewDefaultKeyer()
	}
	return NewScopedKeyer(nil, o.Prefix)
}

// Open builds the backend named by opts.Backend. An empty backend is
// [BackendNone].
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		dir := opts.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		return NewFileCache(dir)
	case BackendMemory:
		return NewMemoryCache(0, opts.Cleanup), nil
	case BackendRedis:
		if opts.URL == "" {
			return nil, fmt.Errorf("redis cache: url is required")
		}
		return NewRedisCache(ctx, opts.URL)
	case BackendMongo:
		if opts.URL == "" {
			return nil, fmt.Errorf("mongo cache: url is required")
		}
		db, coll := opts.Database, opts.Collection
		if db == "" {
			db = "gnparser"
		}
		if coll == "" {
			coll = "results"
		}
		return NewMongoCache(ctx, opts.URL, db, coll)
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", opts.Backend)
	}
}

// DefaultDir returns the per-user cache directory for parse results.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("user cache dir: %w", err)
	}
	return filepath.Join(base, "gnparser", "results"), nil
}

// BackendName returns the backend name of c for logs and metric labels.
func BackendName(c Cache) string {
	switch c.(type) {
	case NullCache, *NullCache:
		return BackendNone
	case *FileCache:
		return BackendFile
	case *MemoryCache:
		return BackendMemory
	case *RedisCache:
		return BackendRedis
	case *MongoCache:
		return BackendMongo
	default:
		return fmt.Sprintf("%T", c)
	}
}
