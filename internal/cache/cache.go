// Package cache stores fetched image bytes so repeated stamps of the same
// agent do not download the avatar and logo again.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache is a byte store with per-entry expiry. A zero ttl means no expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend   string // "none", "file" or "redis"
	Dir       string
	RedisAddr string
	RedisDB   int
}

// Open returns the backend named in opts. An empty backend means none.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", "none":
		return NewNullCache(), nil
	case "file":
		return NewFileCache(opts.Dir)
	case "redis":
		return NewRedisCache(ctx, opts.RedisAddr, opts.RedisDB)
	}
	return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ImageKey is the cache key for the bytes behind an image URL.
func ImageKey(url string) string {
	return "img:" + Hash([]byte(url))
}
