// Package cache stores finished searches keyed on keyword and limit.
//
// Invalidation is always explicit: callers drop one key or clear everything.
// An optional TTL bounds staleness for callers that never invalidate.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Key identifies one search.
type Key struct {
	Keyword string
	Limit   int
}

func (k Key) String() string {
	return fmt.Sprintf("%d:%s", k.Limit, k.Keyword)
}

// Cache is implemented by the in-memory and Redis stores.
type Cache[V any] interface {
	Get(ctx context.Context, key Key) (V, bool, error)
	Set(ctx context.Context, key Key, value V) error
	Invalidate(ctx context.Context, key Key) error
	Clear(ctx context.Context) error
}

// Backend names accepted by New.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Options configures New.
type Options struct {
	Backend string
	TTL     time.Duration
	Redis   RedisConfig
}

// New builds the cache named by opts.Backend. BackendNone returns nil, which
// callers treat as "no caching".
func New[V any](opts Options) (Cache[V], error) {
	switch opts.Backend {
	case BackendNone:
		return nil, nil
	case "", BackendMemory:
		return NewMemory[V](opts.TTL), nil
	case BackendRedis:
		client, err := NewRedisClient(opts.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedis[V](client, opts.Redis.Prefix, opts.TTL), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", opts.Backend)
	}
}
