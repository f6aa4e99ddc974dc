package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// keyPrefix namespaces our entries inside a possibly shared Redis.
const keyPrefix = "geminibridge:"

// Redis is a Store backed by a Redis server, for when several adapter
// processes should share one cache. It is an adapter over the go-redis
// client, not a storage engine of its own: Redis provides persistence
// and concurrent access; this type only adds the compute-on-miss shape
// and local single-flight.
//
// Single-flight is per process — two *processes* racing on the same
// cold key can still each call compute once. That is within the
// contract's "consistency scope": the collapse guarantee is scoped to
// the store instance doing the collapsing.
type Redis struct {
	client redis.Cmdable
	ttl    time.Duration // zero means entries never expire
	group  singleflight.Group
}

// NewRedis wraps an existing go-redis client. ttl bounds how long
// computed values live; pass zero to keep them forever.
func NewRedis(client redis.Cmdable, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Get implements Store.
func (r *Redis) Get(key string, compute func() ([]byte, error)) ([]byte, bool, error) {
	ctx := context.Background()
	redisKey := keyPrefix + key

	value, err := r.client.Get(ctx, redisKey).Bytes()
	if err == nil {
		return value, true, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, false, err
	}

	type outcome struct {
		value  []byte
		cached bool
	}
	v, err, _ := r.group.Do(key, func() (any, error) {
		// Another flight (or another process) may have filled the key
		// since our first GET.
		value, err := r.client.Get(ctx, redisKey).Bytes()
		if err == nil {
			return outcome{value: value, cached: true}, nil
		}
		if !errors.Is(err, redis.Nil) {
			return nil, err
		}

		value, err = compute()
		if err != nil {
			return nil, err
		}
		if err := r.client.Set(ctx, redisKey, value, r.ttl).Err(); err != nil {
			return nil, err
		}
		return outcome{value: value, cached: false}, nil
	})
	if err != nil {
		return nil, false, err
	}
	o := v.(outcome)
	return o.value, o.cached, nil
}
