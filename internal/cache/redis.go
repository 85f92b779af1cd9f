package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// defaultKeyPrefix namespaces all snapshot keys in Redis to avoid collisions.
	defaultKeyPrefix = "streamly:"

	// opTimeout bounds every Redis round trip so a slow cache can never
	// stall a recommendation request for long.
	opTimeout = 2 * time.Second
)

func init() {
	Register("redis", newRedisCache)
}

// redisCache implements the Cache interface on Redis/Valkey.
//
// Snapshot caching needs far less machinery than a general LRU: the working
// set is a handful of large serialized snapshots, so each entry is stored as
// its own key with a server-side TTL and eviction is left entirely to Redis.
// There is consequently no OnEvict support for this provider.
type redisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func newRedisCache(cfg ProviderConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &redisCache{
		client: client,
		ttl:    cfg.TTL,
		prefix: defaultKeyPrefix,
	}, nil
}

func (r *redisCache) Get(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// Treat an unreachable cache as a miss; the caller falls back
			// to the store.
			return nil, false
		}
		return nil, false
	}
	return val, true
}

func (r *redisCache) Set(key string, value []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_ = r.client.Set(ctx, r.prefix+key, value, r.ttl).Err()
}

func (r *redisCache) Invalidate(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_ = r.client.Del(ctx, r.prefix+key).Err()
}

func (r *redisCache) Len() int {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var count int
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if iter.Err() != nil {
		return 0
	}
	return count
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
