package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCache versions each path with a generation counter. Invalidate bumps
// the counter so older entries become unreachable and expire on their TTL.
type redisCache struct {
	client    *redis.Client
	namespace string
}

func NewRedisCache(addr, password, namespace string) RouteCache {
	return &redisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		namespace: namespace,
	}
}

func (r *redisCache) Get(ctx context.Context, path, key string) (string, bool, error) {
	gen, err := r.generation(ctx, path)
	if err != nil {
		return "", false, err
	}

	val, err := r.client.Get(ctx, r.entryKey(path, gen, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache: get %s %q: %w", path, key, err)
	}
	return val, true, nil
}

func (r *redisCache) Set(ctx context.Context, path, key, value string, ttl time.Duration) error {
	gen, err := r.generation(ctx, path)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.entryKey(path, gen, key), value, ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s %q: %w", path, key, err)
	}
	return nil
}

func (r *redisCache) Invalidate(ctx context.Context, path string) error {
	if err := r.client.Incr(ctx, r.generationKey(path)).Err(); err != nil {
		return fmt.Errorf("cache: invalidate %s: %w", path, err)
	}
	return nil
}

func (r *redisCache) generation(ctx context.Context, path string) (int64, error) {
	gen, err := r.client.Get(ctx, r.generationKey(path)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache: generation of %s: %w", path, err)
	}
	return gen, nil
}

func (r *redisCache) generationKey(path string) string {
	return fmt.Sprintf("%s:route:%s:gen", r.namespace, path)
}

func (r *redisCache) entryKey(path string, gen int64, key string) string {
	return fmt.Sprintf("%s:route:%s:%d:%s", r.namespace, path, gen, key)
}
