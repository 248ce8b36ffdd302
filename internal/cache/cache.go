// Package cache stores rendered route payloads and drops them when the
// underlying data changes.
package cache

import (
	"context"
	"time"
)

// RouteCache keys entries by route path plus a per-path variant key (for
// example the search query and page). Invalidate discards every variant of a
// path at once.
type RouteCache interface {
	Get(ctx context.Context, path, key string) (string, bool, error)
	Set(ctx context.Context, path, key, value string, ttl time.Duration) error
	Invalidate(ctx context.Context, path string) error
}
