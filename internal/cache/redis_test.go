package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T) (RouteCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewRedisCache(mr.Addr(), "", "test"), mr
}

func TestRedisCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)

	_, ok, err := c.Get(ctx, "/dashboard/invoices", "q=|p=1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "/dashboard/invoices", "q=|p=1", "page-one", time.Minute))

	val, ok, err := c.Get(ctx, "/dashboard/invoices", "q=|p=1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "page-one", val)

	// No counter yet, so the entry lives under generation 0.
	assert.False(t, mr.Exists("test:route:/dashboard/invoices:gen"))
	assert.True(t, mr.Exists("test:route:/dashboard/invoices:0:q=|p=1"))
	assert.Equal(t, time.Minute, mr.TTL("test:route:/dashboard/invoices:0:q=|p=1"))
}

func TestRedisCache_InvalidateDropsEveryVariant(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)

	require.NoError(t, c.Set(ctx, "/dashboard/invoices", "q=|p=1", "a", 0))
	require.NoError(t, c.Set(ctx, "/dashboard/invoices", "q=lee|p=2", "b", 0))
	require.NoError(t, c.Set(ctx, "/dashboard/customers", "all", "c", 0))

	require.NoError(t, c.Invalidate(ctx, "/dashboard/invoices"))

	gen, err := mr.Get("test:route:/dashboard/invoices:gen")
	require.NoError(t, err)
	assert.Equal(t, "1", gen)

	_, ok, _ := c.Get(ctx, "/dashboard/invoices", "q=|p=1")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "/dashboard/invoices", "q=lee|p=2")
	assert.False(t, ok)
	val, ok, _ := c.Get(ctx, "/dashboard/customers", "all")
	assert.True(t, ok, "other paths are untouched")
	assert.Equal(t, "c", val)
}

func TestRedisCache_SetAfterInvalidateUsesNewGeneration(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)

	require.NoError(t, c.Invalidate(ctx, "/dashboard/invoices"))
	require.NoError(t, c.Invalidate(ctx, "/dashboard/invoices"))
	require.NoError(t, c.Set(ctx, "/dashboard/invoices", "q=|p=1", "fresh", 0))

	assert.True(t, mr.Exists("test:route:/dashboard/invoices:2:q=|p=1"))

	val, ok, err := c.Get(ctx, "/dashboard/invoices", "q=|p=1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "fresh", val)
}

func TestRedisCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)

	require.NoError(t, c.Set(ctx, "/p", "k", "v", 30*time.Second))

	mr.FastForward(29 * time.Second)
	_, ok, _ := c.Get(ctx, "/p", "k")
	assert.True(t, ok)

	mr.FastForward(time.Second)
	_, ok, _ = c.Get(ctx, "/p", "k")
	assert.False(t, ok)
}

func TestRedisCache_ServerDown(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)
	mr.Close()

	_, ok, err := c.Get(ctx, "/dashboard/invoices", "k")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, c.Invalidate(ctx, "/dashboard/invoices"))
}
