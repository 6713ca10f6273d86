package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/api/internal/config"
	"jobboard/api/internal/models"
)

func newTestCache(t *testing.T) (*PermissionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewPermissionCache(client, time.Minute), mr
}

func TestPermissionCacheRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, ok)

	perms := []models.Permission{{ID: "p1", Name: "Create job", APIPath: "/api/v1/jobs", Method: "POST", Module: "JOBS"}}
	require.NoError(t, c.Set(ctx, "r1", perms))

	got, ok, err := c.Get(ctx, "r1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "POST /api/v1/jobs", got[0].Key())

	assert.Equal(t, time.Minute, mr.TTL(permissionKeyPrefix+"r1"))

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPermissionCacheEmptyIsAHit(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "r-empty", nil))
	got, ok, err := c.Get(ctx, "r-empty")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPermissionCacheInvalidate(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", nil))
	require.NoError(t, c.Set(ctx, "b", nil))
	require.NoError(t, c.Invalidate(ctx, "a", "b", "missing"))
	assert.False(t, mr.Exists(permissionKeyPrefix+"a"))
	assert.False(t, mr.Exists(permissionKeyPrefix+"b"))
	assert.NoError(t, c.Invalidate(ctx))
}

func TestPermissionCacheCorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set(permissionKeyPrefix+"r1", "{not json"))

	_, ok, err := c.Get(context.Background(), "r1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRedisClientPing(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()
	assert.NoError(t, client.Ping(context.Background()).Err())
}
