package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/paulmach/orb"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campground-nav-service/internal/adapters/repositories"
	"campground-nav-service/internal/domain"
	"campground-nav-service/internal/platform/db"
)

func sampleRoute() domain.Route {
	return domain.Route{
		Geometry:       orb.LineString{{3.7089, 51.5891}, {3.7102, 51.5899}},
		Mode:           domain.ModeWalking,
		DistanceMeters: 127.4,
		Duration:       91 * time.Second,
		Instructions:   []string{"Head northeast", "Arrive at Beach Bar"},
		Confidence:     1,
		Source:         domain.RouteSourceORS,
	}
}

func TestSqliteRouteCache(t *testing.T) {
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, repositories.InitSchema(conn))

	c := NewSqliteRouteCache(conn)
	ctx := context.Background()
	key := "51.58910,3.70890|51.58990,3.71020|walking"

	t.Run("miss on empty table", func(t *testing.T) {
		_, hit, err := c.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, hit)
	})

	t.Run("round trip", func(t *testing.T) {
		want := sampleRoute()
		require.NoError(t, c.Put(ctx, key, want))

		got, hit, err := c.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, hit)
		assert.Equal(t, want, got)
	})

	t.Run("put replaces earlier entry", func(t *testing.T) {
		updated := sampleRoute()
		updated.DistanceMeters = 131.9
		require.NoError(t, c.Put(ctx, key, updated))

		got, hit, err := c.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, hit)
		assert.InDelta(t, 131.9, got.DistanceMeters, 1e-9)
	})

	t.Run("rejects empty key", func(t *testing.T) {
		_, _, err := c.Get(ctx, "")
		require.Error(t, err)
		require.Error(t, c.Put(ctx, "", sampleRoute()))
	})
}

func TestRedisRouteCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisRouteCache(client, time.Minute)
	ctx := context.Background()
	key := "51.58910,3.70890|51.58990,3.71020|cycling"

	t.Run("miss", func(t *testing.T) {
		_, hit, err := c.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, hit)
	})

	t.Run("round trip", func(t *testing.T) {
		want := sampleRoute()
		require.NoError(t, c.Put(ctx, key, want))

		got, hit, err := c.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, hit)
		assert.Equal(t, want, got)
	})

	t.Run("entries expire", func(t *testing.T) {
		require.NoError(t, c.Put(ctx, key, sampleRoute()))
		mr.FastForward(2 * time.Minute)

		_, hit, err := c.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, hit)
	})
}

func TestRedisRouteCacheDefaultTTL(t *testing.T) {
	c := NewRedisRouteCache(nil, 0)
	assert.Equal(t, defaultRouteTTL, c.TTL)
}
