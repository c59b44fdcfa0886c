package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/geoguide/internal/cache"
	"github.com/neexbeast/geoguide/internal/geo"
)

func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewCache(client), mr
}

var chennai = geo.Coordinate{Lat: 13.0827, Lng: 80.2707}

func TestCache_SetAndGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, chennai, "Chennai"))

	got, err := c.Get(ctx, chennai)
	require.NoError(t, err)
	assert.Equal(t, "Chennai", got)
}

func TestCache_Get_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	got, err := c.Get(context.Background(), chennai)
	require.NoError(t, err)
	assert.Empty(t, got, "cache miss should return empty name, nil")
}

func TestCache_NearbyCoordinatesShareKey(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, chennai, "Chennai"))
	assert.True(t, mr.Exists("location:13.083,80.271"))

	// Within the same 3-decimal bucket.
	got, err := c.Get(ctx, geo.Coordinate{Lat: 13.08268, Lng: 80.27074})
	require.NoError(t, err)
	assert.Equal(t, "Chennai", got)

	got, err = c.Get(ctx, geo.Coordinate{Lat: 13.09, Lng: 80.2707})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCache_Set_EmptyName(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, c.Set(context.Background(), chennai, ""))
	assert.Empty(t, mr.Keys())
}

func TestCache_TTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, chennai, "Chennai"))

	mr.FastForward(23 * time.Hour)
	got, err := c.Get(ctx, chennai)
	require.NoError(t, err)
	assert.Equal(t, "Chennai", got)

	mr.FastForward(2 * time.Hour)
	got, err = c.Get(ctx, chennai)
	require.NoError(t, err)
	assert.Empty(t, got, "entry should be expired after TTL")
}

func TestCache_CorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("location:13.083,80.271", "not json"))

	_, err := c.Get(context.Background(), chennai)
	require.Error(t, err)
}

func TestCache_Ping(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, c.Ping(context.Background()))

	mr.Close()
	require.Error(t, c.Ping(context.Background()))
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := cache.Connect(context.Background(), "not-a-url")
	require.Error(t, err)
}

func TestConnect_UnreachableServer(t *testing.T) {
	_, err := cache.Connect(context.Background(), "redis://localhost:19999")
	require.Error(t, err)
}

func TestConnect_OK(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := cache.Connect(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	_ = client.Close()
}
