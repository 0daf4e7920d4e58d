package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMiniredisStorage(t *testing.T, ttl time.Duration) (*RedisCartStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCartStorage(client, ttl), mr
}

func TestRedisCartStorage(t *testing.T) {
	ctx := context.Background()
	key := cart.StorageKey("cart", "session-1")

	t.Run("miss returns ErrCartNotFound", func(t *testing.T) {
		s, _ := newMiniredisStorage(t, time.Hour)
		_, err := s.Load(ctx, key)
		assert.ErrorIs(t, err, cart.ErrCartNotFound)
	})

	t.Run("save then load", func(t *testing.T) {
		s, mr := newMiniredisStorage(t, time.Hour)
		require.NoError(t, s.Save(ctx, key, []byte(`[{"quantity":1}]`)))

		payload, err := s.Load(ctx, key)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"quantity":1}]`, string(payload))

		raw, err := mr.Get("cart:session-1")
		require.NoError(t, err)
		assert.Equal(t, `[{"quantity":1}]`, raw)
		assert.Equal(t, time.Hour, mr.TTL("cart:session-1"))
	})

	t.Run("expired carts are gone", func(t *testing.T) {
		s, mr := newMiniredisStorage(t, time.Minute)
		require.NoError(t, s.Save(ctx, key, []byte(`[]`)))
		mr.FastForward(2 * time.Minute)

		_, err := s.Load(ctx, key)
		assert.ErrorIs(t, err, cart.ErrCartNotFound)
	})

	t.Run("connection failure surfaces as error", func(t *testing.T) {
		s, mr := newMiniredisStorage(t, time.Hour)
		mr.Close()

		err := s.Save(ctx, key, []byte(`[]`))
		assert.Error(t, err)
		_, err = s.Load(ctx, key)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, cart.ErrCartNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		s, _ := newMiniredisStorage(t, time.Hour)
		assert.NoError(t, s.Ping(ctx))
	})
}

func TestInMemoryCartStorage(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryCartStorage()

	_, err := s.Load(ctx, "cart:a")
	assert.ErrorIs(t, err, cart.ErrCartNotFound)

	payload := []byte(`[]`)
	require.NoError(t, s.Save(ctx, "cart:a", payload))
	payload[0] = 'x'

	got, err := s.Load(ctx, "cart:a")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
	assert.Equal(t, 1, s.Len())
	assert.NoError(t, s.Ping(ctx))
	assert.NoError(t, s.Close())
}

func TestCartStorageFactory(t *testing.T) {
	t.Run("redis disabled uses memory", func(t *testing.T) {
		f := NewCartStorageFactory(config.RedisConfig{Enabled: false}, time.Hour)
		s, err := f.CreateStorage()
		require.NoError(t, err)
		assert.IsType(t, &InMemoryCartStorage{}, s)
	})

	t.Run("reachable redis is used", func(t *testing.T) {
		mr := miniredis.RunT(t)
		port, err := strconv.Atoi(mr.Port())
		require.NoError(t, err)

		f := NewCartStorageFactory(config.RedisConfig{Enabled: true, Host: mr.Host(), Port: port}, time.Hour, WithLogger(zap.NewNop()))
		s, err := f.CreateStorage()
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &RedisCartStorage{}, s)
	})

	t.Run("unreachable redis falls back", func(t *testing.T) {
		mr := miniredis.RunT(t)
		port, _ := strconv.Atoi(mr.Port())
		mr.Close()

		f := NewCartStorageFactory(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: port}, time.Hour)
		s, err := f.CreateStorage()
		require.NoError(t, err)
		assert.IsType(t, &InMemoryCartStorage{}, s)
	})

	t.Run("fallback disabled returns error", func(t *testing.T) {
		mr := miniredis.RunT(t)
		port, _ := strconv.Atoi(mr.Port())
		mr.Close()

		f := NewCartStorageFactory(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: port}, time.Hour, WithInMemoryFallback(false))
		_, err := f.CreateStorage()
		assert.Error(t, err)
	})
}
