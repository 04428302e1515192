package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/lironatar/TasksList/internal/cache"
)

func TestTokenRevokerLifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := cache.NewRedisStore(context.Background(), cache.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	current := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	revoker := NewTokenRevoker(store)
	revoker.now = func() time.Time { return current }
	ctx := context.Background()

	revoked, err := revoker.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, revoker.Revoke(ctx, "jti-1", current.Add(time.Minute)))
	revoked, err = revoker.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = revoker.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestTokenRevokerSkipsExpiredTokens(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := cache.NewRedisStore(context.Background(), cache.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	revoker := NewTokenRevoker(store)
	require.NoError(t, revoker.Revoke(context.Background(), "old", time.Now().Add(-time.Minute)))
	require.Empty(t, mr.Keys())

	require.Error(t, revoker.Revoke(context.Background(), " ", time.Now().Add(time.Minute)))
}

func TestNilTokenRevoker(t *testing.T) {
	var revoker *TokenRevoker = NewTokenRevoker(nil)
	require.Nil(t, revoker)
	require.NoError(t, revoker.Revoke(context.Background(), "x", time.Now().Add(time.Hour)))
	revoked, err := revoker.IsRevoked(context.Background(), "x")
	require.NoError(t, err)
	require.False(t, revoked)
}
