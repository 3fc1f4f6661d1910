package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type setCall struct {
	key string
	ttl time.Duration
}

type fakeStore struct {
	sets    []setCall
	keys    map[string]bool
	failErr error
}

func (f *fakeStore) Set(_ context.Context, key string, _ any, ttl time.Duration) *redis.StatusCmd {
	if f.failErr != nil {
		return redis.NewStatusResult("", f.failErr)
	}
	f.sets = append(f.sets, setCall{key: key, ttl: ttl})
	f.keys[key] = true
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeStore) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	if f.failErr != nil {
		return redis.NewIntResult(0, f.failErr)
	}
	var n int64
	for _, k := range keys {
		if f.keys[k] {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func fixedNow() time.Time { return time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC) }

func TestTokenDenylist_RevokeKeepsKeyUntilExpiry(t *testing.T) {
	store := &fakeStore{keys: map[string]bool{}}
	d := newTokenDenylist(store, fixedNow)
	ctx := context.Background()

	require.NoError(t, d.Revoke(ctx, "jti-1", fixedNow().Add(90*time.Minute)))

	require.Equal(t, []setCall{{key: "revoked:jti-1", ttl: 90 * time.Minute}}, store.sets)

	revoked, err := d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, revoked)

	revoked, err = d.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestTokenDenylist_ExpiredTokenIsNotStored(t *testing.T) {
	store := &fakeStore{keys: map[string]bool{}}
	d := newTokenDenylist(store, fixedNow)

	require.NoError(t, d.Revoke(context.Background(), "old", fixedNow().Add(-time.Second)))
	require.NoError(t, d.Revoke(context.Background(), "now", fixedNow()))
	require.Empty(t, store.sets)
}

func TestTokenDenylist_StoreErrors(t *testing.T) {
	boom := errors.New("connection reset")
	d := newTokenDenylist(&fakeStore{keys: map[string]bool{}, failErr: boom}, fixedNow)
	ctx := context.Background()

	require.ErrorIs(t, d.Revoke(ctx, "jti", fixedNow().Add(time.Hour)), boom)

	_, err := d.IsRevoked(ctx, "jti")
	require.ErrorIs(t, err, boom)
}
