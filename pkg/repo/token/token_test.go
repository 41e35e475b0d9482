package token

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	r "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenLifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := r.NewClient(&r.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tr := NewTokenRepoWithClient(func() *r.Client { return client })
	ctx := context.Background()

	active, err := tr.IsActive(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, tr.Register(ctx, "jti-1", 7, time.Hour))
	active, err = tr.IsActive(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, active)
	assert.Equal(t, time.Hour, mr.TTL(keyPrefix+"jti-1"))

	require.NoError(t, tr.Revoke(ctx, "jti-1"))
	active, err = tr.IsActive(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, tr.Register(ctx, "jti-2", 7, time.Minute))
	mr.FastForward(2 * time.Minute)
	active, err = tr.IsActive(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestTokenWithoutRedis(t *testing.T) {
	tr := NewTokenRepoWithClient(func() *r.Client { return nil })
	ctx := context.Background()

	require.NoError(t, tr.Register(ctx, "jti", 1, time.Hour))
	active, err := tr.IsActive(ctx, "jti")
	require.NoError(t, err)
	assert.True(t, active)
	assert.NoError(t, tr.Revoke(ctx, "jti"))
}
