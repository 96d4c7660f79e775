package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_UnavailableDegradesToMiss(t *testing.T) {
	ctx := context.Background()
	r := NewRedisWithClient(nil, time.Minute, nil)

	var out []string
	hit, err := r.GetJSON(ctx, "jobs:search:x", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	assert.NoError(t, r.SetJSON(ctx, "jobs:search:x", []string{"a"}, 0))
	assert.NoError(t, r.Delete(ctx, "jobs:search:x"))
	assert.NoError(t, r.DeleteByPattern(ctx, "jobs:search:*"))

	ok, err := r.SetIfNotExists(ctx, "jobs:lock:x", "1", 0)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Error(t, r.Ping(ctx))
	assert.NoError(t, r.Close())
}

func TestRedis_NilReceiver(t *testing.T) {
	var r *Redis
	hit, err := r.GetJSON(context.Background(), "k", &struct{}{})
	assert.NoError(t, err)
	assert.False(t, hit)
}
