package cache

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-admin/pkg/config"
)

func TestMemoryCache_GetSetExpira(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "movements:list:0:all:0:0", []byte("[]"), time.Minute))
	v, ok, err := c.Get(ctx, "movements:list:0:all:0:0")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", string(v))

	now = now.Add(2 * time.Minute)
	_, ok, err = c.Get(ctx, "movements:list:0:all:0:0")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache_DeleteByPrefix(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "movements:list:0:all:10:0", []byte("a"), time.Minute))
	require.NoError(t, c.Set(ctx, "movements:list:0:all:10:10", []byte("b"), time.Minute))
	require.NoError(t, c.Set(ctx, "products:all", []byte("c"), time.Minute))

	require.NoError(t, c.DeleteByPrefix(ctx, "movements:list:"))

	_, ok, _ := c.Get(ctx, "movements:list:0:all:10:0")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "products:all")
	assert.True(t, ok)
}

func TestNew_SinRedisUsaMemoria(t *testing.T) {
	c := New(context.Background(), config.RedisConfig{}, zerolog.Nop())
	_, isMemory := c.(*MemoryCache)
	assert.True(t, isMemory)
	assert.NoError(t, c.Close())
}

func TestMemoryCache_IncrNoExpiraYSeLeeComoTexto(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	n, err := c.Incr(ctx, "movements:gen")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = c.Incr(ctx, "movements:gen")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	now = now.Add(24 * time.Hour)
	v, ok, err := c.Get(ctx, "movements:gen")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2", string(v))

	require.NoError(t, c.Set(ctx, "otro", []byte("x"), time.Minute))
	_, err = c.Incr(ctx, "otro")
	assert.Error(t, err)
}
