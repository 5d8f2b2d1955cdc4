package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	ID        string `json:"id"`
	CostTotal string `json:"cost_total"`
}

func newCache(t *testing.T) (*ProductCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewProductCache(client, time.Minute), mr
}

func TestProductCache_SetGetInvalidate(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	var got payload
	ok, err := c.Get(ctx, "cake", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "cake", 0, payload{ID: "cake", CostTotal: "18"}))
	assert.True(t, mr.Exists("costeo:product:cake"))

	ok, err = c.Get(ctx, "cake", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "18", got.CostTotal)

	require.NoError(t, c.Set(ctx, "bread", 0, payload{ID: "bread"}))
	require.NoError(t, c.Invalidate(ctx, "cake", "bread"))
	assert.False(t, mr.Exists("costeo:product:cake"))
	assert.False(t, mr.Exists("costeo:product:bread"))
}

// Una lectura de BD anterior a la invalidación no debe volver a poblar la caché.
func TestProductCache_SetConVersionVencidaNoEscribe(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	before, err := c.Version(ctx, "cake")
	require.NoError(t, err)
	assert.Zero(t, before)

	require.NoError(t, c.Invalidate(ctx, "cake"))
	after, err := c.Version(ctx, "cake")
	require.NoError(t, err)
	assert.Equal(t, int64(1), after)

	require.NoError(t, c.Set(ctx, "cake", before, payload{ID: "cake", CostTotal: "18"}))
	assert.False(t, mr.Exists("costeo:product:cake"), "valor viejo descartado")

	require.NoError(t, c.Set(ctx, "cake", after, payload{ID: "cake", CostTotal: "20"}))
	var got payload
	ok, err := c.Get(ctx, "cake", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "20", got.CostTotal)
	assert.Equal(t, time.Minute, mr.TTL("costeo:product:cake"))
}

func TestProductCache_TTL(t *testing.T) {
	c, mr := newCache(t)
	require.NoError(t, c.Set(context.Background(), "cake", 0, payload{ID: "cake"}))
	mr.FastForward(2 * time.Minute)
	ok, err := c.Get(context.Background(), "cake", &payload{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProductCache_SinClienteNoHaceNada(t *testing.T) {
	c := NewProductCache(nil, 0)
	ctx := context.Background()
	ok, err := c.Get(ctx, "cake", &payload{})
	assert.NoError(t, err)
	assert.False(t, ok)
	v, err := c.Version(ctx, "cake")
	assert.NoError(t, err)
	assert.Zero(t, v)
	assert.NoError(t, c.Set(ctx, "cake", v, payload{}))
	assert.NoError(t, c.Invalidate(ctx, "cake"))

	client, err := NewClient(ctx, "", "", 0)
	assert.NoError(t, err)
	assert.Nil(t, client)
}
