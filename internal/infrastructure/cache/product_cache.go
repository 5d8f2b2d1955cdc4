// Package cache caché de lectura del detalle de producto sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Costeo-api/internal/application/ports"
)

var _ ports.ProductCache = (*ProductCache)(nil)

const (
	keyPrefix     = "costeo:product:"
	versionPrefix = "costeo:product-version:"
)

// setIfVersion escribe KEYS[1] solo si el contador KEYS[2] sigue en ARGV[1].
var setIfVersion = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[2]) or '0')
if current ~= tonumber(ARGV[1]) then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// ProductCache guarda el detalle de producto como JSON con TTL. Con cliente nil no hace nada.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProductCache construye la caché.
func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ProductCache{client: client, ttl: ttl}
}

// NewClient cliente Redis; addr vacío devuelve nil (caché deshabilitada).
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// Get deserializa el valor en dst e informa si la clave existía.
func (c *ProductCache) Get(ctx context.Context, productID string, dst any) (bool, error) {
	if c == nil || c.client == nil || productID == "" {
		return false, nil
	}
	data, err := c.client.Get(ctx, keyPrefix+productID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// Version contador de invalidaciones del producto; 0 si nunca se invalidó.
func (c *ProductCache) Version(ctx context.Context, productID string) (int64, error) {
	if c == nil || c.client == nil || productID == "" {
		return 0, nil
	}
	v, err := c.client.Get(ctx, versionPrefix+productID).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Set serializa v como JSON con el TTL configurado. Si el producto se invalidó después
// de leer version, no escribe nada.
func (c *ProductCache) Set(ctx context.Context, productID string, version int64, v any) error {
	if c == nil || c.client == nil || productID == "" {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	keys := []string{keyPrefix + productID, versionPrefix + productID}
	return setIfVersion.Run(ctx, c.client, keys, version, data, c.ttl.Milliseconds()).Err()
}

// Invalidate elimina las entradas de los productos indicados e incrementa su versión.
func (c *ProductCache) Invalidate(ctx context.Context, productIDs ...string) error {
	if c == nil || c.client == nil || len(productIDs) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range productIDs {
			pipe.Del(ctx, keyPrefix+id)
			pipe.Incr(ctx, versionPrefix+id)
		}
		return nil
	})
	return err
}
