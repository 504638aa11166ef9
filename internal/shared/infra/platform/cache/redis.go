package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const scanBatch = 100

// RedisCache guarda las vistas serializadas en JSON bajo un prefijo común.
type RedisCache struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
}

var _ Cache = (*RedisCache)(nil)

func NewRedisCache(client *redis.Client, prefix string, defaultTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, defaultTTL: defaultTTL}
}

func (c *RedisCache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, val any, ttlSecs int) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	ttl := c.defaultTTL
	if ttlSecs > 0 {
		ttl = time.Duration(ttlSecs) * time.Second
	}
	return c.client.Set(ctx, c.key(key), data, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

// DeleteByPrefix recorre con SCAN para no bloquear Redis con KEYS.
func (c *RedisCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	iter := c.client.Scan(ctx, 0, c.key(prefix)+"*", scanBatch).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) == 0 {
		return nil
	}
	return c.client.Del(ctx, batch...).Err()
}

// Ping comprueba la conexión al arrancar.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
