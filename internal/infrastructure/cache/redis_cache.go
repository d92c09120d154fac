// Package cache implementa la caché de listados de movimientos (Redis o memoria).
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-admin/internal/application/inventory"
	"github.com/jhoicas/inventario-admin/pkg/config"
)

var (
	_ inventory.ListingCache = (*RedisCache)(nil)
	_ inventory.ListingCache = (*MemoryCache)(nil)
)

// Cache es la caché de listados con cierre de recursos.
type Cache interface {
	inventory.ListingCache
	Close() error
}

// New devuelve una RedisCache si REDIS_ADDR está configurado y responde al PING;
// en otro caso una MemoryCache local al proceso.
func New(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) Cache {
	if !cfg.Enabled() {
		log.Info().Msg("caché en memoria: REDIS_ADDR vacío")
		return NewMemoryCache()
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("redis no disponible, caché en memoria")
		_ = client.Close()
		return NewMemoryCache()
	}
	log.Info().Str("addr", cfg.Addr).Int("db", cfg.DB).Msg("caché redis inicializada")
	return NewRedisCache(client)
}

// RedisCache caché sobre go-redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache envuelve un cliente ya construido.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// DeleteByPrefix recorre las claves con SCAN (no bloquea el servidor como KEYS) y las borra.
func (c *RedisCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan %s*: %w", prefix, err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del %s*: %w", prefix, err)
	}
	return nil
}

// Incr incrementa un contador sin expiración (INCR es atómico en el servidor).
func (c *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", key, err)
	}
	return n, nil
}

func (c *RedisCache) Close() error { return c.client.Close() }

// MemoryCache caché local con expiración perezosa; para desarrollo y un solo proceso.
type MemoryCache struct {
	mu   sync.Mutex
	data map[string]memEntry
	now  func() time.Time
}

// memEntry con expiresAt cero no expira.
type memEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryCache construye una caché vacía.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string]memEntry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.data[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		delete(c.data, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = memEntry{value: value, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *MemoryCache) DeleteByPrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

// Incr guarda el contador como texto decimal, igual que Redis.
func (c *MemoryCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	if e, ok := c.data[key]; ok {
		v, err := strconv.ParseInt(string(e.value), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("incr %s: valor no entero", key)
		}
		n = v
	}
	n++
	c.data[key] = memEntry{value: []byte(strconv.FormatInt(n, 10))}
	return n, nil
}

func (c *MemoryCache) Close() error { return nil }
