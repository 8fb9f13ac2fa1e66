// Package catalogcache fronts the backend's service catalog with a short-TTL
// redis cache. The catalog changes rarely but is read on every wizard step 2,
// so a miss or a redis outage just falls through to the gateway.
package catalogcache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pressline/counter-api/internal/gateway"
	"github.com/redis/go-redis/v9"
)

const servicesKey = "counter:catalog:services"

// Lister fetches the service catalog from the backend.
// Satisfied by *gateway.CatalogGateway.
type Lister interface {
	ListServices(ctx context.Context, token string) ([]gateway.Service, error)
}

// Cache is the key/value surface this package needs.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type redisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Cache backed by the redis instance at addr.
func NewRedisCache(addr string) Cache {
	return &redisCache{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func (r *redisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Catalog is a Lister with an optional cache in front. A nil cache disables
// caching entirely.
type Catalog struct {
	source Lister
	cache  Cache
	ttl    time.Duration
}

// New creates a cached catalog. cache may be nil.
func New(source Lister, cache Cache, ttl time.Duration) *Catalog {
	return &Catalog{source: source, cache: cache, ttl: ttl}
}

// ListServices returns the catalog, from cache when possible. The cached copy
// is shared across sessions; the catalog is not per-user data.
func (c *Catalog) ListServices(ctx context.Context, token string) ([]gateway.Service, error) {
	if c.cache == nil {
		return c.source.ListServices(ctx, token)
	}

	if raw, err := c.cache.Get(ctx, servicesKey); err == nil && raw != "" {
		var services []gateway.Service
		if err := json.Unmarshal([]byte(raw), &services); err == nil {
			return services, nil
		}
	} else if err != nil {
		slog.Warn("catalog cache read failed", "error", err)
	}

	services, err := c.source.ListServices(ctx, token)
	if err != nil {
		return nil, err
	}

	if buf, err := json.Marshal(services); err == nil {
		if err := c.cache.Set(ctx, servicesKey, string(buf), c.ttl); err != nil {
			slog.Warn("catalog cache write failed", "error", err)
		}
	}
	return services, nil
}
