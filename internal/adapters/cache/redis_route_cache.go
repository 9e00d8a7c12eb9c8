package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"campground-nav-service/internal/domain"
)

const (
	routeKeyPrefix  = "route:"
	defaultRouteTTL = 15 * time.Minute
)

// Redis backed cache for computed routes. Entries expire after the
// configured TTL; campground paths change rarely, so a stale-ish route is
// acceptable and freshly computed once the entry lapses.
type RedisRouteCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	if ttl <= 0 {
		ttl = defaultRouteTTL
	}
	return &RedisRouteCache{Client: client, TTL: ttl}
}

// Fetch a cached route. The second return is false on a miss.
func (r *RedisRouteCache) Get(ctx context.Context, key string) (domain.Route, bool, error) {
	if r.Client == nil {
		return domain.Route{}, false, errors.New("route cache: redis client is nil")
	}

	if key == "" {
		return domain.Route{}, false, errors.New("get route cache: key must not be empty")
	}

	raw, err := r.Client.Get(ctx, routeKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Route{}, false, nil
	}
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache: %w", err)
	}

	var route domain.Route
	if err := json.Unmarshal(raw, &route); err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache: decode payload: %w", err)
	}

	return route, true, nil
}

// Store a computed route under the given key with the cache TTL.
func (r *RedisRouteCache) Put(ctx context.Context, key string, route domain.Route) error {
	if r.Client == nil {
		return errors.New("route cache: redis client is nil")
	}

	if key == "" {
		return errors.New("insert route cache: key must not be empty")
	}

	payload, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("insert route cache: encode payload: %w", err)
	}

	if err := r.Client.Set(ctx, routeKeyPrefix+key, payload, r.TTL).Err(); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}

	return nil
}
