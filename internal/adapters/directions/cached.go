package directions

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"campground-nav-service/internal/domain"
	"campground-nav-service/internal/ports"
)

// CachedRouteProvider checks a route cache before delegating to the inner
// provider. Cache failures are logged and never fail the lookup; the
// backend stays authoritative.
type CachedRouteProvider struct {
	inner  ports.RouteProvider
	cache  ports.RouteCache
	logger *zap.Logger
}

func NewCachedRouteProvider(inner ports.RouteProvider, cache ports.RouteCache, logger *zap.Logger) *CachedRouteProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedRouteProvider{inner: inner, cache: cache, logger: logger}
}

// CacheKey produces a stable key for a route request. Coordinates round to
// five decimals (about one meter) so equivalent requests share an entry.
func CacheKey(start, end orb.Point, mode domain.TravelMode) string {
	return fmt.Sprintf("%.5f,%.5f|%.5f,%.5f|%s", start[1], start[0], end[1], end[0], mode)
}

func (c *CachedRouteProvider) CalculateRoute(
	ctx context.Context,
	start, end orb.Point,
	mode domain.TravelMode,
) (domain.Route, error) {
	key := CacheKey(start, end, mode)

	if c.cache != nil {
		route, hit, err := c.cache.Get(ctx, key)
		if err != nil {
			c.logger.Warn("route cache read failed", zap.String("key", key), zap.Error(err))
		} else if hit {
			c.logger.Debug("route cache hit", zap.String("key", key))
			return route, nil
		}
	}

	route, err := c.inner.CalculateRoute(ctx, start, end, mode)
	if err != nil {
		return domain.Route{}, err
	}

	if c.cache != nil {
		if err := c.cache.Put(ctx, key, route); err != nil {
			c.logger.Warn("route cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return route, nil
}
