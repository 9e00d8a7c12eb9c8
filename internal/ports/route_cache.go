package ports

import (
	"context"

	"campground-nav-service/internal/domain"
)

// Port: a boundary for caching computed routes keyed by endpoints and mode.
type RouteCache interface {
	// Look up a cached route. The boolean reports a hit; an error means the
	// backend itself failed, not that the key was absent.
	Get(ctx context.Context, key string) (domain.Route, bool, error)
	// Store a route under the key.
	Put(ctx context.Context, key string, route domain.Route) error
}
