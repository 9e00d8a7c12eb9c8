package ports

import (
	"context"

	"github.com/paulmach/orb"

	"campground-nav-service/internal/domain"
)

// Contract for computing a navigable route between two coordinates.
type RouteProvider interface {
	// Return a route from start to end for the given travel mode. The
	// returned route carries provider provenance and a confidence score.
	CalculateRoute(ctx context.Context, start, end orb.Point, mode domain.TravelMode) (domain.Route, error)
}
