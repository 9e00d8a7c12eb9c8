package directions

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"campground-nav-service/internal/domain"
	"campground-nav-service/internal/ports"
)

// CompositeRouteProvider tries a primary provider and degrades to a
// fallback when the primary fails. A nil fallback surfaces primary errors
// unchanged.
type CompositeRouteProvider struct {
	primary  ports.RouteProvider
	fallback ports.RouteProvider
	logger   *zap.Logger
}

func NewCompositeRouteProvider(primary, fallback ports.RouteProvider, logger *zap.Logger) *CompositeRouteProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompositeRouteProvider{primary: primary, fallback: fallback, logger: logger}
}

func (c *CompositeRouteProvider) CalculateRoute(
	ctx context.Context,
	start, end orb.Point,
	mode domain.TravelMode,
) (domain.Route, error) {
	route, err := c.primary.CalculateRoute(ctx, start, end, mode)
	if err == nil {
		return route, nil
	}
	if c.fallback == nil || ctx.Err() != nil {
		return domain.Route{}, fmt.Errorf("calculate route: %w", err)
	}

	c.logger.Warn("primary route provider failed, using fallback", zap.Error(err))

	route, ferr := c.fallback.CalculateRoute(ctx, start, end, mode)
	if ferr != nil {
		return domain.Route{}, fmt.Errorf("calculate route: fallback after %v: %w", err, ferr)
	}
	return route, nil
}
