package directions

import (
	"context"
	"errors"
	"time"

	"github.com/paulmach/orb"

	"campground-nav-service/internal/domain"
	"campground-nav-service/internal/geo"
)

// Confidence reported for straight-line routes. Clients use it to render
// the path as approximate.
const straightLineConfidence = 0.2

// StraightLineProvider produces a direct two-point route as a last resort
// when no routing backend is reachable. At campground distances the
// straight line is still a usable hint.
type StraightLineProvider struct{}

func NewStraightLineProvider() *StraightLineProvider {
	return &StraightLineProvider{}
}

func (s *StraightLineProvider) CalculateRoute(
	ctx context.Context,
	start, end orb.Point,
	mode domain.TravelMode,
) (domain.Route, error) {
	if err := ctx.Err(); err != nil {
		return domain.Route{}, err
	}
	if !(domain.Position{Point: start}).Valid() || !(domain.Position{Point: end}).Valid() {
		return domain.Route{}, errors.New("straight line route: coordinates must be finite")
	}

	distance := geo.Distance(start, end)
	return domain.Route{
		Geometry:       orb.LineString{start, end},
		Mode:           mode,
		DistanceMeters: distance,
		Duration:       time.Duration(distance / mode.NominalSpeed() * float64(time.Second)),
		Instructions: []string{
			"Head toward your destination",
			"Arrive at your destination",
		},
		Confidence: straightLineConfidence,
		Source:     domain.RouteSourceDirect,
	}, nil
}
