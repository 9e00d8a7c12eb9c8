package location

import (
	"context"
	"errors"
	"time"

	"github.com/paulmach/orb"

	"campground-nav-service/internal/domain"
	"campground-nav-service/internal/geo"
)

// SimulatedSource replays a route geometry at a fixed speed, emitting
// interpolated fixes on a ticker. It stands in for a GPS device during
// development and demos. Sessions fed by it never trigger reroutes.
type SimulatedSource struct {
	line     orb.LineString
	speed    float64
	interval time.Duration
}

func NewSimulatedSource(line orb.LineString, speedMps float64, interval time.Duration) *SimulatedSource {
	if speedMps <= 0 {
		speedMps = 1.4
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &SimulatedSource{line: line, speed: speedMps, interval: interval}
}

func (s *SimulatedSource) Real() bool { return false }

func (s *SimulatedSource) Positions(ctx context.Context) (<-chan domain.Position, error) {
	if len(s.line) == 0 {
		return nil, errors.New("simulated source: empty geometry")
	}

	out := make(chan domain.Position)
	total := geo.PathLength(s.line)

	go func() {
		defer close(out)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		traveled := 0.0
		for {
			p, _ := geo.PointAlong(s.line, traveled)
			select {
			case out <- domain.Position{Point: p, Time: time.Now()}:
			case <-ctx.Done():
				return
			}
			if traveled >= total {
				return
			}

			select {
			case <-ticker.C:
				traveled += s.speed * s.interval.Seconds()
				if traveled > total {
					traveled = total
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
