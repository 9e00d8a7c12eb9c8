package ports

import (
	"context"

	"campground-nav-service/internal/domain"
)

// Contract for streams of position fixes feeding a navigation session.
type PositionSource interface {
	// Open the stream. The channel closes when the source ends or ctx is
	// canceled. Implementations own the channel and its goroutine.
	Positions(ctx context.Context) (<-chan domain.Position, error)
	// Real reports whether fixes come from a physical GPS device rather
	// than a simulation. Only real sources may trigger rerouting.
	Real() bool
}
