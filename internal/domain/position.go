package domain

import (
	"math"
	"time"

	"github.com/paulmach/orb"
)

// A single position fix from a location source.
//
// Point follows the GeoJSON axis order (longitude, latitude). Accuracy is
// the reported horizontal error radius in meters, zero when the source does
// not provide one. Heading is degrees clockwise from north, zero when unknown.
type Position struct {
	Point    orb.Point `json:"point"`
	Time     time.Time `json:"time"`
	Accuracy float64   `json:"accuracy,omitempty"`
	Heading  float64   `json:"heading,omitempty"`
}

// Reports whether both coordinates are finite numbers. Browser geolocation
// stacks occasionally emit NaN fixes, which must never reach tracking math.
func (p Position) Valid() bool {
	return !math.IsNaN(p.Point[0]) && !math.IsInf(p.Point[0], 0) &&
		!math.IsNaN(p.Point[1]) && !math.IsInf(p.Point[1], 0)
}
