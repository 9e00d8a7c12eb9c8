package domain

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"
)

// Travel profile used for route calculation and ETA fallbacks.
type TravelMode string

const (
	ModeWalking TravelMode = "walking"
	ModeCycling TravelMode = "cycling"
	ModeDriving TravelMode = "driving"
)

func ParseTravelMode(s string) (TravelMode, error) {
	switch m := TravelMode(s); m {
	case ModeWalking, ModeCycling, ModeDriving:
		return m, nil
	}
	return "", fmt.Errorf("parse travel mode: unknown mode %q", s)
}

// NominalSpeed returns a conservative default speed in meters per second
// for the mode. It backs ETA estimates while no usable GPS speed samples
// exist yet. Driving assumes campground speed limits, not open roads.
func (m TravelMode) NominalSpeed() float64 {
	switch m {
	case ModeCycling:
		return 2.0
	case ModeDriving:
		return 4.17
	default:
		return 1.0
	}
}

// Route provenance reported to clients alongside the confidence score.
const (
	RouteSourceORS    = "ors"
	RouteSourceDirect = "direct"
)

// A navigable path between two coordinates, as returned by a route provider.
//
// Geometry follows the GeoJSON axis order and contains at least two points
// for any non-empty route. Instructions are ordered turn-by-turn texts; their
// positions along the geometry are derived proportionally by the tracker
// rather than carried per instruction.
type Route struct {
	Geometry       orb.LineString `json:"geometry"`
	Mode           TravelMode     `json:"mode"`
	DistanceMeters float64        `json:"distance_meters"`
	Duration       time.Duration  `json:"duration"`
	Instructions   []string       `json:"instructions"`
	Confidence     float64        `json:"confidence"`
	Source         string         `json:"source"`
}

// Empty reports whether the route has no geometry to follow.
func (r Route) Empty() bool { return len(r.Geometry) == 0 }

// Destination returns the final geometry point, false for an empty route.
func (r Route) Destination() (orb.Point, bool) {
	if r.Empty() {
		return orb.Point{}, false
	}
	return r.Geometry[len(r.Geometry)-1], true
}
