// Package geo provides the spherical geometry used by route tracking:
// snapping positions onto a route polyline and measuring distances along it.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// Meters per degree of latitude. Used to build the local planar frame for
// segment projection; at campground scale the error is negligible.
const metersPerDegree = 111319.49

// Distance returns the haversine distance between two points in meters.
func Distance(a, b orb.Point) float64 {
	return orbgeo.DistanceHaversine(a, b)
}

// PathLength returns the total length of a polyline in meters.
func PathLength(line orb.LineString) float64 {
	var total float64
	for i := 0; i+1 < len(line); i++ {
		total += Distance(line[i], line[i+1])
	}
	return total
}

// A position snapped onto a polyline.
type PointOnLine struct {
	Point    orb.Point // snapped location on the line
	Segment  int       // index of the segment start vertex
	Fraction float64   // position within the segment, 0..1
	Distance float64   // meters from the query point to Point
}

// ProjectOnLine snaps p onto the nearest point of line. The second return
// is false when the line is empty, p is not finite, or no segment has
// finite coordinates.
func ProjectOnLine(line orb.LineString, p orb.Point) (PointOnLine, bool) {
	if len(line) == 0 || !finite(p) {
		return PointOnLine{}, false
	}
	if len(line) == 1 {
		if !finite(line[0]) {
			return PointOnLine{}, false
		}
		return PointOnLine{Point: line[0], Distance: Distance(p, line[0])}, true
	}

	best := PointOnLine{Distance: math.MaxFloat64}
	found := false
	for i := 0; i+1 < len(line); i++ {
		if !finite(line[i]) || !finite(line[i+1]) {
			continue
		}
		t, snapped := projectOnSegment(line[i], line[i+1], p)
		if d := Distance(p, snapped); d < best.Distance {
			best = PointOnLine{Point: snapped, Segment: i, Fraction: t, Distance: d}
			found = true
		}
	}
	if !found {
		return PointOnLine{}, false
	}
	return best, true
}

// DistanceAlong returns the on-path distance in meters from a projected
// position forward to the given vertex. Vertices at or behind the
// projection yield zero, so a passed maneuver point reads as reached.
func DistanceAlong(line orb.LineString, from PointOnLine, vertex int) float64 {
	if len(line) < 2 || vertex <= from.Segment {
		return 0
	}
	if vertex >= len(line) {
		vertex = len(line) - 1
	}
	total := Distance(from.Point, line[from.Segment+1])
	for i := from.Segment + 1; i < vertex; i++ {
		total += Distance(line[i], line[i+1])
	}
	return total
}

// RemainingDistance returns the on-path distance from a projected position
// to the end of the line.
func RemainingDistance(line orb.LineString, from PointOnLine) float64 {
	return DistanceAlong(line, from, len(line)-1)
}

// PointAlong walks the line from its start and returns the location at the
// given distance in meters. Distances beyond either end clamp to the
// nearest endpoint. The second return is false for an empty line.
func PointAlong(line orb.LineString, meters float64) (orb.Point, bool) {
	if len(line) == 0 {
		return orb.Point{}, false
	}
	if meters <= 0 {
		return line[0], true
	}
	for i := 0; i+1 < len(line); i++ {
		seg := Distance(line[i], line[i+1])
		if seg > 0 && meters <= seg {
			f := meters / seg
			return orb.Point{
				line[i][0] + f*(line[i+1][0]-line[i][0]),
				line[i][1] + f*(line[i+1][1]-line[i][1]),
			}, true
		}
		meters -= seg
	}
	return line[len(line)-1], true
}

// Projects p onto the segment a-b in a local planar frame and returns the
// clamped segment fraction together with the snapped geographic point.
func projectOnSegment(a, b, p orb.Point) (float64, orb.Point) {
	latRad := (a[1] + b[1]) / 2 * math.Pi / 180
	mPerLon := metersPerDegree * math.Cos(latRad)

	bx := (b[0] - a[0]) * mPerLon
	by := (b[1] - a[1]) * metersPerDegree
	px := (p[0] - a[0]) * mPerLon
	py := (p[1] - a[1]) * metersPerDegree

	segLen2 := bx*bx + by*by
	if segLen2 == 0 {
		return 0, a
	}
	t := (px*bx + py*by) / segLen2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t, orb.Point{a[0] + t*(b[0]-a[0]), a[1] + t*(b[1]-a[1])}
}

func finite(p orb.Point) bool {
	return !math.IsNaN(p[0]) && !math.IsInf(p[0], 0) &&
		!math.IsNaN(p[1]) && !math.IsInf(p[1], 0)
}
