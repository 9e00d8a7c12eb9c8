package services

import (
	"math"

	"github.com/paulmach/orb"

	"campground-nav-service/internal/domain"
	"campground-nav-service/internal/geo"
)

// Tracking thresholds in meters, tuned for handheld GPS accuracy on
// footpath-scale geometry.
const (
	OffRouteThresholdMeters    = 25.0
	StepAdvanceThresholdMeters = 15.0
	ArrivalThresholdMeters     = 3.0
)

// Callbacks fired synchronously from UpdatePosition. Handlers must be fast
// and must not call back into the tracker.
type TrackerCallbacks struct {
	// Fired when the current step index advances.
	OnStepChange func(step int, instruction string)
	// Fired exactly once per route when the traveler reaches the destination.
	OnRouteComplete func()
	// Fired on every update whose fix lies farther from the route than the
	// off-route threshold. Debouncing is the subscriber's concern.
	OnOffRoute func(distanceMeters float64)
}

// RouteTracker follows a traveler along one route: it snaps fixes onto the
// geometry, advances turn instructions, detects off-route drift and arrival,
// and reports progress. Not safe for concurrent use; the navigation session
// serializes access.
type RouteTracker struct {
	route   domain.Route
	anchors []int
	step    int
	arrived bool

	traveled float64
	lastSnap orb.Point
	hasSnap  bool

	speed *SpeedEstimator
	cb    TrackerCallbacks
}

func NewRouteTracker(route domain.Route, cb TrackerCallbacks) *RouteTracker {
	t := &RouteTracker{speed: NewSpeedEstimator(), cb: cb}
	t.setRoute(route)
	return t
}

// UpdateRoute replaces the active route, e.g. after a reroute. Step index,
// arrival latch, travel bookkeeping and the speed window all reset; it
// never fires callbacks itself.
func (t *RouteTracker) UpdateRoute(route domain.Route) {
	t.setRoute(route)
}

func (t *RouteTracker) setRoute(route domain.Route) {
	t.route = route
	t.anchors = instructionAnchors(len(route.Instructions), len(route.Geometry))
	t.step = 0
	t.arrived = false
	t.traveled = 0
	t.hasSnap = false
	t.speed.Reset()
}

// UpdatePosition processes one fix and returns the resulting progress
// snapshot. Invalid fixes and degenerate routes produce zeroed snapshots
// rather than NaN so clients can render them directly.
func (t *RouteTracker) UpdatePosition(pos domain.Position) domain.Progress {
	t.speed.AddPosition(pos)

	p := domain.Progress{
		StepIndex:   t.step,
		StepCount:   len(t.route.Instructions),
		Instruction: t.CurrentInstruction(),
		Arrived:     t.arrived,
		Raw:         pos.Point,
		Snapped:     pos.Point,
	}
	p.CurrentSpeed = t.speed.CurrentSpeed()
	p.AverageSpeed = t.speed.AverageSpeed()

	geom := t.route.Geometry
	if !pos.Valid() || len(geom) < 2 {
		return p
	}
	proj, ok := geo.ProjectOnLine(geom, pos.Point)
	if !ok {
		return p
	}
	p.Snapped = proj.Point

	if t.hasSnap {
		t.traveled += geo.Distance(t.lastSnap, proj.Point)
	}
	t.lastSnap, t.hasSnap = proj.Point, true

	if proj.Distance > OffRouteThresholdMeters {
		p.OffRoute = true
		p.OffRouteDistance = proj.Distance
	}

	// On-path distance to the vertex anchoring the next instruction; once
	// on the final instruction this is the distance to the destination.
	target := len(geom) - 1
	next := t.step + 1
	if next < len(t.anchors) {
		target = t.anchors[next]
	}
	p.DistanceToNext = geo.DistanceAlong(geom, proj, target)

	if next < len(t.anchors) && p.DistanceToNext < StepAdvanceThresholdMeters {
		t.step = next
		if t.cb.OnStepChange != nil {
			t.cb.OnStepChange(t.step, t.route.Instructions[t.step])
		}
	}

	if !t.arrived && geo.Distance(pos.Point, geom[len(geom)-1]) < ArrivalThresholdMeters {
		t.arrived = true
		if t.cb.OnRouteComplete != nil {
			t.cb.OnRouteComplete()
		}
	}

	if p.OffRoute && t.cb.OnOffRoute != nil {
		t.cb.OnOffRoute(proj.Distance)
	}

	p.StepIndex = t.step
	p.Instruction = t.CurrentInstruction()
	p.Arrived = t.arrived

	p.DistanceRemaining = geo.RemainingDistance(geom, proj)
	total := t.route.DistanceMeters
	if total <= 0 {
		total = geo.PathLength(geom)
	}
	if total > 0 {
		pct := (total - p.DistanceRemaining) / total * 100
		p.PercentComplete = math.Min(100, math.Max(0, pct))
	}

	eta, arrival := t.speed.ETA(p.DistanceRemaining, t.route.Mode)
	p.ETASeconds = eta.Seconds()
	p.EstimatedArrival = arrival
	return p
}

// Route returns the active route.
func (t *RouteTracker) Route() domain.Route { return t.route }

// Arrived reports whether the arrival callback has fired for this route.
func (t *RouteTracker) Arrived() bool { return t.arrived }

// DistanceTraveled returns the cumulative snapped movement in meters.
func (t *RouteTracker) DistanceTraveled() float64 { return t.traveled }

// Step returns the current instruction index and the instruction count.
func (t *RouteTracker) Step() (current, total int) {
	return t.step, len(t.route.Instructions)
}

// CurrentInstruction returns the active instruction text, empty when the
// route carries none.
func (t *RouteTracker) CurrentInstruction() string {
	if t.step < len(t.route.Instructions) {
		return t.route.Instructions[t.step]
	}
	return ""
}

// NextInstruction returns the upcoming instruction text, empty when the
// active one is the last.
func (t *RouteTracker) NextInstruction() string {
	if t.step+1 < len(t.route.Instructions) {
		return t.route.Instructions[t.step+1]
	}
	return ""
}

// instructionAnchors maps each instruction onto a geometry vertex by
// proportional spacing: anchor i sits at round(i/(n-1)*(m-1)), clamped to
// valid indices. A single instruction anchors at the final vertex.
func instructionAnchors(nInstr, nGeom int) []int {
	if nInstr <= 0 || nGeom <= 0 {
		return nil
	}
	last := nGeom - 1
	anchors := make([]int, nInstr)
	if nInstr == 1 {
		anchors[0] = last
		return anchors
	}
	for i := range anchors {
		a := int(math.Round(float64(i) / float64(nInstr-1) * float64(last)))
		if a < 0 {
			a = 0
		}
		if a > last {
			a = last
		}
		anchors[i] = a
	}
	return anchors
}
