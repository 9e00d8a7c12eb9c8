package services

import (
	"math"
	"time"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/stat"

	"campground-nav-service/internal/domain"
	"campground-nav-service/internal/geo"
)

// Tuning for the speed estimator, sized for handheld GPS cadence.
const (
	speedWindowSize = 10
	// Segment speeds above this are treated as GPS teleports.
	maxReasonableSpeedMps = 55.0
	// Below this the traveler counts as stationary and ETA falls back to
	// the nominal mode speed.
	minMovingSpeedMps = 0.1
)

type speedSample struct {
	point orb.Point
	t     time.Time
}

// SpeedEstimator keeps a bounded window of recent fixes and derives current
// speed, average speed and ETA from it. Not safe for concurrent use; the
// navigation session serializes access.
type SpeedEstimator struct {
	samples []speedSample
	speeds  []float64 // speeds between consecutive retained fixes
	now     func() time.Time
}

func NewSpeedEstimator() *SpeedEstimator {
	return &SpeedEstimator{now: time.Now}
}

// AddPosition feeds one fix into the window. Fixes without usable
// coordinates or timestamps are ignored. A teleporting fix resets the
// window and becomes the new reference point.
func (e *SpeedEstimator) AddPosition(pos domain.Position) {
	if !pos.Valid() {
		return
	}
	ts := pos.Time
	if ts.IsZero() {
		ts = e.now()
	}

	if n := len(e.samples); n > 0 {
		prev := e.samples[n-1]
		dt := ts.Sub(prev.t).Seconds()
		if dt <= 0 {
			return
		}
		v := geo.Distance(prev.point, pos.Point) / dt
		if v > maxReasonableSpeedMps {
			e.samples = e.samples[:0]
			e.speeds = e.speeds[:0]
		} else {
			e.speeds = append(e.speeds, v)
			if len(e.speeds) > speedWindowSize {
				e.speeds = e.speeds[1:]
			}
		}
	}

	e.samples = append(e.samples, speedSample{point: pos.Point, t: ts})
	if len(e.samples) > speedWindowSize+1 {
		e.samples = e.samples[1:]
	}
}

// CurrentSpeed returns the speed between the two most recent fixes in
// meters per second, zero until two usable fixes exist.
func (e *SpeedEstimator) CurrentSpeed() float64 {
	if len(e.speeds) == 0 {
		return 0
	}
	return e.speeds[len(e.speeds)-1]
}

// AverageSpeed returns the mean speed across the window.
func (e *SpeedEstimator) AverageSpeed() float64 {
	if len(e.speeds) == 0 {
		return 0
	}
	return stat.Mean(e.speeds, nil)
}

// ETA estimates the travel time for the remaining distance. It prefers the
// window average and falls back to the mode's nominal speed while the
// traveler is stationary, so the result is always finite.
func (e *SpeedEstimator) ETA(remainingMeters float64, mode domain.TravelMode) (time.Duration, time.Time) {
	if remainingMeters <= 0 || math.IsNaN(remainingMeters) || math.IsInf(remainingMeters, 0) {
		return 0, e.now()
	}
	speed := e.AverageSpeed()
	if speed < minMovingSpeedMps {
		speed = mode.NominalSpeed()
	}
	d := time.Duration(remainingMeters / speed * float64(time.Second))
	return d, e.now().Add(d)
}

// Reset clears the window.
func (e *SpeedEstimator) Reset() {
	e.samples = e.samples[:0]
	e.speeds = e.speeds[:0]
}
