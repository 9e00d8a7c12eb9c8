package domain

import (
	"time"

	"github.com/paulmach/orb"
)

// Snapshot of navigation progress, produced for every processed position
// update. Distances are meters, speeds meters per second. Every field is
// zeroed rather than NaN when the active route is degenerate.
type Progress struct {
	StepIndex         int       `json:"step_index"`
	StepCount         int       `json:"step_count"`
	Instruction       string    `json:"instruction,omitempty"`
	DistanceToNext    float64   `json:"distance_to_next_meters"`
	DistanceRemaining float64   `json:"distance_remaining_meters"`
	PercentComplete   float64   `json:"percent_complete"`
	OffRoute          bool      `json:"off_route"`
	OffRouteDistance  float64   `json:"off_route_distance_meters,omitempty"`
	Arrived           bool      `json:"arrived"`
	CurrentSpeed      float64   `json:"current_speed_mps"`
	AverageSpeed      float64   `json:"average_speed_mps"`
	ETASeconds        float64   `json:"eta_seconds"`
	EstimatedArrival  time.Time `json:"estimated_arrival"`
	Raw               orb.Point `json:"raw"`
	Snapped           orb.Point `json:"snapped"`
}
