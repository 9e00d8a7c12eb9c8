package events

import (
	"time"

	"campground-nav-service/internal/domain"
)

// Event types published on TopicEvents.
const (
	TypeStepChanged    = "step_changed"
	TypeOffRoute       = "off_route"
	TypeArrived        = "arrived"
	TypeRerouteStarted = "reroute_started"
	TypeRerouted       = "rerouted"
	TypeRerouteFailed  = "reroute_failed"
)

// A discrete navigation event. Only the fields relevant to the type are set;
// rerouted events carry the replacement route in full.
type NavigationEvent struct {
	SessionID   string        `json:"session_id"`
	Type        string        `json:"type"`
	At          time.Time     `json:"at"`
	Step        int           `json:"step,omitempty"`
	Instruction string        `json:"instruction,omitempty"`
	Distance    float64       `json:"distance_meters,omitempty"`
	Error       string        `json:"error,omitempty"`
	Route       *domain.Route `json:"route,omitempty"`
}

// Per-fix progress frame published on TopicProgress.
type ProgressUpdate struct {
	SessionID string          `json:"session_id"`
	At        time.Time       `json:"at"`
	Progress  domain.Progress `json:"progress"`
}
