package dto

import "encoding/json"

// Websocket frames for /api/navigate. The client opens with a start frame,
// then streams position frames. The server answers with a route frame and
// pushes progress and event frames until the connection closes.

// Frame is the envelope both sides use to dispatch on type.
type Frame struct {
	Type string `json:"type"`
}

const (
	FrameStart    = "start"
	FramePosition = "position"
	FrameRoute    = "route"
	FrameProgress = "progress"
	FrameEvent    = "event"
	FrameError    = "error"
)

type StartFrame struct {
	Type        string `json:"type"`
	Site        string `json:"site,omitempty"`
	Start       LatLng `json:"start"`
	Destination LatLng `json:"destination"`
	Mode        string `json:"mode"`
	// Source declares where fixes come from: "gps" or "simulated".
	// Simulated sessions never trigger network rerouting.
	Source string `json:"source"`
}

type PositionFrame struct {
	Type string  `json:"type"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	// Timestamp is unix milliseconds; zero means "now".
	Timestamp int64   `json:"timestamp,omitempty"`
	Accuracy  float64 `json:"accuracy,omitempty"`
}

type RouteFrame struct {
	Type  string        `json:"type"`
	Route RouteResponse `json:"route"`
}

// BusFrame forwards a bus payload (progress update or navigation event)
// to the client without re-encoding it.
type BusFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type ErrorFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
