package dto

// LatLng is a coordinate pair as clients send it. Geometry in responses
// uses [lng, lat] arrays instead, matching the GeoJSON axis order.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type RouteRequest struct {
	Start LatLng `json:"start"`
	End   LatLng `json:"end"`
	Mode  string `json:"mode"`
}

type RouteResponse struct {
	Geometry        [][]float64 `json:"geometry"`
	Mode            string      `json:"mode"`
	DistanceMeters  float64     `json:"distance_meters"`
	DurationSeconds float64     `json:"duration_seconds"`
	Instructions    []string    `json:"instructions"`
	Confidence      float64     `json:"confidence"`
	Source          string      `json:"source"`
}
