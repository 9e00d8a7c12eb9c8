package domain

import "github.com/paulmach/orb"

// A campground site served by the navigation service. Sites come from
// static configuration and scope POI lookups and map defaults.
type Site struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Center      orb.Point  `json:"center"`
	DefaultMode TravelMode `json:"default_mode"`
}
