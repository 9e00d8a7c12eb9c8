package domain

import "github.com/paulmach/orb"

// A point of interest on a campground site, e.g. a restaurant, sanitary
// block or playground. POIs are imported from GeoJSON exports and served
// grouped by site and category.
type POI struct {
	ID          int       `json:"id"`
	SiteID      string    `json:"site_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Location    orb.Point `json:"location"`
	Description string    `json:"description,omitempty"`
}
