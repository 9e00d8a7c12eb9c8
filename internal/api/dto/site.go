package dto

type SiteResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	DefaultMode string  `json:"default_mode"`
}

type ListSitesResponse struct {
	Sites []SiteResponse `json:"sites"`
}
