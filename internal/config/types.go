package config

import (
	"github.com/paulmach/orb"

	"campground-nav-service/internal/domain"
)

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0"`
}

// DirectionsConfig contains route provider configuration. The API key is
// deliberately not here; it comes from the environment so config files can
// be committed.
type DirectionsConfig struct {
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`
	// FallbackStraightLine enables the straight-line provider when the
	// routing service is down or unconfigured. Unset means enabled.
	FallbackStraightLine *bool `yaml:"fallback_straight_line"`
	CacheTTLMinutes      int   `yaml:"cache_ttl_minutes" validate:"gte=0"`
}

// FallbackEnabled reports whether the straight-line fallback is on.
func (d DirectionsConfig) FallbackEnabled() bool {
	return d.FallbackStraightLine == nil || *d.FallbackStraightLine
}

// StorageConfig selects the POI and route cache backends.
type StorageConfig struct {
	POIBackend   string `yaml:"poi_backend" validate:"omitempty,oneof=sqlite postgres"`
	CacheBackend string `yaml:"cache_backend" validate:"omitempty,oneof=sqlite redis none"`
	SQLitePath   string `yaml:"sqlite_path"`
	RedisAddr    string `yaml:"redis_addr"`
}

// SiteConfig describes one campground.
type SiteConfig struct {
	ID          string  `yaml:"id" validate:"required"`
	Name        string  `yaml:"name" validate:"required"`
	Lat         float64 `yaml:"lat" validate:"gte=-90,lte=90"`
	Lng         float64 `yaml:"lng" validate:"gte=-180,lte=180"`
	DefaultMode string  `yaml:"default_mode" validate:"omitempty,oneof=walking cycling driving"`
	// GeoJSON points at a map export to seed points of interest from.
	GeoJSON string `yaml:"geojson"`
}

// Center returns the site's map center.
func (s SiteConfig) Center() orb.Point {
	return orb.Point{s.Lng, s.Lat}
}

// Mode returns the site's default travel mode.
func (s SiteConfig) Mode() domain.TravelMode {
	mode, err := domain.ParseTravelMode(s.DefaultMode)
	if err != nil {
		return domain.ModeWalking
	}
	return mode
}

// SimulatorConfig tunes the synthetic position source.
type SimulatorConfig struct {
	SpeedMps        float64 `yaml:"speed_mps" validate:"gte=0"`
	IntervalSeconds float64 `yaml:"interval_seconds" validate:"gte=0"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server     ServerConfig     `yaml:"server" validate:"required"`
	Directions DirectionsConfig `yaml:"directions"`
	Storage    StorageConfig    `yaml:"storage"`
	Simulator  SimulatorConfig  `yaml:"simulator"`
	Sites      []SiteConfig     `yaml:"sites"`
}

// Site looks a campground up by ID.
func (c AppConfig) Site(id string) (SiteConfig, bool) {
	for _, s := range c.Sites {
		if s.ID == id {
			return s, true
		}
	}
	return SiteConfig{}, false
}
