package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Default returns the built-in configuration used when no config file
// exists: local sqlite storage and no sites.
func Default() AppConfig {
	var cfg AppConfig
	cfg.applyDefaults()
	return cfg
}

// Load reads and validates the application configuration. An empty path
// falls back to CONFIG_PATH, then to config.yml in the working directory.
func Load(path string) (AppConfig, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config.yml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, fmt.Errorf("load config: read %q: %w", path, err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("load config: parse %q: %w", path, err)
	}

	cfg.applyDefaults()

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return AppConfig{}, fmt.Errorf("load config: validate %q: %w", path, err)
	}

	// Slice elements are skipped by Struct; validate each site on its own.
	seen := map[string]struct{}{}
	for _, s := range cfg.Sites {
		if err := v.Struct(s); err != nil {
			return AppConfig{}, fmt.Errorf("load config: site %q: %w", s.ID, err)
		}
		if _, ok := seen[s.ID]; ok {
			return AppConfig{}, fmt.Errorf("load config: duplicate site id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
	}

	return cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Directions.CacheTTLMinutes == 0 {
		c.Directions.CacheTTLMinutes = 15
	}
	if c.Storage.POIBackend == "" {
		c.Storage.POIBackend = "sqlite"
	}
	if c.Storage.CacheBackend == "" {
		c.Storage.CacheBackend = "sqlite"
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "navigation.db"
	}
	if c.Storage.RedisAddr == "" {
		c.Storage.RedisAddr = "localhost:6379"
	}
	if c.Simulator.SpeedMps == 0 {
		c.Simulator.SpeedMps = 1.4
	}
	if c.Simulator.IntervalSeconds == 0 {
		c.Simulator.IntervalSeconds = 1
	}
	for i := range c.Sites {
		if c.Sites[i].DefaultMode == "" {
			c.Sites[i].DefaultMode = "walking"
		}
	}
}
