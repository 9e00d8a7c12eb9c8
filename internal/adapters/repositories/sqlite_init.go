package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"campground-nav-service/internal/domain"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPOIsQuery := `
	CREATE TABLE IF NOT EXISTS pois (
        poi_id INTEGER PRIMARY KEY AUTOINCREMENT,
        site_id TEXT NOT NULL,
        name TEXT NOT NULL,
        category TEXT NOT NULL,
        lon REAL NOT NULL,
        lat REAL NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        UNIQUE (site_id, name)
    );
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
        cache_key TEXT PRIMARY KEY,
        payload BLOB NOT NULL,
        created_at INTEGER NOT NULL
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_pois_site_category
    ON pois(site_id, category);
	`

	statements := []string{
		createPOIsQuery,
		createRouteCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// POIsFromGeoJSON parses a GeoJSON map export into POIs for one site.
// Non-point features (paths, building outlines) are skipped; the map
// export mixes them in with the markers.
func POIsFromGeoJSON(siteID, geojsonPath string) ([]domain.POI, error) {
	siteID = strings.TrimSpace(siteID)
	if siteID == "" {
		return nil, errors.New("seed pois: site id must not be empty")
	}

	bytes, err := os.ReadFile(geojsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed pois: read %q: %w", geojsonPath, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(bytes)
	if err != nil {
		return nil, fmt.Errorf("seed pois: parse geojson: %w", err)
	}

	pois := make([]domain.POI, 0, len(fc.Features))
	for i, f := range fc.Features {
		point, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}

		name := strings.TrimSpace(f.Properties.MustString("name", ""))
		if name == "" {
			return nil, fmt.Errorf("seed pois: feature at index %d: name cannot be empty", i+1)
		}

		category := strings.TrimSpace(f.Properties.MustString("category", ""))
		if category == "" {
			category = "general"
		}

		pois = append(pois, domain.POI{
			SiteID:      siteID,
			Name:        name,
			Category:    category,
			Location:    point,
			Description: strings.TrimSpace(f.Properties.MustString("description", "")),
		})
	}
	return pois, nil
}

// Populate the database with points of interest from a GeoJSON export.
func SeedFromGeoJSON(db *sql.DB, siteID, geojsonPath string) error {
	if db == nil {
		return errors.New("seed pois: DB is nil")
	}

	rows, err := POIsFromGeoJSON(siteID, geojsonPath)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed pois: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT OR REPLACE INTO pois (
        site_id,
        name,
        category,
        lon,
        lat,
        description
    )
    VALUES (?, ?, ?, ?, ?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed pois: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range rows {
		if _, err := stmt.Exec(p.SiteID, p.Name, p.Category, p.Location[0], p.Location[1], p.Description); err != nil {
			return fmt.Errorf("seed pois: insert name=%q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed pois: commit tx: %w", err)
	}

	return nil
}
