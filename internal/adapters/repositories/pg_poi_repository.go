package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"campground-nav-service/internal/domain"
)

// Postgres-backed implementation of the POIRepository port, for
// deployments where several sites share one managed database.
type PgPOIRepository struct{ DB *sql.DB }

func NewPgPOIRepository(db *sql.DB) *PgPOIRepository {
	return &PgPOIRepository{DB: db}
}

// Create the postgres schema. Safe to run on every startup.
func InitPostgresSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS pois (
        poi_id BIGSERIAL PRIMARY KEY,
        site_id TEXT NOT NULL,
        name TEXT NOT NULL,
        category TEXT NOT NULL,
        lon DOUBLE PRECISION NOT NULL,
        lat DOUBLE PRECISION NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        UNIQUE (site_id, name)
    );
	CREATE INDEX IF NOT EXISTS idx_pois_site_category
    ON pois(site_id, category);
	`

	if _, err := db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("init postgres schema: %w", err)
	}

	return nil
}

func (p *PgPOIRepository) ListPOIs(ctx context.Context, siteID string) ([]domain.POI, error) {
	if p.DB == nil {
		return nil, errors.New("pg poi repository: DB is nil")
	}

	if strings.TrimSpace(siteID) == "" {
		return nil, errors.New("list pois: site id must not be empty")
	}

	query := `
	SELECT poi_id, site_id, name, category, lon, lat, description
    FROM pois
    WHERE site_id = $1
    ORDER BY category, name;
	`
	rows, err := p.DB.QueryContext(ctx, query, siteID)
	if err != nil {
		return nil, fmt.Errorf("list pois: query pois table: %w", err)
	}
	defer rows.Close()

	return scanPOIs(rows)
}

func (p *PgPOIRepository) ListPOIsByCategory(ctx context.Context, siteID, category string) ([]domain.POI, error) {
	if p.DB == nil {
		return nil, errors.New("pg poi repository: DB is nil")
	}

	if strings.TrimSpace(siteID) == "" {
		return nil, errors.New("list pois: site id must not be empty")
	}

	if strings.TrimSpace(category) == "" {
		return p.ListPOIs(ctx, siteID)
	}

	query := `
	SELECT poi_id, site_id, name, category, lon, lat, description
    FROM pois
    WHERE site_id = $1
        AND category = $2
    ORDER BY name;
	`
	rows, err := p.DB.QueryContext(ctx, query, siteID, category)
	if err != nil {
		return nil, fmt.Errorf("list pois: query pois table: %w", err)
	}
	defer rows.Close()

	return scanPOIs(rows)
}

func (p *PgPOIRepository) UpsertPOIs(ctx context.Context, pois []domain.POI) error {
	if p.DB == nil {
		return errors.New("pg poi repository: DB is nil")
	}

	if len(pois) == 0 {
		return nil
	}

	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert pois: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO pois (site_id, name, category, lon, lat, description)
    VALUES ($1, $2, $3, $4, $5, $6)
    ON CONFLICT (site_id, name) DO UPDATE SET
        category = EXCLUDED.category,
        lon = EXCLUDED.lon,
        lat = EXCLUDED.lat,
        description = EXCLUDED.description;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("upsert pois: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, poi := range pois {
		if strings.TrimSpace(poi.SiteID) == "" {
			return fmt.Errorf("upsert pois: poi %q: site id cannot be empty", poi.Name)
		}
		if strings.TrimSpace(poi.Name) == "" {
			return errors.New("upsert pois: poi name cannot be empty")
		}

		if _, err := stmt.ExecContext(ctx, poi.SiteID, poi.Name, poi.Category, poi.Location[0], poi.Location[1], poi.Description); err != nil {
			return fmt.Errorf("upsert pois: insert name=%q: %w", poi.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert pois: commit tx: %w", err)
	}

	return nil
}
