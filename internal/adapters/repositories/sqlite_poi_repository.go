package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/paulmach/orb"

	"campground-nav-service/internal/domain"
)

// SQLite-backed implementation of the POIRepository port.
type SqlitePOIRepository struct{ DB *sql.DB }

func NewSqlitePOIRepository(db *sql.DB) *SqlitePOIRepository {
	return &SqlitePOIRepository{DB: db}
}

// Return all points of interest for one site.
func (s *SqlitePOIRepository) ListPOIs(ctx context.Context, siteID string) ([]domain.POI, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite poi repository: DB is nil")
	}

	if strings.TrimSpace(siteID) == "" {
		return nil, errors.New("list pois: site id must not be empty")
	}

	query := `
	SELECT
		poi_id,
		site_id,
		name,
		category,
		lon,
		lat,
		description
	FROM pois
	WHERE site_id = ?
	ORDER BY category, name;
	`
	rows, err := s.DB.QueryContext(ctx, query, siteID)
	if err != nil {
		return nil, fmt.Errorf("list pois: query pois table: %w", err)
	}
	defer rows.Close()

	return scanPOIs(rows)
}

// Return the site's points of interest in one category.
func (s *SqlitePOIRepository) ListPOIsByCategory(ctx context.Context, siteID, category string) ([]domain.POI, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite poi repository: DB is nil")
	}

	if strings.TrimSpace(siteID) == "" {
		return nil, errors.New("list pois: site id must not be empty")
	}

	if strings.TrimSpace(category) == "" {
		return s.ListPOIs(ctx, siteID)
	}

	query := `
	SELECT
		poi_id,
		site_id,
		name,
		category,
		lon,
		lat,
		description
	FROM pois
	WHERE site_id = ?
		AND category = ?
	ORDER BY name;
	`
	rows, err := s.DB.QueryContext(ctx, query, siteID, category)
	if err != nil {
		return nil, fmt.Errorf("list pois: query pois table: %w", err)
	}
	defer rows.Close()

	return scanPOIs(rows)
}

// Insert or update points of interest. A POI is identified by its
// (site, name) pair; re-importing a map replaces earlier rows.
func (s *SqlitePOIRepository) UpsertPOIs(ctx context.Context, pois []domain.POI) error {
	if s.DB == nil {
		return errors.New("sqlite poi repository: DB is nil")
	}

	if len(pois) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert pois: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

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
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("upsert pois: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range pois {
		if strings.TrimSpace(p.SiteID) == "" {
			return fmt.Errorf("upsert pois: poi %q: site id cannot be empty", p.Name)
		}
		if strings.TrimSpace(p.Name) == "" {
			return errors.New("upsert pois: poi name cannot be empty")
		}

		if _, err := stmt.ExecContext(ctx, p.SiteID, p.Name, p.Category, p.Location[0], p.Location[1], p.Description); err != nil {
			return fmt.Errorf("upsert pois: insert name=%q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert pois: commit tx: %w", err)
	}

	return nil
}

func scanPOIs(rows *sql.Rows) ([]domain.POI, error) {
	pois := make([]domain.POI, 0, 64)
	for rows.Next() {
		var p domain.POI
		var lon, lat float64
		err := rows.Scan(&p.ID, &p.SiteID, &p.Name, &p.Category, &lon, &lat, &p.Description)
		if err != nil {
			return nil, fmt.Errorf("list pois: scan row: %w", err)
		}
		p.Location = orb.Point{lon, lat}
		pois = append(pois, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pois: row iteration: %w", err)
	}

	return pois, nil
}
