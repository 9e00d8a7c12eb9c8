package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"campground-nav-service/internal/domain"
)

// SQLite backed cache for computed routes. Keys are expected to be
// consistent (e.g., already rounded and normalized) by the caller.
type SqliteRouteCache struct {
	DB *sql.DB
}

func NewSqliteRouteCache(db *sql.DB) *SqliteRouteCache {
	return &SqliteRouteCache{DB: db}
}

// Fetch a cached route. The second return is false on a miss.
func (s *SqliteRouteCache) Get(ctx context.Context, key string) (domain.Route, bool, error) {
	if s.DB == nil {
		return domain.Route{}, false, errors.New("route cache: db is nil")
	}

	if key == "" {
		return domain.Route{}, false, errors.New("get route cache: key must not be empty")
	}

	q := `
	SELECT payload
    FROM route_cache
    WHERE cache_key = ?;
	`

	var payload []byte
	err := s.DB.QueryRowContext(ctx, q, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Route{}, false, nil
	}
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	var route domain.Route
	if err := json.Unmarshal(payload, &route); err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache: decode payload: %w", err)
	}

	return route, true, nil
}

// Store a computed route under the given key, replacing any earlier entry.
func (s *SqliteRouteCache) Put(ctx context.Context, key string, route domain.Route) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	if key == "" {
		return errors.New("insert route cache: key must not be empty")
	}

	payload, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("insert route cache: encode payload: %w", err)
	}

	q := `
	INSERT OR REPLACE INTO route_cache (
        cache_key,
        payload,
        created_at
    )
    VALUES (?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q, key, payload, time.Now().UTC().Unix()); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}

	return nil
}
