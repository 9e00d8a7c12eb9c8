package ports

import (
	"context"

	"campground-nav-service/internal/domain"
)

// Port: a boundary for retrieving POI entities from a data source.
type POIRepository interface {
	// Retrieve all POIs for a site, ordered by category then name.
	ListPOIs(ctx context.Context, siteID string) ([]domain.POI, error)
	// Retrieve the POIs of one category for a site.
	ListPOIsByCategory(ctx context.Context, siteID, category string) ([]domain.POI, error)
	// Insert or update POIs in bulk.
	UpsertPOIs(ctx context.Context, pois []domain.POI) error
}
