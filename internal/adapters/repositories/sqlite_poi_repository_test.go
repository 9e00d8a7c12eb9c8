package repositories

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"campground-nav-service/internal/domain"
	"campground-nav-service/internal/platform/db"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "nav.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, InitSchema(conn))
	return conn
}

func TestSqlitePOIRepositoryRoundTrip(t *testing.T) {
	repo := NewSqlitePOIRepository(openTestDB(t))
	ctx := context.Background()

	err := repo.UpsertPOIs(ctx, []domain.POI{
		{SiteID: "kamperland", Name: "Restaurant De Haven", Category: "gastronomie", Location: orb.Point{3.7095, 51.5893}},
		{SiteID: "kamperland", Name: "Beach Bar", Category: "gastronomie", Location: orb.Point{3.7102, 51.5899}},
		{SiteID: "kamperland", Name: "Sanitary Block 2", Category: "sanitair", Location: orb.Point{3.7088, 51.5890}},
		{SiteID: "sittard", Name: "Reception", Category: "service", Location: orb.Point{5.8661, 51.0043}},
	})
	require.NoError(t, err)

	t.Run("lists one site only", func(t *testing.T) {
		pois, err := repo.ListPOIs(ctx, "kamperland")
		require.NoError(t, err)
		require.Len(t, pois, 3)
		for _, p := range pois {
			assert.Equal(t, "kamperland", p.SiteID)
			assert.Positive(t, p.ID)
		}
		assert.Equal(t, "Beach Bar", pois[0].Name, "rows come back ordered by category then name")
	})

	t.Run("filters by category", func(t *testing.T) {
		pois, err := repo.ListPOIsByCategory(ctx, "kamperland", "gastronomie")
		require.NoError(t, err)
		require.Len(t, pois, 2)
		for _, p := range pois {
			assert.Equal(t, "gastronomie", p.Category)
		}
	})

	t.Run("empty category lists everything", func(t *testing.T) {
		pois, err := repo.ListPOIsByCategory(ctx, "kamperland", "")
		require.NoError(t, err)
		assert.Len(t, pois, 3)
	})

	t.Run("unknown category is empty, not an error", func(t *testing.T) {
		pois, err := repo.ListPOIsByCategory(ctx, "kamperland", "karaoke")
		require.NoError(t, err)
		assert.Empty(t, pois)
	})

	t.Run("rejects empty site id", func(t *testing.T) {
		_, err := repo.ListPOIs(ctx, "  ")
		require.Error(t, err)
	})
}

func TestSqlitePOIRepositoryUpsertReplaces(t *testing.T) {
	repo := NewSqlitePOIRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.UpsertPOIs(ctx, []domain.POI{
		{SiteID: "zuhause", Name: "Pool", Category: "leisure", Location: orb.Point{6.1, 51.2}},
	}))
	require.NoError(t, repo.UpsertPOIs(ctx, []domain.POI{
		{SiteID: "zuhause", Name: "Pool", Category: "wellness", Location: orb.Point{6.1001, 51.2001}, Description: "Heated"},
	}))

	pois, err := repo.ListPOIs(ctx, "zuhause")
	require.NoError(t, err)
	require.Len(t, pois, 1, "same site and name must replace, not duplicate")
	assert.Equal(t, "wellness", pois[0].Category)
	assert.Equal(t, "Heated", pois[0].Description)
	assert.InDelta(t, 6.1001, pois[0].Location[0], 1e-9)
}

func TestSeedFromGeoJSON(t *testing.T) {
	conn := openTestDB(t)

	fixture := `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [3.7095, 51.5893]},
      "properties": {"name": "Restaurant De Haven", "category": "gastronomie", "description": "Open till 22:00"}
    },
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [3.7101, 51.5898]},
      "properties": {"name": "Playground North"}
    },
    {
      "type": "Feature",
      "geometry": {"type": "LineString", "coordinates": [[3.70, 51.58], [3.71, 51.59]]},
      "properties": {"name": "Main path"}
    }
  ]
}`
	path := filepath.Join(t.TempDir(), "kamperland.geojson")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))

	require.NoError(t, SeedFromGeoJSON(conn, "kamperland", path))

	repo := NewSqlitePOIRepository(conn)
	pois, err := repo.ListPOIs(context.Background(), "kamperland")
	require.NoError(t, err)
	require.Len(t, pois, 2, "line features are not points of interest")

	byName := map[string]domain.POI{}
	for _, p := range pois {
		byName[p.Name] = p
	}
	assert.Equal(t, "gastronomie", byName["Restaurant De Haven"].Category)
	assert.Equal(t, "Open till 22:00", byName["Restaurant De Haven"].Description)
	assert.Equal(t, "general", byName["Playground North"].Category, "missing category falls back")
	assert.InDelta(t, 3.7095, byName["Restaurant De Haven"].Location[0], 1e-9)
	assert.InDelta(t, 51.5893, byName["Restaurant De Haven"].Location[1], 1e-9)
}

func TestPOIsFromGeoJSON(t *testing.T) {
	fixture := `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [5.8661, 51.0043]},
      "properties": {"name": "Reception", "category": "service"}
    },
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [5.8670, 51.0050]},
      "properties": {"name": " Minigolf ", "description": "18 holes"}
    }
  ]
}`
	path := filepath.Join(t.TempDir(), "sittard.geojson")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))

	pois, err := POIsFromGeoJSON("sittard", path)
	require.NoError(t, err)

	want := []domain.POI{
		{SiteID: "sittard", Name: "Reception", Category: "service", Location: orb.Point{5.8661, 51.0043}},
		{SiteID: "sittard", Name: "Minigolf", Category: "general", Location: orb.Point{5.8670, 51.0050}, Description: "18 holes"},
	}
	if diff := cmp.Diff(want, pois); diff != "" {
		t.Errorf("parsed pois mismatch (-want +got):\n%s", diff)
	}
}

func TestSeedFromGeoJSONRejectsNamelessFeature(t *testing.T) {
	conn := openTestDB(t)

	fixture := `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [3.7095, 51.5893]},
      "properties": {"category": "gastronomie"}
    }
  ]
}`
	path := filepath.Join(t.TempDir(), "broken.geojson")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))

	err := SeedFromGeoJSON(conn, "kamperland", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name cannot be empty")
}
