package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"campground-nav-service/internal/adapters/directions"
	"campground-nav-service/internal/config"
	"campground-nav-service/internal/domain"
)

func testCfg() config.AppConfig {
	return config.AppConfig{
		Server:    config.ServerConfig{Port: 8080},
		Simulator: config.SimulatorConfig{SpeedMps: 1.4, IntervalSeconds: 1},
		Sites: []config.SiteConfig{
			{ID: "kamperland", Name: "Kamperland", Lat: 51.5891, Lng: 3.7089, DefaultMode: "walking"},
			{ID: "sittard", Name: "Sittard", Lat: 51.0043, Lng: 5.8661, DefaultMode: "cycling"},
		},
	}
}

type fakePOIRepo struct {
	pois        []domain.POI
	err         error
	gotSite     string
	gotCategory string
}

func (f *fakePOIRepo) ListPOIs(ctx context.Context, siteID string) ([]domain.POI, error) {
	return f.ListPOIsByCategory(ctx, siteID, "")
}

func (f *fakePOIRepo) ListPOIsByCategory(ctx context.Context, siteID, category string) ([]domain.POI, error) {
	f.gotSite, f.gotCategory = siteID, category
	if f.err != nil {
		return nil, f.err
	}
	return f.pois, nil
}

func (f *fakePOIRepo) UpsertPOIs(ctx context.Context, pois []domain.POI) error { return nil }

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouteHandlerCalculate(t *testing.T) {
	h := &RouteHandler{Provider: directions.NewMockRouteProvider(), Logger: zap.NewNop()}

	body := `{
		"start": {"lat": 51.5891, "lng": 3.7089},
		"end": {"lat": 51.5899, "lng": 3.7102},
		"mode": "walking"
	}`
	rec := httptest.NewRecorder()
	h.Calculate(rec, httptest.NewRequest(http.MethodPost, "/api/routes", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Geometry        [][]float64 `json:"geometry"`
		Mode            string      `json:"mode"`
		DistanceMeters  float64     `json:"distance_meters"`
		DurationSeconds float64     `json:"duration_seconds"`
		Instructions    []string    `json:"instructions"`
		Source          string      `json:"source"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	require.Len(t, res.Geometry, 2)
	assert.InDelta(t, 3.7089, res.Geometry[0][0], 1e-9, "geometry is [lng, lat]")
	assert.InDelta(t, 51.5891, res.Geometry[0][1], 1e-9)
	assert.Equal(t, "walking", res.Mode)
	assert.Equal(t, domain.RouteSourceDirect, res.Source)
	assert.Greater(t, res.DistanceMeters, 100.0)
	assert.Greater(t, res.DurationSeconds, 0.0)
	assert.Len(t, res.Instructions, 2)
}

func TestRouteHandlerValidation(t *testing.T) {
	h := &RouteHandler{Provider: directions.NewMockRouteProvider(), Logger: zap.NewNop()}

	cases := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"invalid json", http.MethodPost, `{`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, `{"begin": {}}`, http.StatusBadRequest},
		{"two objects", http.MethodPost, `{"start":{"lat":1,"lng":1},"end":{"lat":2,"lng":2}} {}`, http.StatusBadRequest},
		{"latitude out of range", http.MethodPost, `{"start":{"lat":91,"lng":0},"end":{"lat":0,"lng":0}}`, http.StatusBadRequest},
		{"bad mode", http.MethodPost, `{"start":{"lat":1,"lng":1},"end":{"lat":2,"lng":2},"mode":"teleport"}`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Calculate(rec, httptest.NewRequest(tc.method, "/api/routes", strings.NewReader(tc.body)))
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestRouteHandlerProviderFailure(t *testing.T) {
	mock := directions.NewMockRouteProvider()
	mock.SetError(errors.New("ors is down"))
	h := &RouteHandler{Provider: mock, Logger: zap.NewNop()}

	body := `{"start":{"lat":51.5891,"lng":3.7089},"end":{"lat":51.5899,"lng":3.7102}}`
	rec := httptest.NewRecorder()
	h.Calculate(rec, httptest.NewRequest(http.MethodPost, "/api/routes", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "route provider unavailable")
}

func TestPOIHandlerList(t *testing.T) {
	repo := &fakePOIRepo{pois: []domain.POI{
		{ID: 1, SiteID: "kamperland", Name: "Beach Bar", Category: "gastronomie", Location: orb.Point{3.7102, 51.5899}},
		{ID: 2, SiteID: "kamperland", Name: "Reception", Category: "service", Location: orb.Point{3.7089, 51.5891}, Description: "Check-in"},
	}}
	h := &POIHandler{Repo: repo, Cfg: testCfg(), Logger: zap.NewNop()}

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/pois?site=kamperland&category=gastronomie", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "kamperland", repo.gotSite)
	assert.Equal(t, "gastronomie", repo.gotCategory)

	fc, err := geojson.UnmarshalFeatureCollection(rec.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)

	first := fc.Features[0]
	point, ok := first.Geometry.(orb.Point)
	require.True(t, ok)
	assert.InDelta(t, 3.7102, point[0], 1e-9)
	assert.Equal(t, "Beach Bar", first.Properties.MustString("name", ""))
	assert.Equal(t, "gastronomie", first.Properties.MustString("category", ""))
}

func TestPOIHandlerValidation(t *testing.T) {
	h := &POIHandler{Repo: &fakePOIRepo{}, Cfg: testCfg(), Logger: zap.NewNop()}

	t.Run("missing site", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.List(rec, httptest.NewRequest(http.MethodGet, "/api/pois", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown site", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.List(rec, httptest.NewRequest(http.MethodGet, "/api/pois?site=texel", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "unknown site")
	})

	t.Run("repository failure", func(t *testing.T) {
		failing := &POIHandler{
			Repo:   &fakePOIRepo{err: errors.New("db locked")},
			Cfg:    testCfg(),
			Logger: zap.NewNop(),
		}
		rec := httptest.NewRecorder()
		failing.List(rec, httptest.NewRequest(http.MethodGet, "/api/pois?site=kamperland", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestSiteHandlerList(t *testing.T) {
	h := &SiteHandler{Cfg: testCfg(), Logger: zap.NewNop()}

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/sites", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Sites []struct {
			ID          string  `json:"id"`
			Name        string  `json:"name"`
			Lat         float64 `json:"lat"`
			Lng         float64 `json:"lng"`
			DefaultMode string  `json:"default_mode"`
		} `json:"sites"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Sites, 2)
	assert.Equal(t, "kamperland", res.Sites[0].ID)
	assert.Equal(t, "cycling", res.Sites[1].DefaultMode)
}
