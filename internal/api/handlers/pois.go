package handlers

import (
	"net/http"
	"strings"

	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"campground-nav-service/internal/config"
	"campground-nav-service/internal/ports"
)

// POIHandler serves a site's points of interest as GeoJSON, the shape the
// map client feeds straight into its marker layer.
type POIHandler struct {
	Repo   ports.POIRepository
	Cfg    config.AppConfig
	Logger *zap.Logger
}

func (h *POIHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(h.Logger, w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	siteID := strings.TrimSpace(r.URL.Query().Get("site"))
	if siteID == "" {
		writeError(h.Logger, w, r, http.StatusBadRequest, "site is required")
		return
	}
	if _, ok := h.Cfg.Site(siteID); !ok {
		writeError(h.Logger, w, r, http.StatusBadRequest, "unknown site")
		return
	}

	category := strings.TrimSpace(r.URL.Query().Get("category"))

	pois, err := h.Repo.ListPOIsByCategory(r.Context(), siteID, category)
	if err != nil {
		h.Logger.Error("list pois failed", zap.String("site", siteID), zap.Error(err))
		writeError(h.Logger, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	fc := geojson.NewFeatureCollection()
	for _, p := range pois {
		f := geojson.NewFeature(p.Location)
		f.Properties["id"] = p.ID
		f.Properties["name"] = p.Name
		f.Properties["category"] = p.Category
		if p.Description != "" {
			f.Properties["description"] = p.Description
		}
		fc.Append(f)
	}

	writeJSON(h.Logger, w, r, http.StatusOK, fc)
}
