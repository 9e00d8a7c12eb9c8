package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"campground-nav-service/internal/api/dto"
	"campground-nav-service/internal/config"
)

// SiteHandler lists the configured campgrounds.
type SiteHandler struct {
	Cfg    config.AppConfig
	Logger *zap.Logger
}

func (h *SiteHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(h.Logger, w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	res := dto.ListSitesResponse{Sites: make([]dto.SiteResponse, 0, len(h.Cfg.Sites))}
	for _, s := range h.Cfg.Sites {
		res.Sites = append(res.Sites, dto.SiteResponse{
			ID:          s.ID,
			Name:        s.Name,
			Lat:         s.Lat,
			Lng:         s.Lng,
			DefaultMode: s.DefaultMode,
		})
	}

	writeJSON(h.Logger, w, r, http.StatusOK, res)
}
