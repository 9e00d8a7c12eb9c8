package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"campground-nav-service/internal/api/dto"
	"campground-nav-service/internal/domain"
	"campground-nav-service/internal/ports"
)

// RouteHandler computes point-to-point routes on demand.
type RouteHandler struct {
	Provider ports.RouteProvider
	Logger   *zap.Logger
}

func (h *RouteHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(h.Logger, w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.RouteRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(h.Logger, w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(h.Logger, w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	start, ok := pointFrom(req.Start)
	if !ok {
		writeError(h.Logger, w, r, http.StatusBadRequest, "start must be valid coordinates")
		return
	}
	end, ok := pointFrom(req.End)
	if !ok {
		writeError(h.Logger, w, r, http.StatusBadRequest, "end must be valid coordinates")
		return
	}

	mode := domain.ModeWalking
	if req.Mode != "" {
		var err error
		mode, err = domain.ParseTravelMode(req.Mode)
		if err != nil {
			writeError(h.Logger, w, r, http.StatusBadRequest, "mode must be walking, cycling or driving")
			return
		}
	}

	route, err := h.Provider.CalculateRoute(r.Context(), start, end, mode)
	if err != nil {
		h.Logger.Error("calculate route failed", zap.Error(err))
		writeError(h.Logger, w, r, http.StatusBadGateway, "route provider unavailable")
		return
	}

	writeJSON(h.Logger, w, r, http.StatusOK, routeResponse(route))
}

func pointFrom(c dto.LatLng) (orb.Point, bool) {
	if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
		return orb.Point{}, false
	}
	p := orb.Point{c.Lng, c.Lat}
	if !(domain.Position{Point: p}).Valid() {
		return orb.Point{}, false
	}
	return p, true
}

func routeResponse(route domain.Route) dto.RouteResponse {
	geometry := make([][]float64, 0, len(route.Geometry))
	for _, p := range route.Geometry {
		geometry = append(geometry, []float64{p[0], p[1]})
	}

	return dto.RouteResponse{
		Geometry:        geometry,
		Mode:            string(route.Mode),
		DistanceMeters:  route.DistanceMeters,
		DurationSeconds: route.Duration.Seconds(),
		Instructions:    route.Instructions,
		Confidence:      route.Confidence,
		Source:          route.Source,
	}
}
