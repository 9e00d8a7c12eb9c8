package api

import (
	"net/http"

	"go.uber.org/zap"

	"campground-nav-service/internal/api/handlers"
	"campground-nav-service/internal/config"
	"campground-nav-service/internal/events"
	"campground-nav-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	cfg config.AppConfig,
	provider ports.RouteProvider,
	pois ports.POIRepository,
	bus *events.Bus,
	logger *zap.Logger,
) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{Provider: provider, Logger: logger}
	poiHandler := &handlers.POIHandler{Repo: pois, Cfg: cfg, Logger: logger}
	siteHandler := &handlers.SiteHandler{Cfg: cfg, Logger: logger}
	navigateHandler := &handlers.NavigateHandler{
		Provider: provider,
		Bus:      bus,
		Cfg:      cfg,
		Logger:   logger,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/api/routes", routeHandler.Calculate)
	mux.HandleFunc("/api/pois", poiHandler.List)
	mux.HandleFunc("/api/sites", siteHandler.List)
	mux.HandleFunc("/api/navigate", navigateHandler.Navigate)

	return loggingMiddleware(logger, mux)
}
