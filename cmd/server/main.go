package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"campground-nav-service/internal/adapters/cache"
	"campground-nav-service/internal/adapters/directions"
	"campground-nav-service/internal/adapters/repositories"
	"campground-nav-service/internal/api"
	"campground-nav-service/internal/config"
	"campground-nav-service/internal/events"
	"campground-nav-service/internal/platform/db"
	"campground-nav-service/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (sqlite/postgres, redis, ORS) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(logger)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func newLogger() (*zap.Logger, error) {
	if strings.EqualFold(os.Getenv("LOG_MODE"), "dev") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// loadConfig reads config.yml. A missing file at the default path is not an
// error; the built-in defaults carry a bare local setup.
func loadConfig(logger *zap.Logger) (config.AppConfig, error) {
	path := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(path)
	if err != nil && path == "" && errors.Is(err, os.ErrNotExist) {
		logger.Warn("config.yml not found, using defaults")
		return config.Default(), nil
	}
	return cfg, err
}

func run(cfg config.AppConfig, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sqliteDB *sql.DB
	if cfg.Storage.POIBackend == "sqlite" || cfg.Storage.CacheBackend == "sqlite" {
		var err error
		sqliteDB, err = db.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return err
		}
		defer sqliteDB.Close()

		if err := repositories.InitSchema(sqliteDB); err != nil {
			return err
		}
	}

	pois, cleanup, err := newPOIRepository(ctx, cfg, sqliteDB)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	seedSites(cfg, sqliteDB, logger)

	routeCache := newRouteCache(ctx, cfg, sqliteDB, logger)
	provider, err := newRouteProvider(cfg, routeCache, logger)
	if err != nil {
		return err
	}

	bus := events.NewBus(logger)
	defer bus.Close()

	router := api.NewRouter(cfg, provider, pois, bus, logger)

	// Timeouts are tuned for cold-cache route computation (external API latency).
	// Websocket sessions manage their own per-message deadlines after the upgrade.
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening",
			zap.Int("port", cfg.Server.Port),
			zap.String("poi_backend", cfg.Storage.POIBackend),
			zap.String("cache_backend", cfg.Storage.CacheBackend),
			zap.Int("sites", len(cfg.Sites)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newPOIRepository(ctx context.Context, cfg config.AppConfig, sqliteDB *sql.DB) (ports.POIRepository, func(), error) {
	switch cfg.Storage.POIBackend {
	case "postgres":
		url := os.Getenv("DATABASE_URL")
		if strings.TrimSpace(url) == "" {
			return nil, nil, errors.New("DATABASE_URL is required for the postgres poi backend")
		}
		pg, err := db.OpenPostgres(url)
		if err != nil {
			return nil, nil, err
		}
		if err := repositories.InitPostgresSchema(ctx, pg); err != nil {
			pg.Close()
			return nil, nil, err
		}
		return repositories.NewPgPOIRepository(pg), func() { pg.Close() }, nil

	default:
		return repositories.NewSqlitePOIRepository(sqliteDB), nil, nil
	}
}

// seedSites imports configured GeoJSON exports on startup. Failures are
// logged and skipped; a missing map file must not keep navigation down.
func seedSites(cfg config.AppConfig, sqliteDB *sql.DB, logger *zap.Logger) {
	if cfg.Storage.POIBackend != "sqlite" || sqliteDB == nil {
		return
	}
	for _, site := range cfg.Sites {
		if site.GeoJSON == "" {
			continue
		}
		if err := repositories.SeedFromGeoJSON(sqliteDB, site.ID, site.GeoJSON); err != nil {
			logger.Warn("seed site pois", zap.String("site", site.ID), zap.Error(err))
			continue
		}
		logger.Info("seeded site pois", zap.String("site", site.ID), zap.String("file", site.GeoJSON))
	}
}

// newRouteCache picks the configured cache backend. A nil return means
// requests go straight to the provider.
func newRouteCache(ctx context.Context, cfg config.AppConfig, sqliteDB *sql.DB, logger *zap.Logger) ports.RouteCache {
	ttl := time.Duration(cfg.Directions.CacheTTLMinutes) * time.Minute

	switch cfg.Storage.CacheBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Storage.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unreachable, running without route cache",
				zap.String("addr", cfg.Storage.RedisAddr), zap.Error(err))
			_ = client.Close()
			return nil
		}
		return cache.NewRedisRouteCache(client, ttl)

	case "sqlite":
		if sqliteDB == nil {
			return nil
		}
		return cache.NewSqliteRouteCache(sqliteDB)

	default:
		return nil
	}
}

func newRouteProvider(cfg config.AppConfig, routeCache ports.RouteCache, logger *zap.Logger) (ports.RouteProvider, error) {
	orsKey := strings.TrimSpace(os.Getenv("ORS_API_KEY"))
	fallback := cfg.Directions.FallbackEnabled()

	var provider ports.RouteProvider
	switch {
	case orsKey != "":
		ors, err := directions.NewORSRouteProvider(orsKey, cfg.Directions.BaseURL, logger)
		if err != nil {
			return nil, err
		}
		provider = ors
		if fallback {
			provider = directions.NewCompositeRouteProvider(ors, directions.NewStraightLineProvider(), logger)
		}

	case fallback:
		logger.Warn("ORS_API_KEY is not set, serving straight-line routes only")
		provider = directions.NewStraightLineProvider()

	default:
		return nil, errors.New("ORS_API_KEY is required when the straight-line fallback is disabled")
	}

	if routeCache != nil {
		provider = directions.NewCachedRouteProvider(provider, routeCache, logger)
	}
	return provider, nil
}
