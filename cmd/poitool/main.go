package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"campground-nav-service/internal/adapters/repositories"
	"campground-nav-service/internal/config"
	"campground-nav-service/internal/platform/db"
	"campground-nav-service/internal/ports"
)

var (
	configPath string
	siteID     string
	geojsonArg string
)

var rootCmd = &cobra.Command{
	Use:   "poitool",
	Short: "Manage the navigation service's POI storage",
	Long: `poitool initializes the POI schema and imports points of interest
from GeoJSON map exports, against whichever storage backend config.yml selects.`,
	SilenceUsage: true,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the POI and route cache tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return withDB(cmd.Context(), cfg, func(ctx context.Context, conn *sql.DB, _ ports.POIRepository) error {
			// Schema creation already ran inside withDB; nothing else to do.
			log.Printf("schema ready (%s backend)", cfg.Storage.POIBackend)
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import points of interest from GeoJSON exports",
	Long: `seed imports every configured site's GeoJSON file. With --site it
imports one site only, and --geojson overrides that site's configured file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if geojsonArg != "" && siteID == "" {
			return errors.New("--geojson requires --site")
		}
		return withDB(cmd.Context(), cfg, func(ctx context.Context, conn *sql.DB, repo ports.POIRepository) error {
			seeded := 0
			for _, site := range cfg.Sites {
				if siteID != "" && site.ID != siteID {
					continue
				}
				path := site.GeoJSON
				if geojsonArg != "" {
					path = geojsonArg
				}
				if path == "" {
					log.Printf("site %s has no geojson file, skipping", site.ID)
					continue
				}
				if err := seedSite(ctx, conn, repo, site.ID, path); err != nil {
					return err
				}
				log.Printf("seeded %s from %s", site.ID, path)
				seeded++
			}
			if siteID != "" && seeded == 0 {
				return fmt.Errorf("unknown site %q", siteID)
			}
			return nil
		})
	},
}

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List the configured campground sites",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCENTER\tMODE\tGEOJSON")
		for _, s := range cfg.Sites {
			fmt.Fprintf(w, "%s\t%s\t%.5f,%.5f\t%s\t%s\n",
				s.ID, s.Name, s.Lat, s.Lng, s.DefaultMode, s.GeoJSON)
		}
		return w.Flush()
	},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yml")
	seedCmd.Flags().StringVarP(&siteID, "site", "s", "", "seed only this site")
	seedCmd.Flags().StringVarP(&geojsonArg, "geojson", "g", "", "GeoJSON file overriding the site's configured one")

	rootCmd.AddCommand(initCmd, seedCmd, sitesCmd)
}

// withDB opens the configured backend, ensures its schema and hands the
// connection plus a matching repository to fn.
func withDB(ctx context.Context, cfg config.AppConfig, fn func(context.Context, *sql.DB, ports.POIRepository) error) error {
	switch cfg.Storage.POIBackend {
	case "postgres":
		url := os.Getenv("DATABASE_URL")
		if strings.TrimSpace(url) == "" {
			return errors.New("DATABASE_URL is required for the postgres poi backend")
		}
		conn, err := db.OpenPostgres(url)
		if err != nil {
			return err
		}
		defer conn.Close()
		if err := repositories.InitPostgresSchema(ctx, conn); err != nil {
			return err
		}
		return fn(ctx, conn, repositories.NewPgPOIRepository(conn))

	default:
		conn, err := db.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return err
		}
		defer conn.Close()
		if err := repositories.InitSchema(conn); err != nil {
			return err
		}
		return fn(ctx, conn, repositories.NewSqlitePOIRepository(conn))
	}
}

// seedSite picks the import path per backend: sqlite has a direct GeoJSON
// loader, postgres goes through the repository upsert.
func seedSite(ctx context.Context, conn *sql.DB, repo ports.POIRepository, site, path string) error {
	if _, ok := repo.(*repositories.SqlitePOIRepository); ok {
		return repositories.SeedFromGeoJSON(conn, site, path)
	}
	pois, err := repositories.POIsFromGeoJSON(site, path)
	if err != nil {
		return err
	}
	return repo.UpsertPOIs(ctx, pois)
}
