package main

import (
	"context"
	"flag"
	"log"
	"time"

	"inventory-system/internal/repositories"
	"inventory-system/internal/services"
	"inventory-system/pkg/config"
	"inventory-system/pkg/database/postgresql"
	applogger "inventory-system/pkg/logger"
	"inventory-system/seeders"
)

// nopCacheRepo satisfies the cache dependency of the catalog service; the
// seeder runs offline and has nothing to cache or invalidate.
type nopCacheRepo struct{}

func (nopCacheRepo) Get(ctx context.Context, key string) (string, error) { return "", nil }
func (nopCacheRepo) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}
func (nopCacheRepo) Del(ctx context.Context, keys ...string) error { return nil }

func main() {
	runCatalogs := flag.Bool("catalogs", false, "seed the catalog tables (statuses, types)")
	runBranches := flag.Bool("branches", false, "seed demo branches and locations")
	runUsers := flag.Bool("users", false, "seed the admin account and demo technicians")
	runEquipment := flag.Bool("equipment", false, "seed demo equipment (requires -catalogs and -branches)")
	runAll := flag.Bool("all", false, "run every seeder in dependency order")
	flag.Parse()

	if !*runCatalogs && !*runBranches && !*runUsers && !*runEquipment && !*runAll {
		log.Println("no seeder selected")
		flag.PrintDefaults()
		return
	}

	cfg := config.New()
	logger := applogger.NewLogger()

	if err := postgresql.RunMigrations(cfg.Postgres.DSN); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbPool.Close()

	if *runAll || *runCatalogs {
		catalogRepo := repositories.NewCatalogRepository(dbPool, logger)
		catalogService := services.NewCatalogService(catalogRepo, nopCacheRepo{}, 0, logger)
		if err := catalogService.Bootstrap(context.Background()); err != nil {
			log.Fatalf("catalog bootstrap failed: %v", err)
		}
		log.Println("catalogs done")
	}
	if *runAll || *runBranches {
		seeders.SeedBranches(dbPool)
	}
	if *runAll || *runUsers {
		seeders.SeedUsers(dbPool)
	}
	if *runAll || *runEquipment {
		seeders.SeedEquipment(dbPool)
	}
}
