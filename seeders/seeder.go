package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedBranches fills sucursales and ubicaciones with a demo topology. All
// inserts are idempotent, so rerunning the seeder leaves the tables as-is.
func SeedBranches(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("seeding branches and locations...")

	if err := seedSucursales(ctx, db); err != nil {
		log.Fatalf("seeding sucursales failed: %v", err)
	}
	if err := seedUbicaciones(ctx, db); err != nil {
		log.Fatalf("seeding ubicaciones failed: %v", err)
	}
	log.Println("branches and locations done")
}

// SeedUsers creates the admin account and a couple of demo technicians.
func SeedUsers(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("seeding users...")

	if err := seedAdmin(ctx, db); err != nil {
		log.Fatalf("seeding admin failed: %v", err)
	}
	if err := seedTechnicians(ctx, db); err != nil {
		log.Fatalf("seeding technicians failed: %v", err)
	}
	log.Println("users done")
}

// SeedEquipment registers a handful of demo units across the seeded
// locations. Depends on SeedBranches and the catalog bootstrap having run.
func SeedEquipment(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("seeding equipment...")

	if err := seedDemoEquipment(ctx, db); err != nil {
		log.Fatalf("seeding equipment failed: %v", err)
	}
	log.Println("equipment done")
}
