package seeders

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type sucursalSeed struct {
	name      string
	shortName string
	address   string
}

var sucursales = []sucursalSeed{
	{"Casa Matriz", "CM", "Av. Central 100"},
	{"Sucursal Norte", "SN", "Calle Norte 45"},
	{"Sucursal Sur", "SS", "Av. del Sur 230"},
}

type ubicacionSeed struct {
	name     string
	sucursal string
}

var ubicaciones = []ubicacionSeed{
	{"Oficina TI", "Casa Matriz"},
	{"Bodega Central", "Casa Matriz"},
	{"Recepcion", "Sucursal Norte"},
	{"Area de Cajas", "Sucursal Norte"},
	{"Oficina Administrativa", "Sucursal Sur"},
}

func seedSucursales(ctx context.Context, db *pgxpool.Pool) error {
	for _, s := range sucursales {
		_, err := db.Exec(ctx, `
			INSERT INTO sucursales (name, short_name, address, created_at, updated_at)
			VALUES ($1, $2, $3, NOW(), NOW())
			ON CONFLICT (name) DO NOTHING`,
			s.name, s.shortName, s.address)
		if err != nil {
			return fmt.Errorf("insert sucursal %q: %w", s.name, err)
		}
	}
	return nil
}

func seedUbicaciones(ctx context.Context, db *pgxpool.Pool) error {
	for _, u := range ubicaciones {
		var sucursalID uint64
		if err := db.QueryRow(ctx, `SELECT id FROM sucursales WHERE name = $1`, u.sucursal).Scan(&sucursalID); err != nil {
			return fmt.Errorf("sucursal %q not found for ubicacion %q: %w", u.sucursal, u.name, err)
		}

		_, err := db.Exec(ctx, `
			INSERT INTO ubicaciones (name, sucursal_id, created_at, updated_at)
			VALUES ($1, $2, NOW(), NOW())
			ON CONFLICT (name, sucursal_id) DO NOTHING`,
			u.name, sucursalID)
		if err != nil {
			return fmt.Errorf("insert ubicacion %q: %w", u.name, err)
		}
	}
	return nil
}
