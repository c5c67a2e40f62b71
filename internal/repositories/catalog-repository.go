package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
)

type CatalogRepositoryInterface interface {
	ListEquipmentStatuses(ctx context.Context) ([]entities.EstadoEquipo, error)
	ListEquipmentTypes(ctx context.Context) ([]entities.TipoEquipo, error)
	ListMovementTypes(ctx context.Context) ([]entities.TipoMovimiento, error)
	ListMovementStatuses(ctx context.Context) ([]entities.EstadoMovimiento, error)
	ListUbicaciones(ctx context.Context) ([]entities.Ubicacion, error)
	ListSucursales(ctx context.Context) ([]entities.Sucursal, error)
	FindEquipmentStatusByName(ctx context.Context, tx pgx.Tx, name string) (*entities.EstadoEquipo, error)
	FindUbicacion(ctx context.Context, id uint64) (*entities.Ubicacion, error)
	SeedEquipmentStatus(ctx context.Context, name, description string) error
	SeedEquipmentType(ctx context.Context, name, description string) error
	SeedMovementType(ctx context.Context, code, description string) error
	SeedMovementStatus(ctx context.Context, code, description string) error
}

type CatalogRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewCatalogRepository(storage *pgxpool.Pool, logger *zap.Logger) CatalogRepositoryInterface {
	return &CatalogRepository{storage: storage, logger: logger}
}

func (r *CatalogRepository) q(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *CatalogRepository) ListEquipmentStatuses(ctx context.Context) ([]entities.EstadoEquipo, error) {
	rows, err := r.storage.Query(ctx, `SELECT id, name, description, created_at, updated_at FROM estados_equipo ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entities.EstadoEquipo
	for rows.Next() {
		var e entities.EstadoEquipo
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) ListEquipmentTypes(ctx context.Context) ([]entities.TipoEquipo, error) {
	rows, err := r.storage.Query(ctx, `SELECT id, name, description, created_at, updated_at FROM tipos_equipo ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entities.TipoEquipo
	for rows.Next() {
		var t entities.TipoEquipo
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) ListMovementTypes(ctx context.Context) ([]entities.TipoMovimiento, error) {
	rows, err := r.storage.Query(ctx, `SELECT id, code, description, created_at, updated_at FROM tipos_movimiento ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entities.TipoMovimiento
	for rows.Next() {
		var t entities.TipoMovimiento
		if err := rows.Scan(&t.ID, &t.Code, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) ListMovementStatuses(ctx context.Context) ([]entities.EstadoMovimiento, error) {
	rows, err := r.storage.Query(ctx, `SELECT id, code, description, created_at, updated_at FROM estados_movimiento ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entities.EstadoMovimiento
	for rows.Next() {
		var e entities.EstadoMovimiento
		if err := rows.Scan(&e.ID, &e.Code, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) ListUbicaciones(ctx context.Context) ([]entities.Ubicacion, error) {
	rows, err := r.storage.Query(ctx, `SELECT id, name, sucursal_id, created_at, updated_at FROM ubicaciones ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entities.Ubicacion
	for rows.Next() {
		var u entities.Ubicacion
		if err := rows.Scan(&u.ID, &u.Name, &u.SucursalID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) ListSucursales(ctx context.Context) ([]entities.Sucursal, error) {
	rows, err := r.storage.Query(ctx, `SELECT id, name, short_name, address, created_at, updated_at FROM sucursales ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entities.Sucursal
	for rows.Next() {
		var s entities.Sucursal
		if err := rows.Scan(&s.ID, &s.Name, &s.ShortName, &s.Address, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) FindEquipmentStatusByName(ctx context.Context, tx pgx.Tx, name string) (*entities.EstadoEquipo, error) {
	var e entities.EstadoEquipo
	err := r.q(tx).QueryRow(ctx,
		`SELECT id, name, description, created_at, updated_at FROM estados_equipo WHERE name = $1`, name,
	).Scan(&e.ID, &e.Name, &e.Description, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("equipment status %q not seeded: %w", name, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *CatalogRepository) FindUbicacion(ctx context.Context, id uint64) (*entities.Ubicacion, error) {
	var u entities.Ubicacion
	err := r.storage.QueryRow(ctx,
		`SELECT id, name, sucursal_id, created_at, updated_at FROM ubicaciones WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.SucursalID, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Seeding is at-least-once safe: a repeat run only refreshes the description.

func (r *CatalogRepository) SeedEquipmentStatus(ctx context.Context, name, description string) error {
	_, err := r.storage.Exec(ctx, `
		INSERT INTO estados_equipo (name, description) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description, updated_at = NOW()
	`, name, description)
	return err
}

func (r *CatalogRepository) SeedEquipmentType(ctx context.Context, name, description string) error {
	_, err := r.storage.Exec(ctx, `
		INSERT INTO tipos_equipo (name, description) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description, updated_at = NOW()
	`, name, description)
	return err
}

func (r *CatalogRepository) SeedMovementType(ctx context.Context, code, description string) error {
	_, err := r.storage.Exec(ctx, `
		INSERT INTO tipos_movimiento (code, description) VALUES ($1, $2)
		ON CONFLICT (code) DO UPDATE SET description = EXCLUDED.description, updated_at = NOW()
	`, code, description)
	return err
}

func (r *CatalogRepository) SeedMovementStatus(ctx context.Context, code, description string) error {
	_, err := r.storage.Exec(ctx, `
		INSERT INTO estados_movimiento (code, description) VALUES ($1, $2)
		ON CONFLICT (code) DO UPDATE SET description = EXCLUDED.description, updated_at = NOW()
	`, code, description)
	return err
}
