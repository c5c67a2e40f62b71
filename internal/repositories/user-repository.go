package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
)

type UserRepositoryInterface interface {
	FindUser(ctx context.Context, id uint64) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

const userSelect = `
	SELECT id, fio, email, password, role, sucursal_id, created_at, updated_at
	FROM usuarios
`

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	var sucursalID sql.NullInt64

	err := row.Scan(&u.ID, &u.Fio, &u.Email, &u.Password, &u.Role, &sucursalID, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}

	if sucursalID.Valid {
		v := uint64(sucursalID.Int64)
		u.SucursalID = &v
	}
	return &u, nil
}

func (r *UserRepository) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	return scanUser(r.storage.QueryRow(ctx, userSelect+` WHERE id = $1`, id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return scanUser(r.storage.QueryRow(ctx, userSelect+` WHERE email = $1`, email))
}
