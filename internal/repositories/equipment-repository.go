package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	db "inventory-system/internal/infrastructure/db"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

const equipmentTable = "equipos"

// Filter/sort allow-map: JSON field -> column.
var equipmentFieldMap = map[string]string{
	"serial":       "e.serial",
	"name":         "e.name",
	"model":        "e.model",
	"asset_number": "e.asset_number",
	"tipo_id":      "e.tipo_id",
	"estado_id":    "e.estado_id",
	"ubicacion_id": "e.ubicacion_id",
	"sucursal_id":  "e.sucursal_id",
	"created_at":   "e.created_at",
	"updated_at":   "e.updated_at",
}

type EquipmentRepositoryInterface interface {
	Create(ctx context.Context, equipment entities.Equipment) (*entities.Equipment, error)
	FindBySerial(ctx context.Context, serial string) (*entities.Equipment, error)
	List(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	ListDeleted(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	Update(ctx context.Context, serial string, changes dto.UpdateEquipmentDTO) error
	SoftDelete(ctx context.Context, serial string, actor uint64, at time.Time) error
	Restore(ctx context.Context, serial string) error
	UpdateStatus(ctx context.Context, tx pgx.Tx, serial string, estadoID uint64) error
	UpdateLocation(ctx context.Context, tx pgx.Tx, serial string, ubicacionID, sucursalID uint64) error
	ResolveSerials(ctx context.Context, serials []string) (map[string]*entities.Equipment, error)
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage, logger: logger}
}

func (r *EquipmentRepository) q(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

var equipmentColumns = []string{
	"e.serial", "e.name", "e.model", "e.asset_number",
	"e.tipo_id", "e.estado_id", "e.assigned_user_id", "e.ubicacion_id", "e.sucursal_id",
	"e.is_deleted", "e.deleted_at", "e.deleted_by",
	"e.created_at", "e.updated_at",
	"COALESCE(t.id, 0)", "COALESCE(t.name, '')",
	"COALESCE(s.id, 0)", "COALESCE(s.name, '')",
	"COALESCE(u.id, 0)", "COALESCE(u.name, '')",
	"COALESCE(b.id, 0)", "COALESCE(b.name, '')",
}

// baseSelect centralizes the joins and, crucially, the soft-delete filter.
// Every read path goes through here; deleted rows only show up when the
// caller asks for the deleted view or looks a unit up by serial.
func (r *EquipmentRepository) baseSelect(deleted *bool) sq.SelectBuilder {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Select(equipmentColumns...).
		From(equipmentTable + " AS e").
		LeftJoin("tipos_equipo t ON e.tipo_id = t.id").
		LeftJoin("estados_equipo s ON e.estado_id = s.id").
		LeftJoin("ubicaciones u ON e.ubicacion_id = u.id").
		LeftJoin("sucursales b ON e.sucursal_id = b.id")
	if deleted != nil {
		builder = builder.Where(sq.Eq{"e.is_deleted": *deleted})
	}
	return builder
}

func scanEquipment(row pgx.Row) (*entities.Equipment, error) {
	var e entities.Equipment
	var tipo entities.TipoEquipo
	var estado entities.EstadoEquipo
	var ubicacion entities.Ubicacion
	var sucursal entities.Sucursal

	var assetNumber sql.NullString
	var assignedUserID, deletedBy sql.NullInt64
	var deletedAt sql.NullTime

	err := row.Scan(
		&e.Serial, &e.Name, &e.Model, &assetNumber,
		&e.TipoID, &e.EstadoID, &assignedUserID, &e.UbicacionID, &e.SucursalID,
		&e.IsDeleted, &deletedAt, &deletedBy,
		&e.CreatedAt, &e.UpdatedAt,
		&tipo.ID, &tipo.Name,
		&estado.ID, &estado.Name,
		&ubicacion.ID, &ubicacion.Name,
		&sucursal.ID, &sucursal.Name,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan equipment: %w", err)
	}

	if assetNumber.Valid {
		e.AssetNumber = &assetNumber.String
	}
	if assignedUserID.Valid {
		id := uint64(assignedUserID.Int64)
		e.AssignedUserID = &id
	}
	if deletedAt.Valid {
		e.DeletedAt = &deletedAt.Time
	}
	if deletedBy.Valid {
		id := uint64(deletedBy.Int64)
		e.DeletedBy = &id
	}
	if tipo.ID > 0 {
		e.Tipo = &tipo
	}
	if estado.ID > 0 {
		e.Estado = &estado
	}
	if ubicacion.ID > 0 {
		e.Ubicacion = &ubicacion
	}
	if sucursal.ID > 0 {
		e.Sucursal = &sucursal
	}

	return &e, nil
}

func (r *EquipmentRepository) Create(ctx context.Context, equipment entities.Equipment) (*entities.Equipment, error) {
	query := `
		INSERT INTO equipos (serial, name, model, asset_number, tipo_id, estado_id, assigned_user_id, ubicacion_id, sucursal_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.storage.Exec(ctx, query,
		equipment.Serial, equipment.Name, equipment.Model, equipment.AssetNumber,
		equipment.TipoID, equipment.EstadoID, equipment.AssignedUserID,
		equipment.UbicacionID, equipment.SucursalID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return nil, apperrors.ErrBadRequest
		}
		return nil, err
	}

	return r.FindBySerial(ctx, equipment.Serial)
}

// FindBySerial retrieves a unit by its natural key, deleted or not.
func (r *EquipmentRepository) FindBySerial(ctx context.Context, serial string) (*entities.Equipment, error) {
	query, args, err := r.baseSelect(nil).Where(sq.Eq{"e.serial": serial}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanEquipment(r.storage.QueryRow(ctx, query, args...))
}

func (r *EquipmentRepository) List(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	deleted := false
	return r.list(ctx, filter, &deleted)
}

func (r *EquipmentRepository) ListDeleted(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	deleted := true
	return r.list(ctx, filter, &deleted)
}

func (r *EquipmentRepository) list(ctx context.Context, filter types.Filter, deleted *bool) ([]entities.Equipment, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.Search != "" {
			pat := "%" + filter.Search + "%"
			return b.Where(sq.Or{
				sq.ILike{"e.serial": pat},
				sq.ILike{"e.name": pat},
				sq.ILike{"e.model": pat},
			})
		}
		return b
	}

	countBuilder := psql.Select("COUNT(e.serial)").From(equipmentTable + " AS e")
	if deleted != nil {
		countBuilder = countBuilder.Where(sq.Eq{"e.is_deleted": *deleted})
	}
	countBuilder = applySearch(countBuilder)

	countFilter := filter
	countFilter.WithPagination = false
	countFilter.Sort = nil
	countBuilder = db.ApplyListParams(countBuilder, countFilter, equipmentFieldMap)

	var total uint64
	sqlCount, argsCount, _ := countBuilder.ToSql()
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Equipment{}, 0, nil
	}

	baseBuilder := applySearch(r.baseSelect(deleted))
	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("e.created_at DESC")
	}
	baseBuilder = db.ApplyListParams(baseBuilder, filter, equipmentFieldMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	equipos := make([]entities.Equipment, 0, filter.Limit)
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, 0, err
		}
		equipos = append(equipos, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return equipos, total, nil
}

// Update applies only the fields present in the DTO.
func (r *EquipmentRepository) Update(ctx context.Context, serial string, changes dto.UpdateEquipmentDTO) error {
	setMap := map[string]interface{}{"updated_at": sq.Expr("NOW()")}
	if changes.Name.Valid {
		setMap["name"] = changes.Name.String
	}
	if changes.Model.Valid {
		setMap["model"] = changes.Model.String
	}
	if changes.AssetNumber.Valid {
		setMap["asset_number"] = changes.AssetNumber.String
	}
	if changes.TipoID.Valid {
		setMap["tipo_id"] = changes.TipoID.Uint64
	}
	if changes.EstadoID.Valid {
		setMap["estado_id"] = changes.EstadoID.Uint64
	}
	if changes.UbicacionID.Valid {
		setMap["ubicacion_id"] = changes.UbicacionID.Uint64
	}
	if changes.SucursalID.Valid {
		setMap["sucursal_id"] = changes.SucursalID.Uint64
	}
	if changes.AssignedUserID.Valid {
		setMap["assigned_user_id"] = changes.AssignedUserID.Uint64
	}

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update(equipmentTable).
		SetMap(setMap).
		Where(sq.Eq{"serial": serial, "is_deleted": false}).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.ErrBadRequest
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SoftDelete marks the unit deleted. The guard on is_deleted distinguishes a
// repeat delete (conflict) from an unknown serial (not found).
func (r *EquipmentRepository) SoftDelete(ctx context.Context, serial string, actor uint64, at time.Time) error {
	query := `
		UPDATE equipos
		SET is_deleted = TRUE, deleted_at = $2, deleted_by = $3, updated_at = NOW()
		WHERE serial = $1 AND NOT is_deleted
	`
	result, err := r.storage.Exec(ctx, query, serial, at, actor)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return r.classifyMiss(ctx, serial, true)
	}
	return nil
}

// Restore clears the soft-delete triple and nothing else.
func (r *EquipmentRepository) Restore(ctx context.Context, serial string) error {
	query := `
		UPDATE equipos
		SET is_deleted = FALSE, deleted_at = NULL, deleted_by = NULL, updated_at = NOW()
		WHERE serial = $1 AND is_deleted
	`
	result, err := r.storage.Exec(ctx, query, serial)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return r.classifyMiss(ctx, serial, false)
	}
	return nil
}

// classifyMiss decides whether a guarded update missed because the serial is
// unknown (not found) or because the delete flag was already in the state the
// guard excluded (conflict).
func (r *EquipmentRepository) classifyMiss(ctx context.Context, serial string, expectLive bool) error {
	var isDeleted bool
	err := r.storage.QueryRow(ctx, `SELECT is_deleted FROM equipos WHERE serial = $1`, serial).Scan(&isDeleted)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return err
	}
	if expectLive == isDeleted {
		return apperrors.ErrConflict
	}
	return apperrors.ErrNotFound
}

func (r *EquipmentRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, serial string, estadoID uint64) error {
	result, err := r.q(tx).Exec(ctx,
		`UPDATE equipos SET estado_id = $2, updated_at = NOW() WHERE serial = $1 AND NOT is_deleted`,
		serial, estadoID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) UpdateLocation(ctx context.Context, tx pgx.Tx, serial string, ubicacionID, sucursalID uint64) error {
	result, err := r.q(tx).Exec(ctx,
		`UPDATE equipos SET ubicacion_id = $2, sucursal_id = $3, updated_at = NOW() WHERE serial = $1 AND NOT is_deleted`,
		serial, ubicacionID, sucursalID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ResolveSerials fetches all non-deleted units for the given serials in one
// round trip. Missing serials are simply absent from the map; callers decide
// whether that is fatal.
func (r *EquipmentRepository) ResolveSerials(ctx context.Context, serials []string) (map[string]*entities.Equipment, error) {
	if len(serials) == 0 {
		return map[string]*entities.Equipment{}, nil
	}

	deleted := false
	query, args, err := r.baseSelect(&deleted).Where(sq.Eq{"e.serial": serials}).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[string]*entities.Equipment, len(serials))
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		found[e.Serial] = e
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return found, nil
}
