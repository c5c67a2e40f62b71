package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
)

const faultTable = "fallas"

var faultColumns = []string{
	"f.id", "f.folio", "f.equipo_serial", "f.categoria", "f.descripcion", "f.sintomas",
	"f.prioridad", "f.impacto", "f.reporter_id", "f.technician_id", "f.estado",
	"f.resolucion", "f.resolved_at", "f.solution_hours", "f.repair_cost",
	"f.requires_parts", "f.notes", "f.ubicacion_id", "f.created_at", "f.updated_at",
}

type FaultRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, fault entities.Fault) (uint64, error)
	FindByID(ctx context.Context, id uint64) (*entities.Fault, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, fault entities.Fault) error
	ListOpenBySerial(ctx context.Context, tx pgx.Tx, serial string) ([]entities.Fault, error)
	List(ctx context.Context, filter dto.FaultFilter) ([]entities.Fault, uint64, error)
}

type FaultRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewFaultRepository(storage *pgxpool.Pool, logger *zap.Logger) FaultRepositoryInterface {
	return &FaultRepository{storage: storage, logger: logger}
}

func (r *FaultRepository) q(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func scanFault(row pgx.Row) (*entities.Fault, error) {
	var f entities.Fault
	var technicianID sql.NullInt64
	var resolucion sql.NullString
	var resolvedAt sql.NullTime
	var solutionHours, repairCost sql.NullFloat64

	err := row.Scan(
		&f.ID, &f.Folio, &f.EquipoSerial, &f.Categoria, &f.Descripcion, &f.Sintomas,
		&f.Prioridad, &f.Impacto, &f.ReporterID, &technicianID, &f.Estado,
		&resolucion, &resolvedAt, &solutionHours, &repairCost,
		&f.RequiresParts, &f.Notes, &f.UbicacionID, &f.CreatedAt, &f.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan fault: %w", err)
	}

	if technicianID.Valid {
		v := uint64(technicianID.Int64)
		f.TechnicianID = &v
	}
	if resolucion.Valid {
		f.Resolucion = &resolucion.String
	}
	if resolvedAt.Valid {
		f.ResolvedAt = &resolvedAt.Time
	}
	if solutionHours.Valid {
		f.SolutionHours = &solutionHours.Float64
	}
	if repairCost.Valid {
		f.RepairCost = &repairCost.Float64
	}

	return &f, nil
}

func (r *FaultRepository) Create(ctx context.Context, tx pgx.Tx, fault entities.Fault) (uint64, error) {
	query := `
		INSERT INTO fallas (folio, equipo_serial, categoria, descripcion, sintomas, prioridad, impacto,
		                    reporter_id, technician_id, estado, requires_parts, notes, ubicacion_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING id
	`
	var newID uint64
	err := r.q(tx).QueryRow(ctx, query,
		fault.Folio, fault.EquipoSerial, fault.Categoria, fault.Descripcion, fault.Sintomas,
		fault.Prioridad, fault.Impacto, fault.ReporterID, fault.TechnicianID, fault.Estado,
		fault.RequiresParts, fault.Notes, fault.UbicacionID,
	).Scan(&newID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, apperrors.ErrBadRequest
		}
		return 0, err
	}
	return newID, nil
}

func (r *FaultRepository) FindByID(ctx context.Context, id uint64) (*entities.Fault, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(faultColumns...).
		From(faultTable + " AS f").
		Where(sq.Eq{"f.id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanFault(r.storage.QueryRow(ctx, query, args...))
}

// Update persists the mutable subset of a fault. Transition legality is the
// service's responsibility; faults are never deleted.
func (r *FaultRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, fault entities.Fault) error {
	result, err := r.q(tx).Exec(ctx, `
		UPDATE fallas
		SET estado = $2, technician_id = $3, resolucion = $4, resolved_at = $5,
		    solution_hours = $6, repair_cost = $7, requires_parts = $8, notes = $9,
		    updated_at = NOW()
		WHERE id = $1
	`, id, fault.Estado, fault.TechnicianID, fault.Resolucion, fault.ResolvedAt,
		fault.SolutionHours, fault.RepairCost, fault.RequiresParts, fault.Notes)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListOpenBySerial returns all faults of the unit still in ABIERTA or
// EN_PROCESO. Used to re-derive equipment status after a resolution, so it
// must run inside the same transaction as the status write.
func (r *FaultRepository) ListOpenBySerial(ctx context.Context, tx pgx.Tx, serial string) ([]entities.Fault, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(faultColumns...).
		From(faultTable + " AS f").
		Where(sq.Eq{
			"f.equipo_serial": serial,
			"f.estado":        []string{entities.FaultStatusOpen, entities.FaultStatusInProgress},
		}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.q(tx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var faults []entities.Fault
	for rows.Next() {
		f, err := scanFault(rows)
		if err != nil {
			return nil, err
		}
		faults = append(faults, *f)
	}
	return faults, rows.Err()
}

func (r *FaultRepository) List(ctx context.Context, filter dto.FaultFilter) ([]entities.Fault, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	base := psql.Select().
		From(faultTable + " AS f").
		Join("equipos e ON e.serial = f.equipo_serial")

	if filter.SucursalID > 0 {
		base = base.Where(sq.Eq{"e.sucursal_id": filter.SucursalID})
	}
	if filter.TechnicianID > 0 {
		base = base.Where(sq.Eq{"f.technician_id": filter.TechnicianID})
	}
	if filter.Categoria != "" {
		base = base.Where(sq.Eq{"f.categoria": filter.Categoria})
	}
	if filter.Prioridad != "" {
		base = base.Where(sq.Eq{"f.prioridad": filter.Prioridad})
	}
	if filter.Estado != "" {
		base = base.Where(sq.Eq{"f.estado": filter.Estado})
	}
	if filter.DateFrom != nil {
		base = base.Where(sq.GtOrEq{"f.created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		base = base.Where(sq.LtOrEq{"f.created_at": *filter.DateTo})
	}

	countQuery, countArgs, err := base.Columns("COUNT(f.id)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Fault{}, 0, nil
	}

	builder := base.Columns(faultColumns...).
		OrderBy(`CASE f.prioridad
			WHEN 'CRITICA' THEN 0
			WHEN 'ALTA' THEN 1
			WHEN 'NORMAL' THEN 2
			WHEN 'BAJA' THEN 3
			ELSE 4
		END`, "f.created_at ASC")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var faults []entities.Fault
	for rows.Next() {
		f, err := scanFault(rows)
		if err != nil {
			return nil, 0, err
		}
		faults = append(faults, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return faults, total, nil
}
