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
	apperrors "inventory-system/pkg/errors"
)

const (
	movementTable          = "movimientos"
	maintenanceDetailTable = "movimientos_mantenimiento"
)

// priorityOrderCase reproduces the listing contract: CRITICA first, BAJA
// last. Kept as a single expression so the ordering lives in exactly one
// place.
const priorityOrderCase = `CASE md.priority
		WHEN 'CRITICA' THEN 0
		WHEN 'ALTA' THEN 1
		WHEN 'NORMAL' THEN 2
		WHEN 'BAJA' THEN 3
		ELSE 4
	END`

type MovementRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, movement entities.Movement) (uint64, error)
	FindByID(ctx context.Context, id uint64) (*entities.Movement, error)
	FindOpenMaintenanceSerials(ctx context.Context, serials []string) ([]string, error)
	CloseOpenTransfers(ctx context.Context, tx pgx.Tx, serial string, at time.Time) error
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status string, endedAt *time.Time, actualHours *float64) error
	ListMaintenance(ctx context.Context, filter dto.MaintenanceFilter) ([]dto.MaintenanceItemDTO, uint64, error)
	TechnicianAggregates(ctx context.Context, filter dto.MaintenanceFilter) ([]dto.TechnicianAggregateDTO, error)
}

type MovementRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewMovementRepository(storage *pgxpool.Pool, logger *zap.Logger) MovementRepositoryInterface {
	return &MovementRepository{storage: storage, logger: logger}
}

func (r *MovementRepository) q(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

// Create inserts the movement row and, for MANTENIMIENTO, its detail row in
// the same transaction. The partial unique index on open maintenance rows
// turns a lost check-then-insert race into a conflict here instead of a
// duplicate.
func (r *MovementRepository) Create(ctx context.Context, tx pgx.Tx, movement entities.Movement) (uint64, error) {
	query := `
		INSERT INTO movimientos (folio, equipo_serial, tipo, estado, origen_id, destino_id, user_id, notes, started_at, ended_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id
	`
	startedAt := movement.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	var newID uint64
	err := r.q(tx).QueryRow(ctx, query,
		movement.Folio, movement.EquipoSerial, movement.Tipo, movement.Estado,
		movement.OrigenID, movement.DestinoID, movement.UserID, movement.Notes, startedAt, movement.EndedAt,
	).Scan(&newID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperrors.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return 0, apperrors.ErrBadRequest
		}
		return 0, err
	}

	if movement.Maintenance != nil {
		detail := movement.Maintenance
		_, err = r.q(tx).Exec(ctx, `
			INSERT INTO movimientos_mantenimiento (movimiento_id, kind, priority, scheduled_date, estimated_hours, technician_id, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, newID, detail.Kind, detail.Priority, detail.ScheduledDate, detail.EstimatedHours, detail.TechnicianID, detail.Description)
		if err != nil {
			return 0, fmt.Errorf("insert maintenance detail: %w", err)
		}
	}

	return newID, nil
}

func (r *MovementRepository) FindByID(ctx context.Context, id uint64) (*entities.Movement, error) {
	query := `
		SELECT m.id, m.folio, m.equipo_serial, m.tipo, m.estado, m.origen_id, m.destino_id,
		       m.user_id, m.notes, m.started_at, m.ended_at, m.created_at, m.updated_at,
		       md.kind, md.priority, md.scheduled_date, md.estimated_hours, md.actual_hours,
		       md.technician_id, md.description
		FROM movimientos m
		LEFT JOIN movimientos_mantenimiento md ON md.movimiento_id = m.id
		WHERE m.id = $1
	`

	var m entities.Movement
	var origenID, destinoID sql.NullInt64
	var endedAt sql.NullTime
	var kind, priority, description sql.NullString
	var scheduledDate sql.NullTime
	var estimatedHours, actualHours sql.NullFloat64
	var technicianID sql.NullInt64

	err := r.storage.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Folio, &m.EquipoSerial, &m.Tipo, &m.Estado, &origenID, &destinoID,
		&m.UserID, &m.Notes, &m.StartedAt, &endedAt, &m.CreatedAt, &m.UpdatedAt,
		&kind, &priority, &scheduledDate, &estimatedHours, &actualHours,
		&technicianID, &description,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan movement: %w", err)
	}

	if origenID.Valid {
		v := uint64(origenID.Int64)
		m.OrigenID = &v
	}
	if destinoID.Valid {
		v := uint64(destinoID.Int64)
		m.DestinoID = &v
	}
	if endedAt.Valid {
		m.EndedAt = &endedAt.Time
	}
	if kind.Valid {
		detail := &entities.MaintenanceDetail{
			MovimientoID:   m.ID,
			Kind:           kind.String,
			Priority:       priority.String,
			ScheduledDate:  scheduledDate.Time,
			EstimatedHours: estimatedHours.Float64,
			TechnicianID:   uint64(technicianID.Int64),
			Description:    description.String,
		}
		if actualHours.Valid {
			detail.ActualHours = &actualHours.Float64
		}
		m.Maintenance = detail
	}

	return &m, nil
}

// FindOpenMaintenanceSerials returns, out of the given serials, the ones that
// already have an ABIERTO maintenance movement.
func (r *MovementRepository) FindOpenMaintenanceSerials(ctx context.Context, serials []string) ([]string, error) {
	if len(serials) == 0 {
		return nil, nil
	}

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select("DISTINCT m.equipo_serial").
		From(movementTable + " AS m").
		Where(sq.Eq{
			"m.equipo_serial": serials,
			"m.tipo":          entities.MovementTypeMaintenance,
			"m.estado":        entities.MovementStatusOpen,
		}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var open []string
	for rows.Next() {
		var serial string
		if err := rows.Scan(&serial); err != nil {
			return nil, err
		}
		open = append(open, serial)
	}
	return open, rows.Err()
}

// CloseOpenTransfers completes any still-open TRASLADO movement of the unit
// before a new transfer is recorded, so at most one transfer is ever open.
func (r *MovementRepository) CloseOpenTransfers(ctx context.Context, tx pgx.Tx, serial string, at time.Time) error {
	_, err := r.q(tx).Exec(ctx, `
		UPDATE movimientos
		SET estado = $3, ended_at = $2, updated_at = NOW()
		WHERE equipo_serial = $1 AND tipo = $4 AND estado NOT IN ($5, $6)
	`, serial, at, entities.MovementStatusCompleted, entities.MovementTypeTransfer,
		entities.MovementStatusCompleted, entities.MovementStatusCancelled)
	return err
}

// UpdateStatus progresses a movement's status. The state machine itself is
// checked by the service; this only persists the transition.
func (r *MovementRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status string, endedAt *time.Time, actualHours *float64) error {
	result, err := r.q(tx).Exec(ctx, `
		UPDATE movimientos SET estado = $2, ended_at = COALESCE($3, ended_at), updated_at = NOW()
		WHERE id = $1
	`, id, status, endedAt)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if actualHours != nil {
		_, err = r.q(tx).Exec(ctx, `
			UPDATE movimientos_mantenimiento SET actual_hours = $2 WHERE movimiento_id = $1
		`, id, *actualHours)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *MovementRepository) maintenanceBase(filter dto.MaintenanceFilter) sq.SelectBuilder {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Select().
		From(movementTable + " AS m").
		Join(maintenanceDetailTable + " AS md ON md.movimiento_id = m.id").
		Join("equipos e ON e.serial = m.equipo_serial").
		Join("usuarios u ON u.id = md.technician_id").
		Where(sq.Eq{"m.tipo": entities.MovementTypeMaintenance})

	if filter.SucursalID > 0 {
		builder = builder.Where(sq.Eq{"e.sucursal_id": filter.SucursalID})
	}
	if filter.TechnicianID > 0 {
		builder = builder.Where(sq.Eq{"md.technician_id": filter.TechnicianID})
	}
	if filter.Kind != "" {
		builder = builder.Where(sq.Eq{"md.kind": filter.Kind})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"m.estado": filter.Status})
	}
	if filter.DateFrom != nil {
		builder = builder.Where(sq.GtOrEq{"md.scheduled_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		builder = builder.Where(sq.LtOrEq{"md.scheduled_date": *filter.DateTo})
	}
	return builder
}

func (r *MovementRepository) maintenanceListQuery(filter dto.MaintenanceFilter) sq.SelectBuilder {
	builder := r.maintenanceBase(filter).Columns(
		"m.id", "m.folio", "m.equipo_serial", "e.name", "m.estado",
		"md.kind", "md.priority", "md.scheduled_date", "md.estimated_hours", "md.actual_hours",
		"md.technician_id", "u.fio", "e.sucursal_id", "md.description", "m.ended_at",
	).OrderBy(priorityOrderCase, "md.scheduled_date ASC")

	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}
	return builder
}

// ListMaintenance returns maintenance movements ordered by priority rank
// (CRITICA > ALTA > NORMAL > BAJA) and then by scheduled date ascending.
// The ordering is part of the API contract.
func (r *MovementRepository) ListMaintenance(ctx context.Context, filter dto.MaintenanceFilter) ([]dto.MaintenanceItemDTO, uint64, error) {
	countQuery, countArgs, err := r.maintenanceBase(filter).Columns("COUNT(m.id)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.MaintenanceItemDTO{}, 0, nil
	}

	query, args, err := r.maintenanceListQuery(filter).ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []dto.MaintenanceItemDTO
	for rows.Next() {
		var item dto.MaintenanceItemDTO
		var actualHours sql.NullFloat64
		var endedAt sql.NullTime
		err := rows.Scan(
			&item.MovementID, &item.Folio, &item.EquipoSerial, &item.EquipmentName, &item.Estado,
			&item.Kind, &item.Priority, &item.ScheduledDate, &item.EstimatedHours, &actualHours,
			&item.TechnicianID, &item.TechnicianName, &item.SucursalID, &item.Description, &endedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan maintenance row: %w", err)
		}
		if actualHours.Valid {
			item.ActualHours = &actualHours.Float64
		}
		if endedAt.Valid {
			item.EndedAt = &endedAt.Time
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// TechnicianAggregates computes per-technician counts by kind and the average
// of recorded actual hours, over the same filtered set as ListMaintenance.
func (r *MovementRepository) TechnicianAggregates(ctx context.Context, filter dto.MaintenanceFilter) ([]dto.TechnicianAggregateDTO, error) {
	builder := r.maintenanceBase(filter).Columns(
		"md.technician_id", "u.fio", "md.kind",
		"COUNT(m.id)", "SUM(md.actual_hours)", "COUNT(md.actual_hours)",
	).GroupBy("md.technician_id", "u.fio", "md.kind").
		OrderBy("md.technician_id")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type hoursAcc struct {
		sum   float64
		count int
	}
	byTech := make(map[uint64]*dto.TechnicianAggregateDTO)
	hours := make(map[uint64]*hoursAcc)
	var order []uint64

	for rows.Next() {
		var technicianID uint64
		var fio, kind string
		var count int
		var hoursSum sql.NullFloat64
		var hoursCount int
		if err := rows.Scan(&technicianID, &fio, &kind, &count, &hoursSum, &hoursCount); err != nil {
			return nil, err
		}

		agg, ok := byTech[technicianID]
		if !ok {
			agg = &dto.TechnicianAggregateDTO{
				TechnicianID:   technicianID,
				TechnicianName: fio,
				CountsByKind:   make(map[string]int),
			}
			byTech[technicianID] = agg
			hours[technicianID] = &hoursAcc{}
			order = append(order, technicianID)
		}
		agg.CountsByKind[kind] += count
		agg.TotalAssignments += count
		if hoursSum.Valid {
			hours[technicianID].sum += hoursSum.Float64
			hours[technicianID].count += hoursCount
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	aggregates := make([]dto.TechnicianAggregateDTO, 0, len(order))
	for _, id := range order {
		agg := byTech[id]
		if acc := hours[id]; acc.count > 0 {
			agg.AvgActualHours = acc.sum / float64(acc.count)
		}
		aggregates = append(aggregates, *agg)
	}
	return aggregates, nil
}
