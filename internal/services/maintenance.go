package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
)

type MaintenanceServiceInterface interface {
	ScheduleMaintenance(ctx context.Context, payload dto.ScheduleMaintenanceDTO) (*dto.ScheduleMaintenanceResultDTO, error)
	CompleteMaintenance(ctx context.Context, movementID uint64, payload dto.CompleteMaintenanceDTO) (*entities.Movement, error)
	ListMaintenance(ctx context.Context, filter dto.MaintenanceFilter) (*dto.MaintenanceListDTO, error)
}

type MaintenanceService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	movementRepo  repositories.MovementRepositoryInterface
	catalogRepo   repositories.CatalogRepositoryInterface
	userRepo      repositories.UserRepositoryInterface
	faultRepo     repositories.FaultRepositoryInterface
	txManager     repositories.TxManagerInterface
	logger        *zap.Logger
}

func NewMaintenanceService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	movementRepo repositories.MovementRepositoryInterface,
	catalogRepo repositories.CatalogRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	faultRepo repositories.FaultRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) MaintenanceServiceInterface {
	return &MaintenanceService{
		equipmentRepo: equipmentRepo,
		movementRepo:  movementRepo,
		catalogRepo:   catalogRepo,
		userRepo:      userRepo,
		faultRepo:     faultRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

func isValidMaintenanceKind(kind string) bool {
	switch kind {
	case entities.MaintenanceKindPreventive, entities.MaintenanceKindCorrective, entities.MaintenanceKindUrgent:
		return true
	}
	return false
}

// ScheduleMaintenance opens a MANTENIMIENTO movement for each unit and moves
// the unit into the Mantenimiento status. Preconditions are checked in a
// fixed order and fail the whole batch; per-unit persistence failures only
// fail that unit. The open-maintenance uniqueness is ultimately guaranteed by
// the store's partial unique index, so a concurrent duplicate surfaces as a
// per-unit conflict even when the precheck missed it.
func (s *MaintenanceService) ScheduleMaintenance(ctx context.Context, payload dto.ScheduleMaintenanceDTO) (*dto.ScheduleMaintenanceResultDTO, error) {
	if len(payload.Serials) == 0 {
		return nil, apperrors.NewValidationError("serial list is empty", nil)
	}
	if !isValidMaintenanceKind(payload.Kind) {
		return nil, apperrors.NewValidationError("maintenance kind must be PREVENTIVO, CORRECTIVO or URGENTE",
			map[string]interface{}{"kind": payload.Kind})
	}
	if payload.ScheduledDate == nil {
		return nil, apperrors.NewValidationError("scheduled date is required", nil)
	}

	technician, err := s.userRepo.FindUser(ctx, payload.TechnicianID)
	if err != nil || !technician.CanActAsTechnician() {
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewInternalError("could not resolve technician", err)
		}
		return nil, apperrors.NewValidationError("technician not found or unauthorized",
			map[string]interface{}{"technician_id": payload.TechnicianID})
	}

	resolved, err := s.equipmentRepo.ResolveSerials(ctx, payload.Serials)
	if err != nil {
		return nil, apperrors.NewInternalError("could not resolve serials", err)
	}
	var missing []string
	for _, serial := range payload.Serials {
		if _, ok := resolved[serial]; !ok {
			missing = append(missing, serial)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("some serials do not exist",
			map[string]interface{}{"missing": missing})
	}

	openSerials, err := s.movementRepo.FindOpenMaintenanceSerials(ctx, payload.Serials)
	if err != nil {
		return nil, apperrors.NewInternalError("could not check open maintenance", err)
	}
	if len(openSerials) > 0 {
		return nil, apperrors.NewConflictError("some units already have open maintenance",
			map[string]interface{}{"open": openSerials})
	}

	priority := payload.Priority
	if priority == "" {
		priority = entities.PriorityNormal
	}
	estimatedHours := payload.EstimatedHours
	if estimatedHours == 0 {
		estimatedHours = 1
	}

	result := &dto.ScheduleMaintenanceResultDTO{
		Requested:      len(payload.Serials),
		TechnicianName: technician.Fio,
	}

	for _, serial := range payload.Serials {
		unit := resolved[serial]

		err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
			ubicacion := unit.UbicacionID
			movement := entities.Movement{
				Folio:        uuid.New(),
				EquipoSerial: serial,
				Tipo:         entities.MovementTypeMaintenance,
				Estado:       entities.MovementStatusOpen,
				OrigenID:     &ubicacion,
				DestinoID:    &ubicacion,
				UserID:       payload.TechnicianID,
				Notes:        payload.Notes,
				Maintenance: &entities.MaintenanceDetail{
					Kind:           payload.Kind,
					Priority:       priority,
					ScheduledDate:  *payload.ScheduledDate,
					EstimatedHours: estimatedHours,
					TechnicianID:   payload.TechnicianID,
					Description:    payload.Description,
				},
			}
			if _, err := s.movementRepo.Create(ctx, tx, movement); err != nil {
				return err
			}

			estado, err := s.catalogRepo.FindEquipmentStatusByName(ctx, tx, entities.EquipmentStatusMaintenance)
			if err != nil {
				return err
			}
			return s.equipmentRepo.UpdateStatus(ctx, tx, serial, estado.ID)
		})
		if err != nil {
			reason := err.Error()
			if errors.Is(err, apperrors.ErrConflict) {
				reason = "unit already has an open maintenance movement"
			}
			s.logger.Warn("maintenance scheduling failed for unit",
				zap.String("serial", serial), zap.Error(err))
			result.Failures = append(result.Failures, dto.BatchItemFailure{Serial: serial, Reason: reason})
			continue
		}

		result.Scheduled++
		result.TotalEstimatedHours += estimatedHours
	}

	if result.Scheduled == 0 {
		return nil, apperrors.NewInternalError("no equipment could be scheduled for maintenance", nil)
	}

	return result, nil
}

// CompleteMaintenance closes an open maintenance movement, records the actual
// duration and re-derives the unit's status: Activo unless open faults say
// otherwise.
func (s *MaintenanceService) CompleteMaintenance(ctx context.Context, movementID uint64, payload dto.CompleteMaintenanceDTO) (*entities.Movement, error) {
	movement, err := s.movementRepo.FindByID(ctx, movementID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("movement not found")
		}
		return nil, apperrors.NewInternalError("could not load movement", err)
	}
	if movement.Tipo != entities.MovementTypeMaintenance {
		return nil, apperrors.NewValidationError("movement is not a maintenance movement", nil)
	}
	if !movement.CanTransitionTo(entities.MovementStatusCompleted) {
		return nil, apperrors.NewConflictError("movement cannot be completed from its current status",
			map[string]interface{}{"estado": movement.Estado})
	}
	if payload.ActualHours <= 0 {
		return nil, apperrors.NewValidationError("actual hours are required to close maintenance", nil)
	}

	now := time.Now()
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.movementRepo.UpdateStatus(ctx, tx, movementID, entities.MovementStatusCompleted, &now, &payload.ActualHours); err != nil {
			return err
		}

		openFaults, err := s.faultRepo.ListOpenBySerial(ctx, tx, movement.EquipoSerial)
		if err != nil {
			return err
		}
		statusName := entities.DerivedEquipmentStatus(openFaults)
		estado, err := s.catalogRepo.FindEquipmentStatusByName(ctx, tx, statusName)
		if err != nil {
			return err
		}
		return s.equipmentRepo.UpdateStatus(ctx, tx, movement.EquipoSerial, estado.ID)
	})
	if err != nil {
		s.logger.Error("complete maintenance failed", zap.Uint64("movement_id", movementID), zap.Error(err))
		return nil, apperrors.NewInternalError("could not complete maintenance", err)
	}

	return s.movementRepo.FindByID(ctx, movementID)
}

// ListMaintenance applies the default ABIERTO status filter and returns the
// listing with per-technician aggregates.
func (s *MaintenanceService) ListMaintenance(ctx context.Context, filter dto.MaintenanceFilter) (*dto.MaintenanceListDTO, error) {
	if filter.Status == "" {
		filter.Status = entities.MovementStatusOpen
	}

	items, total, err := s.movementRepo.ListMaintenance(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError("could not list maintenance", err)
	}

	aggregates, err := s.movementRepo.TechnicianAggregates(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError("could not compute maintenance aggregates", err)
	}

	return &dto.MaintenanceListDTO{Items: items, Aggregates: aggregates, Total: total}, nil
}
