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
	"inventory-system/pkg/utils"
)

type FaultServiceInterface interface {
	ReportFault(ctx context.Context, payload dto.ReportFaultDTO) (*entities.Fault, error)
	UpdateFault(ctx context.Context, id uint64, payload dto.UpdateFaultDTO) (*entities.Fault, error)
	FindFault(ctx context.Context, id uint64) (*entities.Fault, error)
	ListFaults(ctx context.Context, filter dto.FaultFilter) ([]entities.Fault, uint64, error)
}

type FaultService struct {
	faultRepo     repositories.FaultRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	catalogRepo   repositories.CatalogRepositoryInterface
	userRepo      repositories.UserRepositoryInterface
	txManager     repositories.TxManagerInterface
	logger        *zap.Logger
}

func NewFaultService(
	faultRepo repositories.FaultRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	catalogRepo repositories.CatalogRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) FaultServiceInterface {
	return &FaultService{
		faultRepo:     faultRepo,
		equipmentRepo: equipmentRepo,
		catalogRepo:   catalogRepo,
		userRepo:      userRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

// ReportFault registers a fault against a live unit and overwrites the unit's
// status from the fault's severity. The overwrite is unconditional: a unit in
// Mantenimiento that gets a severe fault moves to Fuera de Servicio, and the
// maintenance closure will re-derive it later.
func (s *FaultService) ReportFault(ctx context.Context, payload dto.ReportFaultDTO) (*entities.Fault, error) {
	unit, err := s.equipmentRepo.FindBySerial(ctx, payload.EquipoSerial)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("equipment not found")
		}
		return nil, apperrors.NewInternalError("could not load equipment", err)
	}
	if unit.IsDeleted {
		return nil, apperrors.NewNotFoundError("equipment not found")
	}

	reporterID, err := utils.UserIDFromContext(ctx)
	if err != nil {
		return nil, apperrors.NewValidationError("reporter could not be resolved from the request", nil)
	}

	if payload.TechnicianID != nil {
		technician, err := s.userRepo.FindUser(ctx, *payload.TechnicianID)
		if err != nil || !technician.CanActAsTechnician() {
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewInternalError("could not resolve technician", err)
			}
			return nil, apperrors.NewValidationError("technician not found or unauthorized",
				map[string]interface{}{"technician_id": *payload.TechnicianID})
		}
	}

	fault := entities.Fault{
		Folio:         uuid.New(),
		EquipoSerial:  payload.EquipoSerial,
		Categoria:     payload.Categoria,
		Descripcion:   payload.Descripcion,
		Sintomas:      payload.Sintomas,
		Prioridad:     payload.Prioridad,
		Impacto:       payload.Impacto,
		ReporterID:    reporterID,
		TechnicianID:  payload.TechnicianID,
		Estado:        entities.FaultStatusOpen,
		RequiresParts: payload.RequiresParts,
		Notes:         payload.Notes,
		UbicacionID:   payload.UbicacionID,
	}
	if fault.Prioridad == "" {
		fault.Prioridad = entities.PriorityNormal
	}
	if fault.Impacto == "" {
		fault.Impacto = entities.ImpactMedium
	}

	var faultID uint64
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, err := s.faultRepo.Create(ctx, tx, fault)
		if err != nil {
			return err
		}
		faultID = id

		statusName := entities.EquipmentStatusFaulty
		if fault.IsSevere() {
			statusName = entities.EquipmentStatusOutOfService
		}
		estado, err := s.catalogRepo.FindEquipmentStatusByName(ctx, tx, statusName)
		if err != nil {
			return err
		}
		return s.equipmentRepo.UpdateStatus(ctx, tx, fault.EquipoSerial, estado.ID)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrBadRequest) {
			return nil, apperrors.NewValidationError("referenced location or user does not exist", nil)
		}
		s.logger.Error("report fault failed", zap.String("serial", payload.EquipoSerial), zap.Error(err))
		return nil, apperrors.NewInternalError("could not report fault", err)
	}

	return s.faultRepo.FindByID(ctx, faultID)
}

// UpdateFault mutates a fault's workflow fields. Status changes go through
// the fault state machine; resolving re-derives the unit's status from the
// remaining open faults in the same transaction.
func (s *FaultService) UpdateFault(ctx context.Context, id uint64, payload dto.UpdateFaultDTO) (*entities.Fault, error) {
	fault, err := s.faultRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("fault not found")
		}
		return nil, apperrors.NewInternalError("could not load fault", err)
	}
	wasOpen := fault.IsOpen()

	// Terminal faults are immutable: no transition out, no reassignment,
	// no edits to notes or cost figures.
	if fault.IsTerminal() {
		return nil, apperrors.NewConflictError("fault is closed and cannot be modified",
			map[string]interface{}{"estado": fault.Estado})
	}

	if payload.Estado.Valid {
		next := payload.Estado.String
		if next != fault.Estado && !fault.CanTransitionTo(next) {
			return nil, apperrors.NewConflictError("fault cannot move to the requested status",
				map[string]interface{}{"estado": fault.Estado, "requested": next})
		}
	}

	if payload.TechnicianID.Valid {
		technician, err := s.userRepo.FindUser(ctx, payload.TechnicianID.Uint64)
		if err != nil || !technician.CanActAsTechnician() {
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewInternalError("could not resolve technician", err)
			}
			return nil, apperrors.NewValidationError("technician not found or unauthorized",
				map[string]interface{}{"technician_id": payload.TechnicianID.Uint64})
		}
		fault.TechnicianID = &technician.ID
		// Assigning a technician to an ABIERTA fault starts work on it.
		if fault.Estado == entities.FaultStatusOpen && !payload.Estado.Valid {
			fault.Estado = entities.FaultStatusInProgress
		}
	}

	if payload.Estado.Valid {
		fault.Estado = payload.Estado.String
	}
	if payload.Resolucion.Valid {
		fault.Resolucion = &payload.Resolucion.String
	}
	if payload.SolutionHours.Valid {
		fault.SolutionHours = &payload.SolutionHours.Float64
	}
	if payload.RepairCost.Valid {
		fault.RepairCost = &payload.RepairCost.Float64
	}
	if payload.RequiresParts.Valid {
		fault.RequiresParts = payload.RequiresParts.Bool
	}
	if payload.Notes.Valid {
		fault.Notes = payload.Notes.String
	}

	closing := wasOpen && fault.IsTerminal()
	if fault.Estado == entities.FaultStatusResolved && fault.ResolvedAt == nil {
		if fault.Resolucion == nil || *fault.Resolucion == "" {
			return nil, apperrors.NewValidationError("resolution text is required to resolve a fault", nil)
		}
		if fault.SolutionHours == nil || *fault.SolutionHours <= 0 {
			return nil, apperrors.NewValidationError("solution hours are required to resolve a fault", nil)
		}
		now := time.Now()
		fault.ResolvedAt = &now
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.faultRepo.Update(ctx, tx, id, *fault); err != nil {
			return err
		}
		if !closing {
			return nil
		}

		// The fault just left the open set, so the unit's status must be
		// recomputed from whatever remains open.
		openFaults, err := s.faultRepo.ListOpenBySerial(ctx, tx, fault.EquipoSerial)
		if err != nil {
			return err
		}
		estado, err := s.catalogRepo.FindEquipmentStatusByName(ctx, tx, entities.DerivedEquipmentStatus(openFaults))
		if err != nil {
			return err
		}
		return s.equipmentRepo.UpdateStatus(ctx, tx, fault.EquipoSerial, estado.ID)
	})
	if err != nil {
		s.logger.Error("update fault failed", zap.Uint64("fault_id", id), zap.Error(err))
		return nil, apperrors.NewInternalError("could not update fault", err)
	}

	return s.faultRepo.FindByID(ctx, id)
}

func (s *FaultService) FindFault(ctx context.Context, id uint64) (*entities.Fault, error) {
	fault, err := s.faultRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("fault not found")
		}
		return nil, apperrors.NewInternalError("could not load fault", err)
	}
	return fault, nil
}

func (s *FaultService) ListFaults(ctx context.Context, filter dto.FaultFilter) ([]entities.Fault, uint64, error) {
	faults, total, err := s.faultRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.NewInternalError("could not list faults", err)
	}
	return faults, total, nil
}
