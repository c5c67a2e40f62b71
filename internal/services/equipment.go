package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
	"inventory-system/pkg/utils"
)

type EquipmentServiceInterface interface {
	CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*entities.Equipment, error)
	FindEquipment(ctx context.Context, serial string) (*entities.Equipment, error)
	ListEquipment(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	ListDeletedEquipment(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	UpdateEquipment(ctx context.Context, serial string, changes dto.UpdateEquipmentDTO) (*entities.Equipment, error)
	SoftDeleteEquipment(ctx context.Context, serial string) error
	RestoreEquipment(ctx context.Context, serial string) (*entities.Equipment, error)
}

type EquipmentService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	logger        *zap.Logger
}

func NewEquipmentService(equipmentRepo repositories.EquipmentRepositoryInterface, logger *zap.Logger) EquipmentServiceInterface {
	return &EquipmentService{equipmentRepo: equipmentRepo, logger: logger}
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*entities.Equipment, error) {
	equipment := entities.Equipment{
		Serial:         payload.Serial,
		Name:           payload.Name,
		Model:          payload.Model,
		AssetNumber:    payload.AssetNumber,
		TipoID:         payload.TipoID,
		EstadoID:       payload.EstadoID,
		UbicacionID:    payload.UbicacionID,
		SucursalID:     payload.SucursalID,
		AssignedUserID: payload.AssignedUserID,
	}

	created, err := s.equipmentRepo.Create(ctx, equipment)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewConflictError("equipment with this serial already exists",
				map[string]interface{}{"serial": payload.Serial})
		}
		if errors.Is(err, apperrors.ErrBadRequest) {
			return nil, apperrors.NewValidationError("referenced catalog id does not exist", nil)
		}
		s.logger.Error("create equipment failed", zap.String("serial", payload.Serial), zap.Error(err))
		return nil, apperrors.NewInternalError("could not create equipment", err)
	}

	s.logger.Info("equipment created", zap.String("serial", created.Serial))
	return created, nil
}

func (s *EquipmentService) FindEquipment(ctx context.Context, serial string) (*entities.Equipment, error) {
	equipment, err := s.equipmentRepo.FindBySerial(ctx, serial)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("equipment not found")
		}
		return nil, apperrors.NewInternalError("could not load equipment", err)
	}
	return equipment, nil
}

func (s *EquipmentService) ListEquipment(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	return s.equipmentRepo.List(ctx, filter)
}

func (s *EquipmentService) ListDeletedEquipment(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	return s.equipmentRepo.ListDeleted(ctx, filter)
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, serial string, changes dto.UpdateEquipmentDTO) (*entities.Equipment, error) {
	err := s.equipmentRepo.Update(ctx, serial, changes)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("equipment not found")
		}
		if errors.Is(err, apperrors.ErrBadRequest) {
			return nil, apperrors.NewValidationError("referenced catalog id does not exist", nil)
		}
		s.logger.Error("update equipment failed", zap.String("serial", serial), zap.Error(err))
		return nil, apperrors.NewInternalError("could not update equipment", err)
	}

	return s.FindEquipment(ctx, serial)
}

// SoftDeleteEquipment marks the unit deleted on behalf of the authenticated
// actor. Deleting twice is a conflict, never a silent overwrite of the
// original deletion timestamp.
func (s *EquipmentService) SoftDeleteEquipment(ctx context.Context, serial string) error {
	actor, err := utils.UserIDFromContext(ctx)
	if err != nil {
		return apperrors.NewValidationError("acting user is required", nil)
	}

	err = s.equipmentRepo.SoftDelete(ctx, serial, actor, time.Now())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("equipment not found")
		}
		if errors.Is(err, apperrors.ErrConflict) {
			return apperrors.NewConflictError("equipment is already deleted", nil)
		}
		s.logger.Error("soft delete failed", zap.String("serial", serial), zap.Error(err))
		return apperrors.NewInternalError("could not delete equipment", err)
	}

	s.logger.Info("equipment soft-deleted", zap.String("serial", serial), zap.Uint64("actor", actor))
	return nil
}

func (s *EquipmentService) RestoreEquipment(ctx context.Context, serial string) (*entities.Equipment, error) {
	err := s.equipmentRepo.Restore(ctx, serial)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("equipment not found")
		}
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewConflictError("equipment is not deleted", nil)
		}
		s.logger.Error("restore failed", zap.String("serial", serial), zap.Error(err))
		return nil, apperrors.NewInternalError("could not restore equipment", err)
	}

	s.logger.Info("equipment restored", zap.String("serial", serial))
	return s.FindEquipment(ctx, serial)
}
