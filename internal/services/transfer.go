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

type TransferServiceInterface interface {
	Transfer(ctx context.Context, payload dto.TransferRequestDTO) (*dto.TransferResultDTO, error)
}

type TransferService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	movementRepo  repositories.MovementRepositoryInterface
	catalogRepo   repositories.CatalogRepositoryInterface
	userRepo      repositories.UserRepositoryInterface
	txManager     repositories.TxManagerInterface
	logger        *zap.Logger
}

func NewTransferService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	movementRepo repositories.MovementRepositoryInterface,
	catalogRepo repositories.CatalogRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) TransferServiceInterface {
	return &TransferService{
		equipmentRepo: equipmentRepo,
		movementRepo:  movementRepo,
		catalogRepo:   catalogRepo,
		userRepo:      userRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

// Transfer relocates a batch of units to a destination. Batch-level
// validation failures (empty list, unknown destination or responsible, no
// resolvable unit at all) abort the whole batch; per-unit problems do not —
// unknown or deleted serials and store failures are collected into the
// result while the remaining units are processed, each in its own
// transaction.
func (s *TransferService) Transfer(ctx context.Context, payload dto.TransferRequestDTO) (*dto.TransferResultDTO, error) {
	if len(payload.Serials) == 0 {
		return nil, apperrors.NewValidationError("serial list is empty", nil)
	}

	movementType := payload.MovementType
	if movementType == "" {
		movementType = entities.MovementTypeTransfer
	}

	destino, err := s.catalogRepo.FindUbicacion(ctx, payload.DestinoID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("destination location does not exist",
				map[string]interface{}{"destino_id": payload.DestinoID})
		}
		return nil, apperrors.NewInternalError("could not resolve destination", err)
	}

	if _, err := s.userRepo.FindUser(ctx, payload.ResponsibleID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("responsible user does not exist",
				map[string]interface{}{"responsible_id": payload.ResponsibleID})
		}
		return nil, apperrors.NewInternalError("could not resolve responsible user", err)
	}

	resolved, err := s.equipmentRepo.ResolveSerials(ctx, payload.Serials)
	if err != nil {
		return nil, apperrors.NewInternalError("could not resolve serials", err)
	}

	if len(resolved) == 0 {
		return nil, apperrors.NewValidationError("no transferable units in the serial list",
			map[string]interface{}{"missing": payload.Serials})
	}

	result := &dto.TransferResultDTO{Attempted: len(payload.Serials)}
	now := time.Now()

	for _, serial := range payload.Serials {
		unit, ok := resolved[serial]
		if !ok {
			result.Failures = append(result.Failures, dto.BatchItemFailure{
				Serial: serial,
				Reason: "serial does not exist or is deleted",
			})
			continue
		}

		err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
			// One open transfer per unit: complete any stale one before
			// recording the new relocation.
			if err := s.movementRepo.CloseOpenTransfers(ctx, tx, serial, now); err != nil {
				return err
			}

			origen := unit.UbicacionID
			movement := entities.Movement{
				Folio:        uuid.New(),
				EquipoSerial: serial,
				Tipo:         movementType,
				Estado:       entities.MovementStatusCompleted,
				OrigenID:     &origen,
				DestinoID:    &destino.ID,
				UserID:       payload.ResponsibleID,
				Notes:        payload.Notes,
				StartedAt:    now,
			}
			movement.EndedAt = &now
			if _, err := s.movementRepo.Create(ctx, tx, movement); err != nil {
				return err
			}

			return s.equipmentRepo.UpdateLocation(ctx, tx, serial, destino.ID, destino.SucursalID)
		})
		if err != nil {
			s.logger.Warn("transfer failed for unit", zap.String("serial", serial), zap.Error(err))
			result.Failures = append(result.Failures, dto.BatchItemFailure{Serial: serial, Reason: err.Error()})
			continue
		}

		result.Transferred = append(result.Transferred, serial)
	}

	result.Succeeded = len(result.Transferred)
	return result, nil
}
