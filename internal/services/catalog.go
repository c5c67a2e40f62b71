package services

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
)

const (
	cacheKeyEquipmentStatuses = "catalog:estados_equipo"
	cacheKeyEquipmentTypes    = "catalog:tipos_equipo"
	cacheKeyMovementTypes     = "catalog:tipos_movimiento"
	cacheKeyMovementStatuses  = "catalog:estados_movimiento"
	cacheKeyUbicaciones       = "catalog:ubicaciones"
	cacheKeySucursales        = "catalog:sucursales"
)

type CatalogServiceInterface interface {
	EquipmentStatuses(ctx context.Context) ([]entities.EstadoEquipo, error)
	EquipmentTypes(ctx context.Context) ([]entities.TipoEquipo, error)
	MovementTypes(ctx context.Context) ([]entities.TipoMovimiento, error)
	MovementStatuses(ctx context.Context) ([]entities.EstadoMovimiento, error)
	Ubicaciones(ctx context.Context) ([]entities.Ubicacion, error)
	Sucursales(ctx context.Context) ([]entities.Sucursal, error)
	Bootstrap(ctx context.Context) error
}

type CatalogService struct {
	catalogRepo repositories.CatalogRepositoryInterface
	cacheRepo   repositories.CacheRepositoryInterface
	cacheTTL    time.Duration
	logger      *zap.Logger
}

func NewCatalogService(
	catalogRepo repositories.CatalogRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) CatalogServiceInterface {
	return &CatalogService{
		catalogRepo: catalogRepo,
		cacheRepo:   cacheRepo,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// cachedList serves a catalog from Redis when possible and falls back to the
// store on any cache miss or error. Cache failures are logged, never
// propagated.
func cachedList[T any](ctx context.Context, s *CatalogService, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if raw, err := s.cacheRepo.Get(ctx, key); err == nil && raw != "" {
		var out []T
		if err := json.Unmarshal([]byte(raw), &out); err == nil {
			return out, nil
		}
		s.logger.Warn("dropping undecodable cache entry", zap.String("key", key))
		_ = s.cacheRepo.Del(ctx, key)
	}

	out, err := load(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("could not load catalog", err)
	}

	if encoded, err := json.Marshal(out); err == nil {
		if err := s.cacheRepo.Set(ctx, key, encoded, s.cacheTTL); err != nil {
			s.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return out, nil
}

func (s *CatalogService) EquipmentStatuses(ctx context.Context) ([]entities.EstadoEquipo, error) {
	return cachedList(ctx, s, cacheKeyEquipmentStatuses, s.catalogRepo.ListEquipmentStatuses)
}

func (s *CatalogService) EquipmentTypes(ctx context.Context) ([]entities.TipoEquipo, error) {
	return cachedList(ctx, s, cacheKeyEquipmentTypes, s.catalogRepo.ListEquipmentTypes)
}

func (s *CatalogService) MovementTypes(ctx context.Context) ([]entities.TipoMovimiento, error) {
	return cachedList(ctx, s, cacheKeyMovementTypes, s.catalogRepo.ListMovementTypes)
}

func (s *CatalogService) MovementStatuses(ctx context.Context) ([]entities.EstadoMovimiento, error) {
	return cachedList(ctx, s, cacheKeyMovementStatuses, s.catalogRepo.ListMovementStatuses)
}

func (s *CatalogService) Ubicaciones(ctx context.Context) ([]entities.Ubicacion, error) {
	return cachedList(ctx, s, cacheKeyUbicaciones, s.catalogRepo.ListUbicaciones)
}

func (s *CatalogService) Sucursales(ctx context.Context) ([]entities.Sucursal, error) {
	return cachedList(ctx, s, cacheKeySucursales, s.catalogRepo.ListSucursales)
}

// seedEntry pairs a catalog value with its description for Bootstrap.
type seedEntry struct{ key, description string }

// Bootstrap upserts the catalog rows every part of the workflow depends on.
// Safe to run on every startup: existing rows only get their description
// refreshed, so repeated runs leave the tables unchanged.
func (s *CatalogService) Bootstrap(ctx context.Context) error {
	equipmentStatuses := []seedEntry{
		{entities.EquipmentStatusActive, "Equipo operativo y disponible"},
		{entities.EquipmentStatusMaintenance, "Equipo en mantenimiento programado"},
		{entities.EquipmentStatusFaulty, "Equipo con falla reportada"},
		{entities.EquipmentStatusOutOfService, "Equipo fuera de servicio"},
		{entities.EquipmentStatusInactive, "Equipo dado de baja"},
	}
	for _, e := range equipmentStatuses {
		if err := s.catalogRepo.SeedEquipmentStatus(ctx, e.key, e.description); err != nil {
			return apperrors.NewInternalError("could not seed equipment statuses", err)
		}
	}

	movementTypes := []seedEntry{
		{entities.MovementTypeTransfer, "Traslado entre ubicaciones"},
		{entities.MovementTypeMaintenance, "Mantenimiento programado"},
		{entities.MovementTypeAssignment, "Asignacion a responsable"},
		{entities.MovementTypeRetirement, "Retiro de inventario"},
	}
	for _, e := range movementTypes {
		if err := s.catalogRepo.SeedMovementType(ctx, e.key, e.description); err != nil {
			return apperrors.NewInternalError("could not seed movement types", err)
		}
	}

	movementStatuses := []seedEntry{
		{entities.MovementStatusOpen, "Movimiento abierto"},
		{entities.MovementStatusInProgress, "Movimiento en progreso"},
		{entities.MovementStatusPaused, "Movimiento pausado"},
		{entities.MovementStatusCompleted, "Movimiento completado"},
		{entities.MovementStatusCancelled, "Movimiento cancelado"},
	}
	for _, e := range movementStatuses {
		if err := s.catalogRepo.SeedMovementStatus(ctx, e.key, e.description); err != nil {
			return apperrors.NewInternalError("could not seed movement statuses", err)
		}
	}

	equipmentTypes := []seedEntry{
		{"Camara", "Camara de videovigilancia"},
		{"Sensor", "Sensor de movimiento o apertura"},
		{"Alarma", "Panel o sirena de alarma"},
		{"Grabador", "Grabador de video NVR/DVR"},
		{"Control de Acceso", "Lectora o controladora de acceso"},
		{"Red", "Equipo de red para el circuito de seguridad"},
	}
	for _, e := range equipmentTypes {
		if err := s.catalogRepo.SeedEquipmentType(ctx, e.key, e.description); err != nil {
			return apperrors.NewInternalError("could not seed equipment types", err)
		}
	}

	// Seeds changed the tables the cached lists are built from.
	if err := s.cacheRepo.Del(ctx,
		cacheKeyEquipmentStatuses, cacheKeyEquipmentTypes,
		cacheKeyMovementTypes, cacheKeyMovementStatuses,
	); err != nil {
		s.logger.Warn("catalog cache invalidation failed after bootstrap", zap.Error(err))
	}

	s.logger.Info("catalog bootstrap completed")
	return nil
}
