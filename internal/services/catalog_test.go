package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
)

func TestBootstrapIsIdempotent(t *testing.T) {
	catalogRepo := newFakeCatalogRepo()
	cacheRepo := newFakeCacheRepo()
	svc := NewCatalogService(catalogRepo, cacheRepo, time.Minute, zap.NewNop())

	require.NoError(t, svc.Bootstrap(context.Background()))
	require.NoError(t, svc.Bootstrap(context.Background()))

	// Every expected row was upserted on both runs, never duplicated into new
	// keys.
	assert.Equal(t, 2, catalogRepo.seeded["estado:"+entities.EquipmentStatusActive])
	assert.Equal(t, 2, catalogRepo.seeded["estado:"+entities.EquipmentStatusOutOfService])
	assert.Equal(t, 2, catalogRepo.seeded["tipo_mov:"+entities.MovementTypeTransfer])
	assert.Equal(t, 2, catalogRepo.seeded["tipo_mov:"+entities.MovementTypeMaintenance])
	assert.Equal(t, 2, catalogRepo.seeded["estado_mov:"+entities.MovementStatusOpen])
	assert.Equal(t, 2, catalogRepo.seeded["estado_mov:"+entities.MovementStatusCancelled])

	// The five statuses, four movement types, five movement statuses and six
	// equipment types, each seeded twice.
	total := 0
	for _, n := range catalogRepo.seeded {
		total += n
	}
	assert.Equal(t, 2*(5+4+5+6), total)
}

func TestCatalogListIsCached(t *testing.T) {
	catalogRepo := newFakeCatalogRepo()
	cacheRepo := newFakeCacheRepo()
	svc := NewCatalogService(catalogRepo, cacheRepo, time.Minute, zap.NewNop())

	first, err := svc.EquipmentStatuses(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, first)
	assert.Contains(t, cacheRepo.store, "catalog:estados_equipo")

	// Mutate the backing store; the cached copy must still be served.
	catalogRepo.statuses["Nuevo"] = 99
	second, err := svc.EquipmentStatuses(context.Background())
	require.NoError(t, err)
	assert.Len(t, second, len(first))
}

func TestBootstrapInvalidatesCatalogCache(t *testing.T) {
	catalogRepo := newFakeCatalogRepo()
	cacheRepo := newFakeCacheRepo()
	svc := NewCatalogService(catalogRepo, cacheRepo, time.Minute, zap.NewNop())

	_, err := svc.EquipmentStatuses(context.Background())
	require.NoError(t, err)
	require.Contains(t, cacheRepo.store, "catalog:estados_equipo")

	require.NoError(t, svc.Bootstrap(context.Background()))
	assert.NotContains(t, cacheRepo.store, "catalog:estados_equipo")
}

func TestUndecodableCacheEntryFallsBack(t *testing.T) {
	catalogRepo := newFakeCatalogRepo()
	cacheRepo := newFakeCacheRepo()
	cacheRepo.store["catalog:estados_equipo"] = "{not json"
	svc := NewCatalogService(catalogRepo, cacheRepo, time.Minute, zap.NewNop())

	statuses, err := svc.EquipmentStatuses(context.Background())
	require.NoError(t, err)
	assert.Len(t, statuses, 5)
}
