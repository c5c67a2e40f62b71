package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
)

func newTransferFixture() (*fakeEquipmentRepo, *fakeMovementRepo, *fakeCatalogRepo, *fakeUserRepo, TransferServiceInterface) {
	equipmentRepo := newFakeEquipmentRepo(testUnit("CAM-0001"), testUnit("CAM-0002"))
	movementRepo := newFakeMovementRepo()
	catalogRepo := newFakeCatalogRepo()
	catalogRepo.addUbicacion(10, 100, "Oficina TI")
	catalogRepo.addUbicacion(20, 200, "Recepcion")
	userRepo := newFakeUserRepo(entities.User{ID: 5, Fio: "Carlos Mendez", Role: entities.RoleTechnician})

	svc := NewTransferService(equipmentRepo, movementRepo, catalogRepo, userRepo, fakeTxManager{}, zap.NewNop())
	return equipmentRepo, movementRepo, catalogRepo, userRepo, svc
}

func TestTransferMovesAllUnits(t *testing.T) {
	equipmentRepo, movementRepo, _, _, svc := newTransferFixture()

	res, err := svc.Transfer(context.Background(), dto.TransferRequestDTO{
		Serials:       []string{"CAM-0001", "CAM-0002"},
		DestinoID:     20,
		ResponsibleID: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Attempted)
	assert.Equal(t, 2, res.Succeeded)
	assert.Empty(t, res.Failures)

	for _, serial := range []string{"CAM-0001", "CAM-0002"} {
		unit := equipmentRepo.units[serial]
		assert.Equal(t, uint64(20), unit.UbicacionID)
		assert.Equal(t, uint64(200), unit.SucursalID)
	}

	// Each relocation leaves a completed movement with origin and destination.
	require.Len(t, movementRepo.movements, 2)
	for _, m := range movementRepo.movements {
		assert.Equal(t, entities.MovementTypeTransfer, m.Tipo)
		assert.Equal(t, entities.MovementStatusCompleted, m.Estado)
		require.NotNil(t, m.OrigenID)
		assert.Equal(t, uint64(10), *m.OrigenID)
		require.NotNil(t, m.DestinoID)
		assert.Equal(t, uint64(20), *m.DestinoID)
		assert.NotNil(t, m.EndedAt)
		assert.NotEqual(t, "", m.Folio.String())
	}
}

func TestTransferUnknownSerialFailsOnlyThatUnit(t *testing.T) {
	equipmentRepo, movementRepo, _, _, svc := newTransferFixture()

	res, err := svc.Transfer(context.Background(), dto.TransferRequestDTO{
		Serials:       []string{"CAM-0001", "NOPE-9"},
		DestinoID:     20,
		ResponsibleID: 5,
	})
	require.NoError(t, err)

	// The known unit still moves; the unknown serial is reported by name.
	assert.Equal(t, 2, res.Attempted)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, []string{"CAM-0001"}, res.Transferred)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "NOPE-9", res.Failures[0].Serial)

	assert.Equal(t, uint64(20), equipmentRepo.units["CAM-0001"].UbicacionID)
	require.Len(t, movementRepo.movements, 1)
}

func TestTransferNoResolvableUnits(t *testing.T) {
	_, movementRepo, _, _, svc := newTransferFixture()

	_, err := svc.Transfer(context.Background(), dto.TransferRequestDTO{
		Serials:       []string{"NOPE-1", "NOPE-2"},
		DestinoID:     20,
		ResponsibleID: 5,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
	assert.Empty(t, movementRepo.movements)
}

func TestTransferClosesStaleOpenTransfer(t *testing.T) {
	_, movementRepo, _, _, svc := newTransferFixture()

	// A leftover ABIERTO transfer from an earlier relocation.
	stale := entities.Movement{
		ID:           99,
		EquipoSerial: "CAM-0001",
		Tipo:         entities.MovementTypeTransfer,
		Estado:       entities.MovementStatusOpen,
		UserID:       5,
	}
	movementRepo.movements[stale.ID] = &stale

	_, err := svc.Transfer(context.Background(), dto.TransferRequestDTO{
		Serials:       []string{"CAM-0001"},
		DestinoID:     20,
		ResponsibleID: 5,
	})
	require.NoError(t, err)

	// The stale row was completed and stamped before the new one landed,
	// so at most one open transfer exists per unit.
	assert.Equal(t, entities.MovementStatusCompleted, stale.Estado)
	require.NotNil(t, stale.EndedAt)
	require.Len(t, movementRepo.movements, 2)
	for _, m := range movementRepo.movements {
		assert.NotEqual(t, entities.MovementStatusOpen, m.Estado)
	}
}

func TestTransferUnknownDestination(t *testing.T) {
	_, _, _, _, svc := newTransferFixture()

	_, err := svc.Transfer(context.Background(), dto.TransferRequestDTO{
		Serials:       []string{"CAM-0001"},
		DestinoID:     999,
		ResponsibleID: 5,
	})
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
}

func TestTransferUnknownResponsible(t *testing.T) {
	_, _, _, _, svc := newTransferFixture()

	_, err := svc.Transfer(context.Background(), dto.TransferRequestDTO{
		Serials:       []string{"CAM-0001"},
		DestinoID:     20,
		ResponsibleID: 999,
	})
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
}

func TestTransferPartialFailureIsolation(t *testing.T) {
	equipmentRepo, movementRepo, _, _, svc := newTransferFixture()
	movementRepo.failCreateFor = map[string]error{"CAM-0001": errors.New("insert failed")}

	res, err := svc.Transfer(context.Background(), dto.TransferRequestDTO{
		Serials:       []string{"CAM-0001", "CAM-0002"},
		DestinoID:     20,
		ResponsibleID: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Attempted)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, []string{"CAM-0002"}, res.Transferred)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "CAM-0001", res.Failures[0].Serial)

	// The failed unit keeps its original location.
	assert.Equal(t, uint64(10), equipmentRepo.units["CAM-0001"].UbicacionID)
	assert.Equal(t, uint64(20), equipmentRepo.units["CAM-0002"].UbicacionID)
}

func TestTransferEmptySerialList(t *testing.T) {
	_, _, _, _, svc := newTransferFixture()

	_, err := svc.Transfer(context.Background(), dto.TransferRequestDTO{DestinoID: 20, ResponsibleID: 5})
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
}
