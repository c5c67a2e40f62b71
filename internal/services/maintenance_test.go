package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
)

type maintenanceFixture struct {
	equipmentRepo *fakeEquipmentRepo
	movementRepo  *fakeMovementRepo
	catalogRepo   *fakeCatalogRepo
	faultRepo     *fakeFaultRepo
	svc           MaintenanceServiceInterface
}

func newMaintenanceFixture() *maintenanceFixture {
	f := &maintenanceFixture{
		equipmentRepo: newFakeEquipmentRepo(testUnit("CAM-0001"), testUnit("CAM-0002")),
		movementRepo:  newFakeMovementRepo(),
		catalogRepo:   newFakeCatalogRepo(),
		faultRepo:     newFakeFaultRepo(),
	}
	userRepo := newFakeUserRepo(
		entities.User{ID: 5, Fio: "Carlos Mendez", Role: entities.RoleTechnician},
		entities.User{ID: 9, Fio: "Ana Torres", Role: entities.RoleOperator},
	)
	f.svc = NewMaintenanceService(f.equipmentRepo, f.movementRepo, f.catalogRepo, userRepo, f.faultRepo, fakeTxManager{}, zap.NewNop())
	return f
}

func scheduleReq(serials ...string) dto.ScheduleMaintenanceDTO {
	date := time.Now().Add(24 * time.Hour)
	return dto.ScheduleMaintenanceDTO{
		Serials:       serials,
		Kind:          entities.MaintenanceKindPreventive,
		ScheduledDate: &date,
		TechnicianID:  5,
	}
}

func TestScheduleMaintenanceHappyPath(t *testing.T) {
	f := newMaintenanceFixture()

	res, err := f.svc.ScheduleMaintenance(context.Background(), scheduleReq("CAM-0001", "CAM-0002"))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Requested)
	assert.Equal(t, 2, res.Scheduled)
	assert.Equal(t, "Carlos Mendez", res.TechnicianName)
	assert.Empty(t, res.Failures)

	// Defaults applied: NORMAL priority, one estimated hour per unit.
	assert.Equal(t, 2.0, res.TotalEstimatedHours)
	for _, m := range f.movementRepo.movements {
		require.NotNil(t, m.Maintenance)
		assert.Equal(t, entities.PriorityNormal, m.Maintenance.Priority)
		assert.Equal(t, 1.0, m.Maintenance.EstimatedHours)
		assert.Equal(t, entities.MovementStatusOpen, m.Estado)
	}

	// Both units moved to the Mantenimiento status.
	for _, serial := range []string{"CAM-0001", "CAM-0002"} {
		assert.Equal(t, uint64(2), f.equipmentRepo.units[serial].EstadoID)
	}
}

func TestScheduleMaintenanceRejectsInvalidKind(t *testing.T) {
	f := newMaintenanceFixture()
	req := scheduleReq("CAM-0001")
	req.Kind = "REGULAR"

	_, err := f.svc.ScheduleMaintenance(context.Background(), req)
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
}

func TestScheduleMaintenanceRequiresScheduledDate(t *testing.T) {
	f := newMaintenanceFixture()
	req := scheduleReq("CAM-0001")
	req.ScheduledDate = nil

	_, err := f.svc.ScheduleMaintenance(context.Background(), req)
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
}

func TestScheduleMaintenanceRejectsNonTechnician(t *testing.T) {
	f := newMaintenanceFixture()
	req := scheduleReq("CAM-0001")
	req.TechnicianID = 9 // operator

	_, err := f.svc.ScheduleMaintenance(context.Background(), req)
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
}

func TestScheduleMaintenanceOpenConflict(t *testing.T) {
	f := newMaintenanceFixture()

	_, err := f.svc.ScheduleMaintenance(context.Background(), scheduleReq("CAM-0001"))
	require.NoError(t, err)

	// A second request for the same unit hits the open-maintenance check.
	_, err = f.svc.ScheduleMaintenance(context.Background(), scheduleReq("CAM-0001", "CAM-0002"))
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, httpCode(t, err))
}

func TestCompleteMaintenanceRevertsStatus(t *testing.T) {
	f := newMaintenanceFixture()

	res, err := f.svc.ScheduleMaintenance(context.Background(), scheduleReq("CAM-0001"))
	require.NoError(t, err)
	require.Equal(t, 1, res.Scheduled)

	var movementID uint64
	for id := range f.movementRepo.movements {
		movementID = id
	}

	completed, err := f.svc.CompleteMaintenance(context.Background(), movementID, dto.CompleteMaintenanceDTO{ActualHours: 2.5})
	require.NoError(t, err)
	assert.Equal(t, entities.MovementStatusCompleted, completed.Estado)
	require.NotNil(t, completed.Maintenance.ActualHours)
	assert.Equal(t, 2.5, *completed.Maintenance.ActualHours)
	assert.NotNil(t, completed.EndedAt)

	// No open faults, so the unit returns to Activo.
	assert.Equal(t, uint64(1), f.equipmentRepo.units["CAM-0001"].EstadoID)
}

func TestCompleteMaintenanceHonorsOpenFaults(t *testing.T) {
	f := newMaintenanceFixture()

	_, err := f.svc.ScheduleMaintenance(context.Background(), scheduleReq("CAM-0001"))
	require.NoError(t, err)

	// A severe fault is still open when the maintenance closes.
	_, err = f.faultRepo.Create(context.Background(), nil, entities.Fault{
		EquipoSerial: "CAM-0001",
		Estado:       entities.FaultStatusOpen,
		Prioridad:    entities.PriorityCritical,
		Impacto:      entities.ImpactMedium,
	})
	require.NoError(t, err)

	var movementID uint64
	for id := range f.movementRepo.movements {
		movementID = id
	}

	_, err = f.svc.CompleteMaintenance(context.Background(), movementID, dto.CompleteMaintenanceDTO{ActualHours: 1})
	require.NoError(t, err)

	// Fuera de Servicio, not Activo.
	assert.Equal(t, uint64(4), f.equipmentRepo.units["CAM-0001"].EstadoID)
}

func TestCompleteMaintenanceTwiceIsConflict(t *testing.T) {
	f := newMaintenanceFixture()

	_, err := f.svc.ScheduleMaintenance(context.Background(), scheduleReq("CAM-0001"))
	require.NoError(t, err)

	var movementID uint64
	for id := range f.movementRepo.movements {
		movementID = id
	}

	_, err = f.svc.CompleteMaintenance(context.Background(), movementID, dto.CompleteMaintenanceDTO{ActualHours: 1})
	require.NoError(t, err)

	_, err = f.svc.CompleteMaintenance(context.Background(), movementID, dto.CompleteMaintenanceDTO{ActualHours: 1})
	assert.Equal(t, http.StatusConflict, httpCode(t, err))
}

func TestCompleteMaintenanceRequiresActualHours(t *testing.T) {
	f := newMaintenanceFixture()

	_, err := f.svc.ScheduleMaintenance(context.Background(), scheduleReq("CAM-0001"))
	require.NoError(t, err)

	var movementID uint64
	for id := range f.movementRepo.movements {
		movementID = id
	}

	_, err = f.svc.CompleteMaintenance(context.Background(), movementID, dto.CompleteMaintenanceDTO{})
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
}

func TestListMaintenanceDefaultsToOpen(t *testing.T) {
	f := newMaintenanceFixture()

	_, err := f.svc.ScheduleMaintenance(context.Background(), scheduleReq("CAM-0001", "CAM-0002"))
	require.NoError(t, err)

	var firstID uint64
	for id := range f.movementRepo.movements {
		firstID = id
		break
	}
	_, err = f.svc.CompleteMaintenance(context.Background(), firstID, dto.CompleteMaintenanceDTO{ActualHours: 1})
	require.NoError(t, err)

	res, err := f.svc.ListMaintenance(context.Background(), dto.MaintenanceFilter{})
	require.NoError(t, err)

	// Only the still-open movement shows up without an explicit status filter.
	require.Len(t, res.Items, 1)
	assert.Equal(t, entities.MovementStatusOpen, res.Items[0].Estado)

	require.Len(t, res.Aggregates, 1)
	assert.Equal(t, uint64(5), res.Aggregates[0].TechnicianID)
	assert.Equal(t, 2, res.Aggregates[0].TotalAssignments)
	assert.Equal(t, 2, res.Aggregates[0].CountsByKind[entities.MaintenanceKindPreventive])
}
