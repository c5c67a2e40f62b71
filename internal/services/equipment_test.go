package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
)

func testUnit(serial string) entities.Equipment {
	return entities.Equipment{
		Serial:      serial,
		Name:        "Camara " + serial,
		Model:       "DS-2CD2143",
		TipoID:      1,
		EstadoID:    1,
		UbicacionID: 10,
		SucursalID:  100,
	}
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	return httpErr.Code
}

func TestCreateEquipmentDuplicateSerial(t *testing.T) {
	repo := newFakeEquipmentRepo(testUnit("CAM-0001"))
	svc := NewEquipmentService(repo, zap.NewNop())

	_, err := svc.CreateEquipment(context.Background(), dto.CreateEquipmentDTO{
		Serial: "CAM-0001", Name: "Other", Model: "X1",
		TipoID: 1, EstadoID: 1, UbicacionID: 10, SucursalID: 100,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, httpCode(t, err))
	assert.True(t, apperrors.IsConflict(err))
}

func TestSoftDeleteAndRestoreRoundTrip(t *testing.T) {
	repo := newFakeEquipmentRepo(testUnit("CAM-0001"))
	svc := NewEquipmentService(repo, zap.NewNop())
	ctx := ctxWithUser(7)

	require.NoError(t, svc.SoftDeleteEquipment(ctx, "CAM-0001"))

	// Single reads still resolve deleted units; listings hide them.
	found, err := svc.FindEquipment(ctx, "CAM-0001")
	require.NoError(t, err)
	assert.True(t, found.IsDeleted)

	deleted, _, err := svc.ListDeletedEquipment(ctx, defaultFilter())
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.NotNil(t, deleted[0].DeletedAt)
	require.NotNil(t, deleted[0].DeletedBy)
	assert.Equal(t, uint64(7), *deleted[0].DeletedBy)

	restored, err := svc.RestoreEquipment(ctx, "CAM-0001")
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)
	assert.Nil(t, restored.DeletedAt)
	assert.Nil(t, restored.DeletedBy)
}

func TestSoftDeleteTwiceIsConflict(t *testing.T) {
	repo := newFakeEquipmentRepo(testUnit("CAM-0001"))
	svc := NewEquipmentService(repo, zap.NewNop())
	ctx := ctxWithUser(7)

	require.NoError(t, svc.SoftDeleteEquipment(ctx, "CAM-0001"))

	err := svc.SoftDeleteEquipment(ctx, "CAM-0001")
	assert.Equal(t, http.StatusConflict, httpCode(t, err))
}

func TestRestoreNonDeletedIsConflict(t *testing.T) {
	repo := newFakeEquipmentRepo(testUnit("CAM-0001"))
	svc := NewEquipmentService(repo, zap.NewNop())

	_, err := svc.RestoreEquipment(context.Background(), "CAM-0001")
	assert.Equal(t, http.StatusConflict, httpCode(t, err))
}

func TestSoftDeleteRequiresActor(t *testing.T) {
	repo := newFakeEquipmentRepo(testUnit("CAM-0001"))
	svc := NewEquipmentService(repo, zap.NewNop())

	err := svc.SoftDeleteEquipment(context.Background(), "CAM-0001")
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
}

func TestSoftDeleteUnknownSerial(t *testing.T) {
	repo := newFakeEquipmentRepo()
	svc := NewEquipmentService(repo, zap.NewNop())

	err := svc.SoftDeleteEquipment(ctxWithUser(7), "NOPE-1")
	assert.Equal(t, http.StatusNotFound, httpCode(t, err))
}
