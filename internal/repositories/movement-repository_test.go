package repositories

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-system/internal/dto"
)

func TestMaintenanceListQueryOrdersByPriorityThenDate(t *testing.T) {
	r := &MovementRepository{}

	query, _, err := r.maintenanceListQuery(dto.MaintenanceFilter{}).ToSql()
	require.NoError(t, err)

	orderIdx := strings.Index(query, "ORDER BY")
	require.Greater(t, orderIdx, 0)
	orderClause := query[orderIdx:]

	// CRITICA ranks first, BAJA last, unknown values after everything.
	assert.Contains(t, orderClause, "CASE md.priority")
	for _, pair := range []struct{ first, second string }{
		{"WHEN 'CRITICA' THEN 0", "WHEN 'ALTA' THEN 1"},
		{"WHEN 'ALTA' THEN 1", "WHEN 'NORMAL' THEN 2"},
		{"WHEN 'NORMAL' THEN 2", "WHEN 'BAJA' THEN 3"},
	} {
		assert.Less(t, strings.Index(orderClause, pair.first), strings.Index(orderClause, pair.second))
		assert.Greater(t, strings.Index(orderClause, pair.first), -1)
	}

	// Scheduled date breaks priority ties, ascending.
	assert.Less(t, strings.Index(orderClause, "END"), strings.Index(orderClause, "md.scheduled_date ASC"))
}

func TestMaintenanceListQueryAppliesFilters(t *testing.T) {
	r := &MovementRepository{}
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	query, args, err := r.maintenanceListQuery(dto.MaintenanceFilter{
		SucursalID:   100,
		TechnicianID: 5,
		Kind:         "PREVENTIVO",
		Status:       "ABIERTO",
		DateFrom:     &from,
		Limit:        25,
		Offset:       50,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "e.sucursal_id = $")
	assert.Contains(t, query, "md.technician_id = $")
	assert.Contains(t, query, "md.kind = $")
	assert.Contains(t, query, "m.estado = $")
	assert.Contains(t, query, "md.scheduled_date >= $")
	assert.Contains(t, query, "LIMIT 25 OFFSET 50")
	// m.tipo = MANTENIMIENTO plus the five filters above.
	assert.Len(t, args, 6)
}
