package entities

import (
	"time"

	"inventory-system/pkg/types"

	"github.com/google/uuid"
)

// Movement types (tipos_movimiento.code).
const (
	MovementTypeTransfer    = "TRASLADO"
	MovementTypeMaintenance = "MANTENIMIENTO"
	MovementTypeAssignment  = "ASIGNACION"
	MovementTypeRetirement  = "RETIRO"
)

// Movement statuses (estados_movimiento.code). COMPLETADO and CANCELADO are
// terminal.
const (
	MovementStatusOpen       = "ABIERTO"
	MovementStatusInProgress = "EN_PROGRESO"
	MovementStatusCompleted  = "COMPLETADO"
	MovementStatusCancelled  = "CANCELADO"
	MovementStatusPaused     = "PAUSADO"
)

// Maintenance kinds.
const (
	MaintenanceKindPreventive = "PREVENTIVO"
	MaintenanceKindCorrective = "CORRECTIVO"
	MaintenanceKindUrgent     = "URGENTE"
)

// Priority levels, shared by maintenance movements and faults.
const (
	PriorityLow      = "BAJA"
	PriorityNormal   = "NORMAL"
	PriorityHigh     = "ALTA"
	PriorityCritical = "CRITICA"
)

// PriorityRank orders priorities for the listing contract:
// CRITICA > ALTA > NORMAL > BAJA.
var PriorityRank = map[string]int{
	PriorityLow:      1,
	PriorityNormal:   2,
	PriorityHigh:     3,
	PriorityCritical: 4,
}

// Movement is one logged event against a single equipment unit. Maintenance
// movements carry a MaintenanceDetail variant; other types never do, which is
// enforced by the split table rather than nullable columns.
type Movement struct {
	ID           uint64     `json:"id" db:"id"`
	Folio        uuid.UUID  `json:"folio" db:"folio"`
	EquipoSerial string     `json:"equipo_serial" db:"equipo_serial"`
	Tipo         string     `json:"tipo" db:"tipo"`
	Estado       string     `json:"estado" db:"estado"`
	OrigenID     *uint64    `json:"origen_id,omitempty" db:"origen_id"`
	DestinoID    *uint64    `json:"destino_id,omitempty" db:"destino_id"`
	UserID       uint64     `json:"user_id" db:"user_id"`
	Notes        string     `json:"notes" db:"notes"`
	StartedAt    time.Time  `json:"started_at" db:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty" db:"ended_at"`

	types.BaseEntity

	Maintenance *MaintenanceDetail `json:"maintenance,omitempty" db:"-"`
}

// MaintenanceDetail is the type-specific payload of a MANTENIMIENTO movement.
type MaintenanceDetail struct {
	MovimientoID   uint64    `json:"movimiento_id" db:"movimiento_id"`
	Kind           string    `json:"kind" db:"kind"`
	Priority       string    `json:"priority" db:"priority"`
	ScheduledDate  time.Time `json:"scheduled_date" db:"scheduled_date"`
	EstimatedHours float64   `json:"estimated_hours" db:"estimated_hours"`
	ActualHours    *float64  `json:"actual_hours,omitempty" db:"actual_hours"`
	TechnicianID   uint64    `json:"technician_id" db:"technician_id"`
	Description    string    `json:"description" db:"description"`

	Technician *User `json:"technician,omitempty" db:"-"`
}

// IsTerminalMovementStatus reports whether a movement status admits no
// further transition.
func IsTerminalMovementStatus(status string) bool {
	return status == MovementStatusCompleted || status == MovementStatusCancelled
}

// CanTransitionTo encodes the movement state machine: statuses only progress
// forward, and terminal statuses are never left.
func (m *Movement) CanTransitionTo(next string) bool {
	if IsTerminalMovementStatus(m.Estado) {
		return false
	}
	switch m.Estado {
	case MovementStatusOpen:
		return next == MovementStatusInProgress || next == MovementStatusPaused ||
			next == MovementStatusCompleted || next == MovementStatusCancelled
	case MovementStatusInProgress:
		return next == MovementStatusPaused || next == MovementStatusCompleted ||
			next == MovementStatusCancelled
	case MovementStatusPaused:
		return next == MovementStatusInProgress || next == MovementStatusCancelled
	}
	return false
}

// IsOpen reports whether the movement still counts against the
// one-open-maintenance invariant.
func (m *Movement) IsOpen() bool {
	return m.Estado == MovementStatusOpen
}
