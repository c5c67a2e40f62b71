package entities

import (
	"time"

	"inventory-system/pkg/types"

	"github.com/google/uuid"
)

// Fault categories.
const (
	FaultCategoryHardware     = "HARDWARE"
	FaultCategorySoftware     = "SOFTWARE"
	FaultCategoryConnectivity = "CONECTIVIDAD"
	FaultCategorySupplies     = "SUMINISTROS"
	FaultCategoryMechanical   = "MECANICA"
	FaultCategoryElectrical   = "ELECTRICA"
	FaultCategoryOther        = "OTRA"
)

// Fault statuses. RESUELTA and CANCELADA are terminal.
const (
	FaultStatusOpen       = "ABIERTA"
	FaultStatusInProgress = "EN_PROCESO"
	FaultStatusResolved   = "RESUELTA"
	FaultStatusCancelled  = "CANCELADA"
)

// Impact levels.
const (
	ImpactLow      = "BAJO"
	ImpactMedium   = "MEDIO"
	ImpactHigh     = "ALTO"
	ImpactCritical = "CRITICO"
)

// Fault is a reported incident against one equipment unit, tracked
// independently of movements. Never deleted.
type Fault struct {
	ID            uint64     `json:"id" db:"id"`
	Folio         uuid.UUID  `json:"folio" db:"folio"`
	EquipoSerial  string     `json:"equipo_serial" db:"equipo_serial"`
	Categoria     string     `json:"categoria" db:"categoria"`
	Descripcion   string     `json:"descripcion" db:"descripcion"`
	Sintomas      string     `json:"sintomas" db:"sintomas"`
	Prioridad     string     `json:"prioridad" db:"prioridad"`
	Impacto       string     `json:"impacto" db:"impacto"`
	ReporterID    uint64     `json:"reporter_id" db:"reporter_id"`
	TechnicianID  *uint64    `json:"technician_id,omitempty" db:"technician_id"`
	Estado        string     `json:"estado" db:"estado"`
	Resolucion    *string    `json:"resolucion,omitempty" db:"resolucion"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
	SolutionHours *float64   `json:"solution_hours,omitempty" db:"solution_hours"`
	RepairCost    *float64   `json:"repair_cost,omitempty" db:"repair_cost"`
	RequiresParts bool       `json:"requires_parts" db:"requires_parts"`
	Notes         string     `json:"notes" db:"notes"`
	UbicacionID   uint64     `json:"ubicacion_id" db:"ubicacion_id"`

	types.BaseEntity

	Technician *User `json:"technician,omitempty" db:"-"`
	Reporter   *User `json:"reporter,omitempty" db:"-"`
}

// IsOpen reports whether the fault still drives the unit's status.
func (f *Fault) IsOpen() bool {
	return f.Estado == FaultStatusOpen || f.Estado == FaultStatusInProgress
}

// IsTerminal reports whether the fault admits no further transition.
func (f *Fault) IsTerminal() bool {
	return f.Estado == FaultStatusResolved || f.Estado == FaultStatusCancelled
}

// IsSevere reports whether the fault forces the unit out of service:
// CRITICA priority or CRITICO impact.
func (f *Fault) IsSevere() bool {
	return f.Prioridad == PriorityCritical || f.Impacto == ImpactCritical
}

// DerivedEquipmentStatus computes the status a unit must carry given its open
// faults: the severest open fault wins, no open faults means Activo.
func DerivedEquipmentStatus(openFaults []Fault) string {
	if len(openFaults) == 0 {
		return EquipmentStatusActive
	}
	for i := range openFaults {
		if openFaults[i].IsSevere() {
			return EquipmentStatusOutOfService
		}
	}
	return EquipmentStatusFaulty
}

// CanTransitionTo encodes the fault state machine:
// ABIERTA -> EN_PROCESO -> RESUELTA, with CANCELADA reachable from either
// open state. No transition out of a terminal state.
func (f *Fault) CanTransitionTo(next string) bool {
	if f.IsTerminal() {
		return false
	}
	switch f.Estado {
	case FaultStatusOpen:
		return next == FaultStatusInProgress || next == FaultStatusResolved || next == FaultStatusCancelled
	case FaultStatusInProgress:
		return next == FaultStatusResolved || next == FaultStatusCancelled
	}
	return false
}
