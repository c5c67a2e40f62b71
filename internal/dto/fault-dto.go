package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

type ReportFaultDTO struct {
	EquipoSerial  string  `json:"equipo_serial" validate:"required,serial"`
	Categoria     string  `json:"categoria" validate:"required,fault_category"`
	Descripcion   string  `json:"descripcion" validate:"required,min=3"`
	Sintomas      string  `json:"sintomas,omitempty"`
	Prioridad     string  `json:"prioridad,omitempty" validate:"omitempty,priority_level"`
	Impacto       string  `json:"impacto,omitempty" validate:"omitempty,impact_level"`
	TechnicianID  *uint64 `json:"technician_id,omitempty" validate:"omitempty,gt=0"`
	UbicacionID   uint64  `json:"ubicacion_id" validate:"required,gt=0"`
	RequiresParts bool    `json:"requires_parts,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

type UpdateFaultDTO struct {
	Estado        null.String  `json:"estado,omitempty"`
	TechnicianID  null.Uint64  `json:"technician_id,omitempty"`
	Resolucion    null.String  `json:"resolucion,omitempty"`
	SolutionHours null.Float64 `json:"solution_hours,omitempty"`
	RepairCost    null.Float64 `json:"repair_cost,omitempty"`
	RequiresParts null.Bool    `json:"requires_parts,omitempty"`
	Notes         null.String  `json:"notes,omitempty"`
}

type FaultFilter struct {
	SucursalID   uint64
	TechnicianID uint64
	Categoria    string
	Prioridad    string
	Estado       string
	DateFrom     *time.Time
	DateTo       *time.Time
	Limit        int
	Offset       int
}
