package entities

import "inventory-system/pkg/types"

// Reference data. Owned externally; the coordinator only reads these, apart
// from the idempotent seeders.

type Sucursal struct {
	ID        uint64  `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	ShortName *string `json:"short_name,omitempty" db:"short_name"`
	Address   *string `json:"address,omitempty" db:"address"`

	types.BaseEntity
}

type Ubicacion struct {
	ID         uint64 `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	SucursalID uint64 `json:"sucursal_id" db:"sucursal_id"`

	types.BaseEntity

	Sucursal *Sucursal `json:"sucursal,omitempty" db:"-"`
}

type EstadoEquipo struct {
	ID          uint64 `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`

	types.BaseEntity
}

type TipoEquipo struct {
	ID          uint64 `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`

	types.BaseEntity
}

type TipoMovimiento struct {
	ID          uint64 `json:"id" db:"id"`
	Code        string `json:"code" db:"code"`
	Description string `json:"description" db:"description"`

	types.BaseEntity
}

type EstadoMovimiento struct {
	ID          uint64 `json:"id" db:"id"`
	Code        string `json:"code" db:"code"`
	Description string `json:"description" db:"description"`

	types.BaseEntity
}

// Equipment status names as seeded in estados_equipo. The fault and
// maintenance flows move equipment between these.
const (
	EquipmentStatusActive       = "Activo"
	EquipmentStatusMaintenance  = "Mantenimiento"
	EquipmentStatusFaulty       = "Con Falla"
	EquipmentStatusOutOfService = "Fuera de Servicio"
	EquipmentStatusInactive     = "Inactivo"
)
