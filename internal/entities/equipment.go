package entities

import (
	"time"

	"inventory-system/pkg/types"
)

// Equipment is one physical unit, identified by its immutable serial number.
// A non-deleted unit always carries exactly one status; the maintenance and
// fault flows are the only writers of EstadoID outside of direct updates.
type Equipment struct {
	Serial         string  `json:"serial" db:"serial"`
	Name           string  `json:"name" db:"name"`
	Model          string  `json:"model" db:"model"`
	AssetNumber    *string `json:"asset_number,omitempty" db:"asset_number"`
	TipoID         uint64  `json:"tipo_id" db:"tipo_id"`
	EstadoID       uint64  `json:"estado_id" db:"estado_id"`
	AssignedUserID *uint64 `json:"assigned_user_id,omitempty" db:"assigned_user_id"`
	UbicacionID    uint64  `json:"ubicacion_id" db:"ubicacion_id"`
	SucursalID     uint64  `json:"sucursal_id" db:"sucursal_id"`

	// Soft-delete triple. Set together by SoftDelete, cleared together by
	// Restore; no other field is touched by either.
	IsDeleted bool       `json:"is_deleted" db:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	DeletedBy *uint64    `json:"deleted_by,omitempty" db:"deleted_by"`

	types.BaseEntity

	Tipo      *TipoEquipo   `json:"tipo,omitempty" db:"-"`
	Estado    *EstadoEquipo `json:"estado,omitempty" db:"-"`
	Ubicacion *Ubicacion    `json:"ubicacion,omitempty" db:"-"`
	Sucursal  *Sucursal     `json:"sucursal,omitempty" db:"-"`
}
