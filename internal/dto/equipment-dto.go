package dto

import "github.com/aarondl/null/v8"

type CreateEquipmentDTO struct {
	Serial      string  `json:"serial" validate:"required,serial"`
	Name        string  `json:"name" validate:"required,min=2,max=255"`
	Model       string  `json:"model" validate:"required,min=1,max=255"`
	AssetNumber *string `json:"asset_number,omitempty" validate:"omitempty,max=64"`

	TipoID         uint64  `json:"tipo_id" validate:"required,gt=0"`
	EstadoID       uint64  `json:"estado_id" validate:"required,gt=0"`
	UbicacionID    uint64  `json:"ubicacion_id" validate:"required,gt=0"`
	SucursalID     uint64  `json:"sucursal_id" validate:"required,gt=0"`
	AssignedUserID *uint64 `json:"assigned_user_id,omitempty" validate:"omitempty,gt=0"`
}

// UpdateEquipmentDTO carries a partial update: only valid (present) fields
// are applied, so the zero value of a column stays distinguishable from
// "not supplied".
type UpdateEquipmentDTO struct {
	Name           null.String `json:"name,omitempty"`
	Model          null.String `json:"model,omitempty"`
	AssetNumber    null.String `json:"asset_number,omitempty"`
	TipoID         null.Uint64 `json:"tipo_id,omitempty"`
	EstadoID       null.Uint64 `json:"estado_id,omitempty"`
	UbicacionID    null.Uint64 `json:"ubicacion_id,omitempty"`
	SucursalID     null.Uint64 `json:"sucursal_id,omitempty"`
	AssignedUserID null.Uint64 `json:"assigned_user_id,omitempty"`
}
