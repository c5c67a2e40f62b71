package dto

import "time"

type TransferRequestDTO struct {
	Serials       []string `json:"serials" validate:"required,min=1,dive,serial"`
	DestinoID     uint64   `json:"destino_id" validate:"required,gt=0"`
	ResponsibleID uint64   `json:"responsible_id" validate:"required,gt=0"`
	MovementType  string   `json:"movement_type,omitempty" validate:"omitempty,oneof=TRASLADO ASIGNACION RETIRO"`
	Notes         string   `json:"notes,omitempty"`
}

// BatchItemFailure names one unit that could not be processed, so a batch
// response always accounts for every requested serial.
type BatchItemFailure struct {
	Serial string `json:"serial"`
	Reason string `json:"reason"`
}

type TransferResultDTO struct {
	Transferred []string           `json:"transferred"`
	Failures    []BatchItemFailure `json:"failures,omitempty"`
	Attempted   int                `json:"attempted"`
	Succeeded   int                `json:"succeeded"`
}

type ScheduleMaintenanceDTO struct {
	Serials        []string   `json:"serials" validate:"required,min=1,dive,serial"`
	Kind           string     `json:"kind" validate:"required,maintenance_kind"`
	ScheduledDate  *time.Time `json:"scheduled_date" validate:"required"`
	TechnicianID   uint64     `json:"technician_id" validate:"required,gt=0"`
	Description    string     `json:"description,omitempty"`
	Priority       string     `json:"priority,omitempty" validate:"omitempty,priority_level"`
	EstimatedHours float64    `json:"estimated_hours,omitempty" validate:"omitempty,gt=0"`
	Notes          string     `json:"notes,omitempty"`
}

type ScheduleMaintenanceResultDTO struct {
	Requested           int                `json:"requested"`
	Scheduled           int                `json:"scheduled"`
	TotalEstimatedHours float64            `json:"total_estimated_hours"`
	TechnicianName      string             `json:"technician_name"`
	Failures            []BatchItemFailure `json:"failures,omitempty"`
}

type CompleteMaintenanceDTO struct {
	ActualHours float64 `json:"actual_hours" validate:"required,gt=0"`
	Notes       string  `json:"notes,omitempty"`
}

// MaintenanceFilter narrows ListMaintenance. Zero values mean no restriction;
// Status defaults to ABIERTO at the service layer.
type MaintenanceFilter struct {
	SucursalID   uint64
	TechnicianID uint64
	Kind         string
	Status       string
	DateFrom     *time.Time
	DateTo       *time.Time
	Limit        int
	Offset       int
}

// MaintenanceItemDTO is one row of the maintenance listing, with catalog
// names joined in.
type MaintenanceItemDTO struct {
	MovementID     uint64     `json:"movement_id"`
	Folio          string     `json:"folio"`
	EquipoSerial   string     `json:"equipo_serial"`
	EquipmentName  string     `json:"equipment_name"`
	Estado         string     `json:"estado"`
	Kind           string     `json:"kind"`
	Priority       string     `json:"priority"`
	ScheduledDate  time.Time  `json:"scheduled_date"`
	EstimatedHours float64    `json:"estimated_hours"`
	ActualHours    *float64   `json:"actual_hours,omitempty"`
	TechnicianID   uint64     `json:"technician_id"`
	TechnicianName string     `json:"technician_name"`
	SucursalID     uint64     `json:"sucursal_id"`
	Description    string     `json:"description"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
}

// TechnicianAggregateDTO is the per-technician rollup attached to the
// maintenance listing.
type TechnicianAggregateDTO struct {
	TechnicianID     uint64         `json:"technician_id"`
	TechnicianName   string         `json:"technician_name"`
	CountsByKind     map[string]int `json:"counts_by_kind"`
	AvgActualHours   float64        `json:"avg_actual_hours"`
	TotalAssignments int            `json:"total_assignments"`
}

type MaintenanceListDTO struct {
	Items      []MaintenanceItemDTO     `json:"items"`
	Aggregates []TechnicianAggregateDTO `json:"aggregates"`
	Total      uint64                   `json:"total"`
}
