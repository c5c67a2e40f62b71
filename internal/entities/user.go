package entities

import "inventory-system/pkg/types"

const (
	RoleAdmin      = "ADMIN"
	RoleSupervisor = "SUPERVISOR"
	RoleTechnician = "TECNICO"
	RoleOperator   = "OPERADOR"
)

var roleRank = map[string]int{
	RoleOperator:   1,
	RoleTechnician: 2,
	RoleSupervisor: 3,
	RoleAdmin:      4,
}

type User struct {
	ID         uint64  `json:"id" db:"id"`
	Fio        string  `json:"fio" db:"fio"`
	Email      string  `json:"email" db:"email"`
	Password   string  `json:"-" db:"password"`
	Role       string  `json:"role" db:"role"`
	SucursalID *uint64 `json:"sucursal_id,omitempty" db:"sucursal_id"`

	types.BaseEntity
}

// CanActAsTechnician reports whether the user may be assigned maintenance or
// fault work: technician role or above.
func (u *User) CanActAsTechnician() bool {
	return roleRank[u.Role] >= roleRank[RoleTechnician]
}
