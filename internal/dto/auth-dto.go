package dto

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type UserDTO struct {
	ID         uint64  `json:"id"`
	Fio        string  `json:"fio"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	SucursalID *uint64 `json:"sucursal_id,omitempty"`
}

type LoginResponseDTO struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}
