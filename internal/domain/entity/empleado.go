package entity

import "time"

// Roles de empleado.
const (
	RolAdmin     = "admin"
	RolComercial = "comercial"
	RolTaller    = "taller"
)

// Empleado usuario interno: comerciales que firman solicitudes y personal
// de taller que avanza los subestados de producción.
type Empleado struct {
	ID           int64
	Nombre       string
	Email        string
	PasswordHash string
	Rol          string
	Activo       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
