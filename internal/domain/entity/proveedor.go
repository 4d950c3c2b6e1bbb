package entity

import "time"

// Proveedor maestro de proveedores de prenda en blanco.
type Proveedor struct {
	ID        int64
	Nombre    string
	NIF       string
	Email     string
	Telefono  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
