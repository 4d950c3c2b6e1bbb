package entity

import "time"

// Cliente maestro de clientes del taller.
type Cliente struct {
	ID        int64
	Nombre    string
	NIF       string
	Email     string
	Telefono  string
	Direccion string
	Poblacion string
	CreatedAt time.Time
	UpdatedAt time.Time
}
