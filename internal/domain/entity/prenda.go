package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Prenda maestro de prendas personalizables (camisetas, sudaderas, equipaciones...).
type Prenda struct {
	ID          int64
	Nombre      string
	Referencia  string
	ProveedorID *int64
	PrecioBase  decimal.Decimal
	Activa      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
