package entity

import "time"

// DiaFestivo día no laborable del calendario del taller. Solo cuentan los
// que están activos; desactivar uno lo excluye del cálculo sin borrarlo.
type DiaFestivo struct {
	ID          int64
	Fecha       time.Time
	Descripcion string
	Activo      bool
	CreatedAt   time.Time
}
