// Package laborable calcula fechas avanzando días laborables: se saltan
// sábados, domingos y los días festivos activos del calendario del taller.
package laborable

import "time"

// Calendario responde si una fecha es festivo activo.
type Calendario interface {
	EsFestivo(fecha time.Time) bool
}

// CalendarioVacio calendario sin festivos.
type CalendarioVacio struct{}

func (CalendarioVacio) EsFestivo(time.Time) bool { return false }

// CalendarioFechas calendario en memoria sobre un conjunto de fechas (día truncado).
type CalendarioFechas map[string]struct{}

// NuevoCalendarioFechas construye el calendario a partir de fechas concretas.
func NuevoCalendarioFechas(fechas ...time.Time) CalendarioFechas {
	c := make(CalendarioFechas, len(fechas))
	for _, f := range fechas {
		c[clave(f)] = struct{}{}
	}
	return c
}

func (c CalendarioFechas) EsFestivo(fecha time.Time) bool {
	_, ok := c[clave(fecha)]
	return ok
}

func clave(t time.Time) string { return t.Format("2006-01-02") }

// EsLaborable indica si la fecha cuenta como día de trabajo.
func EsLaborable(fecha time.Time, cal Calendario) bool {
	switch fecha.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !cal.EsFestivo(fecha)
}

// AddDiasLaborables devuelve la fecha del n-ésimo día laborable posterior a
// inicio. El propio inicio nunca cuenta, aunque sea laborable.
//
// El avance total se limita a 3×n días de calendario como salvaguarda frente
// a un calendario patológico todo-festivo; si se alcanza el tope se devuelve
// la fecha más lejana alcanzada y aviso=true. No es una garantía de
// corrección, es una válvula de escape deliberada.
func AddDiasLaborables(inicio time.Time, n int, cal Calendario) (fecha time.Time, aviso bool) {
	if n <= 0 {
		return inicio, false
	}
	tope := 3 * n
	fecha = inicio
	contados := 0
	for avanzados := 0; avanzados < tope; {
		fecha = fecha.AddDate(0, 0, 1)
		avanzados++
		if EsLaborable(fecha, cal) {
			contados++
			if contados == n {
				return fecha, false
			}
		}
	}
	return fecha, true
}
