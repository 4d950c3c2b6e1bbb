package laborable_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmm-1987/taller-pedidos/internal/domain/laborable"
)

func fecha(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// TestAddDiasLaborables_SinFestivos cinco laborables desde lunes saltan el
// fin de semana: 2025-06-02 (lun) + 5 → 2025-06-09 (lun).
func TestAddDiasLaborables_SinFestivos(t *testing.T) {
	res, aviso := laborable.AddDiasLaborables(fecha("2025-06-02"), 5, laborable.CalendarioVacio{})
	require.False(t, aviso)
	assert.Equal(t, fecha("2025-06-09"), res)
	assert.Equal(t, time.Monday, res.Weekday())
}

// TestAddDiasLaborables_ConFestivo con el 1 de enero festivo:
// 2024-12-30 (lun) + 3 → 2025-01-03 (vie). Cuentan 31/12, 2/1 y 3/1;
// el 1/1 y el fin de semana no.
func TestAddDiasLaborables_ConFestivo(t *testing.T) {
	cal := laborable.NuevoCalendarioFechas(fecha("2025-01-01"))
	res, aviso := laborable.AddDiasLaborables(fecha("2024-12-30"), 3, cal)
	require.False(t, aviso)
	assert.Equal(t, fecha("2025-01-03"), res)
	assert.Equal(t, time.Friday, res.Weekday())
}

// TestAddDiasLaborables_InicioNoCuenta el día de inicio nunca cuenta aunque
// sea laborable: un solo día desde lunes es martes.
func TestAddDiasLaborables_InicioNoCuenta(t *testing.T) {
	res, aviso := laborable.AddDiasLaborables(fecha("2025-06-02"), 1, laborable.CalendarioVacio{})
	require.False(t, aviso)
	assert.Equal(t, fecha("2025-06-03"), res)
}

// TestAddDiasLaborables_ArrancaEnViernes el fin de semana inmediato se salta.
func TestAddDiasLaborables_ArrancaEnViernes(t *testing.T) {
	res, aviso := laborable.AddDiasLaborables(fecha("2025-06-06"), 1, laborable.CalendarioVacio{})
	require.False(t, aviso)
	assert.Equal(t, fecha("2025-06-09"), res)
}

// TestAddDiasLaborables_TopeCalendarioPatologico con todos los días festivos
// se alcanza el tope de 3×n y se devuelve la fecha más lejana con aviso.
func TestAddDiasLaborables_TopeCalendarioPatologico(t *testing.T) {
	todoFestivo := calendarioTotal{}
	inicio := fecha("2025-06-02")
	res, aviso := laborable.AddDiasLaborables(inicio, 4, todoFestivo)
	assert.True(t, aviso)
	assert.Equal(t, inicio.AddDate(0, 0, 12), res, "debe avanzar exactamente 3×n días de calendario")
}

// TestAddDiasLaborables_CeroDias n<=0 devuelve el inicio sin aviso.
func TestAddDiasLaborables_CeroDias(t *testing.T) {
	inicio := fecha("2025-06-02")
	res, aviso := laborable.AddDiasLaborables(inicio, 0, laborable.CalendarioVacio{})
	assert.False(t, aviso)
	assert.Equal(t, inicio, res)
}

// TestEsLaborable fin de semana y festivo activo no son laborables.
func TestEsLaborable(t *testing.T) {
	cal := laborable.NuevoCalendarioFechas(fecha("2025-01-01"))
	assert.False(t, laborable.EsLaborable(fecha("2025-06-07"), cal), "sábado")
	assert.False(t, laborable.EsLaborable(fecha("2025-06-08"), cal), "domingo")
	assert.False(t, laborable.EsLaborable(fecha("2025-01-01"), cal), "festivo")
	assert.True(t, laborable.EsLaborable(fecha("2025-06-02"), cal), "lunes normal")
}

type calendarioTotal struct{}

func (calendarioTotal) EsFestivo(time.Time) bool { return true }
