package numeracion_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmm-1987/taller-pedidos/internal/domain/numeracion"
)

// contadorMemoria contador en memoria, seguro para uso concurrente.
type contadorMemoria struct {
	mu      sync.Mutex
	valores map[string]int64
}

func nuevoContadorMemoria() *contadorMemoria {
	return &contadorMemoria{valores: map[string]int64{}}
}

func (c *contadorMemoria) Incrementar(_ context.Context, clase numeracion.Clase, periodo string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := string(clase) + "/" + periodo
	c.valores[k]++
	return c.valores[k], nil
}

func dia(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// TestSiguiente_MonotonoSinHuecos tres facturas seguidas en 2025 producen
// exactamente F251, F252, F253.
func TestSiguiente_MonotonoSinHuecos(t *testing.T) {
	svc := numeracion.NuevoServicio(nuevoContadorMemoria())
	ancla := dia("2025-03-10")

	var nums []string
	for i := 0; i < 3; i++ {
		n, err := svc.Siguiente(context.Background(), numeracion.ClaseFactura, ancla)
		require.NoError(t, err)
		nums = append(nums, n)
	}
	assert.Equal(t, []string{"F251", "F252", "F253"}, nums)
}

// TestSiguiente_AislamientoPorPeriodo las secuencias de 2025 y 2026 no
// chocan: prefijos F25 y F26, cada una arranca en 1.
func TestSiguiente_AislamientoPorPeriodo(t *testing.T) {
	svc := numeracion.NuevoServicio(nuevoContadorMemoria())

	n25, err := svc.Siguiente(context.Background(), numeracion.ClaseFactura, dia("2025-01-15"))
	require.NoError(t, err)
	n26, err := svc.Siguiente(context.Background(), numeracion.ClaseFactura, dia("2026-01-15"))
	require.NoError(t, err)

	assert.Equal(t, "F251", n25)
	assert.Equal(t, "F261", n26)
}

// TestSiguiente_Formatos cada clase con su prefijo, ámbito y relleno.
func TestSiguiente_Formatos(t *testing.T) {
	svc := numeracion.NuevoServicio(nuevoContadorMemoria())
	ancla := dia("2025-08-20")

	casos := []struct {
		clase    numeracion.Clase
		esperado string
	}{
		{numeracion.ClaseFactura, "F251"},
		{numeracion.ClaseTicket, "T251"},
		{numeracion.ClaseAlbaran, "A2508_001"},
		{numeracion.ClaseSolicitud, "2508_01"},
	}
	for _, c := range casos {
		n, err := svc.Siguiente(context.Background(), c.clase, ancla)
		require.NoError(t, err)
		assert.Equal(t, c.esperado, n, "clase %s", c.clase)
	}
}

// TestSiguiente_ReinicioMensual las solicitudes reinician la secuencia al
// cambiar de mes.
func TestSiguiente_ReinicioMensual(t *testing.T) {
	svc := numeracion.NuevoServicio(nuevoContadorMemoria())

	n1, err := svc.Siguiente(context.Background(), numeracion.ClaseSolicitud, dia("2025-08-29"))
	require.NoError(t, err)
	n2, err := svc.Siguiente(context.Background(), numeracion.ClaseSolicitud, dia("2025-09-01"))
	require.NoError(t, err)

	assert.Equal(t, "2508_01", n1)
	assert.Equal(t, "2509_01", n2)
}

// TestSiguiente_AnclaCero sin fecha ancla se usa la fecha actual (reloj inyectado).
func TestSiguiente_AnclaCero(t *testing.T) {
	svc := numeracion.NuevoServicio(nuevoContadorMemoria()).
		ConReloj(func() time.Time { return dia("2027-02-03") })

	n, err := svc.Siguiente(context.Background(), numeracion.ClaseTicket, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "T271", n)
}

// TestSiguiente_ClaseDesconocida se rechaza sin tocar el contador.
func TestSiguiente_ClaseDesconocida(t *testing.T) {
	svc := numeracion.NuevoServicio(nuevoContadorMemoria())
	_, err := svc.Siguiente(context.Background(), numeracion.Clase("recibo"), time.Time{})
	require.Error(t, err)
}

// TestMaxSufijo el sembrado desde documentos existentes ignora números de
// otros periodos y sufijos no numéricos.
func TestMaxSufijo(t *testing.T) {
	nums := []string{"F251", "F2512", "F243", "F25x", "T255", "A2508_004"}
	assert.EqualValues(t, 12, numeracion.MaxSufijo(nums, "F25"))
	assert.EqualValues(t, 4, numeracion.MaxSufijo(nums, "A2508_"))
	assert.EqualValues(t, 0, numeracion.MaxSufijo(nums, "F26"), "periodo sin documentos arranca en 0")
}
