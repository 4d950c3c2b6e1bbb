package facturacion_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmm-1987/taller-pedidos/internal/application/dto"
	"github.com/jmm-1987/taller-pedidos/internal/application/facturacion"
	"github.com/jmm-1987/taller-pedidos/internal/domain"
	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/infrastructure/verifactu"
)

type entorno struct {
	fac      *facRepoFake
	clientes clienteRepoFake
	contador *contadorFake
	crear    *facturacion.CrearFacturaUseCase
	formal   *facturacion.FormalizarUseCase
}

func nuevoEntorno(t *testing.T, dia string, orq *facturacion.VerifactuOrchestrator) *entorno {
	t.Helper()
	fac := nuevoFacRepo()
	clientes := clienteRepoFake{data: map[int64]*entity.Cliente{
		10: {ID: 10, Nombre: "Club Deportivo", NIF: "G98765432"},
	}}
	contador := &contadorFake{}
	runner := runnerFake{fac: fac, contador: contador}

	crear := facturacion.NewCrearFacturaUseCase(fac, clientes, pedRepoNulo{}).ConReloj(fechaDia(dia))
	formal := facturacion.NewFormalizarUseCase(runner, fac, orq, testLogger()).ConReloj(fechaDia(dia))
	return &entorno{fac: fac, clientes: clientes, contador: contador, crear: crear, formal: formal}
}

func altaDocumento(t *testing.T, e *entorno, tipo string) *dto.FacturaResponse {
	t.Helper()
	resp, err := e.crear.Crear(context.Background(), dto.CrearFacturaRequest{
		Tipo:      tipo,
		ClienteID: 10,
		Lineas: []dto.LineaFacturaRequest{
			{Concepto: "Equipación completa", Cantidad: decimal.NewFromInt(10), PrecioUnit: decimal.NewFromInt(10), TipoIVA: decimal.NewFromInt(21)},
		},
	})
	require.NoError(t, err)
	return resp
}

// TestCrear_TotalesYNormalizacionIVA base, cuota y total con IVA expresado
// en porcentaje; el documento nace en borrador sin número.
func TestCrear_TotalesYNormalizacionIVA(t *testing.T) {
	e := nuevoEntorno(t, "2025-06-02", nil)
	resp := altaDocumento(t, e, "factura")

	assert.Empty(t, resp.Numero)
	assert.Equal(t, entity.FacturaPendiente, resp.Estado)
	assert.True(t, resp.BaseTotal.Equal(decimal.NewFromInt(100)), "base %s", resp.BaseTotal)
	assert.True(t, resp.CuotaTotal.Equal(decimal.NewFromInt(21)), "cuota %s", resp.CuotaTotal)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(121)), "total %s", resp.Total)
	assert.True(t, resp.Lineas[0].TipoIVA.Equal(decimal.NewFromFloat(0.21)))
}

// TestFormalizar_NumeraPorTipo cada clase recibe su serie: F25n anual,
// T25n anual, A2506_nnn mensual.
func TestFormalizar_NumeraPorTipo(t *testing.T) {
	e := nuevoEntorno(t, "2025-06-02", nil)

	f1, err := e.formal.Formalizar(context.Background(), altaDocumento(t, e, "factura").ID)
	require.NoError(t, err)
	f2, err := e.formal.Formalizar(context.Background(), altaDocumento(t, e, "factura").ID)
	require.NoError(t, err)
	tk, err := e.formal.Formalizar(context.Background(), altaDocumento(t, e, "ticket").ID)
	require.NoError(t, err)
	al, err := e.formal.Formalizar(context.Background(), altaDocumento(t, e, "albaran").ID)
	require.NoError(t, err)

	assert.Equal(t, "F251", f1.Numero)
	assert.Equal(t, "F252", f2.Numero)
	assert.Equal(t, "T251", tk.Numero)
	assert.Equal(t, "A2506_001", al.Numero)
	assert.Equal(t, entity.FacturaFormalizada, f1.Estado)
}

// TestFormalizar_YaFormalizada un documento con número no se renumera.
func TestFormalizar_YaFormalizada(t *testing.T) {
	e := nuevoEntorno(t, "2025-06-02", nil)
	id := altaDocumento(t, e, "factura").ID

	_, err := e.formal.Formalizar(context.Background(), id)
	require.NoError(t, err)
	_, err = e.formal.Formalizar(context.Background(), id)
	require.ErrorIs(t, err, domain.ErrFacturaYaFormalizada)

	f, _ := e.fac.ObtenerPorID(context.Background(), id)
	assert.Equal(t, "F251", f.Numero)
}

// TestFormalizar_AlbaranSinVerifactu los albaranes no entran en la cadena
// Verifactu: el estado queda vacío.
func TestFormalizar_AlbaranSinVerifactu(t *testing.T) {
	e := nuevoEntorno(t, "2025-06-02", nil)

	al, err := e.formal.Formalizar(context.Background(), altaDocumento(t, e, "albaran").ID)
	require.NoError(t, err)
	assert.Empty(t, al.VerifactuEstado)

	fa, err := e.formal.Formalizar(context.Background(), altaDocumento(t, e, "factura").ID)
	require.NoError(t, err)
	assert.Equal(t, entity.VerifactuPendiente, fa.VerifactuEstado)
}

// TestAnular el número se conserva; anular dos veces es idempotente.
func TestAnular(t *testing.T) {
	e := nuevoEntorno(t, "2025-06-02", nil)
	id := altaDocumento(t, e, "factura").ID
	_, err := e.formal.Formalizar(context.Background(), id)
	require.NoError(t, err)

	an, err := e.formal.Anular(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.FacturaAnulada, an.Estado)
	assert.Equal(t, "F251", an.Numero)

	_, err = e.formal.Anular(context.Background(), id)
	require.NoError(t, err)
}

// TestSembrarContadores los números históricos fijan el arranque de la serie.
func TestSembrarContadores(t *testing.T) {
	e := nuevoEntorno(t, "2025-06-02", nil)

	// Documento histórico con número ya asignado.
	historica := &entity.Factura{ID: "hist-1", Tipo: entity.DocFactura, Numero: "F257", ClienteID: 10, Estado: entity.FacturaFormalizada}
	require.NoError(t, e.fac.Crear(context.Background(), historica))

	require.NoError(t, e.formal.SembrarContadores(context.Background()))

	f, err := e.formal.Formalizar(context.Background(), altaDocumento(t, e, "factura").ID)
	require.NoError(t, err)
	assert.Equal(t, "F258", f.Numero)
}

// ── Orquestador Verifactu ─────────────────────────────────────────────────────

type submitterFake struct {
	resultado *verifactu.SubmitResult
	err       error
	enviados  [][]byte
}

func (s *submitterFake) EnviarRegistro(_ context.Context, xml []byte, _ string) (*verifactu.SubmitResult, error) {
	s.enviados = append(s.enviados, xml)
	if s.err != nil {
		return nil, s.err
	}
	return s.resultado, nil
}

func configVerifactu(env string) facturacion.VerifactuConfig {
	return facturacion.VerifactuConfig{
		AppEnv: env,
		Emisor: verifactu.Emisor{NIF: "B12345678", Nombre: "Taller Textil SL"},
		Software: verifactu.Software{
			NombreRazon: "Taller Textil SL", NIF: "B12345678",
			Nombre: "backoffice", ID: "TT", Version: "1.0", NumeroInstalacion: "1",
		},
	}
}

func nuevoOrquestador(e *entorno, env string, sub verifactu.Submitter) *facturacion.VerifactuOrchestrator {
	return facturacion.NewVerifactuOrchestrator(
		e.fac, e.clientes, verifactu.NewRegistroBuilder(), sub, configVerifactu(env), testLogger(),
	).ConReloj(fechaDia("2025-06-02"))
}

// TestOrquestador_ModoDev genera registro y huella sin enviar; estado ACEPTADA.
func TestOrquestador_ModoDev(t *testing.T) {
	e := nuevoEntorno(t, "2025-06-02", nil)
	orq := nuevoOrquestador(e, "dev", nil)

	id := altaDocumento(t, e, "factura").ID
	_, err := e.formal.Formalizar(context.Background(), id)
	require.NoError(t, err)

	orq.Process(id)

	f, _ := e.fac.ObtenerPorID(context.Background(), id)
	assert.Equal(t, entity.VerifactuAceptada, f.VerifactuEstado)
	assert.NotEmpty(t, f.Huella)
	assert.Empty(t, f.HuellaAnterior)
	assert.Contains(t, f.RegistroXML, f.Numero)
	assert.Contains(t, f.CSV, "DEV-")
}

// TestOrquestador_CadenaDeHuellas el segundo registro encadena con la huella
// del primero.
func TestOrquestador_CadenaDeHuellas(t *testing.T) {
	e := nuevoEntorno(t, "2025-06-02", nil)
	orq := nuevoOrquestador(e, "dev", nil)

	id1 := altaDocumento(t, e, "factura").ID
	_, err := e.formal.Formalizar(context.Background(), id1)
	require.NoError(t, err)
	orq.Process(id1)

	id2 := altaDocumento(t, e, "factura").ID
	_, err = e.formal.Formalizar(context.Background(), id2)
	require.NoError(t, err)
	orq.Process(id2)

	f1, _ := e.fac.ObtenerPorID(context.Background(), id1)
	f2, _ := e.fac.ObtenerPorID(context.Background(), id2)
	assert.Equal(t, f1.Huella, f2.HuellaAnterior)
	assert.NotEqual(t, f1.Huella, f2.Huella)
}

// TestOrquestador_Rechazo la AEAT rechaza: estado RECHAZADA con errores.
func TestOrquestador_Rechazo(t *testing.T) {
	e := nuevoEntorno(t, "2025-06-02", nil)
	sub := &submitterFake{resultado: &verifactu.SubmitResult{Aceptada: false, Errores: "1117: NIF inválido"}}
	orq := nuevoOrquestador(e, "test", sub)

	id := altaDocumento(t, e, "factura").ID
	_, err := e.formal.Formalizar(context.Background(), id)
	require.NoError(t, err)
	orq.Process(id)

	f, _ := e.fac.ObtenerPorID(context.Background(), id)
	assert.Equal(t, entity.VerifactuRechazada, f.VerifactuEstado)
	assert.Contains(t, f.ErroresVerifactu, "1117")
	assert.Len(t, sub.enviados, 1)
}

// TestOrquestador_ErrorDeEnvio fallo de transporte: ERROR_GENERACION, pero el
// registro y la huella quedan persistidos.
func TestOrquestador_ErrorDeEnvio(t *testing.T) {
	e := nuevoEntorno(t, "2025-06-02", nil)
	sub := &submitterFake{err: errors.New("connection refused")}
	orq := nuevoOrquestador(e, "prod", sub)

	id := altaDocumento(t, e, "factura").ID
	_, err := e.formal.Formalizar(context.Background(), id)
	require.NoError(t, err)
	orq.Process(id)

	f, _ := e.fac.ObtenerPorID(context.Background(), id)
	assert.Equal(t, entity.VerifactuErrorGeneracion, f.VerifactuEstado)
	assert.NotEmpty(t, f.Huella)
	assert.NotEmpty(t, f.RegistroXML)
}

// TestOrquestador_SaltaYaProcesadas un documento fuera de PENDIENTE no se
// reprocesa.
func TestOrquestador_SaltaYaProcesadas(t *testing.T) {
	e := nuevoEntorno(t, "2025-06-02", nil)
	orq := nuevoOrquestador(e, "dev", nil)

	id := altaDocumento(t, e, "factura").ID
	_, err := e.formal.Formalizar(context.Background(), id)
	require.NoError(t, err)
	orq.Process(id)

	f, _ := e.fac.ObtenerPorID(context.Background(), id)
	csv := f.CSV
	orq.Process(id) // segunda pasada: no hace nada

	f, _ = e.fac.ObtenerPorID(context.Background(), id)
	assert.Equal(t, csv, f.CSV)
}
