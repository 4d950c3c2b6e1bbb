package solicitudes_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmm-1987/taller-pedidos/internal/application/dto"
	"github.com/jmm-1987/taller-pedidos/internal/application/solicitudes"
	"github.com/jmm-1987/taller-pedidos/internal/domain"
	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/domain/numeracion"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
)

type solRepoMem struct {
	mu       sync.Mutex
	seq      int64
	data     map[int64]*entity.Solicitud
	errCrear error
}

func (r *solRepoMem) Crear(_ context.Context, s *entity.Solicitud) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.errCrear != nil {
		return r.errCrear
	}
	r.seq++
	s.ID = r.seq
	for _, l := range s.Lineas {
		l.SolicitudID = s.ID
	}
	r.data[s.ID] = s
	return nil
}

func (r *solRepoMem) Actualizar(_ context.Context, s *entity.Solicitud) error {
	r.data[s.ID] = s
	return nil
}

func (r *solRepoMem) ObtenerPorID(_ context.Context, id int64) (*entity.Solicitud, error) {
	return r.data[id], nil
}

func (r *solRepoMem) Listar(context.Context, repository.FiltroSolicitudes) ([]*entity.Solicitud, error) {
	return nil, nil
}

func (r *solRepoMem) ReemplazarLineas(_ context.Context, id int64, lineas []*entity.LineaSolicitud) error {
	if s := r.data[id]; s != nil {
		s.Lineas = lineas
	}
	return nil
}

type pedRepoNulo struct{}

func (pedRepoNulo) Crear(context.Context, *entity.Pedido) error      { return nil }
func (pedRepoNulo) Actualizar(context.Context, *entity.Pedido) error { return nil }
func (pedRepoNulo) ObtenerPorID(context.Context, int64) (*entity.Pedido, error) {
	return nil, nil
}
func (pedRepoNulo) ObtenerPorSolicitud(context.Context, int64) (*entity.Pedido, error) {
	return nil, nil
}
func (pedRepoNulo) Listar(context.Context, repository.FiltroPedidos) ([]*entity.Pedido, error) {
	return nil, nil
}
func (pedRepoNulo) ObtenerLinea(context.Context, string) (*entity.LineaPedido, error) {
	return nil, nil
}
func (pedRepoNulo) ActualizarLinea(context.Context, *entity.LineaPedido) error { return nil }

type clienteRepoMem struct{ data map[int64]*entity.Cliente }

func (r clienteRepoMem) Crear(context.Context, *entity.Cliente) error      { return nil }
func (r clienteRepoMem) Actualizar(context.Context, *entity.Cliente) error { return nil }
func (r clienteRepoMem) ObtenerPorID(_ context.Context, id int64) (*entity.Cliente, error) {
	return r.data[id], nil
}
func (r clienteRepoMem) Buscar(context.Context, string, int, int) ([]*entity.Cliente, error) {
	return nil, nil
}

type contadorMem struct {
	mu sync.Mutex
	v  map[string]int64
}

func (c *contadorMem) Incrementar(_ context.Context, clase numeracion.Clase, periodo string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.v == nil {
		c.v = map[string]int64{}
	}
	k := string(clase) + "/" + periodo
	c.v[k]++
	return c.v[k], nil
}

func (c *contadorMem) Sembrar(_ context.Context, clase numeracion.Clase, periodo string, valor int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.v == nil {
		c.v = map[string]int64{}
	}
	k := string(clase) + "/" + periodo
	if valor > c.v[k] {
		c.v[k] = valor
	}
	return nil
}

func (c *contadorMem) copia() map[string]int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]int64{}
	for k, v := range c.v {
		out[k] = v
	}
	return out
}

// altaRunner ejecuta fn sobre los dobles y, como haría el rollback de la
// transacción real, deshace el incremento del contador si fn falla.
type altaRunner struct {
	sol      *solRepoMem
	contador *contadorMem
}

func (r altaRunner) RunAlta(_ context.Context, fn func(
	repository.SolicitudRepository,
	repository.ContadorRepository,
) error) error {
	antes := r.contador.copia()
	if err := fn(r.sol, r.contador); err != nil {
		r.contador.mu.Lock()
		r.contador.v = antes
		r.contador.mu.Unlock()
		return err
	}
	return nil
}

func nuevoUC(t *testing.T, hoy string) (*solicitudes.UseCase, *solRepoMem) {
	t.Helper()
	repo := &solRepoMem{data: map[int64]*entity.Solicitud{}}
	clientes := clienteRepoMem{data: map[int64]*entity.Cliente{
		10: {ID: 10, Nombre: "Club Deportivo Ficticio"},
	}}
	runner := altaRunner{sol: repo, contador: &contadorMem{}}
	uc := solicitudes.NuevoUseCase(runner, repo, pedRepoNulo{}, clientes).
		ConReloj(func() time.Time {
			ts, err := time.Parse("2006-01-02", hoy)
			require.NoError(t, err)
			return ts
		})
	return uc, repo
}

func lineaCamisetas() dto.LineaRequest {
	return dto.LineaRequest{
		Nombre:     "Camiseta sublimada",
		Cantidad:   15,
		PrecioUnit: decimal.NewFromFloat(9.9),
		Descuento:  decimal.NewFromInt(5),
	}
}

// TestCrear_NumeroYFechaPresupuesto el alta asigna YYMM_NN y estampa la
// fecha de presupuesto; números consecutivos dentro del mes.
func TestCrear_NumeroYFechaPresupuesto(t *testing.T) {
	uc, repo := nuevoUC(t, "2025-08-29")

	r1, err := uc.Crear(context.Background(), 5, dto.CrearSolicitudRequest{
		ClienteID: 10, Lineas: []dto.LineaRequest{lineaCamisetas()},
	})
	require.NoError(t, err)
	r2, err := uc.Crear(context.Background(), 5, dto.CrearSolicitudRequest{
		ClienteID: 10, Lineas: []dto.LineaRequest{lineaCamisetas()},
	})
	require.NoError(t, err)

	assert.Equal(t, "2508_01", r1.NumeroSolicitud)
	assert.Equal(t, "2508_02", r2.NumeroSolicitud)
	assert.Equal(t, string(entity.EstadoPresupuesto), r1.Estado)
	require.NotNil(t, repo.data[r1.ID].FechaPresupuesto)
}

// TestCrear_FalloDeInsertNoGastaNumero un alta fallida no consume número:
// el contador se revierte con la transacción y la siguiente solicitud recibe
// el número que el fallo habría desperdiciado.
func TestCrear_FalloDeInsertNoGastaNumero(t *testing.T) {
	uc, repo := nuevoUC(t, "2025-08-29")

	r1, err := uc.Crear(context.Background(), 5, dto.CrearSolicitudRequest{
		ClienteID: 10, Lineas: []dto.LineaRequest{lineaCamisetas()},
	})
	require.NoError(t, err)
	assert.Equal(t, "2508_01", r1.NumeroSolicitud)

	repo.errCrear = errors.New("conexión perdida")
	_, err = uc.Crear(context.Background(), 5, dto.CrearSolicitudRequest{
		ClienteID: 10, Lineas: []dto.LineaRequest{lineaCamisetas()},
	})
	require.Error(t, err)

	repo.errCrear = nil
	r2, err := uc.Crear(context.Background(), 5, dto.CrearSolicitudRequest{
		ClienteID: 10, Lineas: []dto.LineaRequest{lineaCamisetas()},
	})
	require.NoError(t, err)
	assert.Equal(t, "2508_02", r2.NumeroSolicitud, "la serie mensual no debe quedar con huecos")
}

// TestCrear_PrecioFinalConDescuento la línea expone el precio con descuento.
func TestCrear_PrecioFinalConDescuento(t *testing.T) {
	uc, _ := nuevoUC(t, "2025-08-29")

	r, err := uc.Crear(context.Background(), 5, dto.CrearSolicitudRequest{
		ClienteID: 10,
		Lineas: []dto.LineaRequest{{
			Nombre: "Sudadera", Cantidad: 10,
			PrecioUnit: decimal.NewFromInt(20), Descuento: decimal.NewFromInt(25),
		}},
	})
	require.NoError(t, err)
	assert.True(t, r.Lineas[0].PrecioFinal.Equal(decimal.NewFromInt(15)),
		"20 × (1 − 25/100) = 15, obtenido %s", r.Lineas[0].PrecioFinal)
}

// TestCrear_Validaciones cliente inexistente y descuento fuera de rango.
func TestCrear_Validaciones(t *testing.T) {
	uc, _ := nuevoUC(t, "2025-08-29")

	_, err := uc.Crear(context.Background(), 5, dto.CrearSolicitudRequest{
		ClienteID: 99, Lineas: []dto.LineaRequest{lineaCamisetas()},
	})
	require.ErrorIs(t, err, domain.ErrNoEncontrado)

	mala := lineaCamisetas()
	mala.Descuento = decimal.NewFromInt(120)
	_, err = uc.Crear(context.Background(), 5, dto.CrearSolicitudRequest{
		ClienteID: 10, Lineas: []dto.LineaRequest{mala},
	})
	require.ErrorIs(t, err, domain.ErrEntradaInvalida)
}

// TestEditar_ReemplazaLineas la edición sustituye las líneas en bloque: los
// identificadores anteriores desaparecen.
func TestEditar_ReemplazaLineas(t *testing.T) {
	uc, repo := nuevoUC(t, "2025-08-29")

	r, err := uc.Crear(context.Background(), 5, dto.CrearSolicitudRequest{
		ClienteID: 10, Lineas: []dto.LineaRequest{lineaCamisetas()},
	})
	require.NoError(t, err)
	idAnterior := r.Lineas[0].ID

	ed, err := uc.Editar(context.Background(), r.ID, dto.EditarSolicitudRequest{
		Lineas: []dto.LineaRequest{
			{Nombre: "Polo piqué", Cantidad: 8, PrecioUnit: decimal.NewFromInt(12)},
			{Nombre: "Chaqueta softshell", Cantidad: 4, PrecioUnit: decimal.NewFromInt(30)},
		},
	})
	require.NoError(t, err)

	require.Len(t, ed.Lineas, 2)
	for _, l := range ed.Lineas {
		assert.NotEqual(t, idAnterior, l.ID)
	}
	assert.Len(t, repo.data[r.ID].Lineas, 2)
}
