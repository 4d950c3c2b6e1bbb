package facturacion_test

import (
	"context"
	"sync"
	"time"

	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/domain/numeracion"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
	"github.com/jmm-1987/taller-pedidos/pkg/logger"
)

// Dobles compartidos por los tests del paquete.

type facRepoFake struct {
	mu       sync.Mutex
	facturas map[string]*entity.Factura
	lineas   map[string][]*entity.LineaFactura
	huella   string // última huella emitida
}

func nuevoFacRepo() *facRepoFake {
	return &facRepoFake{
		facturas: map[string]*entity.Factura{},
		lineas:   map[string][]*entity.LineaFactura{},
	}
}

func (r *facRepoFake) Crear(_ context.Context, f *entity.Factura) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copia := *f
	r.facturas[f.ID] = &copia
	return nil
}

func (r *facRepoFake) CrearLinea(_ context.Context, l *entity.LineaFactura) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lineas[l.FacturaID] = append(r.lineas[l.FacturaID], l)
	return nil
}

func (r *facRepoFake) Actualizar(_ context.Context, f *entity.Factura) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copia := *f
	r.facturas[f.ID] = &copia
	if f.Huella != "" {
		r.huella = f.Huella
	}
	return nil
}

func (r *facRepoFake) ObtenerPorID(_ context.Context, id string) (*entity.Factura, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.facturas[id]
	if !ok {
		return nil, nil
	}
	copia := *f
	copia.Lineas = r.lineas[id]
	return &copia, nil
}

func (r *facRepoFake) Listar(_ context.Context, _ repository.FiltroFacturas) ([]*entity.Factura, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Factura, 0, len(r.facturas))
	for _, f := range r.facturas {
		out = append(out, f)
	}
	return out, nil
}

func (r *facRepoFake) LineasPorFactura(_ context.Context, id string) ([]*entity.LineaFactura, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lineas[id], nil
}

func (r *facRepoFake) UltimaHuella(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.huella, nil
}

func (r *facRepoFake) NumerosExistentes(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var nums []string
	for _, f := range r.facturas {
		if f.Numero != "" {
			nums = append(nums, f.Numero)
		}
	}
	return nums, nil
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

type clienteRepoFake struct{ data map[int64]*entity.Cliente }

func (r clienteRepoFake) Crear(context.Context, *entity.Cliente) error      { return nil }
func (r clienteRepoFake) Actualizar(context.Context, *entity.Cliente) error { return nil }
func (r clienteRepoFake) ObtenerPorID(_ context.Context, id int64) (*entity.Cliente, error) {
	return r.data[id], nil
}
func (r clienteRepoFake) Buscar(context.Context, string, int, int) ([]*entity.Cliente, error) {
	return nil, nil
}

type contadorFake struct {
	mu sync.Mutex
	v  map[string]int64
}

func (c *contadorFake) clave(clase numeracion.Clase, periodo string) string {
	return string(clase) + "/" + periodo
}

func (c *contadorFake) Incrementar(_ context.Context, clase numeracion.Clase, periodo string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.v == nil {
		c.v = map[string]int64{}
	}
	k := c.clave(clase, periodo)
	c.v[k]++
	return c.v[k], nil
}

func (c *contadorFake) Sembrar(_ context.Context, clase numeracion.Clase, periodo string, valor int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.v == nil {
		c.v = map[string]int64{}
	}
	k := c.clave(clase, periodo)
	if valor > c.v[k] {
		c.v[k] = valor
	}
	return nil
}

// runnerFake ejecuta la función directamente contra los fakes, sin transacción.
type runnerFake struct {
	fac      *facRepoFake
	contador *contadorFake
}

func (r runnerFake) RunFacturacion(ctx context.Context, fn func(
	repository.FacturaRepository,
	repository.ContadorRepository,
) error) error {
	return fn(r.fac, r.contador)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func fechaDia(dia string) func() time.Time {
	return func() time.Time {
		ts, _ := time.Parse("2006-01-02", dia)
		return ts
	}
}
