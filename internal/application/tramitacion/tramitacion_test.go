package tramitacion_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jmm-1987/taller-pedidos/internal/application/tramitacion"
	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
	"github.com/jmm-1987/taller-pedidos/pkg/logger"
)

var errTransaccionAbortada = errors.New("current transaction is aborted")

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria compartidos por los tests de tramitación
// ──────────────────────────────────────────────────────────────────────────────

type almacen struct {
	mu          sync.Mutex
	solicitudes map[int64]*entity.Solicitud
	pedidos     map[int64]*entity.Pedido
	lineasPed   map[string]*entity.LineaPedido
	historial   []*entity.HistorialCambio
	seqPedido   int64

	// errCrearPedido hace fallar el siguiente insert de pedido. Igual que en
	// PostgreSQL, el fallo deja la transacción abortada: toda escritura
	// posterior falla hasta que un savepoint la rescate.
	errCrearPedido error
	abortada       bool
}

func nuevoAlmacen() *almacen {
	return &almacen{
		solicitudes: map[int64]*entity.Solicitud{},
		pedidos:     map[int64]*entity.Pedido{},
		lineasPed:   map[string]*entity.LineaPedido{},
	}
}

// runner ejecuta fn directamente sobre los repos del almacén. No hay commit
// ni rollback que simular, pero sí el estado abortado tras un insert fallido.
type runner struct{ a *almacen }

func (r runner) RunTramite(ctx context.Context, fn func(
	repository.SolicitudRepository,
	repository.PedidoRepository,
	repository.HistorialRepository,
	tramitacion.Aislar,
) error) error {
	return fn(solRepoFake{r.a}, pedRepoFake{r.a}, histRepoFake{r.a}, r.aislar)
}

// aislar reproduce la semántica de ROLLBACK TO SAVEPOINT: el fallo de fn
// devuelve la transacción simulada al estado utilizable.
func (r runner) aislar(_ context.Context, fn func() error) error {
	if err := fn(); err != nil {
		r.a.abortada = false
		return err
	}
	return nil
}

type solRepoFake struct{ a *almacen }

func (f solRepoFake) Crear(_ context.Context, s *entity.Solicitud) error {
	f.a.solicitudes[s.ID] = s
	return nil
}

func (f solRepoFake) Actualizar(_ context.Context, s *entity.Solicitud) error {
	if f.a.abortada {
		return errTransaccionAbortada
	}
	f.a.solicitudes[s.ID] = s
	return nil
}

func (f solRepoFake) ObtenerPorID(_ context.Context, id int64) (*entity.Solicitud, error) {
	return f.a.solicitudes[id], nil
}

func (f solRepoFake) Listar(context.Context, repository.FiltroSolicitudes) ([]*entity.Solicitud, error) {
	return nil, nil
}

func (f solRepoFake) ReemplazarLineas(_ context.Context, id int64, lineas []*entity.LineaSolicitud) error {
	if s := f.a.solicitudes[id]; s != nil {
		s.Lineas = lineas
	}
	return nil
}

type pedRepoFake struct{ a *almacen }

func (f pedRepoFake) Crear(_ context.Context, p *entity.Pedido) error {
	if f.a.errCrearPedido != nil {
		f.a.abortada = true
		return f.a.errCrearPedido
	}
	f.a.seqPedido++
	p.ID = f.a.seqPedido
	f.a.pedidos[p.ID] = p
	for _, l := range p.Lineas {
		l.PedidoID = p.ID
		f.a.lineasPed[l.ID] = l
	}
	return nil
}

func (f pedRepoFake) Actualizar(_ context.Context, p *entity.Pedido) error {
	f.a.pedidos[p.ID] = p
	return nil
}

func (f pedRepoFake) ObtenerPorID(_ context.Context, id int64) (*entity.Pedido, error) {
	return f.a.pedidos[id], nil
}

func (f pedRepoFake) ObtenerPorSolicitud(_ context.Context, solicitudID int64) (*entity.Pedido, error) {
	for _, p := range f.a.pedidos {
		if p.SolicitudID != nil && *p.SolicitudID == solicitudID {
			return p, nil
		}
	}
	return nil, nil
}

func (f pedRepoFake) Listar(context.Context, repository.FiltroPedidos) ([]*entity.Pedido, error) {
	return nil, nil
}

func (f pedRepoFake) ObtenerLinea(_ context.Context, id string) (*entity.LineaPedido, error) {
	return f.a.lineasPed[id], nil
}

func (f pedRepoFake) ActualizarLinea(_ context.Context, l *entity.LineaPedido) error {
	f.a.lineasPed[l.ID] = l
	return nil
}

type histRepoFake struct{ a *almacen }

func (f histRepoFake) Anadir(_ context.Context, h *entity.HistorialCambio) error {
	if f.a.abortada {
		return errTransaccionAbortada
	}
	f.a.historial = append(f.a.historial, h)
	return nil
}

func (f histRepoFake) PorParent(_ context.Context, tipo entity.TipoCambio, parentID int64, desc bool) ([]*entity.HistorialCambio, error) {
	var out []*entity.HistorialCambio
	for _, h := range f.a.historial {
		if h.ParentID != parentID {
			continue
		}
		if tipo == entity.CambioPedido {
			if h.Tipo == entity.CambioPedido || h.Tipo == entity.CambioLinea {
				out = append(out, h)
			}
			continue
		}
		if h.Tipo == tipo {
			out = append(out, h)
		}
	}
	if desc {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

type festivosFake struct{ fechas []time.Time }

func (f festivosFake) Crear(context.Context, *entity.DiaFestivo) error    { return nil }
func (f festivosFake) Activar(context.Context, int64, bool) error         { return nil }
func (f festivosFake) Listar(context.Context) ([]*entity.DiaFestivo, error) { return nil, nil }
func (f festivosFake) FechasActivas(context.Context) ([]time.Time, error) {
	return f.fechas, nil
}

// notificadorFake registra cada aviso; puede simular fallos de entrega.
type notificadorFake struct {
	avisos []tramitacion.CambioEstado
	falla  bool
}

func (n *notificadorFake) NotificarCambioEstado(_ context.Context, c tramitacion.CambioEstado) (bool, string) {
	n.avisos = append(n.avisos, c)
	if n.falla {
		return false, "smtp caído"
	}
	return true, ""
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func fechaDia(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}
