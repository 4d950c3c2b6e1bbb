package tramitacion

import (
	"context"
	"fmt"
	"time"

	"github.com/jmm-1987/taller-pedidos/internal/domain"
	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/domain/laborable"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
	"github.com/jmm-1987/taller-pedidos/internal/domain/tramites"
	"github.com/jmm-1987/taller-pedidos/pkg/logger"
)

// PedidoTramiteUseCase tramita los cambios de estado de un pedido y de sus
// líneas de confección.
type PedidoTramiteUseCase struct {
	txRunner  TxRunner
	festivos  repository.FestivoRepository
	historial repository.HistorialRepository
	log       *logger.Logger
	plazos    Plazos
	ahora     func() time.Time
}

// NuevoPedidoTramiteUseCase construye el caso de uso.
func NuevoPedidoTramiteUseCase(
	txRunner TxRunner,
	festivos repository.FestivoRepository,
	historial repository.HistorialRepository,
	log *logger.Logger,
	plazos Plazos,
) *PedidoTramiteUseCase {
	return &PedidoTramiteUseCase{
		txRunner:  txRunner,
		festivos:  festivos,
		historial: historial,
		log:       log,
		plazos:    plazos,
		ahora:     time.Now,
	}
}

// ConReloj fija el reloj (tests).
func (uc *PedidoTramiteUseCase) ConReloj(ahora func() time.Time) *PedidoTramiteUseCase {
	uc.ahora = ahora
	return uc
}

// Transicionar cambia el estado del pedido. Se admite saltar a cualquier
// estado conocido; la fecha del destino solo se estampa si está vacía y el
// historial solo se anota si el estado realmente cambió.
func (uc *PedidoTramiteUseCase) Transicionar(ctx context.Context, pedidoID, actorID int64, destino entity.EstadoPedido) (*entity.Pedido, error) {
	if err := tramites.ValidarPedido(destino); err != nil {
		return nil, err
	}

	hoy := uc.ahora()
	var resultado *entity.Pedido

	err := uc.txRunner.RunTramite(ctx, func(
		_ repository.SolicitudRepository,
		pedRepo repository.PedidoRepository,
		histRepo repository.HistorialRepository,
		_ Aislar,
	) error {
		p, err := pedRepo.ObtenerPorID(ctx, pedidoID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNoEncontrado
		}
		prev := p.Estado

		p.Estado = destino
		p.MarcarFecha(destino, hoy)

		// Fecha objetivo de respaldo: normalmente viene fijada desde la
		// aceptación; si sigue vacía al entrar en preparación se calcula aquí.
		if destino == entity.PedidoEnPreparacion && p.FechaObjetivo == nil {
			cal, err := uc.calendario(ctx)
			if err != nil {
				return err
			}
			fecha, aviso := laborable.AddDiasLaborables(hoy, uc.plazos.DiasObjetivo, cal)
			p.FechaObjetivo = &fecha
			if aviso {
				uc.log.Warn().Int64("pedido_id", p.ID).Msg("fecha objetivo calculada con tope de calendario")
			}
		}

		p.UpdatedAt = hoy
		if err := pedRepo.Actualizar(ctx, p); err != nil {
			return err
		}

		if prev != destino {
			h := historialDe(entity.CambioPedido, p.ID, "", string(prev), string(destino), "", "", actorID)
			h.CreatedAt = hoy
			if err := histRepo.Anadir(ctx, h); err != nil {
				return err
			}
		}

		resultado = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resultado, nil
}

// TransicionarLinea cambia el estado de confección de una línea tras
// comprobar que pertenece al pedido indicado. El historial solo se anota si
// el estado de la línea cambió de verdad.
func (uc *PedidoTramiteUseCase) TransicionarLinea(ctx context.Context, pedidoID int64, lineaID string, actorID int64, destino entity.EstadoLinea) (*entity.LineaPedido, error) {
	hoy := uc.ahora()
	var resultado *entity.LineaPedido

	err := uc.txRunner.RunTramite(ctx, func(
		_ repository.SolicitudRepository,
		pedRepo repository.PedidoRepository,
		histRepo repository.HistorialRepository,
		_ Aislar,
	) error {
		p, err := pedRepo.ObtenerPorID(ctx, pedidoID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNoEncontrado
		}
		linea, err := pedRepo.ObtenerLinea(ctx, lineaID)
		if err != nil {
			return err
		}
		if linea == nil {
			return fmt.Errorf("%w: línea %s", domain.ErrNoEncontrado, lineaID)
		}
		if err := tramites.ValidarLinea(p, linea, destino); err != nil {
			return err
		}
		prev := linea.Estado
		if prev == destino {
			resultado = linea
			return nil
		}

		linea.Estado = destino
		if err := pedRepo.ActualizarLinea(ctx, linea); err != nil {
			return err
		}

		h := historialDe(entity.CambioLinea, p.ID, linea.ID, string(prev), string(destino), "", "", actorID)
		h.CreatedAt = hoy
		if err := histRepo.Anadir(ctx, h); err != nil {
			return err
		}

		resultado = linea
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resultado, nil
}

// Historial devuelve el libro de cambios del pedido, líneas incluidas.
func (uc *PedidoTramiteUseCase) Historial(ctx context.Context, pedidoID int64, descendente bool) ([]*entity.HistorialCambio, error) {
	return uc.historial.PorParent(ctx, entity.CambioPedido, pedidoID, descendente)
}

func (uc *PedidoTramiteUseCase) calendario(ctx context.Context) (laborable.Calendario, error) {
	fechas, err := uc.festivos.FechasActivas(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar calendario de festivos: %w", err)
	}
	return laborable.NuevoCalendarioFechas(fechas...), nil
}
