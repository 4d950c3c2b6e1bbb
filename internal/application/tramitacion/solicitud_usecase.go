package tramitacion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jmm-1987/taller-pedidos/internal/domain"
	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/domain/laborable"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
	"github.com/jmm-1987/taller-pedidos/internal/domain/tramites"
	"github.com/jmm-1987/taller-pedidos/pkg/logger"
)

// SolicitudTramiteUseCase tramita los cambios de estado de una solicitud:
// valida la transición, estampa fechas, calcula plazos, crea el pedido en la
// primera aceptación, anota el historial y avisa al colaborador de email.
type SolicitudTramiteUseCase struct {
	txRunner    TxRunner
	festivos    repository.FestivoRepository
	historial   repository.HistorialRepository
	notificador Notificador
	log         *logger.Logger
	plazos      Plazos
	ahora       func() time.Time
}

// NuevoSolicitudTramiteUseCase construye el caso de uso.
func NuevoSolicitudTramiteUseCase(
	txRunner TxRunner,
	festivos repository.FestivoRepository,
	historial repository.HistorialRepository,
	notificador Notificador,
	log *logger.Logger,
	plazos Plazos,
) *SolicitudTramiteUseCase {
	return &SolicitudTramiteUseCase{
		txRunner:    txRunner,
		festivos:    festivos,
		historial:   historial,
		notificador: notificador,
		log:         log,
		plazos:      plazos,
		ahora:       time.Now,
	}
}

// ConReloj fija el reloj (tests).
func (uc *SolicitudTramiteUseCase) ConReloj(ahora func() time.Time) *SolicitudTramiteUseCase {
	uc.ahora = ahora
	return uc
}

// ResultadoTransicion solicitud actualizada más el aviso no fatal, si lo hay.
type ResultadoTransicion struct {
	Solicitud *entity.Solicitud
	Aviso     string
}

// Transicionar aplica la transición pedida. El orden de efectos es fijo:
// validar, mutar estado/subestado, estampar fechas, crear pedido si procede,
// anotar historial, commit y por último notificar (tolerante a fallos).
//
// La creación del pedido solo se dispara cuando el destino es "aceptado" y el
// estado inmediatamente anterior no lo era: re-aceptar una solicitud ya
// aceptada no crea pedidos duplicados. La guarda es el estado previo, no una
// consulta de pedidos existentes.
func (uc *SolicitudTramiteUseCase) Transicionar(ctx context.Context, solicitudID, actorID int64, p tramites.PeticionSolicitud) (*ResultadoTransicion, error) {
	if err := tramites.ValidarSolicitud(p); err != nil {
		return nil, err
	}

	cal, err := uc.calendario(ctx)
	if err != nil {
		return nil, err
	}

	hoy := uc.ahora()
	res := &ResultadoTransicion{}
	var prevEstado entity.EstadoSolicitud
	var prevSub string

	err = uc.txRunner.RunTramite(ctx, func(
		solRepo repository.SolicitudRepository,
		pedRepo repository.PedidoRepository,
		histRepo repository.HistorialRepository,
		aislar Aislar,
	) error {
		s, err := solRepo.ObtenerPorID(ctx, solicitudID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNoEncontrado
		}
		prevEstado, prevSub = s.Estado, s.Subestado

		tramites.Aplicar(s, p)
		s.MarcarFecha(p.Estado, hoy)
		uc.calcularPlazos(s, p.Estado, hoy, cal, res)

		if p.Estado == entity.EstadoAceptado && prevEstado != entity.EstadoAceptado {
			uc.crearPedido(ctx, pedRepo, aislar, s, hoy, res)
		}

		s.UpdatedAt = hoy
		if err := solRepo.Actualizar(ctx, s); err != nil {
			return err
		}

		if prevEstado != s.Estado || prevSub != s.Subestado {
			h := historialDe(entity.CambioSolicitud, s.ID, "",
				string(prevEstado), string(s.Estado), prevSub, s.Subestado, actorID)
			h.CreatedAt = hoy
			if err := histRepo.Anadir(ctx, h); err != nil {
				return err
			}
		}

		res.Solicitud = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notificar(ctx, res.Solicitud, prevEstado, prevSub)
	return res, nil
}

// calcularPlazos calcula fecha límite de mockup y fecha objetivo solo en la
// primera entrada al estado correspondiente; nunca se recalculan.
func (uc *SolicitudTramiteUseCase) calcularPlazos(s *entity.Solicitud, destino entity.EstadoSolicitud, hoy time.Time, cal laborable.Calendario, res *ResultadoTransicion) {
	switch destino {
	case entity.EstadoMockup:
		if s.FechaLimiteMockup == nil {
			fecha, aviso := laborable.AddDiasLaborables(hoy, uc.plazos.DiasMockup, cal)
			s.FechaLimiteMockup = &fecha
			if aviso {
				res.Aviso = avisoCalendario(res.Aviso)
			}
		}
	case entity.EstadoAceptado:
		if s.FechaObjetivo == nil {
			fecha, aviso := laborable.AddDiasLaborables(hoy, uc.plazos.DiasObjetivo, cal)
			s.FechaObjetivo = &fecha
			if aviso {
				res.Aviso = avisoCalendario(res.Aviso)
			}
		}
	}
}

// crearPedido materializa el pedido a partir de la solicitud aceptada. Las
// líneas se copian conservando prenda, descripción, cantidad y precio
// unitario; el descuento no viaja al pedido. Si la solicitud no tiene líneas
// la creación se aborta con aviso, pero el cambio de estado de la solicitud
// se mantiene. Un fallo de persistencia del pedido tampoco lo revierte: el
// insert corre bajo aislar para que la transacción exterior siga viva.
func (uc *SolicitudTramiteUseCase) crearPedido(ctx context.Context, pedRepo repository.PedidoRepository, aislar Aislar, s *entity.Solicitud, hoy time.Time, res *ResultadoTransicion) {
	if len(s.Lineas) == 0 {
		res.Aviso = "solicitud aceptada sin líneas: no se ha creado pedido"
		uc.log.Warn().Int64("solicitud_id", s.ID).Msg("aceptación sin líneas, pedido no creado")
		return
	}
	ped := &entity.Pedido{
		SolicitudID:    &s.ID,
		ClienteID:      s.ClienteID,
		ComercialID:    s.ComercialID,
		Tipo:           s.Tipo,
		Estado:         entity.PedidoPendiente,
		ImagenesDiseno: s.ImagenesDiseno,
		CreatedAt:      hoy,
		UpdatedAt:      hoy,
	}
	for _, l := range s.Lineas {
		ped.Lineas = append(ped.Lineas, &entity.LineaPedido{
			ID:         uuid.New().String(),
			PrendaID:   l.PrendaID,
			Nombre:     l.Nombre,
			Cantidad:   l.Cantidad,
			Color:      l.Color,
			Forma:      l.Forma,
			Tallas:     l.Tallas,
			PrecioUnit: l.PrecioUnit,
			Estado:     entity.LineaPendiente,
		})
	}
	if err := aislar(ctx, func() error { return pedRepo.Crear(ctx, ped) }); err != nil {
		res.Aviso = "no se pudo crear el pedido: " + err.Error()
		uc.log.Error().Err(err).Int64("solicitud_id", s.ID).Msg("fallo creando pedido en aceptación")
	}
}

// notificar señala al colaborador de email si cambió el estado, o si dentro
// de en_preparacion cambió el subestado. Los fallos solo se registran.
func (uc *SolicitudTramiteUseCase) notificar(ctx context.Context, s *entity.Solicitud, prevEstado entity.EstadoSolicitud, prevSub string) {
	if uc.notificador == nil {
		return
	}
	cambioEstado := prevEstado != s.Estado
	cambioTaller := s.Estado == entity.EstadoEnPreparacion && prevSub != s.Subestado
	if !cambioEstado && !cambioTaller {
		return
	}
	ok, msg := uc.notificador.NotificarCambioEstado(ctx, CambioEstado{
		Documento:         fmt.Sprintf("solicitud %s", s.NumeroSolicitud),
		ClienteID:         s.ClienteID,
		EstadoNuevo:       string(s.Estado),
		SubestadoNuevo:    s.Subestado,
		EstadoAnterior:    string(prevEstado),
		SubestadoAnterior: prevSub,
	})
	if !ok {
		uc.log.Warn().Str("solicitud", s.NumeroSolicitud).Str("detalle", msg).Msg("aviso de cambio de estado no entregado")
	}
}

// Historial devuelve el libro de cambios de la solicitud.
func (uc *SolicitudTramiteUseCase) Historial(ctx context.Context, solicitudID int64, descendente bool) ([]*entity.HistorialCambio, error) {
	return uc.historial.PorParent(ctx, entity.CambioSolicitud, solicitudID, descendente)
}

func (uc *SolicitudTramiteUseCase) calendario(ctx context.Context) (laborable.Calendario, error) {
	fechas, err := uc.festivos.FechasActivas(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar calendario de festivos: %w", err)
	}
	return laborable.NuevoCalendarioFechas(fechas...), nil
}

func avisoCalendario(actual string) string {
	const aviso = "calendario con demasiados festivos: plazo calculado con tope de seguridad"
	if actual == "" {
		return aviso
	}
	return actual + "; " + aviso
}
