// Package solicitudes cubre el alta y mantenimiento de solicitudes de
// presupuesto: numeración YYMM_NN, líneas y consultas. Los cambios de estado
// viven en el paquete tramitacion.
package solicitudes

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jmm-1987/taller-pedidos/internal/application/dto"
	"github.com/jmm-1987/taller-pedidos/internal/domain"
	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/domain/numeracion"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
)

var cien = decimal.NewFromInt(100)

// TxRunner ata el alta de la solicitud y el contador mensual a una misma
// transacción: un número YYMM_NN consumido sin solicitud persistida sería un
// hueco permanente en la serie.
type TxRunner interface {
	RunAlta(ctx context.Context, fn func(
		solRepo repository.SolicitudRepository,
		contador repository.ContadorRepository,
	) error) error
}

// UseCase casos de uso de solicitudes.
type UseCase struct {
	txRunner    TxRunner
	solRepo     repository.SolicitudRepository
	pedRepo     repository.PedidoRepository
	clienteRepo repository.ClienteRepository
	ahora       func() time.Time
}

// NuevoUseCase construye el caso de uso.
func NuevoUseCase(
	txRunner TxRunner,
	solRepo repository.SolicitudRepository,
	pedRepo repository.PedidoRepository,
	clienteRepo repository.ClienteRepository,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		solRepo:     solRepo,
		pedRepo:     pedRepo,
		clienteRepo: clienteRepo,
		ahora:       time.Now,
	}
}

// ConReloj fija el reloj (tests).
func (uc *UseCase) ConReloj(ahora func() time.Time) *UseCase {
	uc.ahora = ahora
	return uc
}

// Crear da de alta una solicitud en estado presupuesto con su número YYMM_NN
// y estampa la fecha de presupuesto.
func (uc *UseCase) Crear(ctx context.Context, comercialID int64, in dto.CrearSolicitudRequest) (*dto.SolicitudResponse, error) {
	cliente, err := uc.clienteRepo.ObtenerPorID(ctx, in.ClienteID)
	if err != nil {
		return nil, err
	}
	if cliente == nil {
		return nil, fmt.Errorf("%w: cliente %d", domain.ErrNoEncontrado, in.ClienteID)
	}

	hoy := uc.ahora()
	s := &entity.Solicitud{
		ClienteID:      in.ClienteID,
		ComercialID:    comercialID,
		Tipo:           in.Tipo,
		Estado:         entity.EstadoPresupuesto,
		ImagenesDiseno: in.ImagenesDiseno,
		CreatedAt:      hoy,
		UpdatedAt:      hoy,
	}
	s.MarcarFecha(entity.EstadoPresupuesto, hoy)

	lineas, err := construirLineas(in.Lineas)
	if err != nil {
		return nil, err
	}
	s.Lineas = lineas

	// Número e inserción en la misma transacción: si el insert falla, el
	// incremento del contador se revierte y la serie no queda con huecos.
	err = uc.txRunner.RunAlta(ctx, func(
		solRepo repository.SolicitudRepository,
		contador repository.ContadorRepository,
	) error {
		numero, err := numeracion.NuevoServicio(contador).Siguiente(ctx, numeracion.ClaseSolicitud, hoy)
		if err != nil {
			return err
		}
		s.NumeroSolicitud = numero
		return solRepo.Crear(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	return dto.NuevaSolicitudResponse(s, ""), nil
}

// Editar sustituye tipo, imágenes y líneas. Las líneas anteriores se borran
// e insertan de nuevo; no hay actualización en sitio entre ediciones.
func (uc *UseCase) Editar(ctx context.Context, id int64, in dto.EditarSolicitudRequest) (*dto.SolicitudResponse, error) {
	s, err := uc.solRepo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNoEncontrado
	}

	lineas, err := construirLineas(in.Lineas)
	if err != nil {
		return nil, err
	}
	for _, l := range lineas {
		l.SolicitudID = s.ID
	}

	s.Tipo = in.Tipo
	s.ImagenesDiseno = in.ImagenesDiseno
	s.UpdatedAt = uc.ahora()
	if err := uc.solRepo.Actualizar(ctx, s); err != nil {
		return nil, err
	}
	if err := uc.solRepo.ReemplazarLineas(ctx, s.ID, lineas); err != nil {
		return nil, err
	}
	s.Lineas = lineas
	return dto.NuevaSolicitudResponse(s, ""), nil
}

// Obtener devuelve la solicitud con líneas.
func (uc *UseCase) Obtener(ctx context.Context, id int64) (*dto.SolicitudResponse, error) {
	s, err := uc.solRepo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNoEncontrado
	}
	return dto.NuevaSolicitudResponse(s, ""), nil
}

// Listar devuelve solicitudes filtradas.
func (uc *UseCase) Listar(ctx context.Context, filtro repository.FiltroSolicitudes) ([]*dto.SolicitudResponse, error) {
	lista, err := uc.solRepo.Listar(ctx, filtro)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SolicitudResponse, 0, len(lista))
	for _, s := range lista {
		out = append(out, dto.NuevaSolicitudResponse(s, ""))
	}
	return out, nil
}

// PedidoDe devuelve el pedido creado desde la solicitud, si existe. La
// relación se resuelve por consulta sobre la referencia del pedido.
func (uc *UseCase) PedidoDe(ctx context.Context, solicitudID int64) (*dto.PedidoResponse, error) {
	p, err := uc.pedRepo.ObtenerPorSolicitud(ctx, solicitudID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNoEncontrado
	}
	return dto.NuevoPedidoResponse(p), nil
}

func construirLineas(in []dto.LineaRequest) ([]*entity.LineaSolicitud, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: la solicitud necesita al menos una línea", domain.ErrEntradaInvalida)
	}
	lineas := make([]*entity.LineaSolicitud, 0, len(in))
	for _, l := range in {
		if l.Cantidad <= 0 {
			return nil, fmt.Errorf("%w: cantidad inválida en línea %q", domain.ErrEntradaInvalida, l.Nombre)
		}
		if l.PrecioUnit.IsNegative() {
			return nil, fmt.Errorf("%w: precio negativo en línea %q", domain.ErrEntradaInvalida, l.Nombre)
		}
		if l.Descuento.IsNegative() || l.Descuento.GreaterThan(cien) {
			return nil, fmt.Errorf("%w: descuento fuera de 0–100 en línea %q", domain.ErrEntradaInvalida, l.Nombre)
		}
		lineas = append(lineas, &entity.LineaSolicitud{
			ID:         uuid.New().String(),
			PrendaID:   l.PrendaID,
			Nombre:     l.Nombre,
			Cantidad:   l.Cantidad,
			Color:      l.Color,
			Forma:      l.Forma,
			Tallas:     l.Tallas,
			PrecioUnit: l.PrecioUnit,
			Descuento:  l.Descuento,
		})
	}
	return lineas, nil
}
