package facturacion

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jmm-1987/taller-pedidos/internal/application/dto"
	"github.com/jmm-1987/taller-pedidos/internal/domain"
	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
)

// CrearFacturaUseCase alta y consulta de documentos de facturación. Los
// documentos nacen en borrador, sin número; el número lo asigna Formalizar.
type CrearFacturaUseCase struct {
	facturaRepo repository.FacturaRepository
	clienteRepo repository.ClienteRepository
	pedidoRepo  repository.PedidoRepository
	ahora       func() time.Time
}

// NewCrearFacturaUseCase construye el caso de uso.
func NewCrearFacturaUseCase(
	facturaRepo repository.FacturaRepository,
	clienteRepo repository.ClienteRepository,
	pedidoRepo repository.PedidoRepository,
) *CrearFacturaUseCase {
	return &CrearFacturaUseCase{
		facturaRepo: facturaRepo,
		clienteRepo: clienteRepo,
		pedidoRepo:  pedidoRepo,
		ahora:       time.Now,
	}
}

// ConReloj fija el reloj; para tests.
func (uc *CrearFacturaUseCase) ConReloj(fn func() time.Time) *CrearFacturaUseCase {
	uc.ahora = fn
	return uc
}

// Crear da de alta un documento en borrador calculando base, cuota y total a
// partir de las líneas. El tipo de IVA admite porcentaje (21) o fracción
// (0.21); se normaliza a fracción.
func (uc *CrearFacturaUseCase) Crear(ctx context.Context, in dto.CrearFacturaRequest) (*dto.FacturaResponse, error) {
	tipo := entity.TipoDocumento(in.Tipo)
	switch tipo {
	case entity.DocFactura, entity.DocAlbaran, entity.DocTicket:
	default:
		return nil, domain.ErrEntradaInvalida
	}
	if len(in.Lineas) == 0 {
		return nil, domain.ErrEntradaInvalida
	}

	cliente, err := uc.clienteRepo.ObtenerPorID(ctx, in.ClienteID)
	if err != nil {
		return nil, err
	}
	if cliente == nil {
		return nil, domain.ErrNoEncontrado
	}

	if in.PedidoID != nil {
		pedido, err := uc.pedidoRepo.ObtenerPorID(ctx, *in.PedidoID)
		if err != nil {
			return nil, err
		}
		if pedido == nil {
			return nil, domain.ErrNoEncontrado
		}
	}

	now := uc.ahora()
	f := &entity.Factura{
		ID:        uuid.New().String(),
		Tipo:      tipo,
		ClienteID: in.ClienteID,
		PedidoID:  in.PedidoID,
		Fecha:     now,
		Estado:    entity.FacturaPendiente,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var base, cuota decimal.Decimal
	for _, lr := range in.Lineas {
		if !lr.Cantidad.GreaterThan(decimal.Zero) || lr.PrecioUnit.LessThan(decimal.Zero) {
			return nil, domain.ErrEntradaInvalida
		}
		iva := normalizarIVA(lr.TipoIVA)
		lineaBase := lr.Cantidad.Mul(lr.PrecioUnit)
		f.Lineas = append(f.Lineas, &entity.LineaFactura{
			ID:         uuid.New().String(),
			FacturaID:  f.ID,
			Concepto:   lr.Concepto,
			Cantidad:   lr.Cantidad,
			PrecioUnit: lr.PrecioUnit,
			TipoIVA:    iva,
			Base:       lineaBase,
		})
		base = base.Add(lineaBase)
		cuota = cuota.Add(lineaBase.Mul(iva))
	}
	f.BaseTotal = base
	f.CuotaTotal = cuota
	f.Total = base.Add(cuota)

	if err := uc.facturaRepo.Crear(ctx, f); err != nil {
		return nil, err
	}
	for _, l := range f.Lineas {
		if err := uc.facturaRepo.CrearLinea(ctx, l); err != nil {
			return nil, err
		}
	}
	return dto.NuevaFacturaResponse(f), nil
}

// Obtener devuelve un documento con su detalle completo.
func (uc *CrearFacturaUseCase) Obtener(ctx context.Context, id string) (*dto.FacturaResponse, error) {
	f, err := uc.facturaRepo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNoEncontrado
	}
	if len(f.Lineas) == 0 {
		lineas, err := uc.facturaRepo.LineasPorFactura(ctx, id)
		if err != nil {
			return nil, err
		}
		f.Lineas = lineas
	}
	return dto.NuevaFacturaResponse(f), nil
}

// Listar devuelve los documentos que cumplen el filtro, sin líneas.
func (uc *CrearFacturaUseCase) Listar(ctx context.Context, filtro repository.FiltroFacturas) ([]*dto.FacturaResponse, error) {
	facturas, err := uc.facturaRepo.Listar(ctx, filtro)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.FacturaResponse, 0, len(facturas))
	for _, f := range facturas {
		out = append(out, dto.NuevaFacturaResponse(f))
	}
	return out, nil
}

// normalizarIVA convierte porcentajes (21) a fracción (0.21); los valores ya
// fraccionarios pasan tal cual.
func normalizarIVA(rate decimal.Decimal) decimal.Decimal {
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		return rate.Div(decimal.NewFromInt(100))
	}
	return rate
}
