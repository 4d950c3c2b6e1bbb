// Package pedidos expone las consultas de pedidos para la capa HTTP. Las
// transiciones viven en tramitacion; aquí solo hay lecturas.
package pedidos

import (
	"context"

	"github.com/jmm-1987/taller-pedidos/internal/application/dto"
	"github.com/jmm-1987/taller-pedidos/internal/domain"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
)

// UseCase consultas de pedidos.
type UseCase struct {
	pedidoRepo repository.PedidoRepository
}

// NuevoUseCase construye el caso de uso.
func NuevoUseCase(pedidoRepo repository.PedidoRepository) *UseCase {
	return &UseCase{pedidoRepo: pedidoRepo}
}

// Obtener devuelve el pedido con sus líneas.
func (uc *UseCase) Obtener(ctx context.Context, id int64) (*dto.PedidoResponse, error) {
	p, err := uc.pedidoRepo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNoEncontrado
	}
	return dto.NuevoPedidoResponse(p), nil
}

// Listar devuelve los pedidos que cumplen el filtro.
func (uc *UseCase) Listar(ctx context.Context, filtro repository.FiltroPedidos) ([]*dto.PedidoResponse, error) {
	pedidos, err := uc.pedidoRepo.Listar(ctx, filtro)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PedidoResponse, 0, len(pedidos))
	for _, p := range pedidos {
		out = append(out, dto.NuevoPedidoResponse(p))
	}
	return out, nil
}
