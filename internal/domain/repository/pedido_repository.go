package repository

import (
	"context"

	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
)

// FiltroPedidos criterios de listado de pedidos.
type FiltroPedidos struct {
	Estado    entity.EstadoPedido // vacío = todos
	ClienteID int64
	Limit     int
	Offset    int
}

// PedidoRepository puerto de persistencia de pedidos y sus líneas.
type PedidoRepository interface {
	// Crear persiste el pedido y sus líneas.
	Crear(ctx context.Context, p *entity.Pedido) error
	Actualizar(ctx context.Context, p *entity.Pedido) error
	// ObtenerPorID devuelve el pedido con sus líneas (nil si no existe).
	ObtenerPorID(ctx context.Context, id int64) (*entity.Pedido, error)
	// ObtenerPorSolicitud búsqueda inversa solicitud→pedido, resuelta en
	// consulta; el pedido es el único que guarda la referencia.
	ObtenerPorSolicitud(ctx context.Context, solicitudID int64) (*entity.Pedido, error)
	Listar(ctx context.Context, filtro FiltroPedidos) ([]*entity.Pedido, error)
	ObtenerLinea(ctx context.Context, lineaID string) (*entity.LineaPedido, error)
	ActualizarLinea(ctx context.Context, l *entity.LineaPedido) error
}
