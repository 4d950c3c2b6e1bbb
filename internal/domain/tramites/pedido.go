package tramites

import (
	"fmt"

	"github.com/jmm-1987/taller-pedidos/internal/domain"
	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
)

var estadosPedido = map[entity.EstadoPedido]struct{}{
	entity.PedidoPendiente:        {},
	entity.PedidoDiseno:           {},
	entity.PedidoEnPreparacion:    {},
	entity.PedidoTodoListo:        {},
	entity.PedidoEnviado:          {},
	entity.PedidoEntregadoCliente: {},
}

var estadosLinea = map[entity.EstadoLinea]struct{}{
	entity.LineaPendiente:    {},
	entity.LineaEnConfeccion: {},
	entity.LineaEnBordado:    {},
	entity.LineaLista:        {},
}

// EstadoPedidoValido indica si el estado destino del pedido existe.
// El pipeline admite saltos en ambos sentidos; solo se rechazan nombres
// desconocidos.
func EstadoPedidoValido(e entity.EstadoPedido) bool {
	_, ok := estadosPedido[e]
	return ok
}

// EstadoLineaValido indica si el estado destino de la línea existe.
func EstadoLineaValido(e entity.EstadoLinea) bool {
	_, ok := estadosLinea[e]
	return ok
}

// ValidarPedido comprueba el estado destino de un pedido.
func ValidarPedido(destino entity.EstadoPedido) error {
	if !EstadoPedidoValido(destino) {
		return fmt.Errorf("%w: estado de pedido %q desconocido", domain.ErrTransicionInvalida, destino)
	}
	return nil
}

// ValidarLinea comprueba el estado destino de una línea y su pertenencia al pedido.
func ValidarLinea(pedido *entity.Pedido, linea *entity.LineaPedido, destino entity.EstadoLinea) error {
	if !EstadoLineaValido(destino) {
		return fmt.Errorf("%w: estado de línea %q desconocido", domain.ErrTransicionInvalida, destino)
	}
	if linea.PedidoID != pedido.ID {
		return fmt.Errorf("%w: línea %s pertenece al pedido %d", domain.ErrLineaAjena, linea.ID, linea.PedidoID)
	}
	return nil
}
