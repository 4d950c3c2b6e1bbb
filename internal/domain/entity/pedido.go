package entity

import "time"

// EstadoPedido estado del pedido en producción. El pipeline es lineal
// (Pendiente → Entregado al cliente) pero se permite saltar a cualquier
// estado conocido, hacia delante o hacia atrás.
type EstadoPedido string

const (
	PedidoPendiente        EstadoPedido = "Pendiente"
	PedidoDiseno           EstadoPedido = "Diseño"
	PedidoEnPreparacion    EstadoPedido = "En preparación"
	PedidoTodoListo        EstadoPedido = "Todo listo"
	PedidoEnviado          EstadoPedido = "Enviado"
	PedidoEntregadoCliente EstadoPedido = "Entregado al cliente"
)

// Pedido es el artefacto de producción creado al aceptar una solicitud.
// SolicitudID apunta a la solicitud de origen; la búsqueda inversa se hace
// siempre por consulta, sin puntero de vuelta que mantener sincronizado.
type Pedido struct {
	ID             int64
	SolicitudID    *int64
	ClienteID      int64
	ComercialID    int64
	Tipo           string
	Estado         EstadoPedido
	ImagenesDiseno []string

	FechaPendiente        *time.Time
	FechaDiseno           *time.Time
	FechaEnPreparacion    *time.Time
	FechaTodoListo        *time.Time
	FechaEnviado          *time.Time
	FechaEntregadoCliente *time.Time

	// FechaObjetivo se calcula una vez desde FechaAceptacion y no se recalcula.
	FechaAceptacion *time.Time
	FechaObjetivo   *time.Time

	Lineas []*LineaPedido

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MarcarFecha estampa la fecha del estado solo si el campo sigue vacío.
func (p *Pedido) MarcarFecha(estado EstadoPedido, hoy time.Time) {
	campo := p.campoFecha(estado)
	if campo != nil && *campo == nil {
		t := hoy
		*campo = &t
	}
}

// FechaDe devuelve la fecha estampada para el estado (nil si no se ha entrado).
func (p *Pedido) FechaDe(estado EstadoPedido) *time.Time {
	campo := p.campoFecha(estado)
	if campo == nil {
		return nil
	}
	return *campo
}

func (p *Pedido) campoFecha(estado EstadoPedido) **time.Time {
	switch estado {
	case PedidoPendiente:
		return &p.FechaPendiente
	case PedidoDiseno:
		return &p.FechaDiseno
	case PedidoEnPreparacion:
		return &p.FechaEnPreparacion
	case PedidoTodoListo:
		return &p.FechaTodoListo
	case PedidoEnviado:
		return &p.FechaEnviado
	case PedidoEntregadoCliente:
		return &p.FechaEntregadoCliente
	}
	return nil
}
