package entity

import "github.com/shopspring/decimal"

// EstadoLinea estado de confección de una línea de pedido.
type EstadoLinea string

const (
	LineaPendiente    EstadoLinea = "pendiente"
	LineaEnConfeccion EstadoLinea = "en confección"
	LineaEnBordado    EstadoLinea = "en bordado"
	LineaLista        EstadoLinea = "listo"
)

// LineaSolicitud línea de una solicitud: prenda, cantidad y precio ofertado.
// Al editar la solicitud las líneas se reemplazan en bloque (borrar e insertar),
// nunca se actualizan en sitio.
type LineaSolicitud struct {
	ID          string // uuid
	SolicitudID int64
	PrendaID    *int64
	Nombre      string
	Cantidad    int
	Color       string
	Forma       string
	Tallas      string
	PrecioUnit  decimal.Decimal
	Descuento   decimal.Decimal // porcentaje 0–100
}

// PrecioFinal precio unitario con el descuento aplicado.
func (l *LineaSolicitud) PrecioFinal() decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(l.Descuento.Div(decimal.NewFromInt(100)))
	return l.PrecioUnit.Mul(factor)
}

// LineaPedido línea de un pedido, copiada de la solicitud al aceptar.
// Conserva prenda, descripción, cantidad y precio unitario (no el descuento)
// y lleva su propio estado de confección.
type LineaPedido struct {
	ID         string // uuid
	PedidoID   int64
	PrendaID   *int64
	Nombre     string
	Cantidad   int
	Color      string
	Forma      string
	Tallas     string
	PrecioUnit decimal.Decimal
	Estado     EstadoLinea
}
