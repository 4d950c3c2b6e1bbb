package entity

import "time"

// TipoCambio distingue a qué pertenece una entrada del historial.
type TipoCambio string

const (
	CambioSolicitud TipoCambio = "solicitud"
	CambioPedido    TipoCambio = "pedido"
	CambioLinea     TipoCambio = "linea"
)

// HistorialCambio entrada del libro de cambios de estado. Solo se añade,
// nunca se modifica ni se borra.
type HistorialCambio struct {
	ID                string // uuid
	ParentID          int64  // id de la solicitud o del pedido
	LineaID           string // uuid de la línea cuando Tipo = linea
	Tipo              TipoCambio
	EstadoAnterior    string
	EstadoNuevo       string
	SubestadoAnterior string
	SubestadoNuevo    string
	ActorID           int64
	CreatedAt         time.Time
}
