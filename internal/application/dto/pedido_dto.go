package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
)

// TransicionPedidoRequest cambio de estado de un pedido.
type TransicionPedidoRequest struct {
	Estado string `json:"estado" validate:"required"`
}

// TransicionLineaRequest cambio de estado de una línea de pedido.
type TransicionLineaRequest struct {
	Estado string `json:"estado" validate:"required"`
}

// LineaPedidoResponse línea de pedido en respuestas.
type LineaPedidoResponse struct {
	ID         string          `json:"id"`
	PrendaID   *int64          `json:"prenda_id,omitempty"`
	Nombre     string          `json:"nombre"`
	Cantidad   int             `json:"cantidad"`
	Color      string          `json:"color,omitempty"`
	Forma      string          `json:"forma,omitempty"`
	Tallas     string          `json:"tallas,omitempty"`
	PrecioUnit decimal.Decimal `json:"precio_unitario"`
	Estado     string          `json:"estado"`
}

// PedidoResponse pedido materializado para la capa HTTP.
type PedidoResponse struct {
	ID            int64                 `json:"id"`
	SolicitudID   *int64                `json:"solicitud_id,omitempty"`
	ClienteID     int64                 `json:"cliente_id"`
	ComercialID   int64                 `json:"comercial_id"`
	Tipo          string                `json:"tipo,omitempty"`
	Estado        string                `json:"estado"`
	FechaObjetivo string                `json:"fecha_objetivo,omitempty"`
	Lineas        []LineaPedidoResponse `json:"lineas"`
}

// NuevoPedidoResponse mapea la entidad a respuesta.
func NuevoPedidoResponse(p *entity.Pedido) *PedidoResponse {
	resp := &PedidoResponse{
		ID:          p.ID,
		SolicitudID: p.SolicitudID,
		ClienteID:   p.ClienteID,
		ComercialID: p.ComercialID,
		Tipo:        p.Tipo,
		Estado:      string(p.Estado),
		Lineas:      make([]LineaPedidoResponse, 0, len(p.Lineas)),
	}
	if p.FechaObjetivo != nil {
		resp.FechaObjetivo = p.FechaObjetivo.Format("2006-01-02")
	}
	for _, l := range p.Lineas {
		resp.Lineas = append(resp.Lineas, LineaPedidoResponse{
			ID:         l.ID,
			PrendaID:   l.PrendaID,
			Nombre:     l.Nombre,
			Cantidad:   l.Cantidad,
			Color:      l.Color,
			Forma:      l.Forma,
			Tallas:     l.Tallas,
			PrecioUnit: l.PrecioUnit,
			Estado:     string(l.Estado),
		})
	}
	return resp
}

// HistorialResponse entrada de historial en respuestas.
type HistorialResponse struct {
	ID                string `json:"id"`
	Tipo              string `json:"tipo"`
	LineaID           string `json:"linea_id,omitempty"`
	EstadoAnterior    string `json:"estado_anterior"`
	EstadoNuevo       string `json:"estado_nuevo"`
	SubestadoAnterior string `json:"subestado_anterior,omitempty"`
	SubestadoNuevo    string `json:"subestado_nuevo,omitempty"`
	ActorID           int64  `json:"actor_id"`
	Fecha             string `json:"fecha"`
}

// NuevoHistorialResponse mapea las entradas del libro de cambios.
func NuevoHistorialResponse(entradas []*entity.HistorialCambio) []HistorialResponse {
	out := make([]HistorialResponse, 0, len(entradas))
	for _, h := range entradas {
		out = append(out, HistorialResponse{
			ID:                h.ID,
			Tipo:              string(h.Tipo),
			LineaID:           h.LineaID,
			EstadoAnterior:    h.EstadoAnterior,
			EstadoNuevo:       h.EstadoNuevo,
			SubestadoAnterior: h.SubestadoAnterior,
			SubestadoNuevo:    h.SubestadoNuevo,
			ActorID:           h.ActorID,
			Fecha:             h.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return out
}
