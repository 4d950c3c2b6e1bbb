package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
)

// LineaRequest línea de solicitud en alta o edición.
type LineaRequest struct {
	PrendaID   *int64          `json:"prenda_id"`
	Nombre     string          `json:"nombre" validate:"required"`
	Cantidad   int             `json:"cantidad" validate:"required,min=1"`
	Color      string          `json:"color"`
	Forma      string          `json:"forma"`
	Tallas     string          `json:"tallas"`
	PrecioUnit decimal.Decimal `json:"precio_unitario"`
	Descuento  decimal.Decimal `json:"descuento"` // porcentaje 0–100
}

// CrearSolicitudRequest alta de solicitud/presupuesto.
type CrearSolicitudRequest struct {
	ClienteID      int64          `json:"cliente_id" validate:"required"`
	Tipo           string         `json:"tipo"`
	ImagenesDiseno []string       `json:"imagenes_diseno"`
	Lineas         []LineaRequest `json:"lineas" validate:"required,min=1,dive"`
}

// EditarSolicitudRequest edición: las líneas sustituyen en bloque a las actuales.
type EditarSolicitudRequest struct {
	Tipo           string         `json:"tipo"`
	ImagenesDiseno []string       `json:"imagenes_diseno"`
	Lineas         []LineaRequest `json:"lineas" validate:"required,min=1,dive"`
}

// TransicionSolicitudRequest petición de cambio de estado.
type TransicionSolicitudRequest struct {
	Estado     string `json:"estado" validate:"required"`
	Subestado  string `json:"subestado"`
	EncargadoA string `json:"encargado_a"`
}

// LineaSolicitudResponse línea en respuestas.
type LineaSolicitudResponse struct {
	ID          string          `json:"id"`
	PrendaID    *int64          `json:"prenda_id,omitempty"`
	Nombre      string          `json:"nombre"`
	Cantidad    int             `json:"cantidad"`
	Color       string          `json:"color,omitempty"`
	Forma       string          `json:"forma,omitempty"`
	Tallas      string          `json:"tallas,omitempty"`
	PrecioUnit  decimal.Decimal `json:"precio_unitario"`
	Descuento   decimal.Decimal `json:"descuento"`
	PrecioFinal decimal.Decimal `json:"precio_final"`
}

// SolicitudResponse solicitud materializada para la capa HTTP.
type SolicitudResponse struct {
	ID                int64                    `json:"id"`
	NumeroSolicitud   string                   `json:"numero_solicitud"`
	ClienteID         int64                    `json:"cliente_id"`
	ComercialID       int64                    `json:"comercial_id"`
	Tipo              string                   `json:"tipo,omitempty"`
	Estado            string                   `json:"estado"`
	Subestado         string                   `json:"subestado,omitempty"`
	EncargadoA        string                   `json:"encargado_a,omitempty"`
	FechaLimiteMockup string                   `json:"fecha_limite_mockup,omitempty"`
	FechaObjetivo     string                   `json:"fecha_objetivo,omitempty"`
	Lineas            []LineaSolicitudResponse `json:"lineas"`
	// Aviso advertencia no fatal de la última operación (ej. aceptación sin
	// líneas: el estado cambia pero no se crea pedido).
	Aviso string `json:"aviso,omitempty"`
}

// NuevaSolicitudResponse mapea la entidad a respuesta.
func NuevaSolicitudResponse(s *entity.Solicitud, aviso string) *SolicitudResponse {
	resp := &SolicitudResponse{
		ID:              s.ID,
		NumeroSolicitud: s.NumeroSolicitud,
		ClienteID:       s.ClienteID,
		ComercialID:     s.ComercialID,
		Tipo:            s.Tipo,
		Estado:          string(s.Estado),
		Subestado:       s.Subestado,
		EncargadoA:      s.EncargadoA,
		Lineas:          make([]LineaSolicitudResponse, 0, len(s.Lineas)),
		Aviso:           aviso,
	}
	if s.FechaLimiteMockup != nil {
		resp.FechaLimiteMockup = s.FechaLimiteMockup.Format("2006-01-02")
	}
	if s.FechaObjetivo != nil {
		resp.FechaObjetivo = s.FechaObjetivo.Format("2006-01-02")
	}
	for _, l := range s.Lineas {
		resp.Lineas = append(resp.Lineas, LineaSolicitudResponse{
			ID:          l.ID,
			PrendaID:    l.PrendaID,
			Nombre:      l.Nombre,
			Cantidad:    l.Cantidad,
			Color:       l.Color,
			Forma:       l.Forma,
			Tallas:      l.Tallas,
			PrecioUnit:  l.PrecioUnit,
			Descuento:   l.Descuento,
			PrecioFinal: l.PrecioFinal(),
		})
	}
	return resp
}
