package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
)

// LineaFacturaRequest línea de detalle en alta de documento.
type LineaFacturaRequest struct {
	Concepto   string          `json:"concepto" validate:"required"`
	Cantidad   decimal.Decimal `json:"cantidad" validate:"required"`
	PrecioUnit decimal.Decimal `json:"precio_unitario"`
	TipoIVA    decimal.Decimal `json:"tipo_iva"` // porcentaje o fracción; se normaliza
}

// CrearFacturaRequest alta de factura, albarán o ticket en borrador.
type CrearFacturaRequest struct {
	Tipo      string                `json:"tipo" validate:"required,oneof=factura albaran ticket"`
	ClienteID int64                 `json:"cliente_id" validate:"required"`
	PedidoID  *int64                `json:"pedido_id"`
	Lineas    []LineaFacturaRequest `json:"lineas" validate:"required,min=1,dive"`
}

// LineaFacturaResponse línea de detalle en respuestas.
type LineaFacturaResponse struct {
	ID         string          `json:"id"`
	Concepto   string          `json:"concepto"`
	Cantidad   decimal.Decimal `json:"cantidad"`
	PrecioUnit decimal.Decimal `json:"precio_unitario"`
	TipoIVA    decimal.Decimal `json:"tipo_iva"`
	Base       decimal.Decimal `json:"base"`
}

// FacturaResponse documento de facturación materializado.
type FacturaResponse struct {
	ID              string                 `json:"id"`
	Tipo            string                 `json:"tipo"`
	Numero          string                 `json:"numero,omitempty"`
	ClienteID       int64                  `json:"cliente_id"`
	PedidoID        *int64                 `json:"pedido_id,omitempty"`
	Fecha           string                 `json:"fecha"`
	Estado          string                 `json:"estado"`
	BaseTotal       decimal.Decimal        `json:"base_total"`
	CuotaTotal      decimal.Decimal        `json:"cuota_total"`
	Total           decimal.Decimal        `json:"total"`
	VerifactuEstado string                 `json:"verifactu_estado,omitempty"`
	Huella          string                 `json:"huella,omitempty"`
	CSV             string                 `json:"csv,omitempty"`
	Errores         string                 `json:"errores_verifactu,omitempty"`
	Lineas          []LineaFacturaResponse `json:"lineas"`
}

// NuevaFacturaResponse mapea la entidad a respuesta.
func NuevaFacturaResponse(f *entity.Factura) *FacturaResponse {
	resp := &FacturaResponse{
		ID:              f.ID,
		Tipo:            string(f.Tipo),
		Numero:          f.Numero,
		ClienteID:       f.ClienteID,
		PedidoID:        f.PedidoID,
		Fecha:           f.Fecha.Format("2006-01-02"),
		Estado:          f.Estado,
		BaseTotal:       f.BaseTotal,
		CuotaTotal:      f.CuotaTotal,
		Total:           f.Total,
		VerifactuEstado: f.VerifactuEstado,
		Huella:          f.Huella,
		CSV:             f.CSV,
		Errores:         f.ErroresVerifactu,
		Lineas:          make([]LineaFacturaResponse, 0, len(f.Lineas)),
	}
	for _, l := range f.Lineas {
		resp.Lineas = append(resp.Lineas, LineaFacturaResponse{
			ID:         l.ID,
			Concepto:   l.Concepto,
			Cantidad:   l.Cantidad,
			PrecioUnit: l.PrecioUnit,
			TipoIVA:    l.TipoIVA,
			Base:       l.Base,
		})
	}
	return resp
}
