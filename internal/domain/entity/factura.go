package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TipoDocumento clase de documento de facturación. Facturas y albaranes
// comparten tabla; el tipo y el prefijo de numeración los distinguen.
type TipoDocumento string

const (
	DocFactura TipoDocumento = "factura"
	DocAlbaran TipoDocumento = "albaran"
	DocTicket  TipoDocumento = "ticket"
)

// Estados del documento de facturación.
const (
	FacturaPendiente   = "pendiente"   // borrador, sin número asignado
	FacturaFormalizada = "formalizada" // número asignado, enviada o en envío a Verifactu
	FacturaAnulada     = "anulada"
)

// Estados del envío a Verifactu (AEAT).
const (
	VerifactuPendiente       = "PENDIENTE"        // aún no generada/enviada
	VerifactuGenerada        = "GENERADA"         // registro XML construido y huella calculada
	VerifactuEnviada         = "ENVIADA"          // entregada al WS, respuesta pendiente
	VerifactuAceptada        = "ACEPTADA"         // aceptada por la AEAT (o simulada en dev)
	VerifactuRechazada       = "RECHAZADA"        // rechazada con errores
	VerifactuErrorGeneracion = "ERROR_GENERACION" // falló la construcción del registro
)

// Factura cabecera de factura, albarán o ticket.
type Factura struct {
	ID         string // uuid
	Tipo       TipoDocumento
	Numero     string // vacío hasta formalizar; F25n / T25n / A2508_nnn
	ClienteID  int64
	PedidoID   *int64
	Fecha      time.Time
	Estado     string
	BaseTotal  decimal.Decimal
	CuotaTotal decimal.Decimal
	Total      decimal.Decimal

	// Campos Verifactu (solo facturas formalizadas).
	VerifactuEstado  string
	Huella           string // SHA-256 del registro de alta, en cadena con el anterior
	HuellaAnterior   string
	RegistroXML      string // XML canónico del registro enviado
	CSV              string // código seguro de verificación devuelto por la AEAT
	ErroresVerifactu string

	Lineas []*LineaFactura

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LineaFactura línea de detalle de una factura o albarán.
type LineaFactura struct {
	ID         string // uuid
	FacturaID  string
	Concepto   string
	Cantidad   decimal.Decimal
	PrecioUnit decimal.Decimal
	TipoIVA    decimal.Decimal // fracción (0.21), no porcentaje
	Base       decimal.Decimal
}
