package repository

import (
	"context"

	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
)

// FiltroFacturas criterios opcionales de listado.
type FiltroFacturas struct {
	Tipo      string
	Estado    string
	ClienteID *int64
	Limit     int
	Offset    int
}

// FacturaRepository puerto de persistencia de facturas, albaranes y tickets.
type FacturaRepository interface {
	Crear(ctx context.Context, f *entity.Factura) error
	CrearLinea(ctx context.Context, l *entity.LineaFactura) error
	// Actualizar persiste número, estado, totales y campos Verifactu.
	Actualizar(ctx context.Context, f *entity.Factura) error
	ObtenerPorID(ctx context.Context, id string) (*entity.Factura, error)
	Listar(ctx context.Context, filtro FiltroFacturas) ([]*entity.Factura, error)
	LineasPorFactura(ctx context.Context, facturaID string) ([]*entity.LineaFactura, error)
	// UltimaHuella devuelve la huella del último registro Verifactu emitido
	// (cadena vacía si aún no hay ninguno); encadena los registros de alta.
	UltimaHuella(ctx context.Context) (string, error)
	// NumerosExistentes devuelve todos los números asignados; se usa para
	// sembrar los contadores a partir de documentos históricos.
	NumerosExistentes(ctx context.Context) ([]string, error)
}
