package facturacion

import (
	"context"

	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
	"github.com/jmm-1987/taller-pedidos/internal/infrastructure/verifactu"
)

// TxRunner ejecuta una función dentro de una transacción que incluye los
// repositorios de facturación y el contador de numeración. Formalizar exige
// que la asignación del número y el cambio de estado viajen juntos.
type TxRunner interface {
	RunFacturacion(ctx context.Context, fn func(
		facRepo repository.FacturaRepository,
		contador repository.ContadorRepository,
	) error) error
}

// VerifactuConfig configuración explícita del envío a la AEAT: entorno de
// operación, identidad del obligado y datos del sistema informático.
type VerifactuConfig struct {
	AppEnv   string // dev | test | prod
	Emisor   verifactu.Emisor
	Software verifactu.Software
}

// GeneradorPDF puerto de salida para la representación gráfica de documentos.
type GeneradorPDF interface {
	GenerarFacturaPDF(ctx context.Context, f *entity.Factura, cliente *entity.Cliente, lineas []*entity.LineaFactura) ([]byte, error)
	GenerarPresupuestoPDF(ctx context.Context, s *entity.Solicitud, cliente *entity.Cliente) ([]byte, error)
}
