package facturacion

import (
	"context"
	"fmt"

	"github.com/jmm-1987/taller-pedidos/internal/domain"
	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de documentos de
// facturación y de presupuestos.
type PDFUseCase struct {
	facturaRepo   repository.FacturaRepository
	solicitudRepo repository.SolicitudRepository
	clienteRepo   repository.ClienteRepository
	generator     GeneradorPDF
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	facturaRepo repository.FacturaRepository,
	solicitudRepo repository.SolicitudRepository,
	clienteRepo repository.ClienteRepository,
	generator GeneradorPDF,
) *PDFUseCase {
	return &PDFUseCase{
		facturaRepo:   facturaRepo,
		solicitudRepo: solicitudRepo,
		clienteRepo:   clienteRepo,
		generator:     generator,
	}
}

// DescargarFacturaPDF genera el PDF de un documento formalizado.
//
// Retorna:
//   - (pdfBytes, filename, nil)   si todo sale bien.
//   - domain.ErrNoEncontrado      si el documento no existe.
//   - domain.ErrEntradaInvalida   si el documento sigue en borrador (sin número).
func (uc *PDFUseCase) DescargarFacturaPDF(ctx context.Context, id string) (pdfBytes []byte, filename string, err error) {
	f, err := uc.facturaRepo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener documento: %w", err)
	}
	if f == nil {
		return nil, "", domain.ErrNoEncontrado
	}
	if f.Estado == entity.FacturaPendiente || f.Numero == "" {
		return nil, "", fmt.Errorf("%w: el documento está en borrador, formalícelo antes de descargar el PDF",
			domain.ErrEntradaInvalida)
	}

	cliente, err := uc.clienteRepo.ObtenerPorID(ctx, f.ClienteID)
	if err != nil || cliente == nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}

	lineas := f.Lineas
	if len(lineas) == 0 {
		lineas, err = uc.facturaRepo.LineasPorFactura(ctx, id)
		if err != nil {
			return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
		}
	}

	pdfBytes, err = uc.generator.GenerarFacturaPDF(ctx, f, cliente, lineas)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("%s_%s.pdf", f.Tipo, f.Numero), nil
}

// DescargarPresupuestoPDF genera el PDF de presupuesto de una solicitud con
// sus líneas y precios con descuento.
func (uc *PDFUseCase) DescargarPresupuestoPDF(ctx context.Context, solicitudID int64) (pdfBytes []byte, filename string, err error) {
	s, err := uc.solicitudRepo.ObtenerPorID(ctx, solicitudID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener solicitud: %w", err)
	}
	if s == nil {
		return nil, "", domain.ErrNoEncontrado
	}

	cliente, err := uc.clienteRepo.ObtenerPorID(ctx, s.ClienteID)
	if err != nil || cliente == nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}

	pdfBytes, err = uc.generator.GenerarPresupuestoPDF(ctx, s, cliente)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("presupuesto_%s.pdf", s.NumeroSolicitud), nil
}
