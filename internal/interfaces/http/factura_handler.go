package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jmm-1987/taller-pedidos/internal/application/dto"
	"github.com/jmm-1987/taller-pedidos/internal/application/facturacion"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
)

// FacturaHandler maneja las peticiones HTTP de facturación: borradores,
// formalización con número y envío Verifactu, anulación y PDF.
type FacturaHandler struct {
	crearUC      *facturacion.CrearFacturaUseCase
	formalizarUC *facturacion.FormalizarUseCase
	pdfUC        *facturacion.PDFUseCase
}

// NewFacturaHandler construye el handler.
func NewFacturaHandler(
	crearUC *facturacion.CrearFacturaUseCase,
	formalizarUC *facturacion.FormalizarUseCase,
	pdfUC *facturacion.PDFUseCase,
) *FacturaHandler {
	return &FacturaHandler{crearUC: crearUC, formalizarUC: formalizarUC, pdfUC: pdfUC}
}

// Create crea un borrador de factura, albarán o ticket (sin número).
// POST /api/facturas
func (h *FacturaHandler) Create(c *fiber.Ctx) error {
	var in dto.CrearFacturaRequest
	if !bodyValido(c, &in) {
		return nil
	}
	resp, err := h.crearUC.Crear(c.Context(), in)
	if err != nil {
		return respuestaError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetByID devuelve el documento con sus líneas.
// GET /api/facturas/:id
func (h *FacturaHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	resp, err := h.crearUC.Obtener(c.Context(), id)
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(resp)
}

// List lista documentos filtrando por tipo, estado y cliente.
// GET /api/facturas?tipo=factura&estado=pendiente&cliente_id=7
func (h *FacturaHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	filtro := repository.FiltroFacturas{
		Tipo:   c.Query("tipo"),
		Estado: c.Query("estado"),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if clienteID := int64(c.QueryInt("cliente_id")); clienteID > 0 {
		filtro.ClienteID = &clienteID
	}
	resp, err := h.crearUC.Listar(c.Context(), filtro)
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(resp)
}

// Formalizar asigna número definitivo y dispara el envío a Verifactu.
// POST /api/facturas/:id/formalizar
func (h *FacturaHandler) Formalizar(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	resp, err := h.formalizarUC.Formalizar(c.Context(), id)
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(resp)
}

// Anular marca el documento como anulado conservando su número.
// POST /api/facturas/:id/anular
func (h *FacturaHandler) Anular(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	resp, err := h.formalizarUC.Anular(c.Context(), id)
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(resp)
}

// PDF descarga la representación gráfica del documento formalizado.
// GET /api/facturas/:id/pdf
func (h *FacturaHandler) PDF(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	pdfBytes, filename, err := h.pdfUC.DescargarFacturaPDF(c.Context(), id)
	if err != nil {
		return respuestaError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
