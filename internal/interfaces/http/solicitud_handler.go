package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jmm-1987/taller-pedidos/internal/application/dto"
	"github.com/jmm-1987/taller-pedidos/internal/application/facturacion"
	"github.com/jmm-1987/taller-pedidos/internal/application/solicitudes"
	"github.com/jmm-1987/taller-pedidos/internal/application/tramitacion"
	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
	"github.com/jmm-1987/taller-pedidos/internal/domain/tramites"
)

// SolicitudHandler maneja las peticiones HTTP de solicitudes/presupuestos.
type SolicitudHandler struct {
	uc      *solicitudes.UseCase
	tramite *tramitacion.SolicitudTramiteUseCase
	pdfUC   *facturacion.PDFUseCase
}

// NewSolicitudHandler construye el handler.
func NewSolicitudHandler(uc *solicitudes.UseCase, tramite *tramitacion.SolicitudTramiteUseCase, pdfUC *facturacion.PDFUseCase) *SolicitudHandler {
	return &SolicitudHandler{uc: uc, tramite: tramite, pdfUC: pdfUC}
}

// Create da de alta una solicitud en estado presupuesto con número YYMM_NN.
// POST /api/solicitudes
func (h *SolicitudHandler) Create(c *fiber.Ctx) error {
	var in dto.CrearSolicitudRequest
	if !bodyValido(c, &in) {
		return nil
	}
	resp, err := h.uc.Crear(c.Context(), GetEmpleadoID(c), in)
	if err != nil {
		return respuestaError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Update edita tipo, imágenes y líneas (las líneas se sustituyen en bloque).
// PUT /api/solicitudes/:id
func (h *SolicitudHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	var in dto.EditarSolicitudRequest
	if !bodyValido(c, &in) {
		return nil
	}
	resp, err := h.uc.Editar(c.Context(), id, in)
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(resp)
}

// GetByID devuelve la solicitud con sus líneas.
// GET /api/solicitudes/:id
func (h *SolicitudHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	resp, err := h.uc.Obtener(c.Context(), id)
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(resp)
}

// List lista solicitudes filtrando por estado y cliente.
// GET /api/solicitudes?estado=mockup&cliente_id=7&limit=20&offset=0
func (h *SolicitudHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	filtro := repository.FiltroSolicitudes{
		Estado:    entity.EstadoSolicitud(c.Query("estado")),
		ClienteID: int64(c.QueryInt("cliente_id")),
		Limit:     page.Limit,
		Offset:    page.Offset,
	}
	resp, err := h.uc.Listar(c.Context(), filtro)
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(resp)
}

// Tramitar aplica una transición de estado/subestado.
// POST /api/solicitudes/:id/tramitar
func (h *SolicitudHandler) Tramitar(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	var in dto.TransicionSolicitudRequest
	if !bodyValido(c, &in) {
		return nil
	}
	res, err := h.tramite.Transicionar(c.Context(), id, GetEmpleadoID(c), tramites.PeticionSolicitud{
		Estado:     entity.EstadoSolicitud(in.Estado),
		Subestado:  in.Subestado,
		EncargadoA: in.EncargadoA,
	})
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(dto.NuevaSolicitudResponse(res.Solicitud, res.Aviso))
}

// Historial devuelve el libro de cambios de la solicitud.
// GET /api/solicitudes/:id/historial?orden=desc
func (h *SolicitudHandler) Historial(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	entradas, err := h.tramite.Historial(c.Context(), id, c.Query("orden") == "desc")
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(dto.NuevoHistorialResponse(entradas))
}

// Pedido devuelve el pedido generado al aceptar la solicitud.
// GET /api/solicitudes/:id/pedido
func (h *SolicitudHandler) Pedido(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	resp, err := h.uc.PedidoDe(c.Context(), id)
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(resp)
}

// PDF descarga el presupuesto en PDF.
// GET /api/solicitudes/:id/pdf
func (h *SolicitudHandler) PDF(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	pdfBytes, filename, err := h.pdfUC.DescargarPresupuestoPDF(c.Context(), id)
	if err != nil {
		return respuestaError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// paramID lee :id como int64; si es inválido escribe la respuesta de error.
func paramID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
		return 0, false
	}
	return id, true
}
