package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jmm-1987/taller-pedidos/internal/application/dto"
	"github.com/jmm-1987/taller-pedidos/internal/application/pedidos"
	"github.com/jmm-1987/taller-pedidos/internal/application/tramitacion"
	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
)

// PedidoHandler maneja las peticiones HTTP de pedidos en producción.
type PedidoHandler struct {
	uc      *pedidos.UseCase
	tramite *tramitacion.PedidoTramiteUseCase
}

// NewPedidoHandler construye el handler.
func NewPedidoHandler(uc *pedidos.UseCase, tramite *tramitacion.PedidoTramiteUseCase) *PedidoHandler {
	return &PedidoHandler{uc: uc, tramite: tramite}
}

// GetByID devuelve el pedido con sus líneas.
// GET /api/pedidos/:id
func (h *PedidoHandler) GetByID(c *fiber.Ctx) error {
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

// List lista pedidos filtrando por estado y cliente.
// GET /api/pedidos?estado=Diseño&cliente_id=7
func (h *PedidoHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	filtro := repository.FiltroPedidos{
		Estado:    entity.EstadoPedido(c.Query("estado")),
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

// Tramitar cambia el estado del pedido.
// POST /api/pedidos/:id/tramitar
func (h *PedidoHandler) Tramitar(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	var in dto.TransicionPedidoRequest
	if !bodyValido(c, &in) {
		return nil
	}
	p, err := h.tramite.Transicionar(c.Context(), id, GetEmpleadoID(c), entity.EstadoPedido(in.Estado))
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(dto.NuevoPedidoResponse(p))
}

// TramitarLinea cambia el estado de confección de una línea.
// POST /api/pedidos/:id/lineas/:lineaID/tramitar
func (h *PedidoHandler) TramitarLinea(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	lineaID := c.Params("lineaID")
	if lineaID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "línea requerida"})
	}
	var in dto.TransicionLineaRequest
	if !bodyValido(c, &in) {
		return nil
	}
	linea, err := h.tramite.TransicionarLinea(c.Context(), id, lineaID, GetEmpleadoID(c), entity.EstadoLinea(in.Estado))
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(dto.LineaPedidoResponse{
		ID:         linea.ID,
		PrendaID:   linea.PrendaID,
		Nombre:     linea.Nombre,
		Cantidad:   linea.Cantidad,
		Color:      linea.Color,
		Forma:      linea.Forma,
		Tallas:     linea.Tallas,
		PrecioUnit: linea.PrecioUnit,
		Estado:     string(linea.Estado),
	})
}

// Historial devuelve el libro de cambios del pedido, líneas incluidas.
// GET /api/pedidos/:id/historial?orden=desc
func (h *PedidoHandler) Historial(c *fiber.Ctx) error {
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
