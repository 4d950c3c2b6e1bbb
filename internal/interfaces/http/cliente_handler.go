package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jmm-1987/taller-pedidos/internal/application/dto"
	"github.com/jmm-1987/taller-pedidos/internal/application/maestros"
)

// ClienteHandler maneja las peticiones HTTP del maestro de clientes.
type ClienteHandler struct {
	uc *maestros.UseCase
}

// NewClienteHandler construye el handler.
func NewClienteHandler(uc *maestros.UseCase) *ClienteHandler {
	return &ClienteHandler{uc: uc}
}

// Create da de alta un cliente.
// POST /api/clientes
func (h *ClienteHandler) Create(c *fiber.Ctx) error {
	var in dto.ClienteRequest
	if !bodyValido(c, &in) {
		return nil
	}
	cliente, err := h.uc.CrearCliente(c.Context(), in)
	if err != nil {
		return respuestaError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NuevoClienteResponse(cliente))
}

// Update edita un cliente existente.
// PUT /api/clientes/:id
func (h *ClienteHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	var in dto.ClienteRequest
	if !bodyValido(c, &in) {
		return nil
	}
	cliente, err := h.uc.EditarCliente(c.Context(), id, in)
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(dto.NuevoClienteResponse(cliente))
}

// GetByID devuelve un cliente.
// GET /api/clientes/:id
func (h *ClienteHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	cliente, err := h.uc.ObtenerCliente(c.Context(), id)
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(dto.NuevoClienteResponse(cliente))
}

// Search busca clientes por nombre sin distinguir mayúsculas ni acentos.
// GET /api/clientes?q=peña&limit=20&offset=0
func (h *ClienteHandler) Search(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	clientes, err := h.uc.BuscarClientes(c.Context(), c.Query("q"), page.Limit, page.Offset)
	if err != nil {
		return respuestaError(c, err)
	}
	out := make([]*dto.ClienteResponse, 0, len(clientes))
	for _, cl := range clientes {
		out = append(out, dto.NuevoClienteResponse(cl))
	}
	return c.JSON(out)
}
