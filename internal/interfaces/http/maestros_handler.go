package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jmm-1987/taller-pedidos/internal/application/dto"
	"github.com/jmm-1987/taller-pedidos/internal/application/maestros"
)

// MaestrosHandler maneja prendas, proveedores y el calendario de festivos.
type MaestrosHandler struct {
	uc *maestros.UseCase
}

// NewMaestrosHandler construye el handler.
func NewMaestrosHandler(uc *maestros.UseCase) *MaestrosHandler {
	return &MaestrosHandler{uc: uc}
}

// ── Prendas ───────────────────────────────────────────────────────────────────

// CreatePrenda da de alta una prenda.
// POST /api/prendas
func (h *MaestrosHandler) CreatePrenda(c *fiber.Ctx) error {
	var in dto.PrendaRequest
	if !bodyValido(c, &in) {
		return nil
	}
	p, err := h.uc.CrearPrenda(c.Context(), in)
	if err != nil {
		return respuestaError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NuevaPrendaResponse(p))
}

// UpdatePrenda edita una prenda existente.
// PUT /api/prendas/:id
func (h *MaestrosHandler) UpdatePrenda(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	var in dto.PrendaRequest
	if !bodyValido(c, &in) {
		return nil
	}
	p, err := h.uc.EditarPrenda(c.Context(), id, in)
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(dto.NuevaPrendaResponse(p))
}

// ListPrendas lista prendas; por defecto solo las activas.
// GET /api/prendas?todas=true
func (h *MaestrosHandler) ListPrendas(c *fiber.Ctx) error {
	prendas, err := h.uc.ListarPrendas(c.Context(), !c.QueryBool("todas"))
	if err != nil {
		return respuestaError(c, err)
	}
	out := make([]*dto.PrendaResponse, 0, len(prendas))
	for _, p := range prendas {
		out = append(out, dto.NuevaPrendaResponse(p))
	}
	return c.JSON(out)
}

// ── Proveedores ───────────────────────────────────────────────────────────────

// CreateProveedor da de alta un proveedor.
// POST /api/proveedores
func (h *MaestrosHandler) CreateProveedor(c *fiber.Ctx) error {
	var in dto.ProveedorRequest
	if !bodyValido(c, &in) {
		return nil
	}
	p, err := h.uc.CrearProveedor(c.Context(), in)
	if err != nil {
		return respuestaError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NuevoProveedorResponse(p))
}

// ListProveedores lista todos los proveedores.
// GET /api/proveedores
func (h *MaestrosHandler) ListProveedores(c *fiber.Ctx) error {
	proveedores, err := h.uc.ListarProveedores(c.Context())
	if err != nil {
		return respuestaError(c, err)
	}
	out := make([]*dto.ProveedorResponse, 0, len(proveedores))
	for _, p := range proveedores {
		out = append(out, dto.NuevoProveedorResponse(p))
	}
	return c.JSON(out)
}

// ── Festivos ──────────────────────────────────────────────────────────────────

// CreateFestivo añade un día festivo al calendario laborable.
// POST /api/festivos
func (h *MaestrosHandler) CreateFestivo(c *fiber.Ctx) error {
	var in dto.FestivoRequest
	if !bodyValido(c, &in) {
		return nil
	}
	f, err := h.uc.CrearFestivo(c.Context(), in)
	if err != nil {
		return respuestaError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NuevoFestivoResponse(f))
}

// ActivarFestivo activa o desactiva un festivo sin borrarlo.
// PUT /api/festivos/:id/activo
func (h *MaestrosHandler) ActivarFestivo(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	var in struct {
		Activo bool `json:"activo"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.ActivarFestivo(c.Context(), id, in.Activo); err != nil {
		return respuestaError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListFestivos lista el calendario completo, activos e inactivos.
// GET /api/festivos
func (h *MaestrosHandler) ListFestivos(c *fiber.Ctx) error {
	festivos, err := h.uc.ListarFestivos(c.Context())
	if err != nil {
		return respuestaError(c, err)
	}
	out := make([]*dto.FestivoResponse, 0, len(festivos))
	for _, f := range festivos {
		out = append(out, dto.NuevoFestivoResponse(f))
	}
	return c.JSON(out)
}
