package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jmm-1987/taller-pedidos/internal/application/auth"
	"github.com/jmm-1987/taller-pedidos/internal/application/dto"
)

// AuthHandler maneja login y alta de empleados.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login autentica al empleado y devuelve el token.
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if !bodyValido(c, &in) {
		return nil
	}
	resp, err := h.uc.Login(c.Context(), in)
	if err != nil {
		return respuestaError(c, err)
	}
	return c.JSON(resp)
}

// Register da de alta un empleado (solo admin).
// POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.CrearEmpleadoRequest
	if !bodyValido(c, &in) {
		return nil
	}
	emp, err := h.uc.RegistrarEmpleado(c.Context(), in)
	if err != nil {
		return respuestaError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NuevoEmpleadoResponse(emp))
}
