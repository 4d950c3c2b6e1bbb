package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
)

// LoginRequest credenciales de empleado.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token y datos del empleado autenticado.
type LoginResponse struct {
	Token    string `json:"token"`
	Empleado struct {
		ID     int64  `json:"id"`
		Nombre string `json:"nombre"`
		Rol    string `json:"rol"`
	} `json:"empleado"`
}

// CrearEmpleadoRequest alta de empleado.
type CrearEmpleadoRequest struct {
	Nombre   string `json:"nombre" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Rol      string `json:"rol" validate:"required,oneof=admin comercial taller"`
}

// ClienteRequest alta o edición de cliente.
type ClienteRequest struct {
	Nombre    string `json:"nombre" validate:"required"`
	NIF       string `json:"nif"`
	Email     string `json:"email" validate:"omitempty,email"`
	Telefono  string `json:"telefono"`
	Direccion string `json:"direccion"`
	Poblacion string `json:"poblacion"`
}

// PrendaRequest alta o edición de prenda.
type PrendaRequest struct {
	Nombre      string          `json:"nombre" validate:"required"`
	Referencia  string          `json:"referencia"`
	ProveedorID *int64          `json:"proveedor_id"`
	PrecioBase  decimal.Decimal `json:"precio_base"`
	Activa      *bool           `json:"activa"`
}

// ProveedorRequest alta de proveedor.
type ProveedorRequest struct {
	Nombre   string `json:"nombre" validate:"required"`
	NIF      string `json:"nif"`
	Email    string `json:"email" validate:"omitempty,email"`
	Telefono string `json:"telefono"`
}

// FestivoRequest alta de día festivo.
type FestivoRequest struct {
	Fecha       string `json:"fecha" validate:"required,datetime=2006-01-02"`
	Descripcion string `json:"descripcion"`
}

// EmpleadoResponse empleado sin credenciales.
type EmpleadoResponse struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Rol    string `json:"rol"`
	Activo bool   `json:"activo"`
}

// NuevoEmpleadoResponse mapea la entidad a respuesta.
func NuevoEmpleadoResponse(e *entity.Empleado) *EmpleadoResponse {
	return &EmpleadoResponse{ID: e.ID, Nombre: e.Nombre, Email: e.Email, Rol: e.Rol, Activo: e.Activo}
}

// ClienteResponse cliente materializado.
type ClienteResponse struct {
	ID        int64  `json:"id"`
	Nombre    string `json:"nombre"`
	NIF       string `json:"nif,omitempty"`
	Email     string `json:"email,omitempty"`
	Telefono  string `json:"telefono,omitempty"`
	Direccion string `json:"direccion,omitempty"`
	Poblacion string `json:"poblacion,omitempty"`
}

// NuevoClienteResponse mapea la entidad a respuesta.
func NuevoClienteResponse(c *entity.Cliente) *ClienteResponse {
	return &ClienteResponse{
		ID: c.ID, Nombre: c.Nombre, NIF: c.NIF, Email: c.Email,
		Telefono: c.Telefono, Direccion: c.Direccion, Poblacion: c.Poblacion,
	}
}

// PrendaResponse prenda materializada.
type PrendaResponse struct {
	ID          int64           `json:"id"`
	Nombre      string          `json:"nombre"`
	Referencia  string          `json:"referencia,omitempty"`
	ProveedorID *int64          `json:"proveedor_id,omitempty"`
	PrecioBase  decimal.Decimal `json:"precio_base"`
	Activa      bool            `json:"activa"`
}

// NuevaPrendaResponse mapea la entidad a respuesta.
func NuevaPrendaResponse(p *entity.Prenda) *PrendaResponse {
	return &PrendaResponse{
		ID: p.ID, Nombre: p.Nombre, Referencia: p.Referencia,
		ProveedorID: p.ProveedorID, PrecioBase: p.PrecioBase, Activa: p.Activa,
	}
}

// ProveedorResponse proveedor materializado.
type ProveedorResponse struct {
	ID       int64  `json:"id"`
	Nombre   string `json:"nombre"`
	NIF      string `json:"nif,omitempty"`
	Email    string `json:"email,omitempty"`
	Telefono string `json:"telefono,omitempty"`
}

// NuevoProveedorResponse mapea la entidad a respuesta.
func NuevoProveedorResponse(p *entity.Proveedor) *ProveedorResponse {
	return &ProveedorResponse{ID: p.ID, Nombre: p.Nombre, NIF: p.NIF, Email: p.Email, Telefono: p.Telefono}
}

// FestivoResponse día festivo materializado.
type FestivoResponse struct {
	ID          int64  `json:"id"`
	Fecha       string `json:"fecha"`
	Descripcion string `json:"descripcion,omitempty"`
	Activo      bool   `json:"activo"`
}

// NuevoFestivoResponse mapea la entidad a respuesta.
func NuevoFestivoResponse(f *entity.DiaFestivo) *FestivoResponse {
	return &FestivoResponse{
		ID: f.ID, Fecha: f.Fecha.Format("2006-01-02"),
		Descripcion: f.Descripcion, Activo: f.Activo,
	}
}
