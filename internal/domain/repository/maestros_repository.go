package repository

import (
	"context"
	"time"

	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
)

// ClienteRepository puerto del maestro de clientes.
type ClienteRepository interface {
	Crear(ctx context.Context, c *entity.Cliente) error
	Actualizar(ctx context.Context, c *entity.Cliente) error
	ObtenerPorID(ctx context.Context, id int64) (*entity.Cliente, error)
	// Buscar filtra por nombre sin distinguir mayúsculas ni acentos.
	Buscar(ctx context.Context, texto string, limit, offset int) ([]*entity.Cliente, error)
}

// EmpleadoRepository puerto del maestro de empleados.
type EmpleadoRepository interface {
	Crear(ctx context.Context, e *entity.Empleado) error
	ObtenerPorID(ctx context.Context, id int64) (*entity.Empleado, error)
	ObtenerPorEmail(ctx context.Context, email string) (*entity.Empleado, error)
	Listar(ctx context.Context) ([]*entity.Empleado, error)
}

// PrendaRepository puerto del maestro de prendas.
type PrendaRepository interface {
	Crear(ctx context.Context, p *entity.Prenda) error
	Actualizar(ctx context.Context, p *entity.Prenda) error
	ObtenerPorID(ctx context.Context, id int64) (*entity.Prenda, error)
	Listar(ctx context.Context, soloActivas bool) ([]*entity.Prenda, error)
}

// ProveedorRepository puerto del maestro de proveedores.
type ProveedorRepository interface {
	Crear(ctx context.Context, p *entity.Proveedor) error
	ObtenerPorID(ctx context.Context, id int64) (*entity.Proveedor, error)
	Listar(ctx context.Context) ([]*entity.Proveedor, error)
}

// FestivoRepository puerto del calendario de festivos.
type FestivoRepository interface {
	Crear(ctx context.Context, f *entity.DiaFestivo) error
	// Activar cambia el flag sin borrar el día.
	Activar(ctx context.Context, id int64, activo bool) error
	Listar(ctx context.Context) ([]*entity.DiaFestivo, error)
	// FechasActivas devuelve las fechas festivas activas, para construir el
	// calendario laborable en memoria.
	FechasActivas(ctx context.Context) ([]time.Time, error)
}
