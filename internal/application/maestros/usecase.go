package maestros

import (
	"context"
	"time"

	"github.com/jmm-1987/taller-pedidos/internal/application/dto"
	"github.com/jmm-1987/taller-pedidos/internal/domain"
	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
)

// UseCase mantenimiento de los maestros: clientes, prendas, proveedores y
// calendario de festivos.
type UseCase struct {
	clienteRepo   repository.ClienteRepository
	prendaRepo    repository.PrendaRepository
	proveedorRepo repository.ProveedorRepository
	festivoRepo   repository.FestivoRepository
	ahora         func() time.Time
}

// NuevoUseCase construye el caso de uso de maestros.
func NuevoUseCase(
	clienteRepo repository.ClienteRepository,
	prendaRepo repository.PrendaRepository,
	proveedorRepo repository.ProveedorRepository,
	festivoRepo repository.FestivoRepository,
) *UseCase {
	return &UseCase{
		clienteRepo:   clienteRepo,
		prendaRepo:    prendaRepo,
		proveedorRepo: proveedorRepo,
		festivoRepo:   festivoRepo,
		ahora:         time.Now,
	}
}

// ── Clientes ──────────────────────────────────────────────────────────────────

// CrearCliente da de alta un cliente.
func (uc *UseCase) CrearCliente(ctx context.Context, in dto.ClienteRequest) (*entity.Cliente, error) {
	now := uc.ahora()
	c := &entity.Cliente{
		Nombre:    in.Nombre,
		NIF:       in.NIF,
		Email:     in.Email,
		Telefono:  in.Telefono,
		Direccion: in.Direccion,
		Poblacion: in.Poblacion,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.clienteRepo.Crear(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// EditarCliente actualiza los datos de contacto de un cliente existente.
func (uc *UseCase) EditarCliente(ctx context.Context, id int64, in dto.ClienteRequest) (*entity.Cliente, error) {
	c, err := uc.clienteRepo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNoEncontrado
	}
	c.Nombre = in.Nombre
	c.NIF = in.NIF
	c.Email = in.Email
	c.Telefono = in.Telefono
	c.Direccion = in.Direccion
	c.Poblacion = in.Poblacion
	c.UpdatedAt = uc.ahora()
	if err := uc.clienteRepo.Actualizar(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// BuscarClientes filtra por nombre sin distinguir mayúsculas ni acentos.
func (uc *UseCase) BuscarClientes(ctx context.Context, texto string, limit, offset int) ([]*entity.Cliente, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return uc.clienteRepo.Buscar(ctx, texto, limit, offset)
}

// ObtenerCliente devuelve un cliente por ID.
func (uc *UseCase) ObtenerCliente(ctx context.Context, id int64) (*entity.Cliente, error) {
	c, err := uc.clienteRepo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNoEncontrado
	}
	return c, nil
}

// ── Prendas ───────────────────────────────────────────────────────────────────

// CrearPrenda da de alta una prenda; el proveedor, si se indica, debe existir.
func (uc *UseCase) CrearPrenda(ctx context.Context, in dto.PrendaRequest) (*entity.Prenda, error) {
	if in.ProveedorID != nil {
		prov, err := uc.proveedorRepo.ObtenerPorID(ctx, *in.ProveedorID)
		if err != nil {
			return nil, err
		}
		if prov == nil {
			return nil, domain.ErrNoEncontrado
		}
	}
	now := uc.ahora()
	p := &entity.Prenda{
		Nombre:      in.Nombre,
		Referencia:  in.Referencia,
		ProveedorID: in.ProveedorID,
		PrecioBase:  in.PrecioBase,
		Activa:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Activa != nil {
		p.Activa = *in.Activa
	}
	if err := uc.prendaRepo.Crear(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// EditarPrenda actualiza una prenda; Activa en nil conserva el valor actual.
func (uc *UseCase) EditarPrenda(ctx context.Context, id int64, in dto.PrendaRequest) (*entity.Prenda, error) {
	p, err := uc.prendaRepo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNoEncontrado
	}
	p.Nombre = in.Nombre
	p.Referencia = in.Referencia
	p.ProveedorID = in.ProveedorID
	p.PrecioBase = in.PrecioBase
	if in.Activa != nil {
		p.Activa = *in.Activa
	}
	p.UpdatedAt = uc.ahora()
	if err := uc.prendaRepo.Actualizar(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListarPrendas devuelve el catálogo, opcionalmente solo las activas.
func (uc *UseCase) ListarPrendas(ctx context.Context, soloActivas bool) ([]*entity.Prenda, error) {
	return uc.prendaRepo.Listar(ctx, soloActivas)
}

// ── Proveedores ───────────────────────────────────────────────────────────────

// CrearProveedor da de alta un proveedor.
func (uc *UseCase) CrearProveedor(ctx context.Context, in dto.ProveedorRequest) (*entity.Proveedor, error) {
	now := uc.ahora()
	p := &entity.Proveedor{
		Nombre:    in.Nombre,
		NIF:       in.NIF,
		Email:     in.Email,
		Telefono:  in.Telefono,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.proveedorRepo.Crear(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListarProveedores devuelve todos los proveedores.
func (uc *UseCase) ListarProveedores(ctx context.Context) ([]*entity.Proveedor, error) {
	return uc.proveedorRepo.Listar(ctx)
}

// ── Festivos ──────────────────────────────────────────────────────────────────

// CrearFestivo añade un día no laborable al calendario, activo por defecto.
func (uc *UseCase) CrearFestivo(ctx context.Context, in dto.FestivoRequest) (*entity.DiaFestivo, error) {
	fecha, err := time.Parse("2006-01-02", in.Fecha)
	if err != nil {
		return nil, domain.ErrEntradaInvalida
	}
	f := &entity.DiaFestivo{
		Fecha:       fecha,
		Descripcion: in.Descripcion,
		Activo:      true,
		CreatedAt:   uc.ahora(),
	}
	if err := uc.festivoRepo.Crear(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// ActivarFestivo cambia el flag de un festivo sin borrarlo; los desactivados
// dejan de contar en el cálculo de días laborables.
func (uc *UseCase) ActivarFestivo(ctx context.Context, id int64, activo bool) error {
	return uc.festivoRepo.Activar(ctx, id, activo)
}

// ListarFestivos devuelve el calendario completo, activos e inactivos.
func (uc *UseCase) ListarFestivos(ctx context.Context) ([]*entity.DiaFestivo, error) {
	return uc.festivoRepo.Listar(ctx)
}
