package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jmm-1987/taller-pedidos/internal/domain"
	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
)

var _ repository.EmpleadoRepository = (*EmpleadoRepo)(nil)

// EmpleadoRepo implementación de EmpleadoRepository.
type EmpleadoRepo struct {
	q Querier
}

// NewEmpleadoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEmpleadoRepository(q Querier) *EmpleadoRepo {
	return &EmpleadoRepo{q: q}
}

// Crear persiste el empleado; el email es único.
func (r *EmpleadoRepo) Crear(ctx context.Context, e *entity.Empleado) error {
	query := `
		INSERT INTO empleados (nombre, email, password_hash, rol, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		e.Nombre, e.Email, e.PasswordHash, e.Rol, e.Activo, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailYaRegistrado
		}
		return fmt.Errorf("insert empleado: %w", err)
	}
	return nil
}

// ObtenerPorID devuelve el empleado (nil si no existe).
func (r *EmpleadoRepo) ObtenerPorID(ctx context.Context, id int64) (*entity.Empleado, error) {
	return r.obtenerUno(ctx, `WHERE id = $1`, id)
}

// ObtenerPorEmail devuelve el empleado por email (nil si no existe).
func (r *EmpleadoRepo) ObtenerPorEmail(ctx context.Context, email string) (*entity.Empleado, error) {
	return r.obtenerUno(ctx, `WHERE email = $1`, email)
}

func (r *EmpleadoRepo) obtenerUno(ctx context.Context, where string, arg any) (*entity.Empleado, error) {
	query := `
		SELECT id, nombre, email, password_hash, rol, activo, created_at, updated_at
		FROM empleados ` + where
	var e entity.Empleado
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&e.ID, &e.Nombre, &e.Email, &e.PasswordHash, &e.Rol, &e.Activo, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get empleado: %w", err)
	}
	return &e, nil
}

// Listar devuelve todos los empleados, activos e inactivos.
func (r *EmpleadoRepo) Listar(ctx context.Context) ([]*entity.Empleado, error) {
	query := `
		SELECT id, nombre, email, password_hash, rol, activo, created_at, updated_at
		FROM empleados ORDER BY nombre`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list empleados: %w", err)
	}
	defer rows.Close()

	var list []*entity.Empleado
	for rows.Next() {
		var e entity.Empleado
		if err := rows.Scan(&e.ID, &e.Nombre, &e.Email, &e.PasswordHash, &e.Rol,
			&e.Activo, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan empleado: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
