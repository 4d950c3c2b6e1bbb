package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
)

var _ repository.ProveedorRepository = (*ProveedorRepo)(nil)

// ProveedorRepo implementación de ProveedorRepository.
type ProveedorRepo struct {
	q Querier
}

// NewProveedorRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProveedorRepository(q Querier) *ProveedorRepo {
	return &ProveedorRepo{q: q}
}

// Crear persiste el proveedor; el ID lo asigna la secuencia.
func (r *ProveedorRepo) Crear(ctx context.Context, p *entity.Proveedor) error {
	query := `
		INSERT INTO proveedores (nombre, nif, email, telefono, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		p.Nombre, p.NIF, p.Email, p.Telefono, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert proveedor: %w", err)
	}
	return nil
}

// ObtenerPorID devuelve el proveedor (nil si no existe).
func (r *ProveedorRepo) ObtenerPorID(ctx context.Context, id int64) (*entity.Proveedor, error) {
	query := `
		SELECT id, nombre, COALESCE(nif, ''), COALESCE(email, ''), COALESCE(telefono, ''), created_at, updated_at
		FROM proveedores WHERE id = $1`
	var p entity.Proveedor
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Nombre, &p.NIF, &p.Email, &p.Telefono, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get proveedor: %w", err)
	}
	return &p, nil
}

// Listar devuelve todos los proveedores.
func (r *ProveedorRepo) Listar(ctx context.Context) ([]*entity.Proveedor, error) {
	query := `
		SELECT id, nombre, COALESCE(nif, ''), COALESCE(email, ''), COALESCE(telefono, ''), created_at, updated_at
		FROM proveedores ORDER BY nombre`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list proveedores: %w", err)
	}
	defer rows.Close()

	var list []*entity.Proveedor
	for rows.Next() {
		var p entity.Proveedor
		if err := rows.Scan(&p.ID, &p.Nombre, &p.NIF, &p.Email, &p.Telefono,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan proveedor: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
