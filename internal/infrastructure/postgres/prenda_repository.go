package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
)

var _ repository.PrendaRepository = (*PrendaRepo)(nil)

// PrendaRepo implementación de PrendaRepository.
type PrendaRepo struct {
	q Querier
}

// NewPrendaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPrendaRepository(q Querier) *PrendaRepo {
	return &PrendaRepo{q: q}
}

// Crear persiste la prenda; el ID lo asigna la secuencia.
func (r *PrendaRepo) Crear(ctx context.Context, p *entity.Prenda) error {
	query := `
		INSERT INTO prendas (nombre, referencia, proveedor_id, precio_base, activa, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		p.Nombre, p.Referencia, p.ProveedorID, p.PrecioBase, p.Activa, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert prenda: %w", err)
	}
	return nil
}

// Actualizar persiste todos los campos editables de la prenda.
func (r *PrendaRepo) Actualizar(ctx context.Context, p *entity.Prenda) error {
	query := `
		UPDATE prendas
		SET nombre = $2, referencia = $3, proveedor_id = $4, precio_base = $5,
		    activa = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Nombre, p.Referencia, p.ProveedorID, p.PrecioBase, p.Activa, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update prenda: %w", err)
	}
	return nil
}

// ObtenerPorID devuelve la prenda (nil si no existe).
func (r *PrendaRepo) ObtenerPorID(ctx context.Context, id int64) (*entity.Prenda, error) {
	query := `
		SELECT id, nombre, COALESCE(referencia, ''), proveedor_id, precio_base, activa, created_at, updated_at
		FROM prendas WHERE id = $1`
	var p entity.Prenda
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Nombre, &p.Referencia, &p.ProveedorID, &p.PrecioBase, &p.Activa,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get prenda: %w", err)
	}
	return &p, nil
}

// Listar devuelve el catálogo; soloActivas excluye las dadas de baja.
func (r *PrendaRepo) Listar(ctx context.Context, soloActivas bool) ([]*entity.Prenda, error) {
	query := `
		SELECT id, nombre, COALESCE(referencia, ''), proveedor_id, precio_base, activa, created_at, updated_at
		FROM prendas
		WHERE NOT $1 OR activa
		ORDER BY nombre`
	rows, err := r.q.Query(ctx, query, soloActivas)
	if err != nil {
		return nil, fmt.Errorf("list prendas: %w", err)
	}
	defer rows.Close()

	var list []*entity.Prenda
	for rows.Next() {
		var p entity.Prenda
		if err := rows.Scan(&p.ID, &p.Nombre, &p.Referencia, &p.ProveedorID, &p.PrecioBase,
			&p.Activa, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan prenda: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
