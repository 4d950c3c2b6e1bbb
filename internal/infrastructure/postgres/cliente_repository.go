package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/jackc/pgx/v5"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
)

var _ repository.ClienteRepository = (*ClienteRepo)(nil)

// ClienteRepo implementación de ClienteRepository. Guarda junto al nombre una
// versión normalizada (minúsculas, sin acentos) sobre la que busca ILIKE, de
// modo que "lopez" encuentra a "López".
type ClienteRepo struct {
	q Querier
}

// NewClienteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClienteRepository(q Querier) *ClienteRepo {
	return &ClienteRepo{q: q}
}

// normalizar pasa a minúsculas y elimina marcas diacríticas (NFD + Mn).
func normalizar(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// Crear persiste el cliente; el ID lo asigna la secuencia.
func (r *ClienteRepo) Crear(ctx context.Context, c *entity.Cliente) error {
	query := `
		INSERT INTO clientes (nombre, nombre_normalizado, nif, email, telefono, direccion, poblacion, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		c.Nombre, normalizar(c.Nombre), c.NIF, c.Email, c.Telefono, c.Direccion, c.Poblacion,
		c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert cliente: %w", err)
	}
	return nil
}

// Actualizar persiste los datos de contacto y recalcula el nombre normalizado.
func (r *ClienteRepo) Actualizar(ctx context.Context, c *entity.Cliente) error {
	query := `
		UPDATE clientes
		SET nombre = $2, nombre_normalizado = $3, nif = $4, email = $5,
		    telefono = $6, direccion = $7, poblacion = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Nombre, normalizar(c.Nombre), c.NIF, c.Email,
		c.Telefono, c.Direccion, c.Poblacion, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update cliente: %w", err)
	}
	return nil
}

// ObtenerPorID devuelve el cliente (nil si no existe).
func (r *ClienteRepo) ObtenerPorID(ctx context.Context, id int64) (*entity.Cliente, error) {
	query := `
		SELECT id, nombre, COALESCE(nif, ''), COALESCE(email, ''), COALESCE(telefono, ''),
		       COALESCE(direccion, ''), COALESCE(poblacion, ''), created_at, updated_at
		FROM clientes WHERE id = $1`
	var c entity.Cliente
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Nombre, &c.NIF, &c.Email, &c.Telefono,
		&c.Direccion, &c.Poblacion, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cliente: %w", err)
	}
	return &c, nil
}

// Buscar filtra por nombre sin distinguir mayúsculas ni acentos. Con texto
// vacío lista todos, paginados.
func (r *ClienteRepo) Buscar(ctx context.Context, texto string, limit, offset int) ([]*entity.Cliente, error) {
	query := `
		SELECT id, nombre, COALESCE(nif, ''), COALESCE(email, ''), COALESCE(telefono, ''),
		       COALESCE(direccion, ''), COALESCE(poblacion, ''), created_at, updated_at
		FROM clientes
		WHERE ($1 = '' OR nombre_normalizado LIKE '%' || $1 || '%')
		ORDER BY nombre
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, normalizar(texto), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("buscar clientes: %w", err)
	}
	defer rows.Close()

	var list []*entity.Cliente
	for rows.Next() {
		var c entity.Cliente
		if err := rows.Scan(&c.ID, &c.Nombre, &c.NIF, &c.Email, &c.Telefono,
			&c.Direccion, &c.Poblacion, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cliente: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
