package postgres

import (
	"context"
	"fmt"

	"github.com/jmm-1987/taller-pedidos/internal/domain/numeracion"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
)

var _ repository.ContadorRepository = (*ContadorRepo)(nil)

// ContadorRepo contador atómico de numeración: una fila por clase y periodo.
// El upsert con RETURNING garantiza que dos peticiones concurrentes nunca
// reciben el mismo valor, sin escanear los números ya emitidos.
type ContadorRepo struct {
	q Querier
}

// NewContadorRepository construye el adaptador. Pasar pool o tx (Querier).
func NewContadorRepository(q Querier) *ContadorRepo {
	return &ContadorRepo{q: q}
}

// Incrementar avanza la secuencia de la clase/periodo y devuelve el nuevo
// valor. La primera llamada de un periodo crea la fila con valor 1.
func (r *ContadorRepo) Incrementar(ctx context.Context, clase numeracion.Clase, periodo string) (int64, error) {
	query := `
		INSERT INTO contadores (clase, periodo, ultimo)
		VALUES ($1, $2, 1)
		ON CONFLICT (clase, periodo)
		DO UPDATE SET ultimo = contadores.ultimo + 1
		RETURNING ultimo`
	var n int64
	if err := r.q.QueryRow(ctx, query, clase, periodo).Scan(&n); err != nil {
		return 0, fmt.Errorf("incrementar contador: %w", err)
	}
	return n, nil
}

// Sembrar fija el contador si el valor propuesto es mayor que el actual.
// Idempotente: sembrar un valor menor o igual no hace nada.
func (r *ContadorRepo) Sembrar(ctx context.Context, clase numeracion.Clase, periodo string, valor int64) error {
	query := `
		INSERT INTO contadores (clase, periodo, ultimo)
		VALUES ($1, $2, $3)
		ON CONFLICT (clase, periodo)
		DO UPDATE SET ultimo = GREATEST(contadores.ultimo, EXCLUDED.ultimo)`
	if _, err := r.q.Exec(ctx, query, clase, periodo, valor); err != nil {
		return fmt.Errorf("sembrar contador: %w", err)
	}
	return nil
}
