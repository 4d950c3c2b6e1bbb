package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
)

var _ repository.FestivoRepository = (*FestivoRepo)(nil)

// FestivoRepo implementación de FestivoRepository.
type FestivoRepo struct {
	q Querier
}

// NewFestivoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFestivoRepository(q Querier) *FestivoRepo {
	return &FestivoRepo{q: q}
}

// Crear persiste el día festivo.
func (r *FestivoRepo) Crear(ctx context.Context, f *entity.DiaFestivo) error {
	query := `
		INSERT INTO dias_festivos (fecha, descripcion, activo, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, f.Fecha, f.Descripcion, f.Activo, f.CreatedAt).Scan(&f.ID)
	if err != nil {
		return fmt.Errorf("insert festivo: %w", err)
	}
	return nil
}

// Activar cambia el flag sin borrar el día.
func (r *FestivoRepo) Activar(ctx context.Context, id int64, activo bool) error {
	tag, err := r.q.Exec(ctx, `UPDATE dias_festivos SET activo = $2 WHERE id = $1`, id, activo)
	if err != nil {
		return fmt.Errorf("update festivo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("festivo %d no existe", id)
	}
	return nil
}

// Listar devuelve el calendario completo, activos e inactivos.
func (r *FestivoRepo) Listar(ctx context.Context) ([]*entity.DiaFestivo, error) {
	query := `
		SELECT id, fecha, COALESCE(descripcion, ''), activo, created_at
		FROM dias_festivos ORDER BY fecha`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list festivos: %w", err)
	}
	defer rows.Close()

	var list []*entity.DiaFestivo
	for rows.Next() {
		var f entity.DiaFestivo
		if err := rows.Scan(&f.ID, &f.Fecha, &f.Descripcion, &f.Activo, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan festivo: %w", err)
		}
		list = append(list, &f)
	}
	return list, rows.Err()
}

// FechasActivas devuelve solo las fechas activas, para construir el
// calendario laborable en memoria.
func (r *FestivoRepo) FechasActivas(ctx context.Context) ([]time.Time, error) {
	rows, err := r.q.Query(ctx, `SELECT fecha FROM dias_festivos WHERE activo ORDER BY fecha`)
	if err != nil {
		return nil, fmt.Errorf("list festivos activos: %w", err)
	}
	defer rows.Close()

	var fechas []time.Time
	for rows.Next() {
		var f time.Time
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("scan fecha festivo: %w", err)
		}
		fechas = append(fechas, f)
	}
	return fechas, rows.Err()
}
