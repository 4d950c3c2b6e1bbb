package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
)

var _ repository.HistorialRepository = (*HistorialRepo)(nil)

// HistorialRepo implementación de HistorialRepository. El libro de cambios
// solo inserta y lee; no hay UPDATE ni DELETE sobre esta tabla.
type HistorialRepo struct {
	q Querier
}

// NewHistorialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewHistorialRepository(q Querier) *HistorialRepo {
	return &HistorialRepo{q: q}
}

// Anadir inserta una entrada en el libro de cambios.
func (r *HistorialRepo) Anadir(ctx context.Context, h *entity.HistorialCambio) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	query := `
		INSERT INTO historial_cambios (id, parent_id, linea_id, tipo,
			estado_anterior, estado_nuevo, subestado_anterior, subestado_nuevo,
			actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		h.ID, h.ParentID, nullIfEmpty(h.LineaID), h.Tipo,
		nullIfEmpty(h.EstadoAnterior), nullIfEmpty(h.EstadoNuevo),
		nullIfEmpty(h.SubestadoAnterior), nullIfEmpty(h.SubestadoNuevo),
		h.ActorID, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert historial: %w", err)
	}
	return nil
}

// PorParent devuelve las entradas del documento ordenadas por fecha. Para los
// pedidos la consulta incluye también las entradas de línea, que comparten
// parent_id con su pedido.
func (r *HistorialRepo) PorParent(ctx context.Context, tipo entity.TipoCambio, parentID int64, descendente bool) ([]*entity.HistorialCambio, error) {
	orden := "ASC"
	if descendente {
		orden = "DESC"
	}
	filtroTipo := `tipo = $1`
	if tipo == entity.CambioPedido {
		filtroTipo = `tipo IN ($1, 'linea')`
	}
	query := fmt.Sprintf(`
		SELECT id, parent_id, COALESCE(linea_id, ''), tipo,
		       COALESCE(estado_anterior, ''), COALESCE(estado_nuevo, ''),
		       COALESCE(subestado_anterior, ''), COALESCE(subestado_nuevo, ''),
		       actor_id, created_at
		FROM historial_cambios
		WHERE %s AND parent_id = $2
		ORDER BY created_at %s, id %s`, filtroTipo, orden, orden)

	rows, err := r.q.Query(ctx, query, tipo, parentID)
	if err != nil {
		return nil, fmt.Errorf("list historial: %w", err)
	}
	defer rows.Close()

	var list []*entity.HistorialCambio
	for rows.Next() {
		var h entity.HistorialCambio
		if err := rows.Scan(&h.ID, &h.ParentID, &h.LineaID, &h.Tipo,
			&h.EstadoAnterior, &h.EstadoNuevo, &h.SubestadoAnterior, &h.SubestadoNuevo,
			&h.ActorID, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan historial: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}
