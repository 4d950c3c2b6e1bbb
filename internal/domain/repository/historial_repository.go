package repository

import (
	"context"

	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
)

// HistorialRepository puerto del libro de cambios. Solo inserta y lee;
// no existe actualización ni borrado.
type HistorialRepository interface {
	Anadir(ctx context.Context, h *entity.HistorialCambio) error
	// PorParent devuelve las entradas del documento ordenadas por fecha.
	// descendente=true invierte el orden para vistas de auditoría. Para los
	// pedidos se incluyen también las entradas de sus líneas.
	PorParent(ctx context.Context, tipo entity.TipoCambio, parentID int64, descendente bool) ([]*entity.HistorialCambio, error)
}
