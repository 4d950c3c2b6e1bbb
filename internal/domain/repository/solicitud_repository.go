package repository

import (
	"context"

	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
)

// FiltroSolicitudes criterios de listado.
type FiltroSolicitudes struct {
	Estado    entity.EstadoSolicitud // vacío = todos
	ClienteID int64                  // 0 = todos
	Limit     int
	Offset    int
}

// SolicitudRepository puerto de persistencia de solicitudes y sus líneas.
type SolicitudRepository interface {
	Crear(ctx context.Context, s *entity.Solicitud) error
	// Actualizar persiste estado, subestado, encargado y todas las fechas.
	Actualizar(ctx context.Context, s *entity.Solicitud) error
	// ObtenerPorID devuelve la solicitud con sus líneas (nil si no existe).
	ObtenerPorID(ctx context.Context, id int64) (*entity.Solicitud, error)
	Listar(ctx context.Context, filtro FiltroSolicitudes) ([]*entity.Solicitud, error)
	// ReemplazarLineas borra las líneas actuales e inserta las nuevas.
	// Las ediciones nunca actualizan líneas en sitio.
	ReemplazarLineas(ctx context.Context, solicitudID int64, lineas []*entity.LineaSolicitud) error
}
