package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
)

var _ repository.SolicitudRepository = (*SolicitudRepo)(nil)

// SolicitudRepo implementación de SolicitudRepository (usable con pool o tx).
type SolicitudRepo struct {
	q Querier
}

// NewSolicitudRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSolicitudRepository(q Querier) *SolicitudRepo {
	return &SolicitudRepo{q: q}
}

const columnasSolicitud = `
	id, numero_solicitud, cliente_id, comercial_id, tipo, estado,
	COALESCE(subestado, ''), COALESCE(encargado_a, ''), imagenes_diseno,
	fecha_presupuesto, fecha_respuesta, fecha_aceptado, fecha_mockup,
	fecha_en_preparacion, fecha_terminado, fecha_entregado_cliente,
	fecha_limite_mockup, fecha_objetivo, created_at, updated_at`

// Crear persiste la solicitud y sus líneas. El ID lo asigna la secuencia.
func (r *SolicitudRepo) Crear(ctx context.Context, s *entity.Solicitud) error {
	query := `
		INSERT INTO solicitudes (numero_solicitud, cliente_id, comercial_id, tipo, estado,
			subestado, encargado_a, imagenes_diseno, fecha_presupuesto, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		s.NumeroSolicitud, s.ClienteID, s.ComercialID, s.Tipo, s.Estado,
		nullIfEmpty(s.Subestado), nullIfEmpty(s.EncargadoA), s.ImagenesDiseno,
		s.FechaPresupuesto, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("número de solicitud duplicado: %w", err)
		}
		return fmt.Errorf("insert solicitud: %w", err)
	}
	for _, l := range s.Lineas {
		l.SolicitudID = s.ID
		if err := r.insertarLinea(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

// Actualizar persiste estado, subestado, encargado y todas las fechas.
func (r *SolicitudRepo) Actualizar(ctx context.Context, s *entity.Solicitud) error {
	query := `
		UPDATE solicitudes
		SET estado                  = $2,
		    subestado               = $3,
		    encargado_a             = $4,
		    imagenes_diseno         = $5,
		    fecha_presupuesto       = $6,
		    fecha_respuesta         = $7,
		    fecha_aceptado          = $8,
		    fecha_mockup            = $9,
		    fecha_en_preparacion    = $10,
		    fecha_terminado         = $11,
		    fecha_entregado_cliente = $12,
		    fecha_limite_mockup     = $13,
		    fecha_objetivo          = $14,
		    updated_at              = $15
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Estado, nullIfEmpty(s.Subestado), nullIfEmpty(s.EncargadoA), s.ImagenesDiseno,
		s.FechaPresupuesto, s.FechaRespuesta, s.FechaAceptado, s.FechaMockup,
		s.FechaEnPreparacion, s.FechaTerminado, s.FechaEntregadoCliente,
		s.FechaLimiteMockup, s.FechaObjetivo, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update solicitud: %w", err)
	}
	return nil
}

// ObtenerPorID devuelve la solicitud con sus líneas (nil si no existe).
func (r *SolicitudRepo) ObtenerPorID(ctx context.Context, id int64) (*entity.Solicitud, error) {
	query := `SELECT ` + columnasSolicitud + ` FROM solicitudes WHERE id = $1`
	s, err := r.escanearSolicitud(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get solicitud: %w", err)
	}
	lineas, err := r.lineasDe(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Lineas = lineas
	return s, nil
}

// Listar devuelve solicitudes sin líneas, de la más reciente a la más antigua.
func (r *SolicitudRepo) Listar(ctx context.Context, filtro repository.FiltroSolicitudes) ([]*entity.Solicitud, error) {
	query := `SELECT ` + columnasSolicitud + `
		FROM solicitudes
		WHERE ($1 = '' OR estado = $1)
		  AND ($2 = 0 OR cliente_id = $2)
		ORDER BY id DESC
		LIMIT $3 OFFSET $4`
	limit := filtro.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.q.Query(ctx, query, string(filtro.Estado), filtro.ClienteID, limit, filtro.Offset)
	if err != nil {
		return nil, fmt.Errorf("list solicitudes: %w", err)
	}
	defer rows.Close()

	var list []*entity.Solicitud
	for rows.Next() {
		s, err := r.escanearSolicitud(rows)
		if err != nil {
			return nil, fmt.Errorf("scan solicitud: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// ReemplazarLineas borra las líneas actuales e inserta las nuevas.
func (r *SolicitudRepo) ReemplazarLineas(ctx context.Context, solicitudID int64, lineas []*entity.LineaSolicitud) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM solicitud_lineas WHERE solicitud_id = $1`, solicitudID); err != nil {
		return fmt.Errorf("delete lineas: %w", err)
	}
	for _, l := range lineas {
		l.SolicitudID = solicitudID
		if err := r.insertarLinea(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

func (r *SolicitudRepo) insertarLinea(ctx context.Context, l *entity.LineaSolicitud) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	query := `
		INSERT INTO solicitud_lineas (id, solicitud_id, prenda_id, nombre, cantidad,
			color, forma, tallas, precio_unitario, descuento)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.SolicitudID, l.PrendaID, l.Nombre, l.Cantidad,
		l.Color, l.Forma, l.Tallas, l.PrecioUnit, l.Descuento,
	)
	if err != nil {
		return fmt.Errorf("insert linea solicitud: %w", err)
	}
	return nil
}

func (r *SolicitudRepo) lineasDe(ctx context.Context, solicitudID int64) ([]*entity.LineaSolicitud, error) {
	query := `
		SELECT id, solicitud_id, prenda_id, nombre, cantidad, color, forma, tallas,
		       precio_unitario, descuento
		FROM solicitud_lineas WHERE solicitud_id = $1 ORDER BY nombre, id`
	rows, err := r.q.Query(ctx, query, solicitudID)
	if err != nil {
		return nil, fmt.Errorf("list lineas solicitud: %w", err)
	}
	defer rows.Close()

	var list []*entity.LineaSolicitud
	for rows.Next() {
		var l entity.LineaSolicitud
		if err := rows.Scan(&l.ID, &l.SolicitudID, &l.PrendaID, &l.Nombre, &l.Cantidad,
			&l.Color, &l.Forma, &l.Tallas, &l.PrecioUnit, &l.Descuento); err != nil {
			return nil, fmt.Errorf("scan linea solicitud: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

func (r *SolicitudRepo) escanearSolicitud(row pgx.Row) (*entity.Solicitud, error) {
	var s entity.Solicitud
	err := row.Scan(
		&s.ID, &s.NumeroSolicitud, &s.ClienteID, &s.ComercialID, &s.Tipo, &s.Estado,
		&s.Subestado, &s.EncargadoA, &s.ImagenesDiseno,
		&s.FechaPresupuesto, &s.FechaRespuesta, &s.FechaAceptado, &s.FechaMockup,
		&s.FechaEnPreparacion, &s.FechaTerminado, &s.FechaEntregadoCliente,
		&s.FechaLimiteMockup, &s.FechaObjetivo, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
