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

var _ repository.PedidoRepository = (*PedidoRepo)(nil)

// PedidoRepo implementación de PedidoRepository (usable con pool o tx).
type PedidoRepo struct {
	q Querier
}

// NewPedidoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPedidoRepository(q Querier) *PedidoRepo {
	return &PedidoRepo{q: q}
}

const columnasPedido = `
	id, solicitud_id, cliente_id, comercial_id, tipo, estado, imagenes_diseno,
	fecha_pendiente, fecha_diseno, fecha_en_preparacion, fecha_todo_listo,
	fecha_enviado, fecha_entregado_cliente, fecha_aceptacion, fecha_objetivo,
	created_at, updated_at`

// Crear persiste el pedido y sus líneas.
func (r *PedidoRepo) Crear(ctx context.Context, p *entity.Pedido) error {
	query := `
		INSERT INTO pedidos (solicitud_id, cliente_id, comercial_id, tipo, estado,
			imagenes_diseno, fecha_pendiente, fecha_aceptacion, fecha_objetivo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		p.SolicitudID, p.ClienteID, p.ComercialID, p.Tipo, p.Estado,
		p.ImagenesDiseno, p.FechaPendiente, p.FechaAceptacion, p.FechaObjetivo,
		p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert pedido: %w", err)
	}
	for _, l := range p.Lineas {
		l.PedidoID = p.ID
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		lineaQuery := `
			INSERT INTO pedido_lineas (id, pedido_id, prenda_id, nombre, cantidad,
				color, forma, tallas, precio_unitario, estado)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
		if _, err := r.q.Exec(ctx, lineaQuery,
			l.ID, l.PedidoID, l.PrendaID, l.Nombre, l.Cantidad,
			l.Color, l.Forma, l.Tallas, l.PrecioUnit, l.Estado,
		); err != nil {
			return fmt.Errorf("insert linea pedido: %w", err)
		}
	}
	return nil
}

// Actualizar persiste estado, imágenes y todas las fechas del pedido.
func (r *PedidoRepo) Actualizar(ctx context.Context, p *entity.Pedido) error {
	query := `
		UPDATE pedidos
		SET estado                  = $2,
		    imagenes_diseno         = $3,
		    fecha_pendiente         = $4,
		    fecha_diseno            = $5,
		    fecha_en_preparacion    = $6,
		    fecha_todo_listo        = $7,
		    fecha_enviado           = $8,
		    fecha_entregado_cliente = $9,
		    fecha_aceptacion        = $10,
		    fecha_objetivo          = $11,
		    updated_at              = $12
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Estado, p.ImagenesDiseno,
		p.FechaPendiente, p.FechaDiseno, p.FechaEnPreparacion, p.FechaTodoListo,
		p.FechaEnviado, p.FechaEntregadoCliente, p.FechaAceptacion, p.FechaObjetivo,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update pedido: %w", err)
	}
	return nil
}

// ObtenerPorID devuelve el pedido con sus líneas (nil si no existe).
func (r *PedidoRepo) ObtenerPorID(ctx context.Context, id int64) (*entity.Pedido, error) {
	query := `SELECT ` + columnasPedido + ` FROM pedidos WHERE id = $1`
	return r.obtenerUno(ctx, query, id)
}

// ObtenerPorSolicitud búsqueda inversa solicitud→pedido (nil si no hay).
func (r *PedidoRepo) ObtenerPorSolicitud(ctx context.Context, solicitudID int64) (*entity.Pedido, error) {
	query := `SELECT ` + columnasPedido + ` FROM pedidos WHERE solicitud_id = $1 ORDER BY id DESC LIMIT 1`
	return r.obtenerUno(ctx, query, solicitudID)
}

func (r *PedidoRepo) obtenerUno(ctx context.Context, query string, arg any) (*entity.Pedido, error) {
	p, err := r.escanearPedido(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pedido: %w", err)
	}
	lineas, err := r.lineasDe(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Lineas = lineas
	return p, nil
}

// Listar devuelve pedidos sin líneas, de más reciente a más antiguo.
func (r *PedidoRepo) Listar(ctx context.Context, filtro repository.FiltroPedidos) ([]*entity.Pedido, error) {
	query := `SELECT ` + columnasPedido + `
		FROM pedidos
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
		return nil, fmt.Errorf("list pedidos: %w", err)
	}
	defer rows.Close()

	var list []*entity.Pedido
	for rows.Next() {
		p, err := r.escanearPedido(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pedido: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ObtenerLinea devuelve una línea por su uuid (nil si no existe).
func (r *PedidoRepo) ObtenerLinea(ctx context.Context, lineaID string) (*entity.LineaPedido, error) {
	query := `
		SELECT id, pedido_id, prenda_id, nombre, cantidad, color, forma, tallas,
		       precio_unitario, estado
		FROM pedido_lineas WHERE id = $1`
	var l entity.LineaPedido
	err := r.q.QueryRow(ctx, query, lineaID).Scan(
		&l.ID, &l.PedidoID, &l.PrendaID, &l.Nombre, &l.Cantidad,
		&l.Color, &l.Forma, &l.Tallas, &l.PrecioUnit, &l.Estado,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get linea pedido: %w", err)
	}
	return &l, nil
}

// ActualizarLinea persiste el estado de confección de la línea.
func (r *PedidoRepo) ActualizarLinea(ctx context.Context, l *entity.LineaPedido) error {
	_, err := r.q.Exec(ctx, `UPDATE pedido_lineas SET estado = $2 WHERE id = $1`, l.ID, l.Estado)
	if err != nil {
		return fmt.Errorf("update linea pedido: %w", err)
	}
	return nil
}

func (r *PedidoRepo) lineasDe(ctx context.Context, pedidoID int64) ([]*entity.LineaPedido, error) {
	query := `
		SELECT id, pedido_id, prenda_id, nombre, cantidad, color, forma, tallas,
		       precio_unitario, estado
		FROM pedido_lineas WHERE pedido_id = $1 ORDER BY nombre, id`
	rows, err := r.q.Query(ctx, query, pedidoID)
	if err != nil {
		return nil, fmt.Errorf("list lineas pedido: %w", err)
	}
	defer rows.Close()

	var list []*entity.LineaPedido
	for rows.Next() {
		var l entity.LineaPedido
		if err := rows.Scan(&l.ID, &l.PedidoID, &l.PrendaID, &l.Nombre, &l.Cantidad,
			&l.Color, &l.Forma, &l.Tallas, &l.PrecioUnit, &l.Estado); err != nil {
			return nil, fmt.Errorf("scan linea pedido: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

func (r *PedidoRepo) escanearPedido(row pgx.Row) (*entity.Pedido, error) {
	var p entity.Pedido
	err := row.Scan(
		&p.ID, &p.SolicitudID, &p.ClienteID, &p.ComercialID, &p.Tipo, &p.Estado, &p.ImagenesDiseno,
		&p.FechaPendiente, &p.FechaDiseno, &p.FechaEnPreparacion, &p.FechaTodoListo,
		&p.FechaEnviado, &p.FechaEntregadoCliente, &p.FechaAceptacion, &p.FechaObjetivo,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
