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

var _ repository.FacturaRepository = (*FacturaRepo)(nil)

// FacturaRepo implementación de FacturaRepository para facturas, albaranes y
// tickets (comparten tabla; el tipo los distingue).
type FacturaRepo struct {
	q Querier
}

// NewFacturaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFacturaRepository(q Querier) *FacturaRepo {
	return &FacturaRepo{q: q}
}

const columnasFactura = `
	id, tipo, COALESCE(numero, ''), cliente_id, pedido_id, fecha, estado,
	base_total, cuota_total, total,
	COALESCE(verifactu_estado, ''), COALESCE(huella, ''), COALESCE(huella_anterior, ''),
	COALESCE(registro_xml, ''), COALESCE(csv, ''), COALESCE(errores_verifactu, ''),
	created_at, updated_at`

// Crear persiste la cabecera del documento.
func (r *FacturaRepo) Crear(ctx context.Context, f *entity.Factura) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	query := `
		INSERT INTO facturas (id, tipo, numero, cliente_id, pedido_id, fecha, estado,
			base_total, cuota_total, total, verifactu_estado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		f.ID, f.Tipo, nullIfEmpty(f.Numero), f.ClienteID, f.PedidoID, f.Fecha, f.Estado,
		f.BaseTotal, f.CuotaTotal, f.Total, nullIfEmpty(f.VerifactuEstado),
		f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("número de documento duplicado: %w", err)
		}
		return fmt.Errorf("insert factura: %w", err)
	}
	return nil
}

// CrearLinea persiste una línea de detalle.
func (r *FacturaRepo) CrearLinea(ctx context.Context, l *entity.LineaFactura) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	query := `
		INSERT INTO factura_lineas (id, factura_id, concepto, cantidad, precio_unitario, tipo_iva, base)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.FacturaID, l.Concepto, l.Cantidad, l.PrecioUnit, l.TipoIVA, l.Base,
	)
	if err != nil {
		return fmt.Errorf("insert linea factura: %w", err)
	}
	return nil
}

// Actualizar persiste número, estado, totales y campos Verifactu.
func (r *FacturaRepo) Actualizar(ctx context.Context, f *entity.Factura) error {
	query := `
		UPDATE facturas
		SET numero            = COALESCE($2, numero),
		    fecha             = $3,
		    estado            = $4,
		    base_total        = $5,
		    cuota_total       = $6,
		    total             = $7,
		    verifactu_estado  = $8,
		    huella            = COALESCE($9, huella),
		    huella_anterior   = COALESCE($10, huella_anterior),
		    registro_xml      = COALESCE($11, registro_xml),
		    csv               = COALESCE($12, csv),
		    errores_verifactu = $13,
		    updated_at        = $14
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		f.ID, nullIfEmpty(f.Numero), f.Fecha, f.Estado,
		f.BaseTotal, f.CuotaTotal, f.Total,
		nullIfEmpty(f.VerifactuEstado), nullIfEmpty(f.Huella), nullIfEmpty(f.HuellaAnterior),
		nullIfEmpty(f.RegistroXML), nullIfEmpty(f.CSV), nullIfEmpty(f.ErroresVerifactu),
		f.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("número de documento duplicado: %w", err)
		}
		return fmt.Errorf("update factura: %w", err)
	}
	return nil
}

// ObtenerPorID obtiene un documento por ID, sin líneas (nil si no existe).
func (r *FacturaRepo) ObtenerPorID(ctx context.Context, id string) (*entity.Factura, error) {
	query := `SELECT ` + columnasFactura + ` FROM facturas WHERE id = $1`
	f, err := r.escanearFactura(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get factura: %w", err)
	}
	return f, nil
}

// Listar devuelve documentos sin líneas, del más reciente al más antiguo.
func (r *FacturaRepo) Listar(ctx context.Context, filtro repository.FiltroFacturas) ([]*entity.Factura, error) {
	query := `SELECT ` + columnasFactura + `
		FROM facturas
		WHERE ($1 = '' OR tipo = $1)
		  AND ($2 = '' OR estado = $2)
		  AND ($3::bigint IS NULL OR cliente_id = $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5`
	limit := filtro.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.q.Query(ctx, query, filtro.Tipo, filtro.Estado, filtro.ClienteID, limit, filtro.Offset)
	if err != nil {
		return nil, fmt.Errorf("list facturas: %w", err)
	}
	defer rows.Close()

	var list []*entity.Factura
	for rows.Next() {
		f, err := r.escanearFactura(rows)
		if err != nil {
			return nil, fmt.Errorf("scan factura: %w", err)
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

// LineasPorFactura obtiene todas las líneas de un documento.
func (r *FacturaRepo) LineasPorFactura(ctx context.Context, facturaID string) ([]*entity.LineaFactura, error) {
	query := `
		SELECT id, factura_id, concepto, cantidad, precio_unitario, tipo_iva, base
		FROM factura_lineas WHERE factura_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, facturaID)
	if err != nil {
		return nil, fmt.Errorf("list lineas factura: %w", err)
	}
	defer rows.Close()

	var list []*entity.LineaFactura
	for rows.Next() {
		var l entity.LineaFactura
		if err := rows.Scan(&l.ID, &l.FacturaID, &l.Concepto, &l.Cantidad,
			&l.PrecioUnit, &l.TipoIVA, &l.Base); err != nil {
			return nil, fmt.Errorf("scan linea factura: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// UltimaHuella devuelve la huella del último registro Verifactu emitido
// (cadena vacía si aún no hay ninguno).
func (r *FacturaRepo) UltimaHuella(ctx context.Context) (string, error) {
	query := `
		SELECT huella FROM facturas
		WHERE huella IS NOT NULL AND huella <> ''
		ORDER BY updated_at DESC, id DESC
		LIMIT 1`
	var huella string
	err := r.q.QueryRow(ctx, query).Scan(&huella)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get última huella: %w", err)
	}
	return huella, nil
}

// NumerosExistentes devuelve todos los números asignados, para sembrar los
// contadores a partir de documentos históricos.
func (r *FacturaRepo) NumerosExistentes(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT numero FROM facturas WHERE numero IS NOT NULL AND numero <> ''`)
	if err != nil {
		return nil, fmt.Errorf("list números: %w", err)
	}
	defer rows.Close()

	var nums []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan número: %w", err)
		}
		nums = append(nums, n)
	}
	return nums, rows.Err()
}

func (r *FacturaRepo) escanearFactura(row pgx.Row) (*entity.Factura, error) {
	var f entity.Factura
	err := row.Scan(
		&f.ID, &f.Tipo, &f.Numero, &f.ClienteID, &f.PedidoID, &f.Fecha, &f.Estado,
		&f.BaseTotal, &f.CuotaTotal, &f.Total,
		&f.VerifactuEstado, &f.Huella, &f.HuellaAnterior,
		&f.RegistroXML, &f.CSV, &f.ErroresVerifactu,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
