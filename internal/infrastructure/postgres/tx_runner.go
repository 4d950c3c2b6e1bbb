package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jmm-1987/taller-pedidos/internal/application/facturacion"
	"github.com/jmm-1987/taller-pedidos/internal/application/solicitudes"
	"github.com/jmm-1987/taller-pedidos/internal/application/tramitacion"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
)

// Ensure TxRunner implements the application transaction ports.
var _ tramitacion.TxRunner = (*TxRunner)(nil)
var _ facturacion.TxRunner = (*TxRunner)(nil)
var _ solicitudes.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunTramite inicia una transacción con los repos de tramitación atados a la
// tx y hace Commit o Rollback. Las transiciones de estado escriben solicitud
// o pedido, historial y el pedido generado en una sola unidad atómica.
//
// aislar abre una subtransacción (SAVEPOINT) sobre la misma tx: un INSERT
// fallido deja la transacción de PostgreSQL en estado abortado (25P02), y
// solo el ROLLBACK TO SAVEPOINT permite seguir escribiendo después.
func (r *TxRunner) RunTramite(ctx context.Context, fn func(
	solRepo repository.SolicitudRepository,
	pedRepo repository.PedidoRepository,
	histRepo repository.HistorialRepository,
	aislar tramitacion.Aislar,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	aislar := func(ctx context.Context, fn func() error) error {
		sp, err := tx.Begin(ctx)
		if err != nil {
			return fmt.Errorf("savepoint: %w", err)
		}
		if err := fn(); err != nil {
			_ = sp.Rollback(ctx)
			return err
		}
		return sp.Commit(ctx)
	}

	if err := fn(NewSolicitudRepository(tx), NewPedidoRepository(tx), NewHistorialRepository(tx), aislar); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunAlta inicia una transacción con el repo de solicitudes y el contador
// mensual: el número YYMM_NN solo se consume si la solicitud se persiste.
func (r *TxRunner) RunAlta(ctx context.Context, fn func(
	solRepo repository.SolicitudRepository,
	contador repository.ContadorRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewSolicitudRepository(tx), NewContadorRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunFacturacion inicia una transacción con el repo de facturación y el
// contador de numeración: un número consumido sin documento persistido sería
// un hueco en la serie.
func (r *TxRunner) RunFacturacion(ctx context.Context, fn func(
	facRepo repository.FacturaRepository,
	contador repository.ContadorRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewFacturaRepository(tx), NewContadorRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
