package facturacion

import (
	"context"
	"fmt"
	"time"

	"github.com/jmm-1987/taller-pedidos/internal/application/dto"
	"github.com/jmm-1987/taller-pedidos/internal/domain"
	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/domain/numeracion"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
	"github.com/jmm-1987/taller-pedidos/pkg/logger"
)

// FormalizarUseCase asigna número definitivo a un documento en borrador y,
// para facturas y tickets, dispara el envío a Verifactu. El número y el
// cambio de estado se persisten en la misma transacción que el incremento
// del contador: no puede quedar un número consumido sin documento.
type FormalizarUseCase struct {
	txRunner    TxRunner
	facturaRepo repository.FacturaRepository
	orquestador *VerifactuOrchestrator // nil si Verifactu no está configurado
	log         *logger.Logger
	ahora       func() time.Time
}

// NewFormalizarUseCase construye el caso de uso. orquestador puede ser nil:
// los documentos quedan formalizados con Verifactu en PENDIENTE.
func NewFormalizarUseCase(
	txRunner TxRunner,
	facturaRepo repository.FacturaRepository,
	orquestador *VerifactuOrchestrator,
	log *logger.Logger,
) *FormalizarUseCase {
	return &FormalizarUseCase{
		txRunner:    txRunner,
		facturaRepo: facturaRepo,
		orquestador: orquestador,
		log:         log,
		ahora:       time.Now,
	}
}

// ConReloj fija el reloj; para tests.
func (uc *FormalizarUseCase) ConReloj(fn func() time.Time) *FormalizarUseCase {
	uc.ahora = fn
	return uc
}

// Formalizar asigna el número al documento según su clase y lo pasa a
// formalizada. Un documento ya formalizado o anulado no se renumera.
func (uc *FormalizarUseCase) Formalizar(ctx context.Context, id string) (*dto.FacturaResponse, error) {
	var formalizada *entity.Factura

	err := uc.txRunner.RunFacturacion(ctx, func(
		facRepo repository.FacturaRepository,
		contador repository.ContadorRepository,
	) error {
		f, err := facRepo.ObtenerPorID(ctx, id)
		if err != nil {
			return err
		}
		if f == nil {
			return domain.ErrNoEncontrado
		}
		if f.Estado != entity.FacturaPendiente || f.Numero != "" {
			return fmt.Errorf("%w: el documento %s está en estado %s", domain.ErrFacturaYaFormalizada, id, f.Estado)
		}

		clase, err := claseDe(f.Tipo)
		if err != nil {
			return err
		}
		now := uc.ahora()
		numero, err := numeracion.NuevoServicio(contador).Siguiente(ctx, clase, now)
		if err != nil {
			return err
		}

		f.Numero = numero
		f.Fecha = now
		f.Estado = entity.FacturaFormalizada
		if f.Tipo != entity.DocAlbaran {
			f.VerifactuEstado = entity.VerifactuPendiente
		}
		f.UpdatedAt = now
		if err := facRepo.Actualizar(ctx, f); err != nil {
			return err
		}
		formalizada = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("factura_id", formalizada.ID).
		Str("numero", formalizada.Numero).
		Str("tipo", string(formalizada.Tipo)).
		Msg("documento formalizado")

	// El envío a la AEAT va fuera de la transacción y del ciclo HTTP.
	if uc.orquestador != nil && formalizada.Tipo != entity.DocAlbaran {
		uc.orquestador.ProcessAsync(formalizada.ID)
	}

	if len(formalizada.Lineas) == 0 {
		lineas, err := uc.facturaRepo.LineasPorFactura(ctx, formalizada.ID)
		if err == nil {
			formalizada.Lineas = lineas
		}
	}
	return dto.NuevaFacturaResponse(formalizada), nil
}

// Anular marca el documento como anulado. Los documentos formalizados
// conservan su número: la serie no se reutiliza.
func (uc *FormalizarUseCase) Anular(ctx context.Context, id string) (*dto.FacturaResponse, error) {
	f, err := uc.facturaRepo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNoEncontrado
	}
	if f.Estado == entity.FacturaAnulada {
		return dto.NuevaFacturaResponse(f), nil
	}
	f.Estado = entity.FacturaAnulada
	f.UpdatedAt = uc.ahora()
	if err := uc.facturaRepo.Actualizar(ctx, f); err != nil {
		return nil, err
	}
	uc.log.Info().Str("factura_id", f.ID).Str("numero", f.Numero).Msg("documento anulado")
	return dto.NuevaFacturaResponse(f), nil
}

// claseDe mapea el tipo de documento a su clase de numeración.
func claseDe(tipo entity.TipoDocumento) (numeracion.Clase, error) {
	switch tipo {
	case entity.DocFactura:
		return numeracion.ClaseFactura, nil
	case entity.DocTicket:
		return numeracion.ClaseTicket, nil
	case entity.DocAlbaran:
		return numeracion.ClaseAlbaran, nil
	}
	return "", fmt.Errorf("%w: tipo de documento %q", domain.ErrEntradaInvalida, tipo)
}

// SembrarContadores inicializa los contadores del periodo actual a partir de
// los números ya asignados. Idempotente: Sembrar solo sube el contador.
func (uc *FormalizarUseCase) SembrarContadores(ctx context.Context) error {
	numeros, err := uc.facturaRepo.NumerosExistentes(ctx)
	if err != nil {
		return fmt.Errorf("leer números existentes: %w", err)
	}
	now := uc.ahora()

	return uc.txRunner.RunFacturacion(ctx, func(
		_ repository.FacturaRepository,
		contador repository.ContadorRepository,
	) error {
		for _, clase := range []numeracion.Clase{numeracion.ClaseFactura, numeracion.ClaseTicket, numeracion.ClaseAlbaran} {
			periodo := clase.Periodo(now)
			max := numeracion.MaxSufijo(numeros, clase.Prefijo(periodo))
			if max == 0 {
				continue
			}
			if err := contador.Sembrar(ctx, clase, periodo, max); err != nil {
				return fmt.Errorf("sembrar %s/%s: %w", clase, periodo, err)
			}
		}
		return nil
	})
}
