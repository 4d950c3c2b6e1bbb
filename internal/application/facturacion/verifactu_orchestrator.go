package facturacion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
	"github.com/jmm-1987/taller-pedidos/internal/infrastructure/verifactu"
	"github.com/jmm-1987/taller-pedidos/pkg/logger"
)

// VerifactuOrchestrator orquesta el ciclo completo de alta en Verifactu:
//
//	Huella encadenada → XML RegistroAlta → Envío SOAP → Update DB
//
// Se ejecuta siempre en goroutine independiente (ProcessAsync) con su propio
// context.Background() + timeout 30 s, desacoplado del ciclo HTTP.
//
// Modos de operación (controlados por VerifactuConfig.AppEnv):
//   - "dev"  → Genera el registro y la huella, NO envía al WS. Estado final: ACEPTADA (mock).
//   - "test" → Envía al entorno de pruebas prewww1.aeat.es.
//   - "prod" → Envía al entorno de producción www1.agenciatributaria.gob.es.
type VerifactuOrchestrator struct {
	facturaRepo repository.FacturaRepository
	clienteRepo repository.ClienteRepository
	builder     *verifactu.RegistroBuilder
	submitter   verifactu.Submitter // cliente SOAP; nil en dev
	cfg         VerifactuConfig
	log         *logger.Logger
	ahora       func() time.Time
}

// NewVerifactuOrchestrator construye el orquestador con todas sus dependencias.
// submitter puede ser nil: en ese caso el modo dev es el único que funciona.
func NewVerifactuOrchestrator(
	facturaRepo repository.FacturaRepository,
	clienteRepo repository.ClienteRepository,
	builder *verifactu.RegistroBuilder,
	submitter verifactu.Submitter,
	cfg VerifactuConfig,
	log *logger.Logger,
) *VerifactuOrchestrator {
	return &VerifactuOrchestrator{
		facturaRepo: facturaRepo,
		clienteRepo: clienteRepo,
		builder:     builder,
		submitter:   submitter,
		cfg:         cfg,
		log:         log,
		ahora:       time.Now,
	}
}

// ConReloj fija el reloj; para tests.
func (o *VerifactuOrchestrator) ConReloj(fn func() time.Time) *VerifactuOrchestrator {
	o.ahora = fn
	return o
}

// ProcessAsync dispara el procesamiento Verifactu en una goroutine
// independiente. facturaID es el ID del documento ya formalizado.
func (o *VerifactuOrchestrator) ProcessAsync(facturaID string) {
	go o.Process(facturaID)
}

// Process es el núcleo síncrono del orquestador. Siempre termina actualizando
// verifactu_estado en la DB (ACEPTADA, RECHAZADA o ERROR_GENERACION).
// Exportado para poder invocarlo de forma síncrona en reintentos y tests.
func (o *VerifactuOrchestrator) Process(facturaID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// markError actualiza el documento a ERROR_GENERACION y registra el problema.
	markError := func(f *entity.Factura, paso, msg string) {
		f.VerifactuEstado = entity.VerifactuErrorGeneracion
		f.ErroresVerifactu = msg
		f.UpdatedAt = o.ahora()
		if err := o.facturaRepo.Actualizar(ctx, f); err != nil {
			o.log.Error().Str("factura_id", facturaID).Err(err).
				Msg("verifactu: no se pudo persistir ERROR_GENERACION")
		}
		o.log.Error().Str("factura_id", facturaID).Str("paso", paso).Str("detalle", msg).
			Msg("verifactu: procesamiento fallido")
	}

	// Re-fetch datos frescos (evita data races con el goroutine HTTP)
	f, err := o.facturaRepo.ObtenerPorID(ctx, facturaID)
	if err != nil || f == nil {
		o.log.Error().Str("factura_id", facturaID).Err(err).Msg("verifactu: documento no encontrado")
		return
	}
	if f.VerifactuEstado != entity.VerifactuPendiente {
		o.log.Warn().Str("factura_id", facturaID).Str("estado", f.VerifactuEstado).
			Msg("verifactu: estado inesperado (¿ya procesado?), saltando")
		return
	}

	cliente, err := o.clienteRepo.ObtenerPorID(ctx, f.ClienteID)
	if err != nil || cliente == nil {
		markError(f, "fetch-cliente", fmt.Sprintf("cliente %d no encontrado: %v", f.ClienteID, err))
		return
	}

	if len(f.Lineas) == 0 {
		lineas, lErr := o.facturaRepo.LineasPorFactura(ctx, facturaID)
		if lErr != nil {
			markError(f, "fetch-lineas", lErr.Error())
			return
		}
		f.Lineas = lineas
	}

	// La huella de cada registro encadena con la del anterior emitido.
	huellaAnterior, err := o.facturaRepo.UltimaHuella(ctx)
	if err != nil {
		markError(f, "fetch-huella", fmt.Sprintf("consultar última huella: %v", err))
		return
	}

	gen, err := o.builder.Build(&verifactu.RegistroBuildContext{
		Factura:        f,
		Cliente:        cliente,
		Emisor:         o.cfg.Emisor,
		Software:       o.cfg.Software,
		HuellaAnterior: huellaAnterior,
		FechaHoraGen:   o.ahora(),
	})
	if err != nil {
		markError(f, "xml-build", err.Error())
		return
	}

	// Persistir como GENERADA: registro y huella disponibles aunque el envío falle.
	f.Huella = gen.Huella
	f.HuellaAnterior = huellaAnterior
	f.RegistroXML = string(gen.XML)
	f.VerifactuEstado = entity.VerifactuGenerada
	f.UpdatedAt = o.ahora()
	if err := o.facturaRepo.Actualizar(ctx, f); err != nil {
		o.log.Error().Str("factura_id", facturaID).Err(err).Msg("verifactu: error persistiendo GENERADA")
		return
	}

	appEnv := strings.ToLower(strings.TrimSpace(o.cfg.AppEnv))

	var estadoFinal, csv, errores string

	switch appEnv {
	case verifactu.AppEnvDev, "":
		// ── Modo desarrollo: simular respuesta, no enviar ──────────────────
		o.log.Info().Str("factura_id", facturaID).Int("bytes", len(gen.XML)).
			Msg("verifactu: [DEV] simulando envío a la AEAT")
		csv = "DEV-" + gen.Huella[:12]
		estadoFinal = entity.VerifactuAceptada

	case verifactu.AppEnvTest, verifactu.AppEnvProd:
		// ── Modo test/prod: llamada real al WS de la AEAT ──────────────────
		if o.submitter == nil {
			markError(f, "soap", "Submitter no inyectado para entorno "+appEnv)
			return
		}
		f.VerifactuEstado = entity.VerifactuEnviada
		f.UpdatedAt = o.ahora()
		_ = o.facturaRepo.Actualizar(ctx, f)

		result, soapErr := o.submitter.EnviarRegistro(ctx, gen.XML, appEnv)
		if soapErr != nil {
			markError(f, "soap", soapErr.Error())
			return
		}
		csv = result.CSV
		errores = result.Errores
		if result.Aceptada {
			estadoFinal = entity.VerifactuAceptada
			o.log.Info().Str("factura_id", facturaID).Str("csv", csv).
				Msg("verifactu: registro aceptado por la AEAT")
		} else {
			estadoFinal = entity.VerifactuRechazada
			o.log.Warn().Str("factura_id", facturaID).Str("errores", errores).
				Msg("verifactu: registro rechazado por la AEAT")
		}

	default:
		markError(f, "config", fmt.Sprintf("VERIFACTU_ENV desconocido: %q (usar dev|test|prod)", appEnv))
		return
	}

	f.VerifactuEstado = estadoFinal
	f.CSV = csv
	f.ErroresVerifactu = errores
	f.UpdatedAt = o.ahora()

	if err := o.facturaRepo.Actualizar(ctx, f); err != nil {
		o.log.Error().Str("factura_id", facturaID).Str("estado", estadoFinal).Err(err).
			Msg("verifactu: error persistiendo estado final")
		return
	}

	o.log.Info().Str("factura_id", facturaID).Str("estado", estadoFinal).Str("csv", csv).
		Msg("verifactu: documento procesado")
}
