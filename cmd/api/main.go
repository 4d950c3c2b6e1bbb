package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jmm-1987/taller-pedidos/internal/application/auth"
	"github.com/jmm-1987/taller-pedidos/internal/application/facturacion"
	"github.com/jmm-1987/taller-pedidos/internal/application/maestros"
	"github.com/jmm-1987/taller-pedidos/internal/application/pedidos"
	"github.com/jmm-1987/taller-pedidos/internal/application/solicitudes"
	"github.com/jmm-1987/taller-pedidos/internal/application/tramitacion"
	"github.com/jmm-1987/taller-pedidos/internal/infrastructure/mailer"
	infrapdf "github.com/jmm-1987/taller-pedidos/internal/infrastructure/pdf"
	"github.com/jmm-1987/taller-pedidos/internal/infrastructure/postgres"
	"github.com/jmm-1987/taller-pedidos/internal/infrastructure/verifactu"
	httpRouter "github.com/jmm-1987/taller-pedidos/internal/interfaces/http"
	"github.com/jmm-1987/taller-pedidos/pkg/config"
	"github.com/jmm-1987/taller-pedidos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios sobre el pool; los casos de uso transaccionales reciben
	// sus propias instancias atadas a tx vía TxRunner.
	solicitudRepo := postgres.NewSolicitudRepository(pool)
	pedidoRepo := postgres.NewPedidoRepository(pool)
	historialRepo := postgres.NewHistorialRepository(pool)
	facturaRepo := postgres.NewFacturaRepository(pool)
	clienteRepo := postgres.NewClienteRepository(pool)
	empleadoRepo := postgres.NewEmpleadoRepository(pool)
	prendaRepo := postgres.NewPrendaRepository(pool)
	proveedorRepo := postgres.NewProveedorRepository(pool)
	festivoRepo := postgres.NewFestivoRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	plazos := tramitacion.Plazos{
		DiasMockup:   cfg.Plazos.DiasMockup,
		DiasObjetivo: cfg.Plazos.DiasObjetivo,
	}

	// Avisos por email al cliente en los cambios de estado.
	notificador := mailer.NewSMTPNotifier(cfg.SMTP, clienteRepo, log)

	solicitudesUC := solicitudes.NuevoUseCase(
		txRunner, solicitudRepo, pedidoRepo, clienteRepo,
	)
	solicitudTramiteUC := tramitacion.NuevoSolicitudTramiteUseCase(
		txRunner, festivoRepo, historialRepo, notificador, log, plazos,
	)
	pedidosUC := pedidos.NuevoUseCase(pedidoRepo)
	pedidoTramiteUC := tramitacion.NuevoPedidoTramiteUseCase(
		txRunner, festivoRepo, historialRepo, log, plazos,
	)
	maestrosUC := maestros.NuevoUseCase(clienteRepo, prendaRepo, proveedorRepo, festivoRepo)

	// Verifactu: construcción del registro de alta, huella encadenada y envío.
	emisor := verifactu.Emisor{
		NIF:    cfg.Verifactu.EmisorNIF,
		Nombre: cfg.Verifactu.EmisorNombre,
	}
	verifactuCfg := facturacion.VerifactuConfig{
		AppEnv: cfg.Verifactu.Env,
		Emisor: emisor,
		Software: verifactu.Software{
			NombreRazon:       cfg.Verifactu.SoftwareNombreRazon,
			NIF:               cfg.Verifactu.SoftwareNIF,
			Nombre:            cfg.Verifactu.SoftwareNombre,
			ID:                cfg.Verifactu.SoftwareID,
			Version:           cfg.Verifactu.SoftwareVersion,
			NumeroInstalacion: cfg.Verifactu.NumeroInstalacion,
			SoloVerifactu:     "S",
			MultiOT:           "N",
		},
	}

	// Cliente SOAP AEAT — solo se usa si el entorno es "test" o "prod".
	// En modo "dev" el orquestador simula la aceptación.
	var submitter verifactu.Submitter
	if cfg.Verifactu.Env != "dev" && cfg.Verifactu.Env != "" {
		submitter = verifactu.NewSOAPClient(emisor, nil)
	}

	orquestador := facturacion.NewVerifactuOrchestrator(
		facturaRepo, clienteRepo, verifactu.NewRegistroBuilder(), submitter, verifactuCfg, log,
	)

	crearFacturaUC := facturacion.NewCrearFacturaUseCase(facturaRepo, clienteRepo, pedidoRepo)
	formalizarUC := facturacion.NewFormalizarUseCase(txRunner, facturaRepo, orquestador, log)

	// Arranque: alinear los contadores con los números ya emitidos, para no
	// repetir numeración tras una migración o restauración.
	if err := formalizarUC.SembrarContadores(ctx); err != nil {
		log.Fatal().Err(err).Msg("sembrar contadores de numeración")
	}

	pdfGenerator := infrapdf.NewMarotoPDFGenerator(emisor)
	pdfUC := facturacion.NewPDFUseCase(facturaRepo, solicitudRepo, clienteRepo, pdfGenerator)

	authUC := auth.NewAuthUseCase(empleadoRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Taller Pedidos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		SolicitudesUC:    solicitudesUC,
		SolicitudTramite: solicitudTramiteUC,
		PedidosUC:        pedidosUC,
		PedidoTramite:    pedidoTramiteUC,
		MaestrosUC:       maestrosUC,
		CrearFactura:     crearFacturaUC,
		Formalizar:       formalizarUC,
		PDF:              pdfUC,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
