package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jmm-1987/taller-pedidos/internal/application/auth"
	"github.com/jmm-1987/taller-pedidos/internal/application/facturacion"
	"github.com/jmm-1987/taller-pedidos/internal/application/maestros"
	"github.com/jmm-1987/taller-pedidos/internal/application/pedidos"
	"github.com/jmm-1987/taller-pedidos/internal/application/solicitudes"
	"github.com/jmm-1987/taller-pedidos/internal/application/tramitacion"
	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	SolicitudesUC    *solicitudes.UseCase
	SolicitudTramite *tramitacion.SolicitudTramiteUseCase
	PedidosUC        *pedidos.UseCase
	PedidoTramite    *tramitacion.PedidoTramiteUseCase
	MaestrosUC       *maestros.UseCase
	CrearFactura     *facturacion.CrearFacturaUseCase
	Formalizar       *facturacion.FormalizarUseCase
	PDF              *facturacion.PDFUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth: login público; el alta de empleados queda para admins.
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Post("/auth/register", RequireRole(entity.RolAdmin), authHandler.Register)

	// Solicitudes / presupuestos
	solHandler := NewSolicitudHandler(deps.SolicitudesUC, deps.SolicitudTramite, deps.PDF)
	sol := protected.Group("/solicitudes")
	sol.Post("/", solHandler.Create)
	sol.Get("/", solHandler.List)
	sol.Get("/:id", solHandler.GetByID)
	sol.Put("/:id", solHandler.Update)
	sol.Post("/:id/tramitar", solHandler.Tramitar)
	sol.Get("/:id/historial", solHandler.Historial)
	sol.Get("/:id/pedido", solHandler.Pedido)
	sol.Get("/:id/pdf", solHandler.PDF)

	// Pedidos en producción
	pedHandler := NewPedidoHandler(deps.PedidosUC, deps.PedidoTramite)
	ped := protected.Group("/pedidos")
	ped.Get("/", pedHandler.List)
	ped.Get("/:id", pedHandler.GetByID)
	ped.Post("/:id/tramitar", pedHandler.Tramitar)
	ped.Post("/:id/lineas/:lineaID/tramitar", pedHandler.TramitarLinea)
	ped.Get("/:id/historial", pedHandler.Historial)

	// Facturación: borradores los crea cualquiera; formalizar y anular
	// quedan para admin y comercial.
	facHandler := NewFacturaHandler(deps.CrearFactura, deps.Formalizar, deps.PDF)
	fac := protected.Group("/facturas")
	fac.Post("/", facHandler.Create)
	fac.Get("/", facHandler.List)
	fac.Get("/:id", facHandler.GetByID)
	fac.Post("/:id/formalizar", RequireRole(entity.RolAdmin, entity.RolComercial), facHandler.Formalizar)
	fac.Post("/:id/anular", RequireRole(entity.RolAdmin, entity.RolComercial), facHandler.Anular)
	fac.Get("/:id/pdf", facHandler.PDF)

	// Maestros
	clienteHandler := NewClienteHandler(deps.MaestrosUC)
	clientes := protected.Group("/clientes")
	clientes.Post("/", clienteHandler.Create)
	clientes.Get("/", clienteHandler.Search)
	clientes.Get("/:id", clienteHandler.GetByID)
	clientes.Put("/:id", clienteHandler.Update)

	maestrosHandler := NewMaestrosHandler(deps.MaestrosUC)
	prendas := protected.Group("/prendas")
	prendas.Post("/", maestrosHandler.CreatePrenda)
	prendas.Get("/", maestrosHandler.ListPrendas)
	prendas.Put("/:id", maestrosHandler.UpdatePrenda)

	proveedores := protected.Group("/proveedores")
	proveedores.Post("/", maestrosHandler.CreateProveedor)
	proveedores.Get("/", maestrosHandler.ListProveedores)

	// El calendario laborable afecta a los plazos de toda la casa; solo admin.
	festivos := protected.Group("/festivos", RequireRole(entity.RolAdmin))
	festivos.Post("/", maestrosHandler.CreateFestivo)
	festivos.Get("/", maestrosHandler.ListFestivos)
	festivos.Put("/:id/activo", maestrosHandler.ActivarFestivo)
}
