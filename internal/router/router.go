package router

import (
	"time"

	"parqueadero/internal/config"
	"parqueadero/internal/handler"
	"parqueadero/internal/infra"
	"parqueadero/internal/middleware"
	"parqueadero/internal/repository"
	"parqueadero/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Services groups the business services shared by the HTTP layer and the workers.
type Services struct {
	Caja          service.CajaService
	Vehiculos     service.VehiculoService
	Configuracion service.ConfiguracionService
	Productos     service.ProductoService
	Ventas        service.VentaServicioService
	Reportes      service.ReporteService
}

// NewServices builds every service over db.
// Dependency graph: Service ← Repository ← DB/Redis
// cache and notifier may be nil.
func NewServices(cfg *config.Config, db *gorm.DB, cache infra.Cache, notifier service.CierreNotifier) *Services {
	// ── Repositories ─────────────────────────────────────────────────────────
	cajaRepo := repository.NewCajaRepository(db)
	ingresosRepo := repository.NewIngresosRepository(db)
	vehiculoRepo := repository.NewVehiculoRepository(db)
	facturaRepo := repository.NewFacturaRepository(db)
	configRepo := repository.NewConfiguracionRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)
	ventaRepo := repository.NewVentaServicioRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	configSvc := service.NewConfiguracionService(configRepo)
	return &Services{
		Caja: service.NewCajaService(cajaRepo, ingresosRepo, notifier),
		Vehiculos: service.NewVehiculoService(vehiculoRepo, facturaRepo, configSvc, service.VehiculoOpciones{
			TotalEspacios:     cfg.TotalEspacios,
			BloquearNoPagados: cfg.BloquearNoPagados,
			NombreNegocio:     cfg.NombreNegocio,
		}),
		Configuracion: configSvc,
		Productos:     service.NewProductoService(productoRepo, movimientoStockRepo),
		Ventas:        service.NewVentaServicioService(ventaRepo, productoRepo, movimientoStockRepo, decimal.NewFromFloat(cfg.PrecioBano)),
		Reportes:      service.NewReporteService(facturaRepo, vehiculoRepo, configSvc, cache),
	}
}

// New returns a configured Gin engine. rdb may be nil (health reports it disabled).
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, svcs *Services) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Origins()))
	r.Use(middleware.ErrorHandler())
	if cfg.RateLimitRPS > 0 {
		limiter := middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		limiter.StartPurge(5*time.Minute, nil)
		r.Use(limiter.Middleware())
	}

	// ── Handlers ─────────────────────────────────────────────────────────────
	cajaH := handler.NewCajaHandler(svcs.Caja)
	vehiculosH := handler.NewVehiculosHandler(svcs.Vehiculos)
	configH := handler.NewConfiguracionHandler(svcs.Configuracion)
	productosH := handler.NewProductosHandler(svcs.Productos)
	serviciosH := handler.NewServiciosHandler(svcs.Ventas)
	reportesH := handler.NewReportesHandler(svcs.Reportes)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		conf := v1.Group("/configuracion")
		{
			conf.GET("", configH.Obtener)
			conf.PUT("", configH.Actualizar)
			conf.GET("/tarifas", configH.Tarifas)
		}

		veh := v1.Group("/vehiculos")
		{
			veh.GET("/espacios", vehiculosH.Espacios)
			veh.POST("/entrada", vehiculosH.Entrada)
			veh.POST("/salida", vehiculosH.Salida)
			veh.GET("/buscar/:placa", vehiculosH.Buscar)
			veh.GET("/historial", vehiculosH.Historial)
			veh.GET("/facturas/:id", vehiculosH.Factura)
			veh.GET("/facturas/:id/pdf", vehiculosH.FacturaPDF)
			veh.GET("/:placa/ticket", vehiculosH.Ticket)
		}

		caja := v1.Group("/caja")
		{
			caja.GET("/estado", cajaH.Estado)
			caja.POST("/abrir", cajaH.Abrir)
			caja.POST("/cerrar", cajaH.Cerrar)
			caja.GET("/resumen", cajaH.Resumen)
			caja.GET("/historial", cajaH.Historial)
			caja.GET("/movimientos", cajaH.Movimientos)
			caja.POST("/agregar-efectivo", cajaH.AgregarEfectivo)
			caja.POST("/egreso", cajaH.Egreso)
			caja.GET("/:id", cajaH.ObtenerPorID)
		}

		prods := v1.Group("/productos")
		{
			prods.GET("", productosH.Listar)
			prods.POST("", productosH.Crear)
			prods.GET("/:id", productosH.ObtenerPorID)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.POST("/:id/stock", productosH.AjustarStock)
			prods.GET("/:id/movimientos", productosH.Movimientos)
		}

		serv := v1.Group("/servicios")
		{
			serv.POST("/ventas", serviciosH.CrearVenta)
			serv.GET("/ventas", serviciosH.ListarVentas)
			serv.GET("/ventas/:id", serviciosH.ObtenerVenta)
			serv.GET("/reporte/diario", serviciosH.ReporteDiario)
		}

		rep := v1.Group("/reportes")
		{
			rep.GET("/diario", reportesH.Diario)
			rep.GET("/detallado", reportesH.Detallado)
			rep.GET("/no-pagados", reportesH.NoPagados)
			rep.GET("/facturas.xlsx", reportesH.FacturasXLSX)
		}
	}

	// Swagger UI outside production only
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
