package http

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appanalytics "github.com/jhoicas/inventory-core/internal/application/analytics"
	"github.com/jhoicas/inventory-core/internal/application/audit"
	"github.com/jhoicas/inventory-core/internal/application/auth"
	"github.com/jhoicas/inventory-core/internal/application/forecast"
	"github.com/jhoicas/inventory-core/internal/application/inventory"
	"github.com/jhoicas/inventory-core/internal/application/purchasing"
	"github.com/jhoicas/inventory-core/internal/application/usecase"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProductUC   *usecase.ProductUseCase
	LabelUC     *usecase.LabelUseCase
	CategoryUC  *usecase.CategoryUseCase
	SupplierUC  *usecase.SupplierUseCase
	WarehouseUC *usecase.WarehouseUseCase
	Ledger      *inventory.StockLedgerUseCase
	Orders      *purchasing.PurchaseOrderUseCase
	Reorder     *inventory.ReorderUseCase
	Forecast    *forecast.ForecastUseCase
	DashboardUC *appanalytics.DashboardUseCase
	ReportUC    *appanalytics.StockReportUseCase
	AuditUC     *audit.AuditUseCase
	JWTSecret   string
}

// AppConfig opciones del servidor HTTP.
type AppConfig struct {
	Name        string
	Env         string
	SwaggerFile string                      // se monta /docs solo si el archivo existe
	Gatherer    prometheus.Gatherer         // nil = sin /metrics
	Ready       func(context.Context) error // chequeo de /health; nil = siempre ok
}

// NewApp crea la aplicación Fiber con middlewares, /health, /metrics, /docs y las rutas de la API.
func NewApp(cfg AppConfig, deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	if cfg.Env == "development" {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
		}))
	}

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.SwaggerFile != "" {
		if _, err := os.Stat(cfg.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.SwaggerFile,
				Path:     "docs",
				Title:    "Inventory Core API",
			}))
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if cfg.Ready != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := cfg.Ready(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down", "service": cfg.Name})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.Name})
	})
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	managers := RequireRole(entity.RoleAdmin, entity.RoleManager)

	// Auth: registro y login públicos; /me protegido
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", OptionalAuth(deps.JWTSecret), authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.LabelUC)
	products.Get("/", productHandler.List)
	products.Get("/search", productHandler.Search)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/barcode", productHandler.Barcode)
	products.Post("/", managers, productHandler.Create)
	products.Put("/:id", managers, productHandler.Update)
	products.Delete("/:id", managers, productHandler.Delete)

	// Categories
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", managers, categoryHandler.Create)

	// Suppliers
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/", managers, supplierHandler.Create)
	suppliers.Put("/:id", managers, supplierHandler.Update)
	suppliers.Delete("/:id", managers, supplierHandler.Delete)

	// Warehouses
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC, deps.Ledger)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Get("/:id/stock", warehouseHandler.Stock)
	warehouses.Post("/", managers, warehouseHandler.Create)
	warehouses.Put("/:id", managers, warehouseHandler.Update)
	warehouses.Delete("/:id", managers, warehouseHandler.Delete)

	// Stock ledger
	stock := protected.Group("/stock")
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	stock.Get("/", inventoryHandler.All)
	stock.Get("/alerts", inventoryHandler.Alerts)
	stock.Get("/movements", inventoryHandler.Movements)
	stock.Get("/product/:productId", inventoryHandler.ByProduct)
	stock.Get("/product/:productId/warehouse/:warehouseId", inventoryHandler.ByProductAndWarehouse)
	stock.Post("/adjust", inventoryHandler.Adjust)
	stock.Post("/transfer", inventoryHandler.Transfer)
	stock.Put("/thresholds", inventoryHandler.SetThresholds)

	// Purchase orders
	orders := protected.Group("/purchase-orders")
	orderHandler := NewPurchaseOrderHandler(deps.Orders)
	orders.Get("/", orderHandler.List)
	orders.Post("/", orderHandler.Create)
	orders.Get("/:id", orderHandler.Get)
	orders.Get("/:id/pdf", orderHandler.PDF)
	orders.Post("/:id/submit", orderHandler.Submit)
	orders.Post("/:id/approve", managers, orderHandler.Approve)
	orders.Post("/:id/receive", orderHandler.Receive)
	orders.Post("/:id/cancel", orderHandler.Cancel)

	// Forecast y reorden
	fc := protected.Group("/forecast")
	forecastHandler := NewForecastHandler(deps.Forecast, deps.Reorder)
	fc.Get("/demand/:productId", forecastHandler.Demand)
	fc.Get("/reorder/:productId", forecastHandler.Reorder)
	fc.Get("/replenishment", forecastHandler.Replenishment)

	// Dashboard
	dash := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dash.Get("/summary", dashboardHandler.GetSummary)
	dash.Get("/stock-value", dashboardHandler.GetStockValue)
	dash.Get("/top-products", dashboardHandler.GetTopProducts)
	dash.Get("/trends", dashboardHandler.GetTrends)

	reports := protected.Group("/reports")
	reports.Get("/stock.csv", NewReportHandler(deps.ReportUC).StockCSV)

	// Bitácora del catálogo
	auditGroup := protected.Group("/audit", managers)
	auditHandler := NewAuditHandler(deps.AuditUC)
	auditGroup.Get("/", auditHandler.List)
	auditGroup.Get("/entity/:entityType/:entityId", auditHandler.ByEntity)
}
