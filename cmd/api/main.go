package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	appanalytics "github.com/jhoicas/inventory-core/internal/application/analytics"
	"github.com/jhoicas/inventory-core/internal/application/audit"
	"github.com/jhoicas/inventory-core/internal/application/auth"
	"github.com/jhoicas/inventory-core/internal/application/forecast"
	"github.com/jhoicas/inventory-core/internal/application/inventory"
	"github.com/jhoicas/inventory-core/internal/application/ports"
	"github.com/jhoicas/inventory-core/internal/application/purchasing"
	"github.com/jhoicas/inventory-core/internal/application/usecase"
	demand "github.com/jhoicas/inventory-core/internal/domain/forecast"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
	infraai "github.com/jhoicas/inventory-core/internal/infrastructure/ai"
	"github.com/jhoicas/inventory-core/internal/infrastructure/influx"
	"github.com/jhoicas/inventory-core/internal/infrastructure/memory"
	"github.com/jhoicas/inventory-core/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/inventory-core/internal/infrastructure/pdf"
	"github.com/jhoicas/inventory-core/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-core/internal/infrastructure/telemetry"
	httpRouter "github.com/jhoicas/inventory-core/internal/interfaces/http"
	"github.com/jhoicas/inventory-core/pkg/config"
	"github.com/jhoicas/inventory-core/pkg/logger"
)

// storage repositorios y unidad transaccional del backend elegido.
type storage struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	suppliers  repository.SupplierRepository
	warehouses repository.WarehouseRepository
	users      repository.UserRepository
	levels     repository.StockLevelRepository
	movements  repository.StockMovementRepository
	orders     repository.PurchaseOrderRepository
	analytics  repository.AnalyticsRepository
	audit      repository.AuditRepository
	tx         interface {
		inventory.TxRunner
		purchasing.TxRunner
	}
	ready func(context.Context) error
	close func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	// montos como número JSON, no como string
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.App.Name, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar trazas")
	}

	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	promMetrics := metrics.NewPrometheus(prometheus.DefaultRegisterer)

	var remote demand.Model
	if cfg.Forecast.ServiceURL != "" {
		remote = infraai.NewForecastClient(cfg.Forecast.ServiceURL, cfg.Forecast.RatePerSecond, cfg.Forecast.Timeout)
	}
	model, err := forecast.SelectModel(cfg.Forecast.Model, remote, log.Component("forecast"))
	if err != nil {
		log.Fatal().Err(err).Msg("modelo de pronóstico")
	}

	var recorder ports.ForecastRecorder
	if cfg.Influx.Enabled() {
		rec := influx.NewForecastRecorder(cfg.Influx.URL, cfg.Influx.Token, cfg.Influx.Org, cfg.Influx.Bucket)
		defer rec.Close()
		recorder = rec
		log.Info().Str("url", cfg.Influx.URL).Str("bucket", cfg.Influx.Bucket).Msg("pronósticos se registran en InfluxDB")
	}

	ledger := inventory.NewStockLedgerUseCase(st.tx, st.products, st.warehouses, st.levels, st.movements, promMetrics)
	forecastUC := forecast.NewForecastUseCase(st.products, st.movements, model, recorder, promMetrics, log.Component("forecast"),
		forecast.Settings{WindowDays: cfg.Forecast.WindowDays, MinPoints: cfg.Forecast.MinPoints})
	reorderUC := inventory.NewReorderUseCase(st.products, st.warehouses, st.levels, st.movements, forecastUC,
		inventory.ReorderSettings{
			LeadTimeDays:    cfg.Reorder.LeadTimeDays,
			OrderingCost:    cfg.Reorder.OrderingCost,
			HoldingCostRate: cfg.Reorder.HoldingCostRate,
			ServiceLevel:    cfg.Reorder.ServiceLevel,
			WindowDays:      cfg.Reorder.WindowDays,
		})
	pdfGen := infrapdf.NewMarotoPDFGenerator()
	ordersUC := purchasing.NewPurchaseOrderUseCase(st.tx, st.orders, st.suppliers, st.warehouses, st.products,
		pdfGen, promMetrics)
	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	auditUC := audit.NewAuditUseCase(st.audit, log.Component("audit"))

	if cfg.Alerts.Interval > 0 {
		monitor := inventory.NewAlertMonitor(ledger, promMetrics, log.Component("alerts"), cfg.Alerts.Interval)
		go monitor.Run(ctx)
	}

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:        cfg.App.Name,
		Env:         cfg.App.Env,
		SwaggerFile: "./docs/swagger.json",
		Gatherer:    prometheus.DefaultGatherer,
		Ready:       st.ready,
	}, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   usecase.NewProductUseCase(st.products, st.categories, auditUC),
		LabelUC:     usecase.NewLabelUseCase(st.products, pdfGen),
		CategoryUC:  usecase.NewCategoryUseCase(st.categories, auditUC),
		SupplierUC:  usecase.NewSupplierUseCase(st.suppliers, auditUC),
		WarehouseUC: usecase.NewWarehouseUseCase(st.warehouses, auditUC),
		Ledger:      ledger,
		Orders:      ordersUC,
		Reorder:     reorderUC,
		Forecast:    forecastUC,
		DashboardUC: appanalytics.NewDashboardUseCase(st.analytics, st.products, st.warehouses, st.levels, st.orders),
		ReportUC:    appanalytics.NewStockReportUseCase(st.products, st.warehouses, st.levels),
		AuditUC:     auditUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado de trazas")
	}

	log.Info().Msg("aplicación detenida")
}

// openStorage abre PostgreSQL (aplicando migraciones) o el store en memoria.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == "memory" {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		r := store.Repositories()
		return &storage{
			products: r.Products, categories: r.Categories, suppliers: r.Suppliers, warehouses: r.Warehouses,
			users: r.Users, levels: r.Levels, movements: r.Movements, orders: r.Orders, analytics: r.Analytics,
			audit: r.Audit,
			tx:    memory.NewTxRunner(store),
			ready: func(context.Context) error { return nil },
			close: func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	for _, name := range applied {
		log.Info().Str("migration", name).Msg("migración aplicada")
	}

	r := postgres.NewRepositories(pool)
	return &storage{
		products: r.Products, categories: r.Categories, suppliers: r.Suppliers, warehouses: r.Warehouses,
		users: r.Users, levels: r.Levels, movements: r.Movements, orders: r.Orders, analytics: r.Analytics,
			audit: r.Audit,
		tx:    postgres.NewTxRunner(pool),
		ready: pool.Ping,
		close: pool.Close,
	}, nil
}
