// Package analytics contiene los casos de uso de lectura del dashboard y los reportes
// exportables. Ninguno modifica datos.
package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/inventory"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

const (
	defaultTopProducts = 10
	maxTopProducts     = 100
	topMoversWindow    = 30 // días
	defaultTrendDays   = 30
	maxTrendDays       = 365
)

// DashboardUseCase agrega totales, valor de inventario, productos con más movimiento y tendencias.
//
// Fuente de datos: AnalyticsRepository más los conteos de cada repositorio.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	levelRepo     repository.StockLevelRepository
	orderRepo     repository.PurchaseOrderRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	analyticsRepo repository.AnalyticsRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	levelRepo repository.StockLevelRepository,
	orderRepo repository.PurchaseOrderRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		analyticsRepo: analyticsRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		levelRepo:     levelRepo,
		orderRepo:     orderRepo,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// GetSummary tarjetas del dashboard. Las cuatro consultas van en paralelo.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	var out dto.DashboardSummaryDTO
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := uc.productRepo.CountActive(gctx)
		if err != nil {
			return fmt.Errorf("dashboard: productos: %w", err)
		}
		out.TotalProducts = n
		return nil
	})
	g.Go(func() error {
		n, err := uc.warehouseRepo.CountActive(gctx)
		if err != nil {
			return fmt.Errorf("dashboard: bodegas: %w", err)
		}
		out.TotalWarehouses = n
		return nil
	})
	g.Go(func() error {
		low, err := uc.levelRepo.ListLow(gctx)
		if err != nil {
			return fmt.Errorf("dashboard: stock bajo: %w", err)
		}
		out.LowStockCount = int64(len(low))
		return nil
	})
	g.Go(func() error {
		n, err := uc.orderRepo.CountByStatus(gctx, entity.OrderStatusSubmitted, entity.OrderStatusApproved)
		if err != nil {
			return fmt.Errorf("dashboard: órdenes pendientes: %w", err)
		}
		out.PendingOrdersCount = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetStockValue valor del stock por bodega activa con su ocupación (cantidad / capacidad).
func (uc *DashboardUseCase) GetStockValue(ctx context.Context) ([]dto.StockValueReportDTO, error) {
	rows, err := uc.analyticsRepo.StockValueByWarehouse(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: valor de stock: %w", err)
	}
	out := make([]dto.StockValueReportDTO, 0, len(rows))
	for _, r := range rows {
		item := dto.StockValueReportDTO{
			WarehouseID:   r.WarehouseID,
			WarehouseName: r.WarehouseName,
			WarehouseCode: r.WarehouseCode,
			TotalValue:    r.TotalValue.Round(2),
			TotalQuantity: r.TotalQuantity,
			Capacity:      r.Capacity,
		}
		if r.Capacity != nil && *r.Capacity > 0 {
			u := float64(r.TotalQuantity) / float64(*r.Capacity)
			item.Utilization = &u
		}
		out = append(out, item)
	}
	return out, nil
}

// GetTopProducts productos con mayor volumen en los últimos 30 días. limit<=0 usa 10.
func (uc *DashboardUseCase) GetTopProducts(ctx context.Context, limit int) ([]dto.ProductMovementSummaryDTO, error) {
	if limit <= 0 {
		limit = defaultTopProducts
	}
	limit = min(limit, maxTopProducts)

	to := uc.now()
	from := to.AddDate(0, 0, -topMoversWindow)
	rows, err := uc.analyticsRepo.TopMovers(ctx, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("dashboard: top productos: %w", err)
	}
	out := make([]dto.ProductMovementSummaryDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ProductMovementSummaryDTO{
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			SKU:         r.SKU,
			TotalIn:     r.TotalIn,
			TotalOut:    r.TotalOut,
			NetChange:   r.TotalIn - r.TotalOut,
		})
	}
	return out, nil
}

// GetTrends entradas y salidas diarias de los últimos days días, hoy incluido.
// Los días sin movimientos aparecen en cero.
func (uc *DashboardUseCase) GetTrends(ctx context.Context, days int) ([]dto.StockTrendDTO, error) {
	if days <= 0 {
		days = defaultTrendDays
	}
	days = min(days, maxTrendDays)

	today := inventory.Day(uc.now())
	from := today.AddDate(0, 0, -(days - 1))
	to := today.AddDate(0, 0, 1)
	rows, err := uc.analyticsRepo.DailyTotals(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("dashboard: tendencias: %w", err)
	}

	byDay := make(map[string]repository.DailyMovementRow, len(rows))
	for _, r := range rows {
		byDay[inventory.Day(r.Date).Format(time.DateOnly)] = r
	}
	out := make([]dto.StockTrendDTO, 0, days)
	for i := range days {
		d := from.AddDate(0, 0, i).Format(time.DateOnly)
		r := byDay[d]
		out = append(out, dto.StockTrendDTO{Date: d, TotalIn: r.TotalIn, TotalOut: r.TotalOut})
	}
	return out, nil
}
