package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// WarehouseValueRow valor del stock de una bodega (Σ cantidad × precio unitario).
type WarehouseValueRow struct {
	WarehouseID   int64
	WarehouseName string
	WarehouseCode string
	Capacity      *int64
	TotalQuantity int64
	TotalValue    decimal.Decimal
}

// ProductMovementRow volumen de un producto en una ventana: TotalIn suma deltas positivos,
// TotalOut el valor absoluto de los negativos (todos los tipos).
type ProductMovementRow struct {
	ProductID   int64
	ProductName string
	SKU         string
	TotalIn     int64
	TotalOut    int64
}

// DailyMovementRow unidades de movimientos IN y OUT de un día (UTC).
type DailyMovementRow struct {
	Date     time.Time
	TotalIn  int64
	TotalOut int64
}

// AnalyticsRepository consultas de lectura para el dashboard. No modifica datos.
type AnalyticsRepository interface {
	// StockValueByWarehouse una fila por bodega activa, incluso sin stock.
	StockValueByWarehouse(ctx context.Context) ([]WarehouseValueRow, error)
	// TopMovers productos con mayor Σ|delta| en [from, to), descendente, empate por producto.
	TopMovers(ctx context.Context, from, to time.Time, limit int) ([]ProductMovementRow, error)
	// DailyTotals totales por día en [from, to); solo días con movimientos.
	DailyTotals(ctx context.Context, from, to time.Time) ([]DailyMovementRow, error)
}
