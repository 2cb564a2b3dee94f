package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO tarjetas del dashboard.
type DashboardSummaryDTO struct {
	TotalProducts      int64 `json:"totalProducts"`
	TotalWarehouses    int64 `json:"totalWarehouses"`
	LowStockCount      int64 `json:"lowStockCount"`
	PendingOrdersCount int64 `json:"pendingOrdersCount"`
}

// StockValueReportDTO valor del stock por bodega y su ocupación.
type StockValueReportDTO struct {
	WarehouseID   int64           `json:"warehouseId"`
	WarehouseName string          `json:"warehouseName"`
	WarehouseCode string          `json:"warehouseCode"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	TotalQuantity int64           `json:"totalQuantity"`
	Capacity      *int64          `json:"capacity"`
	Utilization   *float64        `json:"utilization"` // 0..n, nil sin capacidad
}

// ProductMovementSummaryDTO producto con mayor movimiento.
type ProductMovementSummaryDTO struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	SKU         string `json:"sku"`
	TotalIn     int64  `json:"totalIn"`
	TotalOut    int64  `json:"totalOut"`
	NetChange   int64  `json:"netChange"`
}

// StockTrendDTO entradas y salidas de un día (YYYY-MM-DD).
type StockTrendDTO struct {
	Date     string `json:"date"`
	TotalIn  int64  `json:"totalIn"`
	TotalOut int64  `json:"totalOut"`
}
