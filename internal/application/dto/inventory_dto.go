package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockAdjustmentRequest body de POST /stock/adjust.
type StockAdjustmentRequest struct {
	ProductID   int64  `json:"productId" validate:"required,gt=0"`
	WarehouseID int64  `json:"warehouseId" validate:"required,gt=0"`
	Quantity    int64  `json:"quantity" validate:"required,ne=0"`
	Type        string `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT"`
	Notes       string `json:"notes,omitempty" validate:"max=500"`
}

// StockTransferRequest body de POST /stock/transfer.
type StockTransferRequest struct {
	ProductID       int64  `json:"productId" validate:"required,gt=0"`
	FromWarehouseID int64  `json:"fromWarehouseId" validate:"required,gt=0"`
	ToWarehouseID   int64  `json:"toWarehouseId" validate:"required,gt=0,nefield=FromWarehouseID"`
	Quantity        int64  `json:"quantity" validate:"required,gt=0"`
	Notes           string `json:"notes,omitempty" validate:"max=500"`
}

// StockThresholdsRequest body de PUT /stock/thresholds.
type StockThresholdsRequest struct {
	ProductID   int64  `json:"productId" validate:"required,gt=0"`
	WarehouseID int64  `json:"warehouseId" validate:"required,gt=0"`
	MinQuantity *int64 `json:"minQuantity" validate:"omitempty,gte=0"`
	MaxQuantity *int64 `json:"maxQuantity" validate:"omitempty,gte=0"`
}

// StockTransferResponse resultado de un traslado (ambas patas).
type StockTransferResponse struct {
	TransactionID string             `json:"transactionId"`
	Source        StockLevelResponse `json:"source"`
	Destination   StockLevelResponse `json:"destination"`
}

// StockLevelResponse nivel de stock con nombres resueltos.
type StockLevelResponse struct {
	ID            int64     `json:"id"`
	ProductID     int64     `json:"productId"`
	ProductName   string    `json:"productName"`
	ProductSku    string    `json:"productSku"`
	WarehouseID   int64     `json:"warehouseId"`
	WarehouseName string    `json:"warehouseName"`
	Quantity      int64     `json:"quantity"`
	MinQuantity   *int64    `json:"minQuantity"`
	MaxQuantity   *int64    `json:"maxQuantity"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// StockMovementResponse entrada del libro de movimientos.
type StockMovementResponse struct {
	ID            int64     `json:"id"`
	TransactionID string    `json:"transactionId"`
	ProductID     int64     `json:"productId"`
	ProductName   string    `json:"productName"`
	WarehouseID   int64     `json:"warehouseId"`
	WarehouseName string    `json:"warehouseName"`
	Type          string    `json:"type"`
	Quantity      int64     `json:"quantity"`
	Reference     string    `json:"reference"`
	Notes         string    `json:"notes"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
}

// MovementListRequest filtros de GET /stock/movements.
type MovementListRequest struct {
	ProductID   int64  `query:"productId"`
	WarehouseID int64  `query:"warehouseId"`
	Type        string `query:"type"`
	From        string `query:"from"` // ISO-8601
	To          string `query:"to"`
}

// LowStockAlertDTO nivel en o por debajo de su mínimo.
type LowStockAlertDTO struct {
	ProductID       int64  `json:"productId"`
	ProductName     string `json:"productName"`
	SKU             string `json:"sku"`
	WarehouseID     int64  `json:"warehouseId"`
	WarehouseName   string `json:"warehouseName"`
	CurrentQuantity int64  `json:"currentQuantity"`
	MinQuantity     int64  `json:"minQuantity"`
}

// ReorderSuggestionDTO salida del motor de reorden para un producto.
type ReorderSuggestionDTO struct {
	ProductID              int64           `json:"productId"`
	ReorderPoint           int64           `json:"reorderPoint"`
	ReorderQuantity        int64           `json:"reorderQuantity"`
	SafetyStock            int64           `json:"safetyStock"`
	EconomicOrderQuantity  int64           `json:"economicOrderQuantity"`
	EstimatedAnnualSavings decimal.Decimal `json:"estimatedAnnualSavings"`
	AverageDailyDemand     float64         `json:"averageDailyDemand"`
	DemandStdDev           float64         `json:"demandStdDev"`
	LeadTimeDays           int             `json:"leadTimeDays"`
	ServiceLevel           float64         `json:"serviceLevel"`
}

// ReplenishmentSuggestionDTO producto en o bajo su punto de reorden con la cantidad sugerida.
type ReplenishmentSuggestionDTO struct {
	ProductID          int64           `json:"productId"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"productName"`
	CurrentStock       int64           `json:"currentStock"`
	ReorderPoint       int64           `json:"reorderPoint"`
	SuggestedOrderQty  int64           `json:"suggestedOrderQty"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	EstimatedOrderCost decimal.Decimal `json:"estimatedOrderCost"`
	ProjectedDailyUse  float64         `json:"projectedDailyUse"`
	DaysOfCover        *float64        `json:"daysOfCover"` // nil = sin consumo proyectado
	Priority           int             `json:"priority"`    // 1 = más urgente
}
