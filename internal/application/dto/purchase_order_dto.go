package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderRequest body de POST /purchase-orders.
type CreatePurchaseOrderRequest struct {
	SupplierID  int64                     `json:"supplierId" validate:"required,gt=0"`
	WarehouseID int64                     `json:"warehouseId" validate:"required,gt=0"`
	Items       []PurchaseOrderItemRequest `json:"items" validate:"dive"`
}

// PurchaseOrderItemRequest línea solicitada.
type PurchaseOrderItemRequest struct {
	ProductID int64           `json:"productId" validate:"required,gt=0"`
	Quantity  int64           `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// ReceiveOrderRequest body opcional de POST /purchase-orders/{id}/receive.
type ReceiveOrderRequest struct {
	Items []ReceiveItemRequest `json:"items" validate:"dive"`
}

// ReceiveItemRequest cantidad recibida de un producto.
type ReceiveItemRequest struct {
	ProductID        int64 `json:"productId" validate:"required,gt=0"`
	ReceivedQuantity int64 `json:"receivedQuantity"`
}

// OrderListRequest filtros de GET /purchase-orders.
type OrderListRequest struct {
	Status string `query:"status"`
}

// PurchaseOrderResponse orden con ítems y nombres resueltos.
type PurchaseOrderResponse struct {
	ID            int64                       `json:"id"`
	OrderNumber   string                      `json:"orderNumber"`
	SupplierID    int64                       `json:"supplierId"`
	SupplierName  string                      `json:"supplierName"`
	WarehouseID   int64                       `json:"warehouseId"`
	WarehouseName string                      `json:"warehouseName"`
	Status        string                      `json:"status"`
	TotalAmount   decimal.Decimal             `json:"totalAmount"`
	CreatedBy     string                      `json:"createdBy"`
	CreatedAt     time.Time                   `json:"createdAt"`
	ReceivedAt    *time.Time                  `json:"receivedAt"`
	Items         []PurchaseOrderItemResponse `json:"items"`
}

// PurchaseOrderItemResponse línea de la orden.
type PurchaseOrderItemResponse struct {
	ID               int64           `json:"id"`
	ProductID        int64           `json:"productId"`
	ProductName      string          `json:"productName"`
	ProductSku       string          `json:"productSku"`
	Quantity         int64           `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	ReceivedQuantity int64           `json:"receivedQuantity"`
}
