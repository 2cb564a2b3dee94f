package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado del ciclo de vida de una orden de compra.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "DRAFT"
	OrderStatusSubmitted OrderStatus = "SUBMITTED"
	OrderStatusApproved  OrderStatus = "APPROVED"
	OrderStatusReceived  OrderStatus = "RECEIVED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Terminal indica si el estado ya no admite transiciones.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusReceived || s == OrderStatusCancelled
}

// PurchaseOrder orden de compra a un proveedor con destino a una bodega.
type PurchaseOrder struct {
	ID          int64
	OrderNumber string
	SupplierID  int64
	WarehouseID int64
	Status      OrderStatus
	TotalAmount decimal.Decimal
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ReceivedAt  *time.Time
	Items       []PurchaseOrderItem
}

// PurchaseOrderItem línea de la orden. UnitPrice es una foto del precio al crear la orden.
type PurchaseOrderItem struct {
	ID               int64
	ProductID        int64
	Quantity         int64
	UnitPrice        decimal.Decimal
	ReceivedQuantity int64
}

// Subtotal cantidad × precio unitario.
func (i PurchaseOrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// ComputeTotal suma los subtotales de los ítems.
func (o *PurchaseOrder) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Clone copia profunda (ítems y ReceivedAt).
func (o *PurchaseOrder) Clone() *PurchaseOrder {
	c := *o
	c.Items = append([]PurchaseOrderItem(nil), o.Items...)
	if o.ReceivedAt != nil {
		t := *o.ReceivedAt
		c.ReceivedAt = &t
	}
	return &c
}

// Valid indica si s es un estado conocido.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusSubmitted, OrderStatusApproved, OrderStatusReceived, OrderStatusCancelled:
		return true
	}
	return false
}

// HasProduct indica si la orden tiene una línea del producto.
func (o *PurchaseOrder) HasProduct(productID int64) bool {
	for _, it := range o.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}
