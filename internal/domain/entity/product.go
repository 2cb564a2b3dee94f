package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. El SKU es único e inmutable;
// un producto referenciado por movimientos u órdenes solo se desactiva.
type Product struct {
	ID              int64
	SKU             string
	Name            string
	Description     string
	CategoryID      *int64
	Unit            string
	UnitPrice       decimal.Decimal // >= 0
	ReorderPoint    int64
	ReorderQuantity int64
	// Overrides opcionales del motor de reorden; nil = valor configurado.
	LeadTimeDays    *int
	OrderingCost    *decimal.Decimal
	HoldingCostRate *decimal.Decimal
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
