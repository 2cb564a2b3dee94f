package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU             string           `json:"sku" validate:"required,min=1,max=64"`
	Name            string           `json:"name" validate:"required,min=1,max=200"`
	Description     string           `json:"description" validate:"max=2000"`
	CategoryID      *int64           `json:"categoryId" validate:"omitempty,gt=0"`
	Unit            string           `json:"unit" validate:"max=20"`
	UnitPrice       decimal.Decimal  `json:"unitPrice"`
	ReorderPoint    int64            `json:"reorderPoint" validate:"gte=0"`
	ReorderQuantity int64            `json:"reorderQuantity" validate:"gte=0"`
	LeadTimeDays    *int             `json:"leadTimeDays" validate:"omitempty,gt=0,lte=365"`
	OrderingCost    *decimal.Decimal `json:"orderingCost"`
	HoldingCostRate *decimal.Decimal `json:"holdingCostRate"`
}

// UpdateProductRequest actualización parcial. El SKU no se puede cambiar.
type UpdateProductRequest struct {
	Name            *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description     *string          `json:"description" validate:"omitempty,max=2000"`
	CategoryID      *int64           `json:"categoryId" validate:"omitempty,gt=0"`
	Unit            *string          `json:"unit" validate:"omitempty,max=20"`
	UnitPrice       *decimal.Decimal `json:"unitPrice"`
	ReorderPoint    *int64           `json:"reorderPoint" validate:"omitempty,gte=0"`
	ReorderQuantity *int64           `json:"reorderQuantity" validate:"omitempty,gte=0"`
	LeadTimeDays    *int             `json:"leadTimeDays" validate:"omitempty,gt=0,lte=365"`
	OrderingCost    *decimal.Decimal `json:"orderingCost"`
	HoldingCostRate *decimal.Decimal `json:"holdingCostRate"`
	Active          *bool            `json:"active"`
}

// ProductSearchRequest filtros de GET /products/search.
type ProductSearchRequest struct {
	Name       string `query:"name"`
	SKU        string `query:"sku"`
	CategoryID int64  `query:"categoryId"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID              int64            `json:"id"`
	SKU             string           `json:"sku"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	CategoryID      *int64           `json:"categoryId"`
	CategoryName    string           `json:"categoryName"`
	Unit            string           `json:"unit"`
	UnitPrice       decimal.Decimal  `json:"unitPrice"`
	ReorderPoint    int64            `json:"reorderPoint"`
	ReorderQuantity int64            `json:"reorderQuantity"`
	LeadTimeDays    *int             `json:"leadTimeDays,omitempty"`
	OrderingCost    *decimal.Decimal `json:"orderingCost,omitempty"`
	HoldingCostRate *decimal.Decimal `json:"holdingCostRate,omitempty"`
	Active          bool             `json:"active"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
