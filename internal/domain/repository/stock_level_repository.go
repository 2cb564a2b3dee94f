package repository

import (
	"context"

	"github.com/jhoicas/inventory-core/internal/domain/entity"
)

// StockLevelRepository puerto del nivel materializado de stock.
// Solo el libro de stock escribe (GetForUpdate + Save dentro de una unidad atómica).
type StockLevelRepository interface {
	// Get devuelve (nil, nil) si el nivel aún no existe.
	Get(ctx context.Context, productID, warehouseID int64) (*entity.StockLevel, error)
	// GetForUpdate crea el nivel en cero si no existe y lo bloquea hasta el fin de la unidad.
	GetForUpdate(ctx context.Context, productID, warehouseID int64) (*entity.StockLevel, error)
	Save(ctx context.Context, level *entity.StockLevel) error
	ListByProduct(ctx context.Context, productID int64) ([]*entity.StockLevel, error)
	ListByWarehouse(ctx context.Context, warehouseID int64) ([]*entity.StockLevel, error)
	ListAll(ctx context.Context) ([]*entity.StockLevel, error)
	// ListLow niveles con mínimo definido y cantidad <= mínimo.
	ListLow(ctx context.Context) ([]*entity.StockLevel, error)
}
