package repository

import (
	"context"

	"github.com/jhoicas/inventory-core/internal/domain/entity"
)

// WarehouseSortFields campos por los que se pueden ordenar las bodegas.
var WarehouseSortFields = []string{"id", "code", "name", "createdAt"}

// WarehouseRepository puerto de persistencia para Warehouse.
type WarehouseRepository interface {
	Create(ctx context.Context, w *entity.Warehouse) error
	GetByID(ctx context.Context, id int64) (*entity.Warehouse, error)
	GetByCode(ctx context.Context, code string) (*entity.Warehouse, error)
	Update(ctx context.Context, w *entity.Warehouse) error
	List(ctx context.Context, activeOnly bool, q ListQuery) ([]*entity.Warehouse, int64, error)
	CountActive(ctx context.Context) (int64, error)
}
