package repository

import (
	"context"

	"github.com/jhoicas/inventory-core/internal/domain/entity"
)

// SupplierSortFields campos por los que se pueden ordenar los proveedores.
var SupplierSortFields = []string{"id", "name", "createdAt"}

// SupplierRepository puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, id int64) (*entity.Supplier, error)
	Update(ctx context.Context, s *entity.Supplier) error
	List(ctx context.Context, activeOnly bool, q ListQuery) ([]*entity.Supplier, int64, error)
}
