package repository

import (
	"context"

	"github.com/jhoicas/inventory-core/internal/domain/entity"
)

// ProductFilter filtros de búsqueda del catálogo. Campos vacíos no filtran.
type ProductFilter struct {
	Name       string // contiene, sin distinguir mayúsculas
	SKU        string // contiene, sin distinguir mayúsculas
	CategoryID *int64
	ActiveOnly bool
}

// ProductSortFields campos por los que se puede ordenar el catálogo.
var ProductSortFields = []string{"id", "sku", "name", "unitPrice", "createdAt"}

// ProductRepository puerto de persistencia para Product.
// GetByID y GetBySKU devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, p *entity.Product) error
	List(ctx context.Context, f ProductFilter, q ListQuery) ([]*entity.Product, int64, error)
	CountActive(ctx context.Context) (int64, error)
}
