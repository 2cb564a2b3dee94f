package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

// Repositories agrupa los adaptadores sobre el pool, para el cableado de main.
type Repositories struct {
	Products   repository.ProductRepository
	Categories repository.CategoryRepository
	Suppliers  repository.SupplierRepository
	Warehouses repository.WarehouseRepository
	Users      repository.UserRepository
	Levels     repository.StockLevelRepository
	Movements  repository.StockMovementRepository
	Orders     repository.PurchaseOrderRepository
	Analytics  repository.AnalyticsRepository
	Audit      repository.AuditRepository
}

// NewRepositories construye todos los repositorios sobre el mismo pool.
func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Products:   NewProductRepository(pool),
		Categories: NewCategoryRepository(pool),
		Suppliers:  NewSupplierRepository(pool),
		Warehouses: NewWarehouseRepository(pool),
		Users:      NewUserRepository(pool),
		Levels:     NewStockLevelRepository(pool),
		Movements:  NewStockMovementRepository(pool),
		Orders:     NewPurchaseOrderRepository(pool),
		Analytics:  NewAnalyticsRepository(pool),
		Audit:      NewAuditRepository(pool),
	}
}
