// Package memory implementa los repositorios sobre mapas en proceso. Respeta el mismo contrato
// de bloqueo que postgres: GetForUpdate toma un candado por llave hasta el fin de la unidad y
// los cambios de la unidad se publican juntos bajo el candado de escritura del store.
package memory

import (
	"sync"

	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

// firstOrderNumber primer valor de la secuencia de numeración de órdenes.
const firstOrderNumber = 1000

// Store estado completo del almacenamiento en memoria.
type Store struct {
	mu    sync.RWMutex
	locks *lockTable

	products   map[int64]*entity.Product
	categories map[int64]*entity.Category
	suppliers  map[int64]*entity.Supplier
	warehouses map[int64]*entity.Warehouse
	users      map[int64]*entity.User
	levels     map[entity.StockKey]*entity.StockLevel
	movements  []*entity.StockMovement
	orders     map[int64]*entity.PurchaseOrder
	audit      []*entity.AuditEntry

	productSeq, categorySeq, supplierSeq, warehouseSeq, userSeq int64
	levelSeq, movementSeq, orderSeq, orderItemSeq, orderNumberSeq, auditSeq int64
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		locks:          newLockTable(),
		products:       make(map[int64]*entity.Product),
		categories:     make(map[int64]*entity.Category),
		suppliers:      make(map[int64]*entity.Supplier),
		warehouses:     make(map[int64]*entity.Warehouse),
		users:          make(map[int64]*entity.User),
		levels:         make(map[entity.StockKey]*entity.StockLevel),
		orders:         make(map[int64]*entity.PurchaseOrder),
		orderNumberSeq: firstOrderNumber - 1,
	}
}

// Repositories agrupa los repositorios fuera de unidad, para el cableado de main y tests.
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

// Repositories devuelve los repositorios del store.
func (s *Store) Repositories() Repositories {
	return Repositories{
		Products:   &ProductRepository{s: s},
		Categories: &CategoryRepository{s: s},
		Suppliers:  &SupplierRepository{s: s},
		Warehouses: &WarehouseRepository{s: s},
		Users:      &UserRepository{s: s},
		Levels:     &StockLevelRepository{s: s},
		Movements:  &StockMovementRepository{s: s},
		Orders:     &PurchaseOrderRepository{s: s},
		Analytics:  &AnalyticsRepository{s: s},
		Audit:      &AuditRepository{s: s},
	}
}

// paginate aplica offset y límite; límite <= 0 devuelve el resto.
func paginate[T any](items []T, q repository.ListQuery) []T {
	if q.Offset >= len(items) {
		return []T{}
	}
	items = items[max(0, q.Offset):]
	if q.Limit > 0 && q.Limit < len(items) {
		items = items[:q.Limit]
	}
	return items
}
