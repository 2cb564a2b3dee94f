package inventory

import (
	"context"

	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una unidad atómica, pasando repositorios atados a ella.
// Si fn devuelve error la unidad se descarta completa; los bloqueos tomados con GetForUpdate
// se mantienen hasta que termina.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockLevelRepository,
	) error) error
}

// DemandProjector proyecta la demanda diaria esperada de un producto para los próximos días.
// ok=false cuando no hay historial suficiente para proyectar.
type DemandProjector interface {
	ProjectDailyDemand(ctx context.Context, productID int64, days int) (daily float64, ok bool, err error)
}
