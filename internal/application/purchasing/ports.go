package purchasing

import (
	"context"

	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

// TxRunner unidad atómica que abarca la orden y el libro de stock: una recepción confirma
// el cambio de estado y todas sus entradas juntos, o nada.
type TxRunner interface {
	RunPurchasing(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockLevelRepository,
		orderRepo repository.PurchaseOrderRepository,
	) error) error
}
