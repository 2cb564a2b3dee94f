package purchasing

import (
	"context"

	"github.com/jhoicas/inventory-core/internal/application/dto"
)

// CreateFromRequest adapta el body de POST /purchase-orders.
func (uc *PurchaseOrderUseCase) CreateFromRequest(ctx context.Context, actor string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	lines := make([]OrderLine, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, OrderLine{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return uc.Create(ctx, actor, CreateOrderInput{SupplierID: in.SupplierID, WarehouseID: in.WarehouseID, Items: lines})
}

// ReceiveFromRequest adapta el body opcional de POST /purchase-orders/{id}/receive.
func (uc *PurchaseOrderUseCase) ReceiveFromRequest(ctx context.Context, actor string, id int64, in *dto.ReceiveOrderRequest) (*dto.PurchaseOrderResponse, error) {
	var lines []ReceiveLine
	if in != nil {
		for _, it := range in.Items {
			lines = append(lines, ReceiveLine{ProductID: it.ProductID, ReceivedQuantity: it.ReceivedQuantity})
		}
	}
	return uc.Receive(ctx, actor, id, lines)
}
