package inventory

import (
	"context"

	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
)

// AdjustFromRequest adapta el body de POST /stock/adjust al caso de uso.
func (uc *StockLedgerUseCase) AdjustFromRequest(ctx context.Context, actor string, in dto.StockAdjustmentRequest) (*dto.StockLevelResponse, error) {
	return uc.Adjust(ctx, actor, AdjustInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		Type:        entity.MovementType(in.Type),
		Notes:       in.Notes,
	})
}

// TransferFromRequest adapta el body de POST /stock/transfer.
func (uc *StockLedgerUseCase) TransferFromRequest(ctx context.Context, actor string, in dto.StockTransferRequest) (*dto.StockTransferResponse, error) {
	return uc.Transfer(ctx, actor, TransferInput{
		ProductID:       in.ProductID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
		Notes:           in.Notes,
	})
}

// SetThresholdsFromRequest adapta el body de PUT /stock/thresholds.
func (uc *StockLedgerUseCase) SetThresholdsFromRequest(ctx context.Context, actor string, in dto.StockThresholdsRequest) (*dto.StockLevelResponse, error) {
	return uc.SetThresholds(ctx, actor, ThresholdsInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		MinQuantity: in.MinQuantity,
		MaxQuantity: in.MaxQuantity,
	})
}
