package inventory

import (
	"context"
	"math"
	"time"

	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

// Posting un delta a aplicar sobre un nivel de stock dentro de una unidad ya abierta.
type Posting struct {
	ProductID     int64
	WarehouseID   int64
	Type          entity.MovementType
	Delta         int64
	TransactionID string
	Reference     string
	Notes         string
	CreatedBy     string
}

// PostInTx bloquea el nivel, valida no-negatividad, lo guarda y anexa el movimiento,
// todo con los repositorios de la unidad del caller. Es la única ruta que escribe stock.
func PostInTx(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockLevelRepository,
	p Posting,
	now time.Time,
) (*entity.StockLevel, *entity.StockMovement, error) {
	if p.Delta == 0 {
		return nil, nil, domain.InvalidArgument("la cantidad no puede ser cero")
	}
	if p.Delta == math.MinInt64 {
		return nil, nil, domain.InvalidArgument("cantidad fuera de rango")
	}
	level, err := stockRepo.GetForUpdate(ctx, p.ProductID, p.WarehouseID)
	if err != nil {
		return nil, nil, err
	}
	if p.Delta > 0 && level.Quantity > math.MaxInt64-p.Delta {
		return nil, nil, domain.InvalidArgument("la entrada de %d excede la capacidad del contador (existencia %d)", p.Delta, level.Quantity)
	}
	next := level.Quantity + p.Delta
	if next < 0 {
		return nil, nil, &domain.InsufficientStockError{
			ProductID:   p.ProductID,
			WarehouseID: p.WarehouseID,
			Available:   level.Quantity,
			Requested:   -p.Delta,
		}
	}
	level.Quantity = next
	level.LastUpdated = now
	if err := stockRepo.Save(ctx, level); err != nil {
		return nil, nil, err
	}
	mov := &entity.StockMovement{
		TransactionID: p.TransactionID,
		ProductID:     p.ProductID,
		WarehouseID:   p.WarehouseID,
		Type:          p.Type,
		Quantity:      p.Delta,
		Reference:     p.Reference,
		Notes:         p.Notes,
		CreatedBy:     p.CreatedBy,
		CreatedAt:     now,
	}
	if err := movRepo.Append(ctx, mov); err != nil {
		return nil, nil, err
	}
	return level, mov, nil
}

// signedDelta aplica la convención de signo de un ajuste manual:
// IN exige cantidad positiva, OUT siempre resta |q| y ADJUSTMENT usa el signo recibido.
func signedDelta(t entity.MovementType, q int64) (int64, error) {
	if q == 0 {
		return 0, domain.InvalidArgument("la cantidad no puede ser cero")
	}
	if q == math.MinInt64 {
		return 0, domain.InvalidArgument("cantidad fuera de rango")
	}
	switch t {
	case entity.MovementTypeIN:
		if q < 0 {
			return 0, domain.InvalidArgument("una entrada requiere cantidad positiva")
		}
		return q, nil
	case entity.MovementTypeOUT:
		if q > 0 {
			return -q, nil
		}
		return q, nil
	case entity.MovementTypeADJUSTMENT:
		return q, nil
	case entity.MovementTypeTRANSFER:
		return 0, domain.InvalidArgument("use el traslado para mover stock entre bodegas")
	}
	return 0, domain.InvalidArgument("tipo de movimiento desconocido %q", t)
}
