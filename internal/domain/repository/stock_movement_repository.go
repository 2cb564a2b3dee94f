package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-core/internal/domain/entity"
)

// MovementFilter filtros de lectura del libro. Campos nil no filtran; From inclusivo, To exclusivo.
type MovementFilter struct {
	ProductID   *int64
	WarehouseID *int64
	Type        *entity.MovementType
	From        *time.Time
	To          *time.Time
}

// StockMovementRepository puerto del libro de movimientos (solo anexar).
type StockMovementRepository interface {
	// Append anexa el movimiento; el ID (secuencia) queda asignado al terminar la unidad.
	Append(ctx context.Context, m *entity.StockMovement) error
	// ListByProduct movimientos del producto en [from, to) ordenados por secuencia.
	ListByProduct(ctx context.Context, productID int64, from, to time.Time) ([]*entity.StockMovement, error)
	// List página más reciente primero (secuencia descendente).
	List(ctx context.Context, f MovementFilter, q ListQuery) ([]*entity.StockMovement, int64, error)
}
