package forecast

import (
	"context"
	"errors"

	"github.com/jhoicas/inventory-core/internal/domain"
)

// Fallback usa Primary y, si falla por causas ajenas al dominio, Secondary.
// OnError (opcional) recibe el error descartado.
type Fallback struct {
	Primary   Model
	Secondary Model
	OnError   func(err error)
}

func (f *Fallback) Name() string { return f.Primary.Name() }

func (f *Fallback) Predict(ctx context.Context, productID int64, history []Point, periodsAhead int) (*Forecast, error) {
	fc, err := f.Primary.Predict(ctx, productID, history, periodsAhead)
	if err == nil {
		return fc, nil
	}
	if errors.Is(err, domain.ErrInsufficientHistory) || errors.Is(err, domain.ErrInvalidArgument) {
		return nil, err
	}
	if f.OnError != nil {
		f.OnError(err)
	}
	return f.Secondary.Predict(ctx, productID, history, periodsAhead)
}
