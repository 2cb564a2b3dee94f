package ports

import (
	"context"
	"time"
)

// ForecastPoint valor pronosticado de un día.
type ForecastPoint struct {
	Date      time.Time
	Predicted float64
	Lower     float64
	Upper     float64
}

// ForecastRecorder persiste pronósticos servidos en una serie de tiempo.
// Es best-effort: un fallo se registra en log y nunca falla la petición.
type ForecastRecorder interface {
	Record(ctx context.Context, productID int64, model string, accuracy float64, points []ForecastPoint) error
}

// NopForecastRecorder no persiste nada.
type NopForecastRecorder struct{}

func (NopForecastRecorder) Record(context.Context, int64, string, float64, []ForecastPoint) error {
	return nil
}
